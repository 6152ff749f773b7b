package vtcore

// CharSub is a translation layer supporting alternate character sets (e.g.
// the DEC Special Graphics line-drawing set, or national variants like UK
// that swap a handful of ASCII positions for local symbols). A CharSub
// holds a table of replacement sequences for a contiguous run of ASCII
// lead bytes; a byte outside the table's range, or any multi-byte lead,
// passes through untouched. Grounded on CharSub.
type CharSub struct {
	seqs    []Seq
	offset  byte
	special bool
}

// NewCharSub builds a CharSub substituting seqs[i] for ASCII byte offset+i.
// special marks a set (such as line drawing) whose glyphs should not carry
// bold/italic emphasis.
func NewCharSub(seqs []Seq, offset byte, special bool) CharSub {
	return CharSub{seqs: seqs, offset: offset, special: special}
}

// IsSpecial reports whether bold and italic attributes should be
// suppressed for characters drawn through this substitution.
func (c CharSub) IsSpecial() bool { return c.special }

// Translate returns the substituted sequence for seq, or seq unchanged if
// seq isn't a single ASCII byte within this table's range.
func (c CharSub) Translate(seq Seq) Seq {
	if leadLength(seq.Lead()) != 1 {
		return seq
	}
	ascii := seq.Lead()
	if ascii < c.offset || int(ascii)-int(c.offset) >= len(c.seqs) {
		return seq
	}
	return c.seqs[ascii-c.offset]
}

// lineDrawingSeqs holds the DEC Special Graphics substitutions for ASCII
// 0x6a-0x78 ('j'-'x'), the standard VT100 line-drawing glyph range. Values
// mirror well-known VT100 behavior (not sourced from the original
// implementation, whose trimmed sources omit the static table; see
// DESIGN.md). Slots with no standard substitution (o, p, r, s) map to
// themselves, making Translate a no-op for those bytes.
var lineDrawingSeqs = buildLineDrawingSeqs()

func buildLineDrawingSeqs() []Seq {
	table := map[byte]rune{
		'j': '┘',
		'k': '┐',
		'l': '┌',
		'm': '└',
		'n': '┼',
		'q': '─',
		't': '├',
		'u': '┤',
		'v': '┴',
		'w': '┬',
		'x': '│',
	}

	const first, last = 'j', 'x'
	seqs := make([]Seq, last-first+1)
	for b := byte(first); b <= last; b++ {
		if r, ok := table[b]; ok {
			seqs[b-first] = encodeRune(r)
		} else {
			seqs[b-first] = encodeRune(rune(b))
		}
	}
	return seqs
}

// LineDrawingCharSub is the standard DEC Special Graphics substitution,
// active while a terminal's G-register selects CharsetLineDrawing.
var LineDrawingCharSub = NewCharSub(lineDrawingSeqs, 'j', true)

// ASCIICharSub performs no substitution.
var ASCIICharSub = CharSub{}

// charSubFor returns the CharSub implementing charset.
func charSubFor(charset Charset) CharSub {
	if charset == CharsetLineDrawing {
		return LineDrawingCharSub
	}
	return ASCIICharSub
}

// CharSubArray holds the four G0-G3 character-set registers and tracks
// which one is currently active (selected by SI/SO or a locking shift).
// Grounded on CharSubArray.
type CharSubArray struct {
	subs   [4]Charset
	active CharsetIndex
}

// NewCharSubArray returns an array with all four registers defaulted to
// ASCII and G0 active.
func NewCharSubArray() CharSubArray {
	return CharSubArray{}
}

// Set assigns charset to register index.
func (a *CharSubArray) Set(index CharsetIndex, charset Charset) {
	a.subs[index] = charset
}

// Get returns the charset assigned to register index.
func (a *CharSubArray) Get(index CharsetIndex) Charset {
	return a.subs[index]
}

// SetActive selects which register SO/SI/LS2/LS3 address as current.
func (a *CharSubArray) SetActive(index CharsetIndex) {
	a.active = index
}

// Active returns the currently selected register.
func (a *CharSubArray) Active() CharsetIndex {
	return a.active
}

// Translate applies the currently active register's substitution to seq.
func (a *CharSubArray) Translate(seq Seq) Seq {
	return charSubFor(a.subs[a.active]).Translate(seq)
}

// IsActiveSpecial reports whether the currently active register's
// substitution is a special set (e.g. line drawing) whose glyphs should
// not carry bold/italic emphasis.
func (a *CharSubArray) IsActiveSpecial() bool {
	return charSubFor(a.subs[a.active]).IsSpecial()
}
