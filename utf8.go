package vtcore

// Seq is a 1-4 byte UTF-8 code point sequence, stored inline to avoid
// allocating a []byte per cell.
type Seq struct {
	Bytes [4]byte
}

// Lead returns the first byte of the sequence.
func (s Seq) Lead() byte { return s.Bytes[0] }

// Rune decodes the sequence back to a code point, for host code that
// needs to render or compare cell contents.
func (s Seq) Rune() (rune, bool) {
	return decodeRune(s, leadLength(s.Lead()))
}

// replacementSeq is U+FFFD, emitted in place of any rejected byte sequence.
var replacementSeq = Seq{Bytes: [4]byte{0xEF, 0xBF, 0xBD, 0x00}}

// leadLength derives the encoded length of a sequence from its lead byte.
// Returns 0 for a byte that cannot start a sequence (a continuation byte,
// or 0xF8-0xFF). The always-overlong leads 0xC0 and 0xC1 report 2 here;
// utf8Machine rejects them separately.
func leadLength(lead byte) int {
	switch {
	case lead&0x80 == 0:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// utf8State is one state of the incremental decoder.
type utf8State int

const (
	utf8Start utf8State = iota
	utf8Accept
	utf8Reject
	utf8Expect3
	utf8Expect2
	utf8Expect1
)

// utf8Machine is a byte-at-a-time UTF-8 decoder. Feed it one byte at a
// time via Consume; on utf8Accept, Seq/Length expose the decoded sequence.
// Grounded on the lead-byte/continuation state machine of a minimal UTF-8
// validator: each EXPECTn state demands exactly one more continuation byte,
// and 0xC0/0xC1 (the two lead bytes that can only ever produce an overlong
// 2-byte sequence) are rejected immediately.
type utf8Machine struct {
	state utf8State
	index int
	seq   Seq
}

func (m *utf8Machine) Seq() Seq  { return m.seq }
func (m *utf8Machine) Length() int {
	return m.index
}

// Consume advances the machine by one byte and returns the resulting state.
func (m *utf8Machine) Consume(c byte) utf8State {
	switch m.state {
	case utf8Start, utf8Accept, utf8Reject:
		m.index = 0
		m.seq = Seq{}
		switch {
		case c == 0xC0 || c == 0xC1:
			m.state = utf8Reject
		case c&0x80 == 0:
			m.seq.Bytes[m.index] = c
			m.index++
			m.state = utf8Accept
		case c&0xC0 == 0x80:
			// Out of sync; resync silently.
			m.state = utf8Start
		case c&0xE0 == 0xC0:
			m.seq.Bytes[m.index] = c
			m.index++
			m.state = utf8Expect1
		case c&0xF0 == 0xE0:
			m.seq.Bytes[m.index] = c
			m.index++
			m.state = utf8Expect2
		case c&0xF8 == 0xF0:
			m.seq.Bytes[m.index] = c
			m.index++
			m.state = utf8Expect3
		default:
			m.state = utf8Reject
		}
	case utf8Expect3:
		m.seq.Bytes[m.index] = c
		m.index++
		if c&0xC0 == 0x80 {
			m.state = utf8Expect2
		} else {
			m.state = utf8Reject
		}
	case utf8Expect2:
		m.seq.Bytes[m.index] = c
		m.index++
		if c&0xC0 == 0x80 {
			m.state = utf8Expect1
		} else {
			m.state = utf8Reject
		}
	case utf8Expect1:
		m.seq.Bytes[m.index] = c
		m.index++
		if c&0xC0 == 0x80 {
			m.state = utf8Accept
		} else {
			m.state = utf8Reject
		}
	}
	return m.state
}

// decodeRune turns an accepted Seq of the given length into a rune,
// rejecting overlong encodings and UTF-16 surrogate values. ok is false
// for any malformed input, in which case the caller should substitute
// replacementSeq / RuneError.
func decodeRune(seq Seq, length int) (r rune, ok bool) {
	if length < 1 || length > 4 {
		return 0, false
	}

	lead := seq.Bytes[0]
	var cp int32

	switch length {
	case 1:
		cp = int32(lead)
	case 2:
		cp = int32(lead & 0x1F)
	case 3:
		cp = int32(lead & 0x0F)
	case 4:
		cp = int32(lead & 0x07)
	}

	for i := 1; i < length; i++ {
		cont := seq.Bytes[i]
		if cont&0xC0 != 0x80 {
			return 0, false
		}
		cp = (cp << 6) | int32(cont&0x3F)
	}

	switch length {
	case 2:
		if cp < 0x80 {
			return 0, false
		}
	case 3:
		if cp < 0x800 {
			return 0, false
		}
	case 4:
		if cp < 0x10000 {
			return 0, false
		}
	}

	if cp >= 0xD800 && cp <= 0xDFFF {
		return 0, false
	}

	return rune(cp), true
}

// codePointLength returns the UTF-8 encoded length of a rune.
func codePointLength(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// encodeRune packs a rune into a Seq; codePointLength gives its encoded
// length.
func encodeRune(r rune) Seq {
	length := codePointLength(r)
	var seq Seq

	switch length {
	case 1:
		seq.Bytes[0] = byte(r)
	case 2:
		seq.Bytes[0] = byte(r>>6) | 0xC0
	case 3:
		seq.Bytes[0] = byte(r>>12) | 0xE0
	case 4:
		seq.Bytes[0] = byte(r>>18) | 0xF0
	}

	for i := 1; i < length; i++ {
		shift := uint(6 * (length - 1 - i))
		seq.Bytes[i] = byte((r>>shift)&0x3F) | 0x80
	}

	return seq
}
