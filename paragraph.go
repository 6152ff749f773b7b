package vtcore

// Cell is the atomic unit at a (row, col): one code point plus its style.
type Cell struct {
	Style Style
	Seq   Seq
}

// BlankCell is the canonical blank cell: default style, single space.
func BlankCell() Cell {
	return Cell{Style: DefaultStyle(), Seq: Seq{Bytes: [4]byte{' '}}}
}

// Paragraph is a logical wrap-free line: a run of styled code points,
// stored as three parallel arrays (styles, packed UTF-8 bytes, byte
// offsets per code point). Grounded on the Para class: indices always
// has one more entry than styles, the terminating sentinel pointing one
// past the last code point's bytes.
type Paragraph struct {
	styles  []Style
	str     []byte
	indices []int32
}

// NewParagraph returns an empty paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{indices: []int32{0}}
}

// NewParagraphFrom reconstructs a paragraph from stored styles and a
// packed UTF-8 byte string, rebuilding the index table by walking the
// string one lead byte at a time.
func NewParagraphFrom(styles []Style, str []byte) *Paragraph {
	p := &Paragraph{
		styles:  append([]Style(nil), styles...),
		str:     append([]byte(nil), str...),
		indices: make([]int32, 0, len(styles)+1),
	}

	var index int32
	for i := 0; i < len(str); {
		p.indices = append(p.indices, index)
		length := leadLength(str[i])
		if length == 0 {
			length = 1
		}
		i += length
		index += int32(length)
	}
	p.indices = append(p.indices, index)

	return p
}

// Length returns the number of code points in the paragraph.
func (p *Paragraph) Length() int { return len(p.styles) }

// Styles exposes the underlying style array (read-only use expected).
func (p *Paragraph) Styles() []Style { return p.styles }

// String returns the packed UTF-8 byte string backing the paragraph.
func (p *Paragraph) String() []byte { return p.str }

// CellAt returns the blank cell for offsets past Length; otherwise the
// style and code-point sequence at that offset.
func (p *Paragraph) CellAt(offset int) Cell {
	if offset < 0 || offset >= p.Length() {
		return BlankCell()
	}

	cell := Cell{Style: p.styles[offset]}
	begin, end := p.indices[offset], p.indices[offset+1]
	copy(cell.Seq.Bytes[:], p.str[begin:end])
	return cell
}

// expand pads the paragraph with blank spaces so that Length() == newSize.
func (p *Paragraph) expand(newSize int) {
	oldSize := p.Length()
	if newSize <= oldSize {
		return
	}

	grownStyles := make([]Style, newSize)
	copy(grownStyles, p.styles)
	for i := oldSize; i < newSize; i++ {
		grownStyles[i] = DefaultStyle()
	}
	p.styles = grownStyles

	grownIndices := make([]int32, newSize+1)
	copy(grownIndices, p.indices)
	index := p.indices[oldSize]
	for i := oldSize + 1; i <= newSize; i++ {
		index++
		grownIndices[i] = index
	}
	p.indices = grownIndices

	pad := newSize - oldSize
	p.str = append(p.str, make([]byte, pad)...)
	for i := len(p.str) - pad; i < len(p.str); i++ {
		p.str[i] = ' '
	}
}

// SetCell writes cell at offset, padding with blanks first if offset is
// at or beyond the current length, and splicing the byte representation
// in place (the new lead length may differ from the old one, shifting
// every later index entry by the delta).
func (p *Paragraph) SetCell(offset int, cell Cell) {
	p.expand(offset + 1)

	p.styles[offset] = cell.Style

	index := int(p.indices[offset])
	newLength := leadLength(cell.Seq.Lead())
	if newLength == 0 {
		newLength = 1
	}
	oldLength := leadLength(p.str[index])
	if oldLength == 0 {
		oldLength = 1
	}
	delta := newLength - oldLength

	switch {
	case delta > 0:
		p.str = append(p.str, make([]byte, delta)...)
		copy(p.str[index+newLength:], p.str[index+oldLength:len(p.str)-delta])
	case delta < 0:
		copy(p.str[index+newLength:], p.str[index+oldLength:])
		p.str = p.str[:len(p.str)+delta]
	}

	copy(p.str[index:index+newLength], cell.Seq.Bytes[:newLength])

	if delta != 0 {
		for i := offset + 1; i < len(p.indices); i++ {
			p.indices[i] += int32(delta)
		}
	}
}

// InsertCell inserts cell at offset and then deletes the cell at index end
// of the grown paragraph (the cell that sat at end-1 before the insert),
// preserving indices.length == styles.length + 1. end must be >= offset;
// the paragraph is expanded with blanks first if it doesn't yet reach end.
func (p *Paragraph) InsertCell(offset, end int, cell Cell) {
	if end >= p.Length() {
		p.expand(end + 1)
	}

	index := int(p.indices[offset])
	newLength := leadLength(cell.Seq.Lead())
	if newLength == 0 {
		newLength = 1
	}

	// Insert at offset.
	p.styles = append(p.styles, Style{})
	copy(p.styles[offset+1:], p.styles[offset:])
	p.styles[offset] = cell.Style

	p.str = append(p.str, make([]byte, newLength)...)
	copy(p.str[index+newLength:], p.str[index:])
	copy(p.str[index:index+newLength], cell.Seq.Bytes[:newLength])

	p.indices = append(p.indices, 0)
	copy(p.indices[offset+1:], p.indices[offset:])
	p.indices[offset] = p.indices[offset+1]
	for i := offset + 1; i < len(p.indices); i++ {
		p.indices[i] += int32(newLength)
	}

	// Erase at end. The insert above grew every array by one, so end now
	// names the cell that sat at end-1 before the insert.
	eraseBegin, eraseEnd := p.indices[end], p.indices[end+1]
	p.str = append(p.str[:eraseBegin], p.str[eraseEnd:]...)

	p.styles = append(p.styles[:end], p.styles[end+1:]...)

	oldLength := p.indices[end+1] - p.indices[end]
	for i := end + 1; i < len(p.indices); i++ {
		p.indices[i] -= oldLength
	}
	p.indices = append(p.indices[:end], p.indices[end+1:]...)
}

// Truncate drops trailing content beyond length'.
func (p *Paragraph) Truncate(length int) {
	if length < p.Length() {
		p.str = p.str[:p.indices[length]]
		p.indices = p.indices[:length+1]
		p.styles = p.styles[:length]
	}
}
