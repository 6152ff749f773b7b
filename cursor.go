package vtcore

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks position, rendering style, active attribute template, and
// character-set state (0-based coordinates). WrapPending is set when a
// printed character lands exactly on the last column under auto-wrap: the
// actual wrap is deferred until the next cell is printed, matching xterm's
// "last column is sticky" behavior rather than wrapping eagerly.
type Cursor struct {
	Row, Col    int
	Style       CursorStyle
	Visible     bool
	WrapPending bool
	Template    CellTemplate
	Charsets    CharSubArray
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible,
// default attributes, and all character-set registers set to ASCII.
func NewCursor() *Cursor {
	return &Cursor{
		Style:    CursorStyleBlinkingBlock,
		Visible:  true,
		Template: NewCellTemplate(),
	}
}

// SavedCursor stores cursor position, cell attributes, origin mode, and
// charset state for restoration by DECRC, matching what DECSC captures.
type SavedCursor struct {
	Row, Col   int
	Template   CellTemplate
	OriginMode bool
	Charsets   CharSubArray
}

// Save captures c's restorable state.
func (c *Cursor) Save(originMode bool) SavedCursor {
	return SavedCursor{Row: c.Row, Col: c.Col, Template: c.Template, OriginMode: originMode, Charsets: c.Charsets}
}

// Restore applies s back onto c, clearing any pending wrap.
func (c *Cursor) Restore(s SavedCursor) {
	c.Row, c.Col = s.Row, s.Col
	c.Template = s.Template
	c.Charsets = s.Charsets
	c.WrapPending = false
}

// CellTemplate defines the style applied to newly written characters,
// modified by SGR (Select Graphic Rendition) sequences.
type CellTemplate struct {
	Style Style
}

// NewCellTemplate creates a template with default attributes.
func NewCellTemplate() CellTemplate {
	return CellTemplate{Style: DefaultStyle()}
}

// Charset selects the character encoding variant held in a CharSubArray
// register.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
