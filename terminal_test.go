package vtcore

import "testing"

func termCellRune(t *testing.T, term *Terminal, row, col int) rune {
	t.Helper()
	cell, err := term.CellAt(row, col)
	if err != nil {
		t.Fatalf("CellAt(%d,%d): %v", row, col, err)
	}
	r, ok := decodeRune(cell.Seq, leadLength(cell.Seq.Lead()))
	if !ok {
		t.Fatalf("CellAt(%d,%d): undecodable seq", row, col)
	}
	return r
}

func TestNewTerminalDefaults(t *testing.T) {
	term := New()
	if term.Rows() != DefaultRows {
		t.Errorf("Rows() = %d, want %d", term.Rows(), DefaultRows)
	}
	if term.Cols() != DefaultCols {
		t.Errorf("Cols() = %d, want %d", term.Cols(), DefaultCols)
	}
}

func TestTerminalWithSize(t *testing.T) {
	term := New(WithSize(40, 120))
	if term.Rows() != 40 || term.Cols() != 120 {
		t.Errorf("size = (%d,%d), want (40,120)", term.Rows(), term.Cols())
	}
}

func TestTerminalPrintAdvancesCursor(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Write([]byte("hi"))

	row, col := term.CursorPosition()
	if row != 0 || col != 2 {
		t.Fatalf("cursor = (%d,%d), want (0,2)", row, col)
	}
	if r := termCellRune(t, term, 0, 0); r != 'h' {
		t.Errorf("cell(0,0) = %q, want 'h'", r)
	}
	if r := termCellRune(t, term, 0, 1); r != 'i' {
		t.Errorf("cell(0,1) = %q, want 'i'", r)
	}
}

func TestTerminalCRLF(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Write([]byte("ab\r\ncd"))

	row, col := term.CursorPosition()
	if row != 1 || col != 2 {
		t.Fatalf("cursor = (%d,%d), want (1,2)", row, col)
	}
	if r := termCellRune(t, term, 1, 0); r != 'c' {
		t.Errorf("cell(1,0) = %q, want 'c'", r)
	}
}

func TestTerminalAutoWrapIsDeferred(t *testing.T) {
	term := New(WithSize(5, 4))
	term.Write([]byte("abcd"))

	row, col := term.CursorPosition()
	if row != 0 || col != 3 {
		t.Fatalf("cursor after filling the row = (%d,%d), want (0,3)", row, col)
	}

	term.Write([]byte("e"))
	row, col = term.CursorPosition()
	if row != 1 || col != 1 {
		t.Fatalf("cursor after the wrapping char = (%d,%d), want (1,1)", row, col)
	}
	if r := termCellRune(t, term, 1, 0); r != 'e' {
		t.Errorf("cell(1,0) = %q, want 'e'", r)
	}
}

func TestTerminalBackspaceAndTab(t *testing.T) {
	term := New(WithSize(5, 20))
	term.Write([]byte("ab\b\tX"))

	row, col := term.CursorPosition()
	if row != 0 || col != 9 {
		t.Fatalf("cursor = (%d,%d), want (0,9)", row, col)
	}
	if r := termCellRune(t, term, 0, 8); r != 'X' {
		t.Errorf("cell(0,8) = %q, want 'X'", r)
	}
}

func TestTerminalCursorPositioning(t *testing.T) {
	term := New(WithSize(10, 10))
	term.Write([]byte("\x1b[3;5HX"))

	row, col := term.CursorPosition()
	if row != 2 || col != 5 {
		t.Fatalf("cursor = (%d,%d), want (2,5)", row, col)
	}
	if r := termCellRune(t, term, 2, 4); r != 'X' {
		t.Errorf("cell(2,4) = %q, want 'X'", r)
	}
}

func TestTerminalEraseLine(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Write([]byte("0123456789"))
	term.Write([]byte("\x1b[5G\x1b[K"))

	if r := termCellRune(t, term, 0, 3); r != '3' {
		t.Errorf("cell(0,3) = %q, want '3' (untouched)", r)
	}
	if r := termCellRune(t, term, 0, 4); r != ' ' {
		t.Errorf("cell(0,4) = %q, want ' ' (erased)", r)
	}
	if r := termCellRune(t, term, 0, 9); r != ' ' {
		t.Errorf("cell(0,9) = %q, want ' ' (erased)", r)
	}
}

func TestTerminalEraseScreen(t *testing.T) {
	term := New(WithSize(3, 5))
	term.Write([]byte("aaaaa\r\nbbbbb\r\nccccc"))
	term.Write([]byte("\x1b[2J"))

	for row := 0; row < 3; row++ {
		for col := 0; col < 5; col++ {
			if r := termCellRune(t, term, row, col); r != ' ' {
				t.Fatalf("cell(%d,%d) = %q, want ' ' after full erase", row, col, r)
			}
		}
	}
}

func TestTerminalSGRColorsAndAttrs(t *testing.T) {
	term := New(WithSize(2, 10))
	term.Write([]byte("\x1b[1;31;44mX\x1b[0mY"))

	cell, err := term.CellAt(0, 0)
	if err != nil {
		t.Fatalf("CellAt: %v", err)
	}
	if !cell.Style.Attrs.Has(AttrBold) {
		t.Errorf("first cell should be bold")
	}
	if cell.Style.Fg != (Color{Type: ColorIndexed, Index: 1}) {
		t.Errorf("first cell fg = %+v, want red index", cell.Style.Fg)
	}
	if cell.Style.Bg != (Color{Type: ColorIndexed, Index: 4}) {
		t.Errorf("first cell bg = %+v, want blue index", cell.Style.Bg)
	}

	cell2, err := term.CellAt(0, 1)
	if err != nil {
		t.Fatalf("CellAt: %v", err)
	}
	if cell2.Style != DefaultStyle() {
		t.Errorf("second cell should be back to default style after SGR 0, got %+v", cell2.Style)
	}
}

func TestTerminalSGRExtendedColor(t *testing.T) {
	term := New(WithSize(2, 10))
	term.Write([]byte("\x1b[38;5;200;48;2;10;20;30mZ"))

	cell, _ := term.CellAt(0, 0)
	if cell.Style.Fg != (Color{Type: ColorIndexed, Index: 200}) {
		t.Errorf("fg = %+v, want indexed 200", cell.Style.Fg)
	}
	if cell.Style.Bg != (Color{Type: ColorDirect, Direct: RGB{10, 20, 30}}) {
		t.Errorf("bg = %+v, want direct rgb(10,20,30)", cell.Style.Bg)
	}
}

func TestTerminalScrollRegionKeepsOutsideLinesUntouched(t *testing.T) {
	term := New(WithSize(5, 10))
	term.Write([]byte("L0\r\nL1\r\nL2\r\nL3\r\nL4"))
	// Confine scrolling to rows 1-3 (1-based 2;4), then push four lines
	// through it. Row 0 and row 4 must be unaffected.
	term.Write([]byte("\x1b[2;4r\x1b[2;1H\n\n\n\n"))

	if r := termCellRune(t, term, 0, 0); r != 'L' {
		t.Errorf("row 0 should be untouched by the margin-scoped scroll, got %q", r)
	}
	if r := termCellRune(t, term, 4, 0); r != 'L' {
		t.Errorf("row 4 should be untouched by the margin-scoped scroll, got %q", r)
	}
}

func TestTerminalInsertDeleteChars(t *testing.T) {
	term := New(WithSize(2, 6))
	term.Write([]byte("abcdef"))
	term.Write([]byte("\x1b[H\x1b[2@"))

	if r := termCellRune(t, term, 0, 0); r != ' ' {
		t.Errorf("cell(0,0) after ICH = %q, want ' '", r)
	}
	if r := termCellRune(t, term, 0, 2); r != 'a' {
		t.Errorf("cell(0,2) after ICH = %q, want 'a'", r)
	}

	term2 := New(WithSize(2, 6))
	term2.Write([]byte("abcdef"))
	term2.Write([]byte("\x1b[H\x1b[2P"))
	if r := termCellRune(t, term2, 0, 0); r != 'c' {
		t.Errorf("cell(0,0) after DCH = %q, want 'c'", r)
	}
	if r := termCellRune(t, term2, 0, 4); r != ' ' {
		t.Errorf("cell(0,4) after DCH = %q, want ' '", r)
	}
}

func TestTerminalAltScreenSwapRestoresPrimaryContent(t *testing.T) {
	term := New(WithSize(3, 10))
	term.Write([]byte("primary"))
	term.Write([]byte("\x1b[?1049h"))
	term.Write([]byte("alt"))
	if r := termCellRune(t, term, 0, 0); r != 'a' {
		t.Errorf("alt screen cell(0,0) = %q, want 'a'", r)
	}
	term.Write([]byte("\x1b[?1049l"))
	if r := termCellRune(t, term, 0, 0); r != 'p' {
		t.Errorf("primary screen cell(0,0) after restore = %q, want 'p'", r)
	}
}

type fakeSink struct{ data []byte }

func (s *fakeSink) Write(p []byte) (int, error) {
	s.data = append(s.data, p...)
	return len(p), nil
}

func TestTerminalDeviceAttributesReply(t *testing.T) {
	var sink fakeSink
	term := New(WithSize(5, 10), WithResponse(&sink))
	term.Write([]byte("\x1b[c"))

	if got := string(sink.data); got != "\x1b[?6c" {
		t.Errorf("DA reply = %q, want %q", got, "\x1b[?6c")
	}
}

func TestTerminalResizeRejectsDuringDispatch(t *testing.T) {
	term := New(WithSize(5, 10))
	term.dispatch = true
	if err := term.Resize(6, 12); err == nil {
		t.Fatalf("Resize should fail while a dispatch is in progress")
	}
	term.dispatch = false
}

func TestTerminalLineDrawingCharset(t *testing.T) {
	term := New(WithSize(2, 10))
	term.Write([]byte("\x1b(0q\x1b(B"))

	if r := termCellRune(t, term, 0, 0); r != '─' {
		t.Errorf("cell(0,0) = %q, want '─' (line-drawing q)", r)
	}
}

func TestTerminalDECALN(t *testing.T) {
	term := New(WithSize(2, 3))
	term.Write([]byte("\x1b#8"))

	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			if r := termCellRune(t, term, row, col); r != 'E' {
				t.Fatalf("cell(%d,%d) = %q, want 'E'", row, col, r)
			}
		}
	}
}
