package vtcore

import (
	"fmt"
	"sync"
)

// Modes is a bitmask of terminal behavior flags, one bit per mode named
// in the controller's mode set.
type Modes uint32

const (
	ModeOrigin Modes = 1 << iota
	ModeAutoWrap
	ModeAutoRepeat
	ModeShowCursor
	ModeAltSendsEsc
	ModeDeleteSendsDel
	ModeCRLF
	ModeInsert
	ModeEcho
	ModeKeyboardLock
	ModeAppKeypad
	ModeAppCursor
	ModeReverseVideo
	ModeMousePressRelease
	ModeMouseDrag
	ModeMouseMotion
	ModeMouseSelect
	ModeMouseSGR
	ModeBracketedPaste
	ModeMeta8Bit
	ModeFocus
)

const (
	// DefaultRows is the row count used when WithSize isn't given.
	DefaultRows = 24
	// DefaultCols is the column count used when WithSize isn't given.
	DefaultCols = 80

	tabInterval = 8
)

// screenBuffer bundles one buffer's text model, cursor, the DECSC/DECRC
// save slot, scroll margins, and mode flags. A Terminal owns two (primary
// and secondary); only the primary carries scrollback history.
type screenBuffer struct {
	text         *Text
	cursor       Cursor
	saved        SavedCursor
	hasSaved     bool
	scrollTop    int
	scrollBottom int
	modes        Modes
}

func newScreenBuffer(repo *Repository, cache *ParagraphCache, rows, cols, historyLimit int) *screenBuffer {
	return &screenBuffer{
		text:         NewText(repo, cache, rows, cols, historyLimit),
		cursor:       *NewCursor(),
		scrollBottom: rows - 1,
		modes:        ModeAutoWrap | ModeShowCursor | ModeAutoRepeat,
	}
}

func (b *screenBuffer) reset() {
	b.cursor = *NewCursor()
	b.hasSaved = false
	b.scrollTop = 0
	b.scrollBottom = b.text.Rows() - 1
	b.modes = ModeAutoWrap | ModeShowCursor | ModeAutoRepeat
}

// Terminal is a VT/xterm-style terminal emulator core: a StateMachine
// consumer that owns primary and secondary Text models plus the cursor,
// margin, mode, and tab-stop state needed to interpret a byte stream into
// screen mutations. Grounded on Terminal, adapted from its grid-based
// Buffer to the paragraph-backed Text model and from its go-ansicode
// delegation to this package's own StateMachine.
//
// All public methods acquire an internal lock; the dispatch flag forbids
// reentrant Write/Resize calls, matching the single-threaded,
// non-reentrant dispatch model described for this controller.
type Terminal struct {
	mu sync.Mutex

	repo  *Repository
	cache *ParagraphCache

	primary     *screenBuffer
	secondary   *screenBuffer
	active      *screenBuffer
	onSecondary bool

	tabs []bool

	sm *StateMachine

	observer     Observer
	bell         BellProvider
	title        TitleProvider
	clipboard    ClipboardProvider
	response     ResponseProvider
	currentTitle string
	titleStack   []string

	middleware *Middleware

	writeQueue []byte
	dumpWrites bool

	dispatch bool

	rows, cols    int
	historyLimit  int
	cacheCapacity int
}

// Option configures a Terminal during construction.
type Option func(*Terminal)

// WithSize sets the initial row and column count.
func WithSize(rows, cols int) Option {
	return func(t *Terminal) { t.rows, t.cols = rows, cols }
}

// WithHistoryLimit sets the primary buffer's scrollback tag-count limit.
// Zero means unbounded.
func WithHistoryLimit(n int) Option {
	return func(t *Terminal) { t.historyLimit = n }
}

// WithCacheCapacity sets the paragraph cache's entry limit. Zero means
// unbounded.
func WithCacheCapacity(n int) Option {
	return func(t *Terminal) { t.cacheCapacity = n }
}

// WithObserver sets the damage/title/lifecycle observer.
func WithObserver(o Observer) Option {
	return func(t *Terminal) { t.observer = o }
}

// WithBell sets the bell provider.
func WithBell(p BellProvider) Option {
	return func(t *Terminal) { t.bell = p }
}

// WithTitle sets the title provider.
func WithTitle(p TitleProvider) Option {
	return func(t *Terminal) { t.title = p }
}

// WithClipboard sets the OSC 52 clipboard provider.
func WithClipboard(p ClipboardProvider) Option {
	return func(t *Terminal) { t.clipboard = p }
}

// WithResponse sets the byte sink for replies (DA, DSR, clipboard reads).
func WithResponse(p ResponseProvider) Option {
	return func(t *Terminal) { t.response = p }
}

// WithMiddleware installs an interception layer between the StateMachine
// and the controller's own dispatch.
func WithMiddleware(mw *Middleware) Option {
	return func(t *Terminal) { t.middleware = mw }
}

// New constructs a Terminal with the given options applied over sane
// defaults (24x80, unbounded cache, no scrollback limit, every provider
// defaulted to its no-op implementation).
func New(opts ...Option) *Terminal {
	t := &Terminal{
		rows:      DefaultRows,
		cols:      DefaultCols,
		observer:  NoopObserver{},
		bell:      NoopBell{},
		title:     NoopTitle{},
		clipboard: NoopClipboard{},
		response:  NoopResponse{},
	}
	for _, opt := range opts {
		opt(t)
	}

	t.repo = NewRepository()
	t.cache = NewParagraphCache(t.repo, t.cacheCapacity)

	t.primary = newScreenBuffer(t.repo, t.cache, t.rows, t.cols, t.historyLimit)
	t.secondary = newScreenBuffer(t.repo, t.cache, t.rows, t.cols, 0)
	t.active = t.primary

	t.tabs = newTabStops(t.cols)

	var h Handler = t
	if t.middleware != nil {
		h = t.middleware.Wrap(t)
	}
	t.sm = NewStateMachine(h)

	return t
}

func newTabStops(cols int) []bool {
	tabs := make([]bool, cols)
	for i := 0; i < cols; i += tabInterval {
		tabs[i] = true
	}
	return tabs
}

var _ Handler = (*Terminal)(nil)

// Write feeds data through the VT state machine, dispatching escape
// sequences as they complete. Panics on reentrant invocation from within
// an Observer callback or ResponseProvider write, which is a programming
// error (this controller forbids nested dispatch).
func (t *Terminal) Write(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dispatch {
		panic("vtcore: reentrant dispatch")
	}
	t.dispatch = true
	defer func() { t.dispatch = false }()

	t.observer.BeginDispatch()
	t.sm.Write(data)
	t.observer.EndDispatch()
}

// NotifyChildExited reports that the byte source's child process has
// terminated. The terminal enters dump-writes mode (any queued or future
// response bytes are discarded) and the observer is notified once.
func (t *Terminal) NotifyChildExited(exitStatus int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dumpWrites = true
	t.writeQueue = nil
	t.observer.ChildExited(exitStatus)
}

// AreWritesQueued reports whether response bytes are waiting for the
// sink to become writable.
func (t *Terminal) AreWritesQueued() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.writeQueue) > 0
}

// Flush retries writing any queued response bytes to the sink.
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flush()
}

func (t *Terminal) queueWrite(p []byte) {
	if t.dumpWrites {
		return
	}
	t.writeQueue = append(t.writeQueue, p...)
	t.flush()
}

func (t *Terminal) flush() {
	if len(t.writeQueue) == 0 {
		return
	}
	n, err := t.response.Write(t.writeQueue)
	if err != nil {
		t.dumpWrites = true
		t.writeQueue = nil
		return
	}
	t.writeQueue = t.writeQueue[n:]
}

// Resize adjusts both buffers to rows x cols, reflowing their content and
// resetting tab stops and scroll margins. Rejected while a dispatch is in
// progress.
func (t *Terminal) Resize(rows, cols int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dispatch {
		return fmt.Errorf("resize during dispatch: %w", ErrBadArgument)
	}

	if err := t.primary.text.Resize(rows, cols, nil); err != nil {
		return err
	}
	if err := t.secondary.text.Resize(rows, cols, nil); err != nil {
		return err
	}

	t.tabs = newTabStops(cols)
	clampBuffer(t.primary, rows, cols)
	clampBuffer(t.secondary, rows, cols)

	t.rows, t.cols = rows, cols
	t.observer.DamageAll()
	return nil
}

func clampBuffer(b *screenBuffer, rows, cols int) {
	if b.cursor.Row >= rows {
		b.cursor.Row = rows - 1
	}
	if b.cursor.Col >= cols {
		b.cursor.Col = cols - 1
	}
	b.cursor.WrapPending = false
	b.scrollTop = 0
	b.scrollBottom = rows - 1
}

// Rows returns the active buffer's visible row count.
func (t *Terminal) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active.text.Rows()
}

// Cols returns the configured column width.
func (t *Terminal) Cols() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active.text.Cols()
}

// CursorPosition returns the active buffer's cursor row and column.
func (t *Terminal) CursorPosition() (row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active.cursor.Row, t.active.cursor.Col
}

// CellAt returns the cell at (row, col) in the active buffer.
func (t *Terminal) CellAt(row, col int) (Cell, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active.text.CellAt(row, col)
}

// advanceRow moves b's cursor down one row. continuation marks whether
// this is a soft (auto-wrap) line break, for which the row the cursor is
// leaving should be flagged as wrapped content, versus a hard newline
// (LF/VT/FF/IND/NEL), which starts a fresh paragraph.
//
// At the bottom margin, content either promotes into history (on the
// primary buffer, when the margin's bottom coincides with the buffer's
// physical bottom row, via Text.AddLine) or scrolls within the margin
// region only (Text.ScrollUp, which never touches history; always the
// case on the secondary buffer) — resolving the scroll-vs-history
// distinction by which mechanism is even capable of representing a
// narrower region.
func (t *Terminal) advanceRow(b *screenBuffer, continuation bool) {
	b.cursor.WrapPending = false
	switch {
	case b.cursor.Row < b.scrollBottom:
		if continuation {
			_ = b.text.MakeContinued(b.cursor.Row)
		}
		b.cursor.Row++
	case b == t.primary && b.scrollBottom == b.text.Rows()-1:
		b.text.AddLine(continuation)
	default:
		if continuation {
			_ = b.text.MakeContinued(b.cursor.Row)
		}
		_ = b.text.ScrollUp(b.scrollTop, b.scrollBottom+1, 1)
	}
}

func (t *Terminal) reverseIndex(b *screenBuffer) {
	b.cursor.WrapPending = false
	if b.cursor.Row > b.scrollTop {
		b.cursor.Row--
		return
	}
	_ = b.text.ScrollDown(b.scrollTop, b.scrollBottom+1, 1)
}

func (t *Terminal) advanceTab(b *screenBuffer) {
	cols := b.text.Cols()
	col := b.cursor.Col + 1
	for col < cols-1 && !t.tabs[col] {
		col++
	}
	if col >= cols {
		col = cols - 1
	}
	b.cursor.Col = col
}

// Normal handles a printable code point: translate through the active
// character set, write it at the cursor (or insert, under insert mode),
// and advance the cursor, performing any pending auto-wrap first.
func (t *Terminal) Normal(seq Seq) {
	b := t.active

	r, ok := decodeRune(seq, leadLength(seq.Lead()))
	if !ok {
		r = 0xFFFD
	}
	seq = b.cursor.Charsets.Translate(seq)

	width := runeWidth(r)
	if width <= 0 {
		width = 1
	}

	if b.cursor.WrapPending {
		t.wrapCursor(b)
	}

	style := b.cursor.Template.Style
	if b.cursor.Charsets.IsActiveSpecial() {
		style.Attrs = style.Attrs.Unset(AttrBold).Unset(AttrItalic)
	}
	cell := Cell{Style: style, Seq: seq}

	if b.modes&ModeInsert != 0 {
		_ = b.text.InsertCell(b.cursor.Row, b.cursor.Col, cell)
	} else {
		_ = b.text.SetCell(b.cursor.Row, b.cursor.Col, cell)
	}
	t.observer.DamageCells(b.cursor.Row, b.cursor.Col, b.cursor.Col+1)

	if b.cursor.Col+width >= b.text.Cols() {
		b.cursor.Col = b.text.Cols() - 1
		if b.modes&ModeAutoWrap != 0 {
			b.cursor.WrapPending = true
		}
	} else {
		b.cursor.Col += width
	}
}

func (t *Terminal) wrapCursor(b *screenBuffer) {
	t.advanceRow(b, true)
	b.cursor.Col = 0
}

// Control handles a C0 control byte outside any escape sequence.
func (t *Terminal) Control(c byte) {
	b := t.active
	switch c {
	case asciiBEL:
		t.bell.Ring()
	case asciiBS:
		if b.cursor.Col > 0 {
			b.cursor.Col--
		}
	case asciiHT:
		t.advanceTab(b)
	case asciiLF, asciiVT, asciiFF:
		if b.modes&ModeCRLF != 0 {
			b.cursor.Col = 0
		}
		t.advanceRow(b, false)
	case asciiCR:
		b.cursor.Col = 0
	case asciiSO:
		b.cursor.Charsets.SetActive(CharsetIndexG1)
	case asciiSI:
		b.cursor.Charsets.SetActive(CharsetIndexG0)
	}
}

// Escape handles a completed "ESC <byte>" sequence for a byte that
// doesn't select DCS/CSI/OSC/SPECIAL/IGNORE.
func (t *Terminal) Escape(c byte) {
	b := t.active
	switch c {
	case '7': // DECSC
		b.saved = b.cursor.Save(b.modes&ModeOrigin != 0)
		b.hasSaved = true
	case '8': // DECRC
		if b.hasSaved {
			b.cursor.Restore(b.saved)
			t.applyMode(b, ModeOrigin, b.saved.OriginMode)
		}
	case 'D': // IND
		t.advanceRow(b, false)
	case 'M': // RI
		t.reverseIndex(b)
	case 'E': // NEL
		b.cursor.Col = 0
		t.advanceRow(b, false)
	case 'c': // RIS
		b.reset()
	case '=': // DECKPAM
		t.applyMode(b, ModeAppKeypad, true)
	case '>': // DECKPNM
		t.applyMode(b, ModeAppKeypad, false)
	}
}

// Special handles a completed two-character escape: ESC # n (line
// attributes / DECALN) or ESC ( n / ESC ) n (G0/G1 charset designation).
func (t *Terminal) Special(intro, code byte) {
	b := t.active
	switch intro {
	case '#':
		if code == '8' {
			t.decaln(b)
		}
	case '(':
		b.cursor.Charsets.Set(CharsetIndexG0, charsetFromCode(code))
	case ')':
		b.cursor.Charsets.Set(CharsetIndexG1, charsetFromCode(code))
	}
}

func charsetFromCode(code byte) Charset {
	if code == '0' {
		return CharsetLineDrawing
	}
	return CharsetASCII
}

// decaln fills the screen with 'E', the DEC screen-alignment test pattern.
func (t *Terminal) decaln(b *screenBuffer) {
	cell := Cell{Style: DefaultStyle(), Seq: encodeRune('E')}
	for row := 0; row < b.text.Rows(); row++ {
		for col := 0; col < b.text.Cols(); col++ {
			_ = b.text.SetCell(row, col, cell)
		}
	}
	t.observer.DamageAll()
}

// DCS is reserved for future extension; no Device Control String forms
// are interpreted.
func (t *Terminal) DCS(data []byte) {}

// OSC handles Operating System Command sequences: window title (0/1/2)
// and clipboard access (52).
func (t *Terminal) OSC(parts []string) {
	if len(parts) == 0 {
		return
	}
	switch parts[0] {
	case "0", "1", "2":
		title := ""
		if len(parts) > 1 {
			title = parts[1]
		}
		t.currentTitle = title
		t.title.SetTitle(title)
		if title == "" {
			t.observer.ResetTitle()
		} else {
			t.observer.SetTitle(title)
		}
	case "52":
		t.oscClipboard(parts)
	}
}

func (t *Terminal) oscClipboard(parts []string) {
	if len(parts) < 3 {
		return
	}
	clip := byte('c')
	if len(parts[1]) > 0 {
		clip = parts[1][0]
	}
	if parts[2] == "?" {
		data := t.clipboard.Read(clip)
		t.queueWrite([]byte(fmt.Sprintf("\x1b]52;%c;%s\x1b\\", clip, data)))
		return
	}
	t.clipboard.Write(clip, []byte(parts[2]))
}

// CSI handles a completed Control Sequence Introducer.
func (t *Terminal) CSI(private bool, params []int, final byte) {
	b := t.active

	param := func(i, def int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return def
	}
	n1 := func(i int) int { return param(i, 1) }

	switch {
	case !private && final == 'A':
		t.moveCursor(b, -n1(0), 0)
	case !private && final == 'B':
		t.moveCursor(b, n1(0), 0)
	case !private && final == 'C':
		t.moveCursor(b, 0, n1(0))
	case !private && final == 'D':
		t.moveCursor(b, 0, -n1(0))
	case !private && final == 'E':
		t.moveCursor(b, n1(0), -b.cursor.Col)
	case !private && final == 'F':
		t.moveCursor(b, -n1(0), -b.cursor.Col)
	case !private && final == 'G':
		t.setCursorPosition(b, b.cursor.Row, param(0, 1)-1)
	case !private && final == 'd':
		t.setCursorPosition(b, param(0, 1)-1, b.cursor.Col)
	case !private && (final == 'H' || final == 'f'):
		t.setCursorPosition(b, param(0, 1)-1, param(1, 1)-1)
	case !private && final == 'J':
		t.eraseScreen(b, param(0, 0))
	case !private && final == 'K':
		t.eraseLine(b, param(0, 0))
	case !private && final == '@':
		t.insertChars(b, n1(0))
	case !private && final == 'P':
		t.deleteChars(b, n1(0))
	case !private && final == 'X':
		t.eraseChars(b, n1(0))
	case !private && final == 'L':
		t.insertLines(b, n1(0))
	case !private && final == 'M':
		t.deleteLines(b, n1(0))
	case !private && final == 'S':
		_ = b.text.ScrollUp(b.scrollTop, b.scrollBottom+1, n1(0))
	case !private && final == 'T':
		_ = b.text.ScrollDown(b.scrollTop, b.scrollBottom+1, n1(0))
	case !private && final == 'm':
		t.sgr(b, params)
	case !private && final == 'r':
		t.setMargins(b, param(0, 1), param(1, b.text.Rows()))
	case !private && final == 't':
		t.windowOp(params)
	case !private && final == 'h':
		t.setANSIModes(b, params, true)
	case !private && final == 'l':
		t.setANSIModes(b, params, false)
	case private && final == 'h':
		t.setPrivateModes(b, params, true)
	case private && final == 'l':
		t.setPrivateModes(b, params, false)
	case !private && final == 'c':
		t.queueWrite([]byte("\x1b[?6c"))
	case !private && final == 'n':
		t.deviceStatusReport(b, param(0, 0))
	case !private && final == 's':
		b.saved = b.cursor.Save(b.modes&ModeOrigin != 0)
		b.hasSaved = true
	case !private && final == 'u':
		if b.hasSaved {
			b.cursor.Restore(b.saved)
		}
	}
}

func (t *Terminal) moveCursor(b *screenBuffer, dRow, dCol int) {
	t.setCursorPosition(b, b.cursor.Row+dRow, b.cursor.Col+dCol)
}

// setCursorPosition clamps to the buffer bounds, honoring origin mode's
// margin-relative addressing.
func (t *Terminal) setCursorPosition(b *screenBuffer, row, col int) {
	b.cursor.WrapPending = false

	minRow, maxRow := 0, b.text.Rows()-1
	if b.modes&ModeOrigin != 0 {
		row += b.scrollTop
		minRow, maxRow = b.scrollTop, b.scrollBottom
	}
	if row < minRow {
		row = minRow
	}
	if row > maxRow {
		row = maxRow
	}
	if col < 0 {
		col = 0
	}
	if cols := b.text.Cols(); col >= cols {
		col = cols - 1
	}
	b.cursor.Row, b.cursor.Col = row, col
}

func (t *Terminal) blank(b *screenBuffer) Cell {
	return Cell{Style: b.cursor.Template.Style, Seq: encodeRune(' ')}
}

func (t *Terminal) eraseLineFrom(b *screenBuffer, row, colBegin, colEnd int) {
	blank := t.blank(b)
	for col := colBegin; col < colEnd; col++ {
		_ = b.text.SetCell(row, col, blank)
	}
}

func (t *Terminal) eraseScreen(b *screenBuffer, mode int) {
	cols := b.text.Cols()
	switch mode {
	case 0:
		t.eraseLineFrom(b, b.cursor.Row, b.cursor.Col, cols)
		for row := b.cursor.Row + 1; row < b.text.Rows(); row++ {
			t.eraseLineFrom(b, row, 0, cols)
		}
	case 1:
		t.eraseLineFrom(b, b.cursor.Row, 0, b.cursor.Col+1)
		for row := 0; row < b.cursor.Row; row++ {
			t.eraseLineFrom(b, row, 0, cols)
		}
	default:
		for row := 0; row < b.text.Rows(); row++ {
			t.eraseLineFrom(b, row, 0, cols)
		}
	}
	t.observer.DamageAll()
}

func (t *Terminal) eraseLine(b *screenBuffer, mode int) {
	cols := b.text.Cols()
	switch mode {
	case 0:
		t.eraseLineFrom(b, b.cursor.Row, b.cursor.Col, cols)
	case 1:
		t.eraseLineFrom(b, b.cursor.Row, 0, b.cursor.Col+1)
	default:
		t.eraseLineFrom(b, b.cursor.Row, 0, cols)
	}
	t.observer.DamageCells(b.cursor.Row, 0, cols)
}

func (t *Terminal) insertChars(b *screenBuffer, n int) {
	blank := t.blank(b)
	for i := 0; i < n; i++ {
		_ = b.text.InsertCell(b.cursor.Row, b.cursor.Col, blank)
	}
	t.observer.DamageCells(b.cursor.Row, b.cursor.Col, b.text.Cols())
}

func (t *Terminal) deleteChars(b *screenBuffer, n int) {
	cols := b.text.Cols()
	if n > cols-b.cursor.Col {
		n = cols - b.cursor.Col
	}
	for col := b.cursor.Col; col < cols-n; col++ {
		cell, _ := b.text.CellAt(b.cursor.Row, col+n)
		_ = b.text.SetCell(b.cursor.Row, col, cell)
	}
	blank := t.blank(b)
	for col := cols - n; col < cols; col++ {
		_ = b.text.SetCell(b.cursor.Row, col, blank)
	}
	t.observer.DamageCells(b.cursor.Row, b.cursor.Col, cols)
}

func (t *Terminal) eraseChars(b *screenBuffer, n int) {
	cols := b.text.Cols()
	end := b.cursor.Col + n
	if end > cols {
		end = cols
	}
	t.eraseLineFrom(b, b.cursor.Row, b.cursor.Col, end)
	t.observer.DamageCells(b.cursor.Row, b.cursor.Col, end)
}

func (t *Terminal) insertLines(b *screenBuffer, n int) {
	if b.cursor.Row < b.scrollTop || b.cursor.Row > b.scrollBottom {
		return
	}
	if max := b.scrollBottom + 1 - b.cursor.Row; n > max {
		n = max
	}
	if n <= 0 {
		return
	}
	_ = b.text.ScrollDown(b.cursor.Row, b.scrollBottom+1, n)
	t.observer.DamageAll()
}

func (t *Terminal) deleteLines(b *screenBuffer, n int) {
	if b.cursor.Row < b.scrollTop || b.cursor.Row > b.scrollBottom {
		return
	}
	if max := b.scrollBottom + 1 - b.cursor.Row; n > max {
		n = max
	}
	if n <= 0 {
		return
	}
	_ = b.text.ScrollUp(b.cursor.Row, b.scrollBottom+1, n)
	t.observer.DamageAll()
}

func (t *Terminal) setMargins(b *screenBuffer, top, bottom int) {
	rows := b.text.Rows()
	if bottom > rows {
		bottom = rows
	}
	top--
	bottom--
	if top < 0 {
		top = 0
	}
	if bottom >= rows {
		bottom = rows - 1
	}
	if top >= bottom {
		top, bottom = 0, rows-1
	}
	b.scrollTop, b.scrollBottom = top, bottom
	t.setCursorPosition(b, 0, 0)
}

func (t *Terminal) windowOp(params []int) {
	if len(params) == 0 {
		return
	}
	switch params[0] {
	case 22:
		t.titleStack = append(t.titleStack, t.currentTitle)
		t.title.PushTitle()
	case 23:
		if n := len(t.titleStack); n > 0 {
			t.currentTitle = t.titleStack[n-1]
			t.titleStack = t.titleStack[:n-1]
			t.title.SetTitle(t.currentTitle)
			t.observer.SetTitle(t.currentTitle)
		}
		t.title.PopTitle()
	}
}

func (t *Terminal) applyMode(b *screenBuffer, m Modes, set bool) {
	if set {
		b.modes |= m
	} else {
		b.modes &^= m
	}
}

func (t *Terminal) setANSIModes(b *screenBuffer, params []int, set bool) {
	for _, p := range params {
		switch p {
		case 4:
			t.applyMode(b, ModeInsert, set)
		case 20:
			t.applyMode(b, ModeCRLF, set)
		}
	}
}

func (t *Terminal) setPrivateModes(b *screenBuffer, params []int, set bool) {
	for _, p := range params {
		switch p {
		case 1:
			t.applyMode(b, ModeAppCursor, set)
		case 5:
			t.applyMode(b, ModeReverseVideo, set)
		case 6:
			t.applyMode(b, ModeOrigin, set)
			t.setCursorPosition(b, 0, 0)
		case 7:
			t.applyMode(b, ModeAutoWrap, set)
		case 8:
			t.applyMode(b, ModeAutoRepeat, set)
		case 9, 1000:
			t.applyMode(b, ModeMousePressRelease, set)
		case 1002:
			t.applyMode(b, ModeMouseDrag, set)
		case 1003:
			t.applyMode(b, ModeMouseMotion, set)
		case 1005:
			t.applyMode(b, ModeMouseSelect, set)
		case 1006:
			t.applyMode(b, ModeMouseSGR, set)
		case 25:
			t.applyMode(b, ModeShowCursor, set)
		case 1004:
			t.applyMode(b, ModeFocus, set)
		case 1036:
			t.applyMode(b, ModeMeta8Bit, set)
		case 1039:
			t.applyMode(b, ModeAltSendsEsc, set)
		case 2004:
			t.applyMode(b, ModeBracketedPaste, set)
		case 47, 1047:
			t.swapScreen(set)
		case 1048:
			t.saveOrRestore(b, set)
		case 1049:
			t.swapScreenAndCursor(set)
		}
	}
}

func (t *Terminal) saveOrRestore(b *screenBuffer, save bool) {
	if save {
		b.saved = b.cursor.Save(b.modes&ModeOrigin != 0)
		b.hasSaved = true
	} else if b.hasSaved {
		b.cursor.Restore(b.saved)
	}
}

func (t *Terminal) swapScreen(useSecondary bool) {
	if useSecondary == t.onSecondary {
		return
	}
	t.onSecondary = useSecondary
	if useSecondary {
		t.active = t.secondary
	} else {
		t.active = t.primary
	}
	t.observer.DamageAll()
}

func (t *Terminal) swapScreenAndCursor(enter bool) {
	if enter {
		t.saveOrRestore(t.primary, true)
		t.swapScreen(true)
		t.eraseScreen(t.active, 2)
		return
	}
	t.swapScreen(false)
	t.saveOrRestore(t.primary, false)
}

func (t *Terminal) deviceStatusReport(b *screenBuffer, n int) {
	switch n {
	case 5:
		t.queueWrite([]byte("\x1b[0n"))
	case 6:
		row, col := b.cursor.Row+1, b.cursor.Col+1
		if b.modes&ModeOrigin != 0 {
			row -= b.scrollTop
		}
		t.queueWrite([]byte(fmt.Sprintf("\x1b[%d;%dR", row, col)))
	}
}

// sgr applies a Select Graphic Rendition sequence's parameters to b's
// cell template, in order, including the 256-palette (38/48;5;i) and
// direct-color (38/48;2;r;g;b) extended forms.
func (t *Terminal) sgr(b *screenBuffer, params []int) {
	if len(params) == 0 {
		params = []int{0}
	}

	style := &b.cursor.Template.Style
	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code == 0:
			*style = DefaultStyle()
		case code == 1:
			style.Attrs = style.Attrs.Set(AttrBold)
		case code == 2:
			style.Attrs = style.Attrs.Set(AttrFaint)
		case code == 3:
			style.Attrs = style.Attrs.Set(AttrItalic)
		case code == 4:
			style.Attrs = style.Attrs.Set(AttrUnderline)
		case code == 5:
			style.Attrs = style.Attrs.Set(AttrBlink)
		case code == 7:
			style.Attrs = style.Attrs.Set(AttrInverse)
		case code == 8:
			style.Attrs = style.Attrs.Set(AttrConceal)
		case code == 22:
			style.Attrs = style.Attrs.Unset(AttrBold).Unset(AttrFaint)
		case code == 23:
			style.Attrs = style.Attrs.Unset(AttrItalic)
		case code == 24:
			style.Attrs = style.Attrs.Unset(AttrUnderline)
		case code == 25:
			style.Attrs = style.Attrs.Unset(AttrBlink)
		case code == 27:
			style.Attrs = style.Attrs.Unset(AttrInverse)
		case code == 28:
			style.Attrs = style.Attrs.Unset(AttrConceal)
		case code >= 30 && code <= 37:
			style.Fg = IndexedColor(uint8(code - 30))
		case code == 38:
			style.Fg = sgrColor(params, &i)
		case code == 39:
			style.Fg = StockColorOf(StockTextFg)
		case code >= 40 && code <= 47:
			style.Bg = IndexedColor(uint8(code - 40))
		case code == 48:
			style.Bg = sgrColor(params, &i)
		case code == 49:
			style.Bg = StockColorOf(StockTextBg)
		case code >= 90 && code <= 97:
			style.Fg = IndexedColor(uint8(code - 90 + 8))
		case code >= 100 && code <= 107:
			style.Bg = IndexedColor(uint8(code - 100 + 8))
		}
	}
}

// sgrColor parses the extended color form starting at params[*i]: either
// "38/48;5;i" (256-palette) or "38/48;2;r;g;b" (direct). *i is advanced
// past every parameter consumed.
func sgrColor(params []int, i *int) Color {
	if *i+1 >= len(params) {
		return StockColorOf(StockTextFg)
	}
	switch params[*i+1] {
	case 5:
		if *i+2 < len(params) {
			c := IndexedColor(uint8(params[*i+2]))
			*i += 2
			return c
		}
		*i++
	case 2:
		if *i+4 < len(params) {
			c := DirectColor(uint8(params[*i+2]), uint8(params[*i+3]), uint8(params[*i+4]))
			*i += 4
			return c
		}
		*i++
	}
	return StockColorOf(StockTextFg)
}
