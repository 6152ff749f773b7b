package vtcore

import (
	"fmt"
	"regexp"
	"sort"
)

// screenLine is the 8-byte-equivalent (paragraph_index, sequence_number,
// continued) triple described by the spec's Screen line. index is
// absolute (it includes whatever has already been popped off the front
// of the owning deque), matching the "index-plus-store" scheme described
// in the design notes: paragraphs live in a deque, lines carry an
// absolute index into it, and only lines after an insert/erase need their
// index adjusted.
type screenLine struct {
	index     int
	seqnum    uint32
	continued bool
}

// Region is a half-open rectangle in screen coordinates, used to report
// damaged areas.
type Region struct {
	RowBegin, RowEnd int
	ColBegin, ColEnd int
}

// Marker is an opaque position used by RFind to resume a reverse search,
// and by Resize to keep caller-held references (cursor, selection
// anchors) attached to the same logical character across a reflow.
type Marker struct {
	valid   bool
	row     int32
	current bool
	index   uint32
}

// Match is one regex hit returned by RFind.
type Match struct {
	Row, Col     int
	current      bool
	index        uint32
	offsetBegin  uint32
	offsetEnd    uint32
}

// Length is the match length in code points.
func (m Match) Length() int { return int(m.offsetEnd - m.offsetBegin) }

// Text is the combined scrollback+screen model: an ordered sequence of
// historical paragraph tags plus derived lines, and an ordered sequence of
// live paragraphs plus derived lines, joined by a straddling region.
// Single-owner, unsynchronized — grounded on the Text class.
type Text struct {
	repo  *Repository
	cache *ParagraphCache

	historyTags       []Tag
	poppedHistoryTags int
	historyLines      []screenLine
	historyLimit      int

	currentParas       []*Paragraph
	poppedCurrentParas int
	straddlingLines    int
	currentLines       []screenLine

	cols int
}

// NewText constructs a text model with rows blank current lines (one
// paragraph per row) and no history.
func NewText(repo *Repository, cache *ParagraphCache, rows, cols, historyLimit int) *Text {
	if rows <= 0 || cols <= 0 {
		panic("vtcore: rows and cols must be positive")
	}

	t := &Text{
		repo:         repo,
		cache:        cache,
		cols:         cols,
		historyLimit: historyLimit,
	}

	for r := 0; r < rows; r++ {
		t.currentLines = append(t.currentLines, screenLine{index: r, seqnum: 0, continued: false})
		t.currentParas = append(t.currentParas, NewParagraph())
	}

	return t
}

// Rows returns the number of visible rows (the straddling region is
// excluded).
func (t *Text) Rows() int { return len(t.currentLines) - t.straddlingLines }

// Cols returns the configured column width.
func (t *Text) Cols() int { return t.cols }

// Begin returns a marker positioned before the oldest stored paragraph:
// the point at which RFind, walking backward from End, stops and reports
// that nothing is left to search.
func (t *Text) Begin() Marker {
	if len(t.historyTags) == 0 {
		return Marker{valid: true, row: 0, current: true, index: 0}
	}
	return Marker{valid: true, row: 0, current: false, index: 0}
}

// End returns a marker positioned one past the newest current paragraph.
func (t *Text) End() Marker {
	return Marker{valid: true, row: int32(t.Rows()), current: true, index: uint32(len(t.currentParas))}
}

func (t *Text) lineAt(row int) (screenLine, bool, error) {
	idx := row + t.straddlingLines
	if idx >= 0 {
		if idx >= len(t.currentLines) {
			return screenLine{}, false, fmt.Errorf("row %d: %w", row, ErrBadArgument)
		}
		return t.currentLines[idx], false, nil
	}

	hIdx := len(t.historyLines) + idx
	if hIdx < 0 {
		return screenLine{}, false, fmt.Errorf("row %d: %w", row, ErrBadArgument)
	}
	return t.historyLines[hIdx], true, nil
}

func (t *Text) currentParaAt(line screenLine) *Paragraph {
	return t.currentParas[line.index-t.poppedCurrentParas]
}

func (t *Text) historyParaAt(line screenLine) (*Paragraph, error) {
	tag := t.historyTags[line.index-t.poppedHistoryTags]
	return t.cache.Get(tag)
}

// CellAt returns the cell at (row, col).
func (t *Text) CellAt(row, col int) (Cell, error) {
	if col < 0 || col >= t.cols {
		return Cell{}, fmt.Errorf("col %d: %w", col, ErrBadArgument)
	}
	line, isHistory, err := t.lineAt(row)
	if err != nil {
		return Cell{}, err
	}
	baseCol := t.cols * int(line.seqnum)

	if isHistory {
		para, err := t.historyParaAt(line)
		if err != nil {
			return Cell{}, err
		}
		return para.CellAt(baseCol + col), nil
	}
	return t.currentParaAt(line).CellAt(baseCol + col), nil
}

// SetCell mutates the current paragraph corresponding to the line at row.
func (t *Text) SetCell(row, col int, cell Cell) error {
	if col < 0 || col >= t.cols {
		return fmt.Errorf("col %d: %w", col, ErrBadArgument)
	}
	line, isHistory, err := t.lineAt(row)
	if err != nil {
		return err
	}
	if isHistory {
		return fmt.Errorf("row %d is historical: %w", row, ErrBadArgument)
	}
	baseCol := t.cols * int(line.seqnum)
	t.currentParaAt(line).SetCell(baseCol+col, cell)
	return nil
}

// InsertCell inserts cell at (row, col), dropping the cell that would
// fall off the right edge of the line.
func (t *Text) InsertCell(row, col int, cell Cell) error {
	if col < 0 || col >= t.cols {
		return fmt.Errorf("col %d: %w", col, ErrBadArgument)
	}
	line, isHistory, err := t.lineAt(row)
	if err != nil {
		return err
	}
	if isHistory {
		return fmt.Errorf("row %d is historical: %w", row, ErrBadArgument)
	}
	baseCol := t.cols * int(line.seqnum)
	t.currentParaAt(line).InsertCell(baseCol+col, baseCol+t.cols, cell)
	return nil
}

// AddLine appends a new trailing line: a continuation of the paragraph
// backing the current bottom line, or a fresh paragraph.
func (t *Text) AddLine(continuation bool) {
	if continuation {
		last := &t.currentLines[len(t.currentLines)-1]
		last.continued = true
		t.currentLines = append(t.currentLines, screenLine{index: last.index, seqnum: last.seqnum + 1, continued: false})
	} else {
		newIndex := len(t.currentParas) + t.poppedCurrentParas
		t.currentLines = append(t.currentLines, screenLine{index: newIndex, seqnum: 0, continued: false})
		t.currentParas = append(t.currentParas, NewParagraph())
	}

	t.straddlingLines++
	t.cleanStraddling()
}

// MakeContinued merges the paragraph at row with the paragraph of the
// following line, so that row's line becomes continued.
func (t *Text) MakeContinued(row int) error {
	if row < 0 || row >= t.Rows()-1 {
		return fmt.Errorf("row %d: %w", row, ErrBadArgument)
	}

	idx := row + t.straddlingLines
	if t.currentLines[idx].continued {
		return nil // idempotent
	}

	if row < t.Rows()-2 && t.currentLines[idx+1].continued {
		if err := t.MakeUncontinued(row + 1); err != nil {
			return err
		}
	}

	thisLine := &t.currentLines[idx]
	thisLine.continued = true
	nextLine := &t.currentLines[idx+1]

	thisPara := t.currentParaAt(*thisLine)
	nextParaRel := nextLine.index - t.poppedCurrentParas
	nextPara := t.currentParas[nextParaRel]

	for p0 := 0; p0 < nextPara.Length(); p0++ {
		cell := nextPara.CellAt(p0)
		p1 := p0 + int(thisLine.seqnum+1)*t.cols
		thisPara.SetCell(p1, cell)
	}

	t.currentParas = append(t.currentParas[:nextParaRel], t.currentParas[nextParaRel+1:]...)
	for i := idx + 2; i < len(t.currentLines); i++ {
		t.currentLines[i].index--
	}

	nextLine.index = thisLine.index
	nextLine.seqnum = thisLine.seqnum + 1

	return nil
}

// MakeUncontinued splits the paragraph at row so that row's line is no
// longer continued, moving everything past the split point into a fresh
// paragraph.
func (t *Text) MakeUncontinued(row int) error {
	if row < 0 || row >= t.Rows()-1 {
		return fmt.Errorf("row %d: %w", row, ErrBadArgument)
	}

	idx := row + t.straddlingLines
	if !t.currentLines[idx].continued {
		return nil // idempotent
	}

	if row < t.Rows()-2 && t.currentLines[idx+1].continued {
		if err := t.MakeUncontinued(row + 1); err != nil {
			return err
		}
	}

	thisLine := &t.currentLines[idx]
	insertRel := thisLine.index - t.poppedCurrentParas + 1

	t.currentParas = append(t.currentParas, nil)
	copy(t.currentParas[insertRel+1:], t.currentParas[insertRel:])
	t.currentParas[insertRel] = NewParagraph()

	for i := idx + 2; i < len(t.currentLines); i++ {
		t.currentLines[i].index++
	}

	nextLine := &t.currentLines[idx+1]
	nextLine.index = thisLine.index + 1
	nextLine.seqnum = 0

	thisPara := t.currentParas[thisLine.index-t.poppedCurrentParas]
	nextPara := t.currentParas[nextLine.index-t.poppedCurrentParas]

	splitAt := int(thisLine.seqnum+1) * t.cols
	for p0 := splitAt; p0 < thisPara.Length(); p0++ {
		cell := thisPara.CellAt(p0)
		nextPara.SetCell(p0-splitAt, cell)
	}

	thisPara.Truncate(splitAt)
	thisLine.continued = false

	return nil
}

// eraseCurrentLineAt removes the current line at absolute deque position
// pos, along with the paragraph it (uniquely) refers to.
func (t *Text) eraseCurrentLineAt(pos int) {
	line := t.currentLines[pos]
	rel := line.index - t.poppedCurrentParas
	t.currentParas = append(t.currentParas[:rel], t.currentParas[rel+1:]...)
	for i := range t.currentLines {
		if t.currentLines[i].index > line.index {
			t.currentLines[i].index--
		}
	}
	t.currentLines = append(t.currentLines[:pos], t.currentLines[pos+1:]...)
}

// insertBlankLineAt inserts a fresh empty line and paragraph at absolute
// deque position pos.
func (t *Text) insertBlankLineAt(pos int) {
	var newIndex int
	if pos < len(t.currentLines) {
		newIndex = t.currentLines[pos].index
	} else {
		newIndex = len(t.currentParas) + t.poppedCurrentParas
	}

	rel := newIndex - t.poppedCurrentParas
	t.currentParas = append(t.currentParas, nil)
	copy(t.currentParas[rel+1:], t.currentParas[rel:])
	t.currentParas[rel] = NewParagraph()

	for i := range t.currentLines {
		if t.currentLines[i].index >= newIndex {
			t.currentLines[i].index++
		}
	}

	t.currentLines = append(t.currentLines, screenLine{})
	copy(t.currentLines[pos+1:], t.currentLines[pos:])
	t.currentLines[pos] = screenLine{index: newIndex, seqnum: 0, continued: false}
}

// ScrollDown shifts content within [rowBegin, rowEnd) down by n lines:
// the bottom n lines of the region are ejected, and n fresh blank lines
// appear at the top. History is never touched.
func (t *Text) ScrollDown(rowBegin, rowEnd, n int) error {
	if err := t.validateScrollRegion(rowBegin, rowEnd, n); err != nil {
		return err
	}

	if rowBegin > 0 {
		if err := t.MakeUncontinued(rowBegin - 1); err != nil {
			return err
		}
	}
	if rowEnd < t.Rows()-1 {
		if err := t.MakeUncontinued(rowEnd - 1); err != nil {
			return err
		}
	}

	for i := 0; i < n; i++ {
		if rowBegin < rowEnd-1 {
			if err := t.MakeUncontinued(rowEnd - 2); err != nil {
				return err
			}
		}
		t.eraseCurrentLineAt(t.straddlingLines + rowEnd - 1)
		t.insertBlankLineAt(t.straddlingLines + rowBegin)
	}

	return nil
}

// ScrollUp shifts content within [rowBegin, rowEnd) up by n lines: the
// top n lines of the region are ejected, and n fresh blank lines appear
// at the bottom. History is never touched.
func (t *Text) ScrollUp(rowBegin, rowEnd, n int) error {
	if err := t.validateScrollRegion(rowBegin, rowEnd, n); err != nil {
		return err
	}

	if rowBegin > 0 {
		if err := t.MakeUncontinued(rowBegin - 1); err != nil {
			return err
		}
	}
	if rowEnd < t.Rows()-1 {
		if err := t.MakeUncontinued(rowEnd - 1); err != nil {
			return err
		}
	}

	for i := 0; i < n; i++ {
		if rowBegin < t.Rows()-1 {
			if err := t.MakeUncontinued(rowBegin); err != nil {
				return err
			}
		}
		t.eraseCurrentLineAt(t.straddlingLines + rowBegin)
		t.insertBlankLineAt(t.straddlingLines + rowEnd - 1)
	}

	return nil
}

func (t *Text) validateScrollRegion(rowBegin, rowEnd, n int) error {
	if rowBegin < 0 || rowEnd > t.Rows() || rowBegin+n > rowEnd || n <= 0 {
		return fmt.Errorf("scroll region [%d,%d) n=%d: %w", rowBegin, rowEnd, n, ErrBadArgument)
	}
	return nil
}

// cleanStraddling promotes the straddling paragraph to history once its
// final line is no longer continued.
func (t *Text) cleanStraddling() {
	if t.straddlingLines == 0 || t.currentLines[t.straddlingLines-1].continued {
		return
	}

	front := t.currentParas[0]
	tag, err := t.repo.Store(Entry{Styles: front.Styles(), String: front.String()})
	if err != nil {
		// The repository contract only fails on capacity exhaustion; with
		// no bound configured by this package this should not happen in
		// practice. AddLine has no error return, so the error is dropped
		// (matching the original's assert-and-continue posture): the
		// promotion is skipped and the content stays straddling.
		return
	}

	for seqnum := 0; seqnum < t.straddlingLines; seqnum++ {
		absIndex := len(t.historyTags) + t.poppedHistoryTags
		continued := seqnum != t.straddlingLines-1
		t.historyLines = append(t.historyLines, screenLine{index: absIndex, seqnum: uint32(seqnum), continued: continued})
		t.currentLines = t.currentLines[1:]
	}

	t.historyTags = append(t.historyTags, tag)
	t.currentParas = t.currentParas[1:]
	t.poppedCurrentParas++
	t.straddlingLines = 0

	t.enforceHistoryLimit()
}

func (t *Text) enforceHistoryLimit() {
	if t.historyLimit <= 0 {
		return
	}
	for len(t.historyTags) > t.historyLimit {
		oldTag := t.historyTags[0]
		oldAbsIndex := t.poppedHistoryTags

		_ = t.repo.Discard(oldTag)
		t.historyTags = t.historyTags[1:]
		t.poppedHistoryTags++

		for len(t.historyLines) > 0 && t.historyLines[0].index == oldAbsIndex {
			t.historyLines = t.historyLines[1:]
		}
	}
}

func divideRoundUp(a, b int) int {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RFind searches backward one paragraph at a time from marker, returning
// every regex match in that paragraph (right-to-left order) plus whether
// there is anything left to search (ongoing).
func (t *Text) RFind(re *regexp.Regexp, marker *Marker) ([]Match, bool, error) {
	if !marker.valid {
		return nil, false, fmt.Errorf("invalid marker: %w", ErrBadArgument)
	}

	if marker.index == 0 {
		if marker.current && len(t.historyTags) > 0 {
			marker.current = false
			marker.index = uint32(len(t.historyTags))
		} else {
			return nil, false, nil
		}
	}
	marker.index--

	var para *Paragraph
	var err error
	if marker.current {
		para = t.currentParas[marker.index]
	} else {
		para, err = t.cache.Get(t.historyTags[marker.index])
		if err != nil {
			return nil, false, err
		}
	}

	if para.Length() == 0 {
		marker.row--
	} else {
		marker.row -= int32(divideRoundUp(para.Length(), t.cols))
	}

	locs := re.FindAllIndex(para.String(), -1)

	matches := make([]Match, 0, len(locs))
	for i := len(locs) - 1; i >= 0; i-- {
		loc := locs[i]
		b := codepointOffsetForByte(para, loc[0])
		e := codepointOffsetForByte(para, loc[1])

		matches = append(matches, Match{
			Row:         int(marker.row) + b/t.cols,
			Col:         b % t.cols,
			current:     marker.current,
			index:       marker.index,
			offsetBegin: uint32(b),
			offsetEnd:   uint32(e),
		})
	}

	return matches, true, nil
}

func codepointOffsetForByte(p *Paragraph, byteOffset int) int {
	return sort.Search(len(p.indices), func(i int) bool { return int(p.indices[i]) >= byteOffset })
}

// resizeRef is one paragraph in the flattened view Resize builds to decide
// the new history/current split: every history tag followed by every
// current paragraph, each paired with its line count at the new column
// width.
type resizeRef struct {
	isHistory bool
	tag       Tag
	para      *Paragraph
	lines     int
}

// Resize rewraps every stored paragraph to the new column width (a
// paragraph of length L occupies ceil(L/cols') lines; content itself is
// never altered) and adjusts how many trailing lines are current versus
// historical so that exactly rows lines remain visible. Since no dispatch
// can be in progress during a resize, every paragraph is "settled" (none
// are still being actively written), so the split is simply: keep the
// newest lines current, demote everything older into history, and
// promote history back into current if there isn't enough content to
// fill the window. markers are translated in place so each continues to
// refer to the same paragraph and position.
func (t *Text) Resize(rows, cols int, markers []*Marker) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("resize %dx%d: %w", rows, cols, ErrBadArgument)
	}

	oldCurrentParas := t.currentParas
	oldHistoryTags := t.historyTags

	refs := make([]resizeRef, 0, len(t.historyTags)+len(t.currentParas))
	for _, tag := range t.historyTags {
		length, err := t.repo.Length(tag)
		if err != nil {
			return err
		}
		refs = append(refs, resizeRef{isHistory: true, tag: tag, lines: max(1, divideRoundUp(int(length), cols))})
	}
	for _, p := range t.currentParas {
		refs = append(refs, resizeRef{para: p, lines: max(1, divideRoundUp(p.Length(), cols))})
	}

	splitIdx := len(refs)
	trailingLines := 0
	for splitIdx > 0 && trailingLines < rows {
		splitIdx--
		trailingLines += refs[splitIdx].lines
	}
	straddling := trailingLines - rows
	if straddling < 0 {
		straddling = 0
	}

	type newLoc struct {
		current bool
		index   int
	}
	paraLoc := make(map[*Paragraph]newLoc, len(t.currentParas))
	tagLoc := make(map[Tag]newLoc, len(t.historyTags))

	newHistoryTags := make([]Tag, 0, splitIdx)
	newHistoryLines := make([]screenLine, 0)
	for i := 0; i < splitIdx; i++ {
		ref := refs[i]
		tag := ref.tag
		if !ref.isHistory {
			var err error
			tag, err = t.repo.Store(Entry{Styles: ref.para.Styles(), String: ref.para.String()})
			if err != nil {
				return err
			}
		}
		absIndex := len(newHistoryTags)
		newHistoryTags = append(newHistoryTags, tag)
		for s := 0; s < ref.lines; s++ {
			newHistoryLines = append(newHistoryLines, screenLine{index: absIndex, seqnum: uint32(s), continued: s != ref.lines-1})
		}
		if ref.isHistory {
			tagLoc[ref.tag] = newLoc{current: false, index: absIndex}
		} else {
			paraLoc[ref.para] = newLoc{current: false, index: absIndex}
		}
	}

	newCurrentParas := make([]*Paragraph, 0, len(refs)-splitIdx)
	newCurrentLines := make([]screenLine, 0)
	for i := splitIdx; i < len(refs); i++ {
		ref := refs[i]
		var p *Paragraph
		if ref.isHistory {
			var err error
			p, err = t.cache.Get(ref.tag)
			if err != nil {
				return err
			}
			p = NewParagraphFrom(p.Styles(), p.String())
		} else {
			p = ref.para
		}

		absIndex := len(newCurrentParas)
		newCurrentParas = append(newCurrentParas, p)
		continuedAll := i == splitIdx && straddling > 0
		for s := 0; s < ref.lines; s++ {
			continued := s != ref.lines-1
			if continuedAll {
				continued = true
			}
			newCurrentLines = append(newCurrentLines, screenLine{index: absIndex, seqnum: uint32(s), continued: continued})
		}

		loc := newLoc{current: true, index: absIndex}
		if ref.isHistory {
			tagLoc[ref.tag] = loc
		} else {
			paraLoc[ref.para] = loc
		}
	}

	for len(newCurrentLines) < rows {
		absIndex := len(newCurrentParas)
		newCurrentParas = append(newCurrentParas, NewParagraph())
		newCurrentLines = append(newCurrentLines, screenLine{index: absIndex, seqnum: 0, continued: false})
	}

	// Discard tags that were history before and are not history after
	// (either promoted to current, or absent entirely — which cannot
	// happen here since every ref is placed on exactly one side).
	kept := make(map[Tag]bool, len(newHistoryTags))
	for _, tag := range newHistoryTags {
		kept[tag] = true
	}
	for _, tag := range t.historyTags {
		if !kept[tag] {
			_ = t.repo.Discard(tag)
		}
	}

	// Resolve each marker's new (current, index) from its old target before
	// the old slices are discarded; the row is recomputed below once the
	// new tables are committed.
	type pendingMarker struct {
		m   *Marker
		loc newLoc
	}
	pending := make([]pendingMarker, 0, len(markers))
	for _, m := range markers {
		if m == nil || !m.valid {
			continue
		}
		var loc newLoc
		var ok bool
		if m.current {
			if int(m.index) < len(oldCurrentParas) {
				loc, ok = paraLoc[oldCurrentParas[m.index]]
			}
		} else {
			if int(m.index) < len(oldHistoryTags) {
				loc, ok = tagLoc[oldHistoryTags[m.index]]
			}
		}
		if ok {
			pending = append(pending, pendingMarker{m: m, loc: loc})
		}
	}

	t.historyTags = newHistoryTags
	t.poppedHistoryTags = 0
	t.historyLines = newHistoryLines
	t.currentParas = newCurrentParas
	t.poppedCurrentParas = 0
	t.currentLines = newCurrentLines
	t.straddlingLines = straddling
	t.cols = cols

	t.enforceHistoryLimit()

	for _, pm := range pending {
		pm.m.current = pm.loc.current
		pm.m.index = uint32(pm.loc.index)
		t.recomputeMarkerRow(pm.m)
	}

	return nil
}

// recomputeMarkerRow derives the row a marker's paragraph starts at from
// its (current, index) position against the current line tables.
func (t *Text) recomputeMarkerRow(m *Marker) {
	if m.current {
		row := -t.straddlingLines
		for i := 0; i < int(m.index) && i < len(t.currentParas); i++ {
			row += max(1, divideRoundUp(t.currentParas[i].Length(), t.cols))
		}
		m.row = int32(row)
	} else {
		row := -(t.straddlingLines + len(t.historyLines))
		for i := 0; i < int(m.index) && i < len(t.historyTags); i++ {
			length, err := t.repo.Length(t.historyTags[i])
			if err != nil {
				continue
			}
			row += max(1, divideRoundUp(int(length), t.cols))
		}
		m.row = int32(row)
	}
}
