package vtcore

import "testing"

// Scenario 2: paragraph round-trip, ASCII then multi-byte code points.
func TestParagraphRoundTrip(t *testing.T) {
	p := NewParagraph()
	p.SetCell(0, cellFor('<'))
	p.SetCell(2, cellFor('>'))

	if got, want := string(p.String()), "< >"; got != want {
		t.Fatalf("ASCII round-trip = %q, want %q", got, want)
	}
	if p.Length() != 3 {
		t.Fatalf("ASCII length = %d, want 3", p.Length())
	}

	p2 := NewParagraph()
	p2.SetCell(0, cellFor('≤'))
	p2.SetCell(2, cellFor('≥'))

	want := []byte{0xE2, 0x89, 0xA4, ' ', 0xE2, 0x89, 0xA5}
	if got := p2.String(); string(got) != string(want) {
		t.Fatalf("multi-byte round-trip = % X, want % X", got, want)
	}
	if p2.Length() != 3 {
		t.Fatalf("multi-byte length = %d, want 3", p2.Length())
	}
}

// Scenario 5: insert cell in the middle of a paragraph.
func TestParagraphInsertCellMiddle(t *testing.T) {
	p := NewParagraph()
	p.SetCell(0, cellFor('a'))
	p.SetCell(1, cellFor('b'))
	p.SetCell(2, cellFor('c'))

	p.InsertCell(1, 2, cellFor('d'))

	if got, want := string(p.String()), "adc"; got != want {
		t.Fatalf("after InsertCell = %q, want %q", got, want)
	}
	if p.Length() != 3 {
		t.Fatalf("length after InsertCell = %d, want 3", p.Length())
	}
	if r, _ := p.CellAt(1).Seq.Rune(); r != 'd' {
		t.Errorf("cell 1 = %q, want 'd'", r)
	}
	if r, _ := p.CellAt(2).Seq.Rune(); r != 'c' {
		t.Errorf("cell 2 = %q, want 'c'", r)
	}
}

// indices invariant: indices.length == styles.length + 1, indices[0] == 0,
// and each gap matches the lead length of the byte at that offset.
func TestParagraphIndicesInvariant(t *testing.T) {
	p := NewParagraph()
	p.SetCell(0, cellFor('a'))
	p.SetCell(1, cellFor('世'))
	p.SetCell(2, cellFor('z'))

	if len(p.indices) != len(p.styles)+1 {
		t.Fatalf("indices length = %d, want %d", len(p.indices), len(p.styles)+1)
	}
	if p.indices[0] != 0 {
		t.Fatalf("indices[0] = %d, want 0", p.indices[0])
	}
	for i := 0; i < p.Length(); i++ {
		gap := p.indices[i+1] - p.indices[i]
		lead := leadLength(p.str[p.indices[i]])
		if lead == 0 {
			lead = 1
		}
		if int(gap) != lead {
			t.Errorf("offset %d: gap = %d, want lead length %d", i, gap, lead)
		}
	}
}
