package vtcore

import "testing"

func TestCharSubLineDrawing(t *testing.T) {
	got := LineDrawingCharSub.Translate(encodeRune('q'))
	want := encodeRune('─')
	if got != want {
		t.Errorf("translate 'q': got %v want %v", got, want)
	}

	if !LineDrawingCharSub.IsSpecial() {
		t.Errorf("line drawing charsub should be special")
	}
}

func TestCharSubPassthrough(t *testing.T) {
	for _, r := range []rune{'a', 'z', 'o', 'p'} {
		got := LineDrawingCharSub.Translate(encodeRune(r))
		want := encodeRune(r)
		if got != want {
			t.Errorf("translate %q: got %v want unchanged", r, got)
		}
	}

	// Multi-byte sequences are never substituted, even within a table's range.
	multi := encodeRune('世')
	if got := LineDrawingCharSub.Translate(multi); got != multi {
		t.Errorf("multi-byte sequence was modified: got %v want %v", got, multi)
	}
}

func TestCharSubArray(t *testing.T) {
	var a CharSubArray
	a.Set(CharsetIndexG0, CharsetASCII)
	a.Set(CharsetIndexG1, CharsetLineDrawing)

	if got := a.Translate(encodeRune('q')); got != encodeRune('q') {
		t.Errorf("G0 active: translate 'q' should pass through, got %v", got)
	}

	a.SetActive(CharsetIndexG1)
	if got := a.Translate(encodeRune('q')); got != encodeRune('─') {
		t.Errorf("G1 active: translate 'q' should substitute, got %v", got)
	}

	if a.Get(CharsetIndexG1) != CharsetLineDrawing {
		t.Errorf("Get(G1): want CharsetLineDrawing")
	}
}
