package vtcore

import "testing"

// UTF-8 machine invariant: feeding the bytes of any valid code point
// produces ACCEPT with the exact input sequence back out.
func TestUTF8MachineAcceptsValidSequences(t *testing.T) {
	runes := []rune{'a', '$', '£', 'ह', '€', '\U00010348'}

	for _, r := range runes {
		seq := encodeRune(r)
		length := codePointLength(r)

		var m utf8Machine
		var state utf8State
		for i := 0; i < length; i++ {
			state = m.Consume(seq.Bytes[i])
		}
		if state != utf8Accept {
			t.Fatalf("rune %U: final state = %v, want Accept", r, state)
		}
		if m.Length() != length {
			t.Fatalf("rune %U: decoded length = %d, want %d", r, m.Length(), length)
		}
		for i := 0; i < length; i++ {
			if m.Seq().Bytes[i] != seq.Bytes[i] {
				t.Fatalf("rune %U: byte %d = %02X, want %02X", r, i, m.Seq().Bytes[i], seq.Bytes[i])
			}
		}
	}
}

// Overlong encodings must be rejected even though their continuation
// bytes are individually well-formed.
func TestUTF8MachineRejectsOverlongEncodings(t *testing.T) {
	cases := [][]byte{
		{0xC0, 0x80},       // overlong NUL
		{0xC1, 0xBF},       // overlong, still < 0x80
		{0xE0, 0x80, 0x80}, // overlong 3-byte
		{0xF0, 0x80, 0x80, 0x80},
	}

	for _, bs := range cases {
		var m utf8Machine
		var state utf8State
		for _, b := range bs {
			state = m.Consume(b)
			if state == utf8Reject {
				break
			}
		}
		if state != utf8Reject {
			_, ok := decodeRune(m.Seq(), m.Length())
			if state == utf8Accept && ok {
				t.Fatalf("overlong sequence % X: accepted as valid", bs)
			}
		}
	}
}

// decodeRune rejects surrogate-range code points encoded as 3-byte
// sequences, even though the byte pattern is otherwise well-formed.
func TestDecodeRuneRejectsSurrogates(t *testing.T) {
	surrogate := Seq{Bytes: [4]byte{0xED, 0xA0, 0x80, 0}} // U+D800
	if _, ok := decodeRune(surrogate, 3); ok {
		t.Fatalf("surrogate code point should be rejected")
	}
}
