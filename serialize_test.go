package vtcore

import "testing"

// Round-trip 2: rle_decode(rle_encode(v)) == v for every style vector.
func TestRLEStyleRoundTrip(t *testing.T) {
	bold := Style{Attrs: AttrSet(0).Set(AttrBold), Fg: IndexedColor(1), Bg: DefaultStyle().Bg}
	cases := [][]Style{
		nil,
		{DefaultStyle()},
		{DefaultStyle(), DefaultStyle(), DefaultStyle()},
		{bold, bold, DefaultStyle(), bold},
	}

	for i, styles := range cases {
		encoded := rleEncodeStyles(styles)
		decoded, n, err := rleDecodeStyles(encoded)
		if err != nil {
			t.Fatalf("case %d: rleDecodeStyles: %v", i, err)
		}
		if n != len(encoded) {
			t.Fatalf("case %d: consumed %d bytes, want %d", i, n, len(encoded))
		}
		if len(decoded) != len(styles) {
			t.Fatalf("case %d: decoded %d styles, want %d", i, len(decoded), len(styles))
		}
		for j := range styles {
			if decoded[j] != styles[j] {
				t.Errorf("case %d, style %d: got %+v, want %+v", i, j, decoded[j], styles[j])
			}
		}
	}
}

// A run longer than 255 must be split across multiple RLE chunks but still
// round-trip exactly.
func TestRLEStyleRoundTripLongRun(t *testing.T) {
	styles := make([]Style, 600)
	for i := range styles {
		styles[i] = DefaultStyle()
	}

	encoded := rleEncodeStyles(styles)
	decoded, _, err := rleDecodeStyles(encoded)
	if err != nil {
		t.Fatalf("rleDecodeStyles: %v", err)
	}
	if len(decoded) != len(styles) {
		t.Fatalf("decoded %d styles, want %d", len(decoded), len(styles))
	}
}

// entryDeserialize(entrySerialize(styles, str)) reproduces both inputs.
func TestEntrySerializeRoundTrip(t *testing.T) {
	styles := []Style{DefaultStyle(), DefaultStyle()}
	str := []byte("≤x")

	encoded := entrySerialize(styles, str)
	gotStyles, gotStr, err := entryDeserialize(encoded)
	if err != nil {
		t.Fatalf("entryDeserialize: %v", err)
	}
	if string(gotStr) != string(str) {
		t.Fatalf("str = %q, want %q", gotStr, str)
	}
	if len(gotStyles) != len(styles) {
		t.Fatalf("styles = %d, want %d", len(gotStyles), len(styles))
	}
}

// Round-trip 3: "#RRGGBB" hex I/O for a direct color, case-insensitive on
// parse.
func TestColorHexRoundTrip(t *testing.T) {
	rgb := RGB{R: 0x1A, G: 0x2B, B: 0x3C}
	hex := rgb.HexString()
	if hex != "#1A2B3C" {
		t.Fatalf("HexString = %q, want %q", hex, "#1A2B3C")
	}

	got, err := ParseHexColor(hex)
	if err != nil {
		t.Fatalf("ParseHexColor: %v", err)
	}
	if got != rgb {
		t.Fatalf("ParseHexColor(%q) = %+v, want %+v", hex, got, rgb)
	}

	lower, err := ParseHexColor("#1a2b3c")
	if err != nil {
		t.Fatalf("ParseHexColor lowercase: %v", err)
	}
	if lower != rgb {
		t.Fatalf("ParseHexColor(lowercase) = %+v, want %+v", lower, rgb)
	}

	if _, err := ParseHexColor("1A2B3C"); err == nil {
		t.Fatalf("ParseHexColor should reject a string missing '#'")
	}
}
