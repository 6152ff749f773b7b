package vtcore

import (
	"encoding/binary"
	"fmt"
)

// styleSize is the on-disk size of a Style: 1 attribute byte + 4-byte fg +
// 4-byte bg color.
const styleSize = 9

// colorSize is the on-disk size of a Color: 1 type byte + 3 payload bytes.
const colorSize = 4

func putColor(buf []byte, c Color) {
	buf[0] = byte(c.Type)
	switch c.Type {
	case ColorStock:
		buf[1] = byte(c.Stock)
	case ColorIndexed:
		buf[1] = c.Index
	case ColorDirect:
		buf[1] = c.Direct.R
		buf[2] = c.Direct.G
		buf[3] = c.Direct.B
	}
}

func getColor(buf []byte) Color {
	var c Color
	c.Type = ColorType(buf[0])
	switch c.Type {
	case ColorStock:
		c.Stock = StockColor(buf[1])
	case ColorIndexed:
		c.Index = buf[1]
	case ColorDirect:
		c.Direct = RGB{buf[1], buf[2], buf[3]}
	}
	return c
}

func putStyle(buf []byte, s Style) {
	buf[0] = byte(s.Attrs)
	putColor(buf[1:1+colorSize], s.Fg)
	putColor(buf[1+colorSize:1+2*colorSize], s.Bg)
}

func getStyle(buf []byte) Style {
	return Style{
		Attrs: AttrSet(buf[0]),
		Fg:    getColor(buf[1 : 1+colorSize]),
		Bg:    getColor(buf[1+colorSize : 1+2*colorSize]),
	}
}

// rleEncodeStyles run-length encodes a style sequence as repeated
// (count uint8 != 0, style [9]byte) pairs terminated by a zero count.
// A run longer than 255 is broken into multiple chunks.
func rleEncodeStyles(styles []Style) []byte {
	out := make([]byte, 0, len(styles)/4*styleSize+1)

	i := 0
	for i < len(styles) {
		run := styles[i]
		count := 1
		for i+count < len(styles) && count < 255 && styles[i+count] == run {
			count++
		}

		out = append(out, byte(count))
		buf := make([]byte, styleSize)
		putStyle(buf, run)
		out = append(out, buf...)

		i += count
	}

	out = append(out, 0)
	return out
}

// rleDecodeStyles reads an RLE style stream from buf, returning the
// decoded styles and the number of bytes consumed.
func rleDecodeStyles(buf []byte) ([]Style, int, error) {
	var styles []Style
	pos := 0

	for {
		if pos >= len(buf) {
			return nil, 0, fmt.Errorf("rle style stream: %w", ErrStreamError)
		}
		count := buf[pos]
		pos++
		if count == 0 {
			break
		}
		if pos+styleSize > len(buf) {
			return nil, 0, fmt.Errorf("rle style stream: %w", ErrStreamError)
		}
		style := getStyle(buf[pos : pos+styleSize])
		pos += styleSize
		for i := byte(0); i < count; i++ {
			styles = append(styles, style)
		}
	}

	return styles, pos, nil
}

// entrySerialize turns (styles, string) into the bit-exact repository
// wire format: a 4-byte little-endian code-point count, the raw UTF-8
// string bytes, then the RLE-encoded style stream.
func entrySerialize(styles []Style, str []byte) []byte {
	out := make([]byte, 4, 4+len(str)+len(styles)+1)
	binary.LittleEndian.PutUint32(out, uint32(len(styles)))
	out = append(out, str...)
	out = append(out, rleEncodeStyles(styles)...)
	return out
}

// entryDeserialize is the inverse of entrySerialize.
func entryDeserialize(buf []byte) (styles []Style, str []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("entry header: %w", ErrStreamError)
	}
	count := binary.LittleEndian.Uint32(buf)
	rest := buf[4:]

	// Walk 'count' lead bytes to find where the string ends.
	pos := 0
	for i := uint32(0); i < count; i++ {
		if pos >= len(rest) {
			return nil, nil, fmt.Errorf("entry string: %w", ErrStreamError)
		}
		length := leadLength(rest[pos])
		if length == 0 {
			length = 1
		}
		pos += length
	}
	if pos > len(rest) {
		return nil, nil, fmt.Errorf("entry string: %w", ErrStreamError)
	}
	str = append([]byte(nil), rest[:pos]...)

	styles, _, err = rleDecodeStyles(rest[pos:])
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(styles)) != count {
		return nil, nil, fmt.Errorf("entry style count mismatch: %w", ErrStreamError)
	}

	return styles, str, nil
}

// entryStringLength reads only the 4-byte count prefix of a serialized
// entry, without touching the string or style bytes.
func entryStringLength(buf []byte) (uint32, error) {
	if len(buf) < 4 {
		return 0, fmt.Errorf("entry header: %w", ErrStreamError)
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// entryStringBytes reads only the length-prefix and raw string bytes of a
// serialized entry, skipping the style stream entirely.
func entryStringBytes(buf []byte) ([]byte, error) {
	count, err := entryStringLength(buf)
	if err != nil {
		return nil, err
	}
	rest := buf[4:]

	pos := 0
	for i := uint32(0); i < count; i++ {
		if pos >= len(rest) {
			return nil, fmt.Errorf("entry string: %w", ErrStreamError)
		}
		length := leadLength(rest[pos])
		if length == 0 {
			length = 1
		}
		pos += length
	}
	if pos > len(rest) {
		return nil, fmt.Errorf("entry string: %w", ErrStreamError)
	}
	return rest[:pos], nil
}
