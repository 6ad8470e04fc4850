package id3

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextEncoding is the leading encoding byte of text-bearing frames.
type TextEncoding byte

const (
	EncodingISO88591 TextEncoding = 0
	EncodingUTF16BOM TextEncoding = 1
	EncodingUTF16BE  TextEncoding = 2
	EncodingUTF8     TextEncoding = 3
)

func (e TextEncoding) String() string {
	switch e {
	case EncodingISO88591:
		return "ISO-8859-1"
	case EncodingUTF16BOM:
		return "UTF-16"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("unknown(%d)", byte(e))
	}
}

func (e TextEncoding) codec() encoding.Encoding {
	switch e {
	case EncodingISO88591:
		return charmap.ISO8859_1
	case EncodingUTF16BOM:
		// Without a BOM, ID3v2 readers fall back to big endian.
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return encoding.Nop
	}
}

// EncodeText returns s as a text frame payload: the encoding byte followed
// by the encoded string.
func EncodeText(s string, enc TextEncoding) ([]byte, error) {
	var body []byte
	switch enc {
	case EncodingUTF8:
		body = []byte(s)
	case EncodingUTF16BOM:
		b, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", enc, err)
		}
		body = b
	case EncodingISO88591, EncodingUTF16BE:
		b, err := enc.codec().NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", enc, err)
		}
		body = b
	default:
		return nil, fmt.Errorf("encode: unsupported text encoding %d", byte(enc))
	}

	return append([]byte{byte(enc)}, body...), nil
}

// BestEncoding picks ISO-8859-1 when s fits in it, UTF-16 with BOM otherwise.
func BestEncoding(s string) TextEncoding {
	for _, r := range s {
		if r > 0xFF {
			return EncodingUTF16BOM
		}
	}
	return EncodingISO88591
}

// RenderText renders a frame payload for display. Payloads that start with
// a valid encoding byte are decoded; anything else is shown as raw text.
func RenderText(id string, payload []byte) string {
	if len(payload) == 0 {
		return ""
	}

	// URL frames other than WXXX carry no encoding byte.
	if strings.HasPrefix(id, "W") && id != "WXXX" {
		return rawText(payload)
	}

	enc := TextEncoding(payload[0])
	if enc > EncodingUTF8 {
		return rawText(payload)
	}

	switch {
	case id == "COMM" || id == "USLT":
		if len(payload) < 4 {
			return rawText(payload)
		}
		desc, text := splitDescribed(decodeText(enc, payload[4:]))
		if desc != "" {
			return desc + ": " + text
		}
		return text
	case id == "TXXX" || id == "WXXX":
		desc, text := splitDescribed(decodeText(enc, payload[1:]))
		if desc != "" {
			return desc + ": " + text
		}
		return text
	case strings.HasPrefix(id, "T"):
		parts := strings.Split(decodeText(enc, payload[1:]), "\x00")
		return strings.Join(parts, " / ")
	default:
		return rawText(payload)
	}
}

func decodeText(enc TextEncoding, b []byte) string {
	out, err := enc.codec().NewDecoder().Bytes(b)
	if err != nil {
		out = b
	}
	return strings.TrimRight(string(out), "\x00")
}

func splitDescribed(s string) (string, string) {
	desc, text, ok := strings.Cut(s, "\x00")
	if !ok {
		return "", s
	}
	// UTF-16 text after the description may repeat the byte order mark.
	return desc, strings.TrimPrefix(text, "\uFEFF")
}

// rawText shows payload bytes as text, decoding Latin-1 when they are not
// valid UTF-8 and summarising binary payloads.
func rawText(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	if !utf8.Valid(b) {
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return fmt.Sprintf("<%d bytes>", len(b))
		}
		b = out
	}

	for _, r := range string(b) {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			return fmt.Sprintf("<%d bytes of binary data>", len(b))
		}
	}

	return string(b)
}
