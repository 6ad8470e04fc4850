// Package image describes embedded cover art: JPEG, PNG, GIF and BMP.
package image

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/jpg"
)

// CategoryPicture labels the basic fields of an embedded image.
const CategoryPicture = "Picture"

// Describe returns format, dimensions and embedded metadata of an image.
// Unknown formats yield only the byte size.
func Describe(data []byte) []core.MetaField {
	format := core.DetectBytes(data)

	fields := []core.MetaField{
		{Key: "ImageFormat", Value: string(format), Category: CategoryPicture},
		{Key: "ImageSize", Value: fmt.Sprintf("%d bytes", len(data)), Category: CategoryPicture},
	}

	switch format {
	case core.FmtJPEG:
		fields = append(fields, describeJPEG(data)...)
	case core.FmtPNG:
		fields = append(fields, describePNG(data)...)
	case core.FmtGIF:
		fields = append(fields, describeGIF(data)...)
	case core.FmtBMP:
		fields = append(fields, describeBMP(data)...)
	}

	return fields
}

func dimensions(w, h int64) core.MetaField {
	return core.MetaField{Key: "Dimensions", Value: fmt.Sprintf("%d x %d", w, h), Category: CategoryPicture}
}

// ─── JPEG ────────────────────────────────────────────────────────────────────

func describeJPEG(data []byte) []core.MetaField {
	var fields []core.MetaField
	if w, h, ok := jpegDimensions(data); ok {
		fields = append(fields, dimensions(int64(w), int64(h)))
	}

	// EXIF via goexif; images without it are common.
	if exif, err := jpg.ReadEXIF(bytes.NewReader(data)); err == nil {
		fields = append(fields, exif...)
	}
	return fields
}

// jpegDimensions reads the frame size from the first SOF segment.
func jpegDimensions(data []byte) (uint16, uint16, bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, 0, false
	}

	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return 0, 0, false
		}
		marker := data[i+1]
		// Fill bytes and standalone markers carry no length.
		if marker == 0xFF {
			i++
			continue
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}

		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if segLen < 2 || i+2+segLen > len(data) {
			return 0, 0, false
		}

		isSOF := marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC
		if isSOF && segLen >= 7 {
			seg := data[i+4:]
			h := binary.BigEndian.Uint16(seg[1:3])
			w := binary.BigEndian.Uint16(seg[3:5])
			return w, h, true
		}
		// Stop at SOS (start of scan)
		if marker == 0xDA {
			return 0, 0, false
		}
		i += 2 + segLen
	}
	return 0, 0, false
}

// ─── PNG ─────────────────────────────────────────────────────────────────────

type pngChunk struct {
	typ  string
	data []byte
}

func describePNG(data []byte) []core.MetaField {
	var fields []core.MetaField
	for _, c := range readPNGChunks(data) {
		switch c.typ {
		case "IHDR":
			if len(c.data) >= 13 {
				w := binary.BigEndian.Uint32(c.data[0:4])
				h := binary.BigEndian.Uint32(c.data[4:8])
				fields = append(fields,
					dimensions(int64(w), int64(h)),
					core.MetaField{Key: "BitDepth", Value: fmt.Sprintf("%d", c.data[8]), Category: CategoryPicture},
				)
			}
		case "tEXt":
			// Format: keyword\0value
			if null := bytes.IndexByte(c.data, 0); null > 0 {
				fields = append(fields, core.MetaField{
					Key:      string(c.data[:null]),
					Value:    string(c.data[null+1:]),
					Category: "PNG tEXt",
				})
			}
		case "eXIf":
			if exif, err := jpg.ReadEXIF(bytes.NewReader(c.data)); err == nil {
				fields = append(fields, exif...)
			}
		case "tIME":
			if len(c.data) == 7 {
				year := binary.BigEndian.Uint16(c.data[0:2])
				fields = append(fields, core.MetaField{
					Key:      "LastModified",
					Value:    fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, c.data[2], c.data[3], c.data[4], c.data[5], c.data[6]),
					Category: "PNG tIME",
				})
			}
		}
	}
	return fields
}

// readPNGChunks splits data into chunks, stopping at IEND or the first
// chunk that runs past the end.
func readPNGChunks(data []byte) []pngChunk {
	const sigLen = 8
	if len(data) < sigLen {
		return nil
	}

	var chunks []pngChunk
	off := sigLen
	for off+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		start := off + 8
		if length < 0 || start+length > len(data) {
			break
		}
		chunks = append(chunks, pngChunk{typ: typ, data: data[start : start+length]})
		if typ == "IEND" {
			break
		}
		off = start + length + 4 // CRC
	}
	return chunks
}

// ─── GIF ─────────────────────────────────────────────────────────────────────

func describeGIF(data []byte) []core.MetaField {
	if len(data) < 10 {
		return nil
	}

	fields := []core.MetaField{
		{Key: "Version", Value: "GIF" + string(data[3:6]), Category: CategoryPicture},
		dimensions(int64(binary.LittleEndian.Uint16(data[6:8])), int64(binary.LittleEndian.Uint16(data[8:10]))),
	}

	// Scan for comment extensions (0x21 0xFE)
	i := 13 // skip header (6) + logical screen descriptor (7)
	if len(data) > 10 && data[10]&0x80 != 0 {
		// Global color table present
		i += (1 << (int(data[10]&0x07) + 1)) * 3
	}

	comments := 0
	for i < len(data)-1 {
		if data[i] == 0x3B { // trailer
			break
		}
		if data[i] != 0x21 || data[i+1] != 0xFE {
			i++
			continue
		}

		i += 2
		var comment []byte
		for i < len(data) {
			blockSize := int(data[i])
			i++
			if blockSize == 0 || i+blockSize > len(data) {
				break
			}
			comment = append(comment, data[i:i+blockSize]...)
			i += blockSize
		}
		if len(comment) > 0 {
			comments++
			fields = append(fields, core.MetaField{
				Key:      fmt.Sprintf("Comment_%d", comments),
				Value:    string(comment),
				Category: "GIF Comment",
			})
		}
	}
	return fields
}

// ─── BMP ─────────────────────────────────────────────────────────────────────

func describeBMP(data []byte) []core.MetaField {
	if len(data) < 30 {
		return nil
	}
	width := int32(binary.LittleEndian.Uint32(data[18:22]))
	height := int32(binary.LittleEndian.Uint32(data[22:26]))
	if height < 0 {
		height = -height // top-down bitmap
	}
	bpp := binary.LittleEndian.Uint16(data[28:30])

	return []core.MetaField{
		dimensions(int64(width), int64(height)),
		{Key: "BitsPerPixel", Value: fmt.Sprintf("%d", bpp), Category: CategoryPicture},
	}
}
