package core

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FormatID enumerates every recognised format.
type FormatID string

const (
	FmtJPEG FormatID = "jpeg"
	FmtPNG  FormatID = "png"
	FmtGIF  FormatID = "gif"
	FmtBMP  FormatID = "bmp"
	FmtWebP FormatID = "webp"
	FmtTIFF FormatID = "tiff"

	FmtMP3 FormatID = "mp3"

	FmtUnknown FormatID = "unknown"
)

// extMap maps lowercase extensions to format IDs.
var extMap = map[string]FormatID{
	".jpg":  FmtJPEG,
	".jpeg": FmtJPEG,
	".png":  FmtPNG,
	".gif":  FmtGIF,
	".bmp":  FmtBMP,
	".webp": FmtWebP,
	".tiff": FmtTIFF,
	".tif":  FmtTIFF,

	".mp3": FmtMP3,
}

// mimeSuffix is the part after "image/" written into picture frames, for
// the image formats that may be embedded.
var mimeSuffix = map[FormatID]string{
	FmtJPEG: "jpeg",
	FmtPNG:  "png",
	FmtBMP:  "bmp",
	FmtGIF:  "gif",
}

// DetectFormat returns the FormatID for the given file, first by reading
// magic bytes and falling back to extension.
func DetectFormat(path string) (FormatID, error) {
	f, err := os.Open(path)
	if err != nil {
		return FmtUnknown, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 16)
	n, err := io.ReadFull(f, buf)
	if err != nil && n == 0 {
		return FmtUnknown, err
	}

	if id := DetectBytes(buf[:n]); id != FmtUnknown {
		return id, nil
	}

	return FormatByExt(path), nil
}

// FormatByExt maps the extension of name to a format.
func FormatByExt(name string) FormatID {
	if id, ok := extMap[strings.ToLower(filepath.Ext(name))]; ok {
		return id
	}
	return FmtUnknown
}

// DetectBytes identifies a format from its leading bytes.
func DetectBytes(b []byte) FormatID {
	if len(b) < 4 {
		return FmtUnknown
	}
	switch {
	// JPEG: FF D8 FF
	case b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return FmtJPEG
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	case bytes.HasPrefix(b, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return FmtPNG
	// GIF: GIF87a or GIF89a
	case bytes.HasPrefix(b, []byte("GIF87a")) || bytes.HasPrefix(b, []byte("GIF89a")):
		return FmtGIF
	// WebP: RIFF????WEBP
	case len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return FmtWebP
	// TIFF: 49 49 2A 00 (little-endian) or 4D 4D 00 2A (big-endian)
	case bytes.HasPrefix(b, []byte{0x49, 0x49, 0x2A, 0x00}) ||
		bytes.HasPrefix(b, []byte{0x4D, 0x4D, 0x00, 0x2A}):
		return FmtTIFF
	// BMP: 42 4D
	case b[0] == 0x42 && b[1] == 0x4D:
		return FmtBMP
	// MP3: ID3 tag or FF FB / FF F3 / FF F2 sync
	case bytes.HasPrefix(b, []byte("ID3")):
		return FmtMP3
	case b[0] == 0xFF && (b[1]&0xE0 == 0xE0):
		return FmtMP3
	}
	return FmtUnknown
}

// ImageMIMESuffix classifies an image by file name for embedding:
// jpg and jpeg map to "jpeg"; png, bmp and gif map to themselves.
func ImageMIMESuffix(filename string) (string, bool) {
	s, ok := mimeSuffix[FormatByExt(filename)]
	return s, ok
}

// ImageMIMESuffixBytes classifies image bytes by their magic.
func ImageMIMESuffixBytes(b []byte) (string, bool) {
	s, ok := mimeSuffix[DetectBytes(b)]
	return s, ok
}

// MediaTypeFor returns the broad media category for a format.
func MediaTypeFor(id FormatID) string {
	switch id {
	case FmtJPEG, FmtPNG, FmtGIF, FmtBMP, FmtWebP, FmtTIFF:
		return "image"
	case FmtMP3:
		return "audio"
	default:
		return "unknown"
	}
}
