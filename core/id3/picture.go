package id3

import (
	"bytes"
	"fmt"
	"strings"
)

// MaxPictureStringScan bounds the search for the MIME and description
// terminators of an APIC payload. It is a limit of this package, not of
// the ID3v2 format.
const MaxPictureStringScan = 100

// PictureFrameID is the identifier of the attached picture frame.
const PictureFrameID = "APIC"

// PictureType is the APIC picture type byte.
type PictureType byte

// Picture types used by this package.
const (
	PictureOther      PictureType = 0x00
	PictureFrontCover PictureType = 0x03
	PictureBackCover  PictureType = 0x04
)

var pictureTypeNames = []string{
	"Other",
	"32x32 pixels 'file icon' (PNG only)",
	"Other file icon",
	"Cover (front)",
	"Cover (back)",
	"Leaflet page",
	"Media (e.g. label side of CD)",
	"Lead artist/lead performer/soloist",
	"Artist/performer",
	"Conductor",
	"Band/Orchestra",
	"Composer",
	"Lyricist/text writer",
	"Recording Location",
	"During recording",
	"During performance",
	"Movie/video screen capture",
	"A bright coloured fish",
	"Illustration",
	"Band/artist logotype",
	"Publisher/Studio logotype",
}

func (p PictureType) String() string {
	if int(p) >= len(pictureTypeNames) {
		return fmt.Sprintf("Unknown (%#x)", byte(p))
	}
	return pictureTypeNames[p]
}

// Picture is a decoded APIC payload.
type Picture struct {
	TextEncoding byte
	MIMEType     string
	Type         PictureType
	Description  string
	Data         []byte
}

// Size returns the encoded payload length.
func (p *Picture) Size() int {
	return 1 + len(p.MIMEType) + 1 + 1 + len(p.Description) + 1 + len(p.Data)
}

// Encode returns the APIC payload bytes.
func (p *Picture) Encode() []byte {
	var buf bytes.Buffer
	buf.Grow(p.Size())
	buf.WriteByte(p.TextEncoding)
	buf.WriteString(p.MIMEType)
	buf.WriteByte(0)
	buf.WriteByte(byte(p.Type))
	buf.WriteString(p.Description)
	buf.WriteByte(0)
	buf.Write(p.Data)
	return buf.Bytes()
}

// MIMESuffix returns the part of the MIME type after "image/".
func (p *Picture) MIMESuffix() string {
	return strings.TrimPrefix(p.MIMEType, "image/")
}

// Validate reports whether DecomposePicture can read p back: the MIME type
// and description must be free of NUL and fit the terminator scan.
func (p *Picture) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"MIME type", p.MIMEType},
		{"description", p.Description},
	} {
		if strings.IndexByte(f.value, 0) >= 0 {
			return fmt.Errorf("%w: %s contains a NUL byte", ErrMalformedPicture, f.name)
		}
		if len(f.value) >= MaxPictureStringScan {
			return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrMalformedPicture, f.name, len(f.value), MaxPictureStringScan-1)
		}
	}
	return nil
}

// BuildPicturePayload returns an APIC payload with a zero text encoding and
// MIME type "image/"+mimeSuffix.
func BuildPicturePayload(mimeSuffix string, pictureType PictureType, description string, image []byte) []byte {
	p := Picture{
		MIMEType:    "image/" + mimeSuffix,
		Type:        pictureType,
		Description: description,
		Data:        image,
	}
	return p.Encode()
}

// DecomposePicture splits an APIC payload into its fields. Data aliases
// payload.
func DecomposePicture(payload []byte) (*Picture, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPicture)
	}

	p := &Picture{TextEncoding: payload[0]}
	rest := payload[1:]

	mime, rest, err := scanTerminated(rest, "MIME type")
	if err != nil {
		return nil, err
	}
	p.MIMEType = mime

	if len(rest) < 1 {
		return nil, fmt.Errorf("%w: missing picture type", ErrMalformedPicture)
	}
	p.Type = PictureType(rest[0])
	rest = rest[1:]

	desc, rest, err := scanTerminated(rest, "description")
	if err != nil {
		return nil, err
	}
	p.Description = desc
	p.Data = rest

	return p, nil
}

// scanTerminated returns the NUL-terminated string at the start of b and the
// bytes after the terminator.
func scanTerminated(b []byte, field string) (string, []byte, error) {
	window := b
	if len(window) > MaxPictureStringScan {
		window = window[:MaxPictureStringScan]
	}

	i := bytes.IndexByte(window, 0)
	if i < 0 {
		return "", nil, fmt.Errorf("%w: %s not terminated within %d bytes", ErrMalformedPicture, field, MaxPictureStringScan)
	}

	return string(b[:i]), b[i+1:], nil
}
