package id3

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPictureRoundTrip(t *testing.T) {
	t.Parallel()

	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x00, 0x01, 0x02}
	payload := BuildPicturePayload("jpeg", PictureFrontCover, "cover.jpg", image)

	wantLen := 1 + len("image/jpeg") + 1 + 1 + len("cover.jpg") + 1 + len(image)
	if len(payload) != wantLen {
		t.Fatalf("payload length=%d, want %d", len(payload), wantLen)
	}

	pic, err := DecomposePicture(payload)
	if err != nil {
		t.Fatalf("DecomposePicture: %v", err)
	}
	if pic.TextEncoding != 0 || pic.MIMEType != "image/jpeg" || pic.Type != PictureFrontCover || pic.Description != "cover.jpg" {
		t.Fatalf("decoded picture=%+v", pic)
	}
	if !bytes.Equal(pic.Data, image) {
		t.Fatalf("image bytes changed")
	}
	if pic.MIMESuffix() != "jpeg" {
		t.Fatalf("MIMESuffix=%q", pic.MIMESuffix())
	}
	if !bytes.Equal(pic.Encode(), payload) {
		t.Fatalf("Encode does not reproduce payload")
	}
}

func TestPictureValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pic  Picture
		ok   bool
	}{
		{"plain", Picture{MIMEType: "image/png", Description: "cover"}, true},
		{"empty", Picture{}, true},
		{"longest description", Picture{MIMEType: "image/png", Description: strings.Repeat("d", MaxPictureStringScan-1)}, true},
		{"description too long", Picture{MIMEType: "image/png", Description: strings.Repeat("d", MaxPictureStringScan)}, false},
		{"MIME type too long", Picture{MIMEType: "image/" + strings.Repeat("x", MaxPictureStringScan)}, false},
		{"NUL in description", Picture{MIMEType: "image/png", Description: "a\x00b"}, false},
		{"NUL in MIME type", Picture{MIMEType: "image/\x00png"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.pic.Validate()
			if tc.ok {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				if _, err := DecomposePicture(tc.pic.Encode()); err != nil {
					t.Fatalf("DecomposePicture after Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrMalformedPicture) {
				t.Fatalf("Validate error=%v, want ErrMalformedPicture", err)
			}
		})
	}
}

func TestDecomposePictureMalformed(t *testing.T) {
	t.Parallel()

	long := bytes.Repeat([]byte("a"), MaxPictureStringScan+10)

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "unterminated mime", payload: append([]byte{0}, long...)},
		{name: "missing type", payload: []byte("\x00image/png\x00")},
		{name: "unterminated description", payload: append([]byte("\x00image/png\x00\x03"), long...)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := DecomposePicture(tc.payload); !errors.Is(err, ErrMalformedPicture) {
				t.Fatalf("DecomposePicture error=%v, want ErrMalformedPicture", err)
			}
		})
	}
}

func TestDecomposePictureKeepsBinaryData(t *testing.T) {
	t.Parallel()

	// Image data may contain NUL bytes anywhere after the description.
	image := []byte{0, 0, 1, 0, 0xFF}
	pic, err := DecomposePicture(BuildPicturePayload("png", PictureOther, "", image))
	if err != nil {
		t.Fatalf("DecomposePicture: %v", err)
	}
	if pic.Description != "" || !bytes.Equal(pic.Data, image) {
		t.Fatalf("decoded picture=%+v", pic)
	}
}

func TestPictureTypeString(t *testing.T) {
	t.Parallel()

	if got := PictureFrontCover.String(); got != "Cover (front)" {
		t.Fatalf("PictureFrontCover=%q", got)
	}
	if got := PictureType(0x40).String(); got != "Unknown (0x40)" {
		t.Fatalf("PictureType(0x40)=%q", got)
	}
}
