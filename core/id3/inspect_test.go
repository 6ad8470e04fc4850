package id3

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInspectorList(t *testing.T) {
	t.Parallel()

	image := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	frames := append(baseFrames(),
		testFrame{id: "APIC", payload: BuildPicturePayload("jpeg", PictureFrontCover, "front.jpg", image)},
	)
	data := buildTag(frames, 10, testAudio)
	path := writeFixture(t, "song.mp3", data)

	info, err := NewInspector(nil).List(path)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if info.Header.VersionString() != "ID3v2.3.0" {
		t.Fatalf("version=%s", info.Header.VersionString())
	}
	if len(info.Frames) != 4 {
		t.Fatalf("List returned %d frames, want 4", len(info.Frames))
	}
	if want := int64(HeaderLen) + int64(info.Header.Size) - 10; info.HeaderEnd != want {
		t.Fatalf("HeaderEnd=%d, want %d", info.HeaderEnd, want)
	}

	title := info.Frames[0]
	if title.ID != "TIT2" || title.Text != "Hello" || title.Description != "Title/songname/content description" {
		t.Fatalf("title frame=%+v", title)
	}
	if info.Frames[1].Flags != [2]byte{0x40, 0x00} || info.Frames[1].Text != "Some Artist" {
		t.Fatalf("artist frame=%+v", info.Frames[1])
	}

	pic := info.Frames[3]
	if pic.Picture == nil || !bytes.Equal(pic.Picture.Data, image) {
		t.Fatalf("picture frame=%+v", pic)
	}
	if !strings.Contains(pic.Text, "front.jpg") || !strings.Contains(pic.Text, "Cover (front)") {
		t.Fatalf("picture text=%q", pic.Text)
	}
}

func TestInspectorListMalformedPicture(t *testing.T) {
	t.Parallel()

	frames := []testFrame{
		{id: "TIT2", payload: []byte("\x00x")},
		{id: "APIC", payload: append([]byte{0}, bytes.Repeat([]byte("m"), 200)...)},
	}
	path := writeFixture(t, "song.mp3", buildTag(frames, 0, testAudio))
	inspector := NewInspector(nil)

	info, err := inspector.List(path)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(info.Frames) != 2 || info.Frames[1].Picture != nil {
		t.Fatalf("frames=%+v", info.Frames)
	}
	if !strings.Contains(info.Frames[1].Text, ErrMalformedPicture.Error()) {
		t.Fatalf("picture text=%q", info.Frames[1].Text)
	}

	if !errors.Is(info.Frames[1].PictureErr, ErrMalformedPicture) {
		t.Fatalf("PictureErr=%v", info.Frames[1].PictureErr)
	}

	_, err = inspector.Picture(path)
	if !errors.Is(err, ErrMalformedPicture) {
		t.Fatalf("Picture error=%v, want ErrMalformedPicture", err)
	}
	if n := strings.Count(err.Error(), ErrMalformedPicture.Error()); n != 1 {
		t.Fatalf("Picture error=%q repeats its prefix", err)
	}
}

func TestInspectorFrame(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "song.mp3", buildTag(baseFrames(), 0, testAudio))
	inspector := NewInspector(nil)

	fi, err := inspector.Frame(path, "TALB")
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if fi.Text != "Some Album" || fi.Size != uint32(len("\x00Some Album")) {
		t.Fatalf("frame=%+v", fi)
	}

	if _, err := inspector.Frame(path, "TCOM"); !errors.Is(err, ErrFrameNotFound) {
		t.Fatalf("Frame(TCOM) error=%v, want ErrFrameNotFound", err)
	}
	if _, err := inspector.Frame(path, "XXXX"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("Frame(XXXX) error=%v, want ErrInvalidTag", err)
	}
}

func TestExtractPicture(t *testing.T) {
	t.Parallel()

	image := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}

	tests := []struct {
		name        string
		description string
		wantName    string
		wantErr     error
	}{
		{name: "named", description: "art.png", wantName: "art.png"},
		{name: "empty description", description: "", wantName: "cover.png"},
		{name: "parent traversal", description: "../escape.png", wantErr: ErrInvalidExtractPath},
		{name: "nested path", description: "a/b.png", wantErr: ErrInvalidExtractPath},
		{name: "dot dot", description: "..", wantErr: ErrInvalidExtractPath},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			frames := []testFrame{{id: "APIC", payload: BuildPicturePayload("png", PictureOther, tc.description, image)}}
			path := writeFixture(t, "song.mp3", buildTag(frames, 0, testAudio))
			outDir := filepath.Join(t.TempDir(), "out")

			got, err := NewInspector(nil).ExtractPicture(path, outDir)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ExtractPicture error=%v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractPicture: %v", err)
			}
			if got != filepath.Join(outDir, tc.wantName) {
				t.Fatalf("ExtractPicture wrote %s, want %s", got, tc.wantName)
			}

			written, err := os.ReadFile(got)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if !bytes.Equal(written, image) {
				t.Fatalf("extracted bytes=%v, want %v", written, image)
			}
		})
	}
}

func TestExtractPictureWithoutPicture(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, "song.mp3", buildTag(baseFrames(), 0, testAudio))
	if _, err := NewInspector(nil).ExtractPicture(path, t.TempDir()); !errors.Is(err, ErrFrameNotFound) {
		t.Fatalf("ExtractPicture error=%v, want ErrFrameNotFound", err)
	}
}
