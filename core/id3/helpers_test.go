package id3

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

type testFrame struct {
	id      string
	flags   [2]byte
	payload []byte
}

var testAudio = bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x64}, 64)

// buildTag returns a v2.3 tag with the given frames, padding zero bytes
// inside the declared size, followed by audio.
func buildTag(frames []testFrame, padding int, audio []byte) []byte {
	var body bytes.Buffer
	for _, f := range frames {
		size := EncodeFrameSize(uint32(len(f.payload)))
		body.WriteString(f.id)
		body.Write(size[:])
		body.Write(f.flags[:])
		body.Write(f.payload)
	}
	body.Write(make([]byte, padding))

	size := EncodeHeaderSize(uint32(body.Len()))
	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{3, 0, 0})
	out.Write(size[:])
	out.Write(body.Bytes())
	out.Write(audio)
	return out.Bytes()
}

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return data
}

// frameMap walks path and returns every frame payload by identifier.
func frameMap(t *testing.T, path string) (map[string][]byte, []FrameDescriptor) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = f.Close() }()

	descs, _, err := Frames(f, nil)
	if err != nil {
		t.Fatalf("Frames: %v", err)
	}

	out := make(map[string][]byte, len(descs))
	for _, d := range descs {
		payload, err := readPayload(f, d)
		if err != nil {
			t.Fatalf("readPayload(%s): %v", d.ID, err)
		}
		out[d.ID] = payload
	}
	return out, descs
}

// assertConsistent checks that the header size matches the walked tag end
// and that the file still ends with audio.
func assertConsistent(t *testing.T, path string, audio []byte) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = f.Close() }()

	hdr, err := ReadHeader(f)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	end, err := HeaderEnd(f, nil)
	if err != nil {
		t.Fatalf("HeaderEnd: %v", err)
	}
	if int64(hdr.Size)+HeaderLen != end {
		t.Fatalf("header size=%d, header end=%d", hdr.Size, end)
	}

	data := readFile(t, path)
	if !bytes.HasSuffix(data[end:], audio) {
		t.Fatalf("audio after tag changed: %d bytes follow the tag, want at least %d", len(data)-int(end), len(audio))
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}
