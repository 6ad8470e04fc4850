package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ankit-chaubey/id3-surgery/core/id3"
)

// tagged returns a minimal v2.3 tag holding one TIT2 frame, then audio.
func tagged(title string) []byte {
	frameSize := id3.EncodeFrameSize(uint32(len(title)))
	frame := append([]byte("TIT2"), frameSize[:]...)
	frame = append(frame, 0, 0)
	frame = append(frame, title...)

	size := id3.EncodeHeaderSize(uint32(len(frame)))
	out := append([]byte("ID3\x03\x00\x00"), size[:]...)
	out = append(out, frame...)
	return append(out, 0xFF, 0xFB, 0x90, 0x64)
}

func writeTree(t *testing.T, files map[string][]byte) string {
	t.Helper()

	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return root
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel: %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScan(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string][]byte{
		"a.mp3":             nil,
		"B.MP3":             nil,
		"notes.txt":         nil,
		"live/c.mp3":        nil,
		"live/tmp/d.mp3":    nil,
		"live/tmp/keep.mp3": nil,
	})

	cases := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "default",
			opts: Options{},
			want: []string{"B.MP3", "a.mp3", "live/c.mp3", "live/tmp/d.mp3", "live/tmp/keep.mp3"},
		},
		{
			name: "exclude dir",
			opts: Options{Exclude: []string{"tmp/"}},
			want: []string{"B.MP3", "a.mp3", "live/c.mp3"},
		},
		{
			name: "case sensitive",
			opts: Options{CaseSensitive: true, Include: []string{"*.mp3"}, Exclude: []string{"live/**"}},
			want: []string{"a.mp3"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			files, err := Scan(root, tc.opts)
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			got := relPaths(t, root, files)
			if len(got) != len(tc.want) {
				t.Fatalf("Scan=%v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Scan=%v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestEditAll(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string][]byte{
		"one.mp3":   tagged("One"),
		"two.mp3":   tagged("Two"),
		"plain.mp3": {0xFF, 0xFB, 0x90, 0x64},
	})

	files, err := Scan(root, Options{})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	outcomes := EditAll(id3.NewEditor(id3.Options{}), files, "TIT2", []byte("Same"))
	if len(outcomes) != 3 || Failed(outcomes) != 1 {
		t.Fatalf("outcomes=%+v", outcomes)
	}

	inspector := id3.NewInspector(nil)
	for _, o := range outcomes {
		if filepath.Base(o.Path) == "plain.mp3" {
			if !errors.Is(o.Err, id3.ErrInvalidFile) {
				t.Fatalf("plain.mp3 error=%v, want ErrInvalidFile", o.Err)
			}
			continue
		}
		if o.Err != nil {
			t.Fatalf("%s: %v", o.Path, o.Err)
		}
		fi, err := inspector.Frame(o.Path, "TIT2")
		if err != nil {
			t.Fatalf("Frame: %v", err)
		}
		if fi.Text != "Same" {
			t.Fatalf("%s title=%q", o.Path, fi.Text)
		}
	}
}
