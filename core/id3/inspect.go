package id3

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ankit-chaubey/id3-surgery/core/tags"
)

// FrameInfo is one frame as shown to users.
type FrameInfo struct {
	ID          string
	Description string
	Offset      int64
	Size        uint32
	Flags       [2]byte
	// Text is the rendered payload. For APIC frames it summarises Picture.
	Text    string
	Picture *Picture
	// PictureErr is set when an APIC payload could not be decomposed.
	PictureErr error
	// Payload holds the raw bytes for non-picture frames.
	Payload []byte
}

// TagInfo is the decoded tag of one file.
type TagInfo struct {
	Path      string
	Header    Header
	HeaderEnd int64
	Frames    []FrameInfo
}

// Inspector reads tags without modifying files.
type Inspector struct {
	registry *tags.Registry
}

// NewInspector returns an Inspector validating identifiers against registry.
// A nil registry means tags.Default().
func NewInspector(registry *tags.Registry) *Inspector {
	if registry == nil {
		registry = tags.Default()
	}
	return &Inspector{registry: registry}
}

// List returns the header and every frame of the tag at path.
func (in *Inspector) List(path string) (*TagInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	hdr, err := ReadHeader(f)
	if err != nil {
		return nil, err
	}

	descs, end, err := Frames(f, in.registry)
	if err != nil {
		return nil, err
	}

	info := &TagInfo{Path: path, Header: hdr, HeaderEnd: end}
	for _, d := range descs {
		fi, err := in.frameInfo(f, d)
		if err != nil {
			return nil, err
		}
		info.Frames = append(info.Frames, fi)
	}

	return info, nil
}

// Frame returns the first frame with identifier id.
func (in *Inspector) Frame(path string, id string) (*FrameInfo, error) {
	if !in.registry.IsValid(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTag, id)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := ReadHeader(f); err != nil {
		return nil, err
	}

	d, err := FindFrame(f, in.registry, id)
	if err != nil {
		return nil, err
	}

	fi, err := in.frameInfo(f, d)
	if err != nil {
		return nil, err
	}
	return &fi, nil
}

// Picture returns the decoded APIC frame of path.
func (in *Inspector) Picture(path string) (*Picture, error) {
	fi, err := in.Frame(path, PictureFrameID)
	if err != nil {
		return nil, err
	}
	if fi.PictureErr != nil {
		return nil, fi.PictureErr
	}
	return fi.Picture, nil
}

// ExtractPicture writes the embedded image to outDir and returns the file
// written. The file is named after the picture description; an empty
// description becomes "cover.<ext>".
func (in *Inspector) ExtractPicture(path string, outDir string) (string, error) {
	pic, err := in.Picture(path)
	if err != nil {
		return "", err
	}

	name, err := extractName(pic)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	out := filepath.Join(outDir, name)
	if err := os.WriteFile(out, pic.Data, 0o644); err != nil {
		return "", fmt.Errorf("write picture: %w", err)
	}

	return out, nil
}

// extractName validates the description as a plain file name.
func extractName(pic *Picture) (string, error) {
	name := strings.TrimSpace(pic.Description)
	if name == "" {
		ext := pic.MIMESuffix()
		if ext == "" || strings.ContainsAny(ext, `/\`) {
			ext = "bin"
		}
		return "cover." + ext, nil
	}

	if name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, 0) ||
		filepath.IsAbs(name) ||
		filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtractPath, pic.Description)
	}

	return name, nil
}

func (in *Inspector) frameInfo(f *os.File, d FrameDescriptor) (FrameInfo, error) {
	fi := FrameInfo{
		ID:          d.ID,
		Description: in.registry.Describe(d.ID),
		Offset:      d.Offset,
		Size:        d.Size,
	}

	if _, err := f.ReadAt(fi.Flags[:], d.Offset+8); err != nil {
		return fi, fmt.Errorf("read %s flags: %w", d.ID, err)
	}

	payload, err := readPayload(f, d)
	if err != nil {
		return fi, err
	}

	if d.ID != PictureFrameID {
		fi.Payload = payload
		fi.Text = RenderText(d.ID, payload)
		return fi, nil
	}

	// A broken picture is reported in the listing rather than failing it.
	pic, err := DecomposePicture(payload)
	if err != nil {
		fi.PictureErr = err
		fi.Text = err.Error()
		return fi, nil
	}
	fi.Picture = pic
	fi.Text = fmt.Sprintf("%s, %s, %q, %d bytes", pic.MIMEType, pic.Type, pic.Description, len(pic.Data))

	return fi, nil
}
