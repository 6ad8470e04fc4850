package id3

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/tags"
)

// ConfirmFunc answers a yes/no question. It is asked before a missing frame
// is created.
type ConfirmFunc func(prompt string) bool

// ImageClassifier maps an image file name to the MIME suffix written after
// "image/", reporting false for unsupported images.
type ImageClassifier func(filename string) (string, bool)

// Options configures an Editor.
type Options struct {
	// Registry validates frame identifiers. Nil means tags.Default().
	Registry *tags.Registry
	// Confirm decides whether a missing frame is created. Nil declines.
	Confirm ConfirmFunc
	// Classifier resolves image MIME suffixes for SetPicture. Nil means
	// core.ImageMIMESuffix.
	Classifier ImageClassifier
	// Logger receives progress lines. Nil discards them.
	Logger *log.Logger
}

func (o *Options) applyDefaults() {
	if o.Registry == nil {
		o.Registry = tags.Default()
	}
	if o.Confirm == nil {
		o.Confirm = func(string) bool { return false }
	}
	if o.Classifier == nil {
		o.Classifier = core.ImageMIMESuffix
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
}

// Action names what a successful edit did.
type Action uint8

const (
	ActionEdited Action = iota + 1
	ActionAdded
	ActionPictureReplaced
	ActionPictureAdded
	ActionRemoved
)

func (a Action) String() string {
	switch a {
	case ActionEdited:
		return "edited"
	case ActionAdded:
		return "added"
	case ActionPictureReplaced:
		return "picture replaced"
	case ActionPictureAdded:
		return "picture added"
	case ActionRemoved:
		return "removed"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Result describes a committed edit.
type Result struct {
	Action    Action
	FrameID   string
	FrameSize uint32 // payload size written, zero for removals
	TagSize   uint32 // header size field after the edit
}

// Editor rewrites the tag of MP3 files. Every call opens and closes its own
// files; an Editor holds no per-file state.
type Editor struct {
	registry   *tags.Registry
	confirm    ConfirmFunc
	classifier ImageClassifier
	log        *log.Logger
}

// NewEditor returns an Editor configured by opts.
func NewEditor(opts Options) *Editor {
	opts.applyDefaults()
	return &Editor{
		registry:   opts.Registry,
		confirm:    opts.Confirm,
		classifier: opts.Classifier,
		log:        opts.Logger,
	}
}

// EditFrame replaces the payload of the first id frame with data. When the
// frame is missing the confirm callback decides whether it is added instead;
// a declined confirmation returns ErrFrameNotFound and leaves the file alone.
func (e *Editor) EditFrame(path string, id string, data []byte) (*Result, error) {
	if err := e.checkTextFrame(id, data); err != nil {
		return nil, err
	}

	d, err := e.locate(path, id)
	if errors.Is(err, ErrFrameNotFound) {
		if !e.confirm(e.missingPrompt(id)) {
			return nil, fmt.Errorf("edit %s: %w", id, err)
		}
		return e.add(path, id, data)
	}
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", id, err)
	}

	e.log.Printf("found %s at offset %d (%d bytes)", id, d.Offset, d.Size)

	tagSize, err := e.rewrite(path, spliceReplace(d, data))
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", id, err)
	}

	return &Result{Action: ActionEdited, FrameID: id, FrameSize: uint32(len(data)), TagSize: tagSize}, nil
}

// AddFrame appends a new id frame. It is placed in front of the picture
// frame when one exists, otherwise at the end of the tag.
func (e *Editor) AddFrame(path string, id string, data []byte) (*Result, error) {
	if err := e.checkTextFrame(id, data); err != nil {
		return nil, err
	}
	return e.add(path, id, data)
}

func (e *Editor) add(path string, id string, data []byte) (*Result, error) {
	frames, end, err := e.scan(path)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", id, err)
	}

	at := end
	for _, d := range frames {
		if d.ID == PictureFrameID {
			at = d.Offset
			break
		}
	}

	e.log.Printf("inserting %s at offset %d", id, at)

	tagSize, err := e.rewrite(path, spliceInsert(at, id, data))
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", id, err)
	}

	return &Result{Action: ActionAdded, FrameID: id, FrameSize: uint32(len(data)), TagSize: tagSize}, nil
}

// PictureInput describes the image for SetPicture.
type PictureInput struct {
	// ImagePath is read when Data is nil and names the image for
	// classification and the default description.
	ImagePath string
	Data      []byte
	// MIMESuffix overrides classification, e.g. "png".
	MIMESuffix string
	// Description defaults to the base name of ImagePath.
	Description string
	// Type overrides the picture type. Nil keeps the existing frame's type,
	// or uses PictureOther for a new frame.
	Type *PictureType
}

// SetPicture replaces the APIC frame in place, or after confirmation adds
// one at the end of the tag.
func (e *Editor) SetPicture(path string, in PictureInput) (*Result, error) {
	pic, err := e.newPicture(in)
	if err != nil {
		return nil, err
	}

	d, err := e.locate(path, PictureFrameID)
	if errors.Is(err, ErrFrameNotFound) {
		if !e.confirm(e.missingPrompt(PictureFrameID)) {
			return nil, fmt.Errorf("set picture: %w", err)
		}
		return e.addPicture(path, pic)
	}
	if err != nil {
		return nil, fmt.Errorf("set picture: %w", err)
	}

	if old, err := e.readPicture(path, d); err != nil {
		e.log.Printf("existing picture unreadable, using defaults: %v", err)
	} else {
		pic.TextEncoding = old.TextEncoding
		if in.Type == nil {
			pic.Type = old.Type
		}
	}

	payload := pic.Encode()
	tagSize, err := e.rewrite(path, spliceReplace(d, payload))
	if err != nil {
		return nil, fmt.Errorf("set picture: %w", err)
	}

	return &Result{Action: ActionPictureReplaced, FrameID: PictureFrameID, FrameSize: uint32(len(payload)), TagSize: tagSize}, nil
}

func (e *Editor) addPicture(path string, pic *Picture) (*Result, error) {
	_, end, err := e.scan(path)
	if err != nil {
		return nil, fmt.Errorf("add picture: %w", err)
	}

	payload := pic.Encode()
	e.log.Printf("inserting %s (%d bytes) at offset %d", PictureFrameID, len(payload), end)

	tagSize, err := e.rewrite(path, spliceInsert(end, PictureFrameID, payload))
	if err != nil {
		return nil, fmt.Errorf("add picture: %w", err)
	}

	return &Result{Action: ActionPictureAdded, FrameID: PictureFrameID, FrameSize: uint32(len(payload)), TagSize: tagSize}, nil
}

// RemoveFrame drops the first id frame from the tag.
func (e *Editor) RemoveFrame(path string, id string) (*Result, error) {
	if !e.registry.IsValid(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTag, id)
	}

	d, err := e.locate(path, id)
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", id, err)
	}

	tagSize, err := e.rewrite(path, spliceRemove(d))
	if err != nil {
		return nil, fmt.Errorf("remove %s: %w", id, err)
	}

	return &Result{Action: ActionRemoved, FrameID: id, TagSize: tagSize}, nil
}

func (e *Editor) checkTextFrame(id string, data []byte) error {
	if !e.registry.IsValid(id) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, id)
	}
	if id == PictureFrameID {
		return ErrPictureFrame
	}
	if len(data) > maxFramePayload {
		return fmt.Errorf("%w: %s payload is %d bytes", ErrSizeOverflow, id, len(data))
	}
	return nil
}

func (e *Editor) missingPrompt(id string) string {
	return fmt.Sprintf("frame %s (%s) not found, create it?", id, e.registry.Describe(id))
}

func (e *Editor) newPicture(in PictureInput) (*Picture, error) {
	data := in.Data
	if data == nil {
		if in.ImagePath == "" {
			return nil, fmt.Errorf("%w: no image given", ErrUnsupportedImage)
		}
		b, err := os.ReadFile(in.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		data = b
	}

	suffix := in.MIMESuffix
	if suffix == "" {
		var ok bool
		if suffix, ok = e.classifier(in.ImagePath); !ok {
			// Fall back to the image's own magic bytes.
			if suffix, ok = core.ImageMIMESuffixBytes(data); !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, in.ImagePath)
			}
		}
	}

	desc := in.Description
	if desc == "" && in.ImagePath != "" {
		desc = filepath.Base(in.ImagePath)
	}

	pic := &Picture{
		MIMEType:    "image/" + suffix,
		Type:        PictureOther,
		Description: desc,
		Data:        data,
	}
	if in.Type != nil {
		pic.Type = *in.Type
	}
	if err := pic.Validate(); err != nil {
		return nil, err
	}

	if pic.Size() > maxFramePayload {
		return nil, fmt.Errorf("%w: picture payload is %d bytes", ErrSizeOverflow, pic.Size())
	}

	return pic, nil
}

// locate validates the file and finds the first id frame.
func (e *Editor) locate(path string, id string) (FrameDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return FrameDescriptor{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := ReadHeader(f); err != nil {
		return FrameDescriptor{}, err
	}

	return FindFrame(f, e.registry, id)
}

// scan validates the file and returns all frames and the header end.
func (e *Editor) scan(path string) ([]FrameDescriptor, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := ReadHeader(f); err != nil {
		return nil, 0, err
	}

	return Frames(f, e.registry)
}

func (e *Editor) readPicture(path string, d FrameDescriptor) (*Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	payload, err := readPayload(f, d)
	if err != nil {
		return nil, err
	}

	return DecomposePicture(payload)
}

// readPayload reads the payload of frame d.
func readPayload(r io.ReaderAt, d FrameDescriptor) ([]byte, error) {
	payload := make([]byte, d.Size)
	if _, err := r.ReadAt(payload, d.PayloadOffset()); err != nil && !(errors.Is(err, io.EOF) && d.Size == 0) {
		return nil, fmt.Errorf("read %s payload: %w", d.ID, err)
	}
	return payload, nil
}
