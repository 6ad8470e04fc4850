package id3

import (
	"errors"
	"fmt"
	"io"

	"github.com/ankit-chaubey/id3-surgery/core/tags"
)

// FrameDescriptor locates one frame inside the tag region.
type FrameDescriptor struct {
	ID     string
	Offset int64  // absolute offset of the identifier
	Size   uint32 // declared payload size
}

// End returns the offset just past the frame's payload.
func (d FrameDescriptor) End() int64 {
	return d.Offset + FrameHeaderLen + int64(d.Size)
}

// PayloadOffset returns the absolute offset of the first payload byte.
func (d FrameDescriptor) PayloadOffset() int64 {
	return d.Offset + FrameHeaderLen
}

// Walker iterates the frames of a tag, one descriptor per call to Next.
// The walk ends at the first identifier the registry rejects or at end of
// stream. A Walker cannot be restarted.
type Walker struct {
	r        io.ReadSeeker
	registry *tags.Registry
	pos      int64
	size     int64
	cur      FrameDescriptor
	end      int64
	err      error
	done     bool
	started  bool
}

// NewWalker returns a walker reading frames from r starting at offset start.
// For a file that begins with the tag header start is HeaderLen.
func NewWalker(r io.ReadSeeker, registry *tags.Registry, start int64) *Walker {
	if registry == nil {
		registry = tags.Default()
	}
	return &Walker{r: r, registry: registry, pos: start, end: -1}
}

// Next advances to the next frame. It returns false when the walk ends;
// call Err to tell a failure from the end of the tag.
func (w *Walker) Next() bool {
	if w.done {
		return false
	}

	if !w.started {
		w.started = true
		size, err := w.r.Seek(0, io.SeekEnd)
		if err != nil {
			return w.fail(fmt.Errorf("seek end: %w", err))
		}
		w.size = size
		if _, err := w.r.Seek(w.pos, io.SeekStart); err != nil {
			return w.fail(fmt.Errorf("seek frames: %w", err))
		}
	}

	var hdr [FrameHeaderLen]byte
	n, err := io.ReadFull(w.r, hdr[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return w.fail(fmt.Errorf("read frame header at %d: %w", w.pos, err))
	}

	// A short read at the identifier or size means the stream ran out; the
	// incomplete header is not part of the tag.
	if n < 8 || !w.registry.IsValidBytes(hdr[:4]) {
		w.end = w.pos
		w.done = true
		return false
	}

	var sizeBytes [4]byte
	copy(sizeBytes[:], hdr[4:8])
	d := FrameDescriptor{
		ID:     string(hdr[:4]),
		Offset: w.pos,
		Size:   DecodeFrameSize(sizeBytes),
	}

	if d.End() > w.size {
		return w.fail(fmt.Errorf("%w: %s at offset %d declares %d bytes", ErrTruncatedFrame, d.ID, d.Offset, d.Size))
	}

	w.pos = d.End()
	if _, err := w.r.Seek(w.pos, io.SeekStart); err != nil {
		return w.fail(fmt.Errorf("skip frame %s: %w", d.ID, err))
	}

	w.cur = d
	return true
}

// Frame returns the descriptor produced by the last successful Next.
func (w *Walker) Frame() FrameDescriptor { return w.cur }

// Err returns the first error that stopped the walk, if any.
func (w *Walker) Err() error { return w.err }

// HeaderEnd returns the offset of the first byte after the last frame.
// It is -1 until the walk has ended without error.
func (w *Walker) HeaderEnd() int64 { return w.end }

func (w *Walker) fail(err error) bool {
	w.err = err
	w.done = true
	return false
}

// FindFrame returns the first frame with the given identifier.
func FindFrame(r io.ReadSeeker, registry *tags.Registry, id string) (FrameDescriptor, error) {
	w := NewWalker(r, registry, HeaderLen)
	for w.Next() {
		if w.Frame().ID == id {
			return w.Frame(), nil
		}
	}
	if err := w.Err(); err != nil {
		return FrameDescriptor{}, err
	}

	return FrameDescriptor{}, fmt.Errorf("%w: %s", ErrFrameNotFound, id)
}

// Frames returns every frame descriptor together with the header end.
func Frames(r io.ReadSeeker, registry *tags.Registry) ([]FrameDescriptor, int64, error) {
	var out []FrameDescriptor
	w := NewWalker(r, registry, HeaderLen)
	for w.Next() {
		out = append(out, w.Frame())
	}
	if err := w.Err(); err != nil {
		return nil, 0, err
	}

	return out, w.HeaderEnd(), nil
}

// HeaderEnd walks the tag and returns the offset where the audio begins.
func HeaderEnd(r io.ReadSeeker, registry *tags.Registry) (int64, error) {
	_, end, err := Frames(r, registry)
	return end, err
}
