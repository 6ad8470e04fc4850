package id3

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// HeaderLen is the size of the tag header at the start of the file.
	HeaderLen = 10
	// FrameHeaderLen is the size of identifier, size and flags of a frame.
	FrameHeaderLen = 10
)

var magic = []byte("ID3")

// Header is the 10-byte tag header. Version and Flags are carried through
// edits untouched.
type Header struct {
	Version [2]byte
	Flags   byte
	Size    uint32 // declared tag size, excluding the header itself
}

// VersionString returns the version as "ID3v2.major.revision".
func (h Header) VersionString() string {
	return fmt.Sprintf("ID3v2.%d.%d", h.Version[0], h.Version[1])
}

// ReadHeader reads and validates the tag header at the start of r.
func ReadHeader(r io.ReadSeeker) (Header, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Header{}, fmt.Errorf("seek header: %w", err)
	}

	var raw [HeaderLen]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, ErrInvalidFile
		}
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	if !bytes.Equal(raw[:3], magic) {
		return Header{}, ErrInvalidFile
	}

	return Header{
		Version: [2]byte{raw[3], raw[4]},
		Flags:   raw[5],
		Size:    DecodeHeaderSize([4]byte{raw[6], raw[7], raw[8], raw[9]}),
	}, nil
}

// IsTagged reports whether r starts with the "ID3" magic.
func IsTagged(r io.ReadSeeker) (bool, error) {
	_, err := ReadHeader(r)
	if err == ErrInvalidFile {
		return false, nil
	}
	return err == nil, err
}
