package id3

import "errors"

// Sentinel errors for tag operations. Use errors.Is in callers.
var (
	// ErrInvalidFile means the file does not start with the "ID3" magic.
	ErrInvalidFile = errors.New("invalid file: missing ID3v2 header")
	// ErrInvalidTag means the frame identifier is not in the registry.
	ErrInvalidTag = errors.New("invalid frame identifier")
	// ErrFrameNotFound means the target frame is absent from the tag.
	ErrFrameNotFound = errors.New("frame not found")
	// ErrTruncatedFrame means a frame declares more payload than the file holds.
	ErrTruncatedFrame = errors.New("frame payload runs past end of file")
	// ErrSizeOverflow means a size exceeds what the header or frame field can hold.
	ErrSizeOverflow = errors.New("size exceeds ID3v2 field limit")
	// ErrMalformedPicture means an APIC payload, read or about to be written,
	// has a MIME type or description that does not terminate within the scan bound.
	ErrMalformedPicture = errors.New("malformed picture payload")
	// ErrPictureFrame means a text operation was aimed at the APIC frame.
	ErrPictureFrame = errors.New("APIC frame must be set with a picture")
	// ErrUnsupportedImage means the image type cannot be embedded.
	ErrUnsupportedImage = errors.New("unsupported image type")
	// ErrInvalidExtractPath means the picture description is not a usable file name.
	ErrInvalidExtractPath = errors.New("invalid extract path")
)
