package id3

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/ankit-chaubey/id3-surgery/core/tags"
)

// maxFramePayload keeps every offset representable as a signed 32-bit value.
const maxFramePayload = math.MaxInt32 - HeaderLen - FrameHeaderLen

// splicer writes the edited copy of src to dst.
type splicer func(dst io.Writer, src *os.File) error

// rewrite produces the edited file in two passes and swaps it in for path.
// The first pass applies splice, the second recomputes the header size
// against the final tag length. The original is only replaced when both
// passes succeed; temporary files never outlive the call.
func (e *Editor) rewrite(path string, splice splicer) (uint32, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}

	first, err := runPass(path, splice)
	if err != nil {
		return 0, fmt.Errorf("rewrite frames: %w", err)
	}
	defer func() { _ = removeIfExists(first) }()

	var tagSize uint32
	second, err := runPass(first, func(dst io.Writer, src *os.File) error {
		n, err := finalizeHeader(dst, src, e.registry)
		tagSize = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("rewrite header size: %w", err)
	}

	if err := commitFile(second, path, info.Mode().Perm()); err != nil {
		_ = removeIfExists(second)
		return 0, err
	}

	e.log.Printf("committed %s (tag size %d)", path, tagSize)
	return tagSize, nil
}

// runPass streams srcPath through splice into a sibling temporary file and
// returns the temporary file's name.
func runPass(srcPath string, splice splicer) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(srcPath), "."+filepath.Base(srcPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temporary file: %w", err)
	}

	name := tmp.Name()
	discard := func(cause error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", cause
	}

	w := bufio.NewWriterSize(tmp, 64<<10)
	if err := splice(w, src); err != nil {
		return discard(err)
	}
	if err := w.Flush(); err != nil {
		return discard(fmt.Errorf("flush temporary file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return discard(fmt.Errorf("sync temporary file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close temporary file: %w", err)
	}

	return name, nil
}

// commitFile replaces dst with src.
func commitFile(src string, dst string, perm os.FileMode) error {
	if err := os.Chmod(src, perm); err != nil {
		return fmt.Errorf("chmod temporary file: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// finalizeHeader copies src to dst with the header size field recomputed
// from a fresh walk. It returns the new size.
func finalizeHeader(dst io.Writer, src *os.File, registry *tags.Registry) (uint32, error) {
	if _, err := ReadHeader(src); err != nil {
		return 0, err
	}

	end, err := HeaderEnd(src, registry)
	if err != nil {
		return 0, err
	}

	size, err := tagSize(end)
	if err != nil {
		return 0, err
	}

	encoded := EncodeHeaderSize(size)
	if err := copyRange(dst, src, 0, 6); err != nil {
		return 0, err
	}
	if _, err := dst.Write(encoded[:]); err != nil {
		return 0, fmt.Errorf("write header size: %w", err)
	}
	if err := copyRange(dst, src, HeaderLen, int64(size)); err != nil {
		return 0, err
	}
	if err := copyTail(dst, src, end); err != nil {
		return 0, err
	}

	return size, nil
}

// tagSize returns the header size field for a tag whose frames end at end.
func tagSize(end int64) (uint32, error) {
	size := end - HeaderLen
	if size < 0 || size > MaxHeaderSize {
		return 0, fmt.Errorf("%w: tag is %d bytes", ErrSizeOverflow, size)
	}
	return uint32(size), nil
}

// spliceReplace swaps the payload of frame d, keeping its identifier and
// flags.
func spliceReplace(d FrameDescriptor, payload []byte) splicer {
	return func(dst io.Writer, src *os.File) error {
		if err := copyRange(dst, src, 0, d.Offset+4); err != nil {
			return err
		}

		var flags [2]byte
		if _, err := src.ReadAt(flags[:], d.Offset+8); err != nil {
			return fmt.Errorf("read %s flags: %w", d.ID, err)
		}

		size := EncodeFrameSize(uint32(len(payload)))
		if err := writeAll(dst, size[:], flags[:], payload); err != nil {
			return fmt.Errorf("write %s: %w", d.ID, err)
		}

		return copyTail(dst, src, d.End())
	}
}

// spliceInsert writes a new frame with zero flags at offset at.
func spliceInsert(at int64, id string, payload []byte) splicer {
	return func(dst io.Writer, src *os.File) error {
		if err := copyRange(dst, src, 0, at); err != nil {
			return err
		}

		size := EncodeFrameSize(uint32(len(payload)))
		if err := writeAll(dst, []byte(id), size[:], []byte{0, 0}, payload); err != nil {
			return fmt.Errorf("write %s: %w", id, err)
		}

		return copyTail(dst, src, at)
	}
}

// spliceRemove drops the byte range of frame d.
func spliceRemove(d FrameDescriptor) splicer {
	return func(dst io.Writer, src *os.File) error {
		if err := copyRange(dst, src, 0, d.Offset); err != nil {
			return err
		}
		return copyTail(dst, src, d.End())
	}
}

// copyRange copies exactly n bytes of src starting at off.
func copyRange(dst io.Writer, src io.ReaderAt, off int64, n int64) error {
	written, err := io.Copy(dst, io.NewSectionReader(src, off, n))
	if err != nil {
		return fmt.Errorf("copy %d bytes at %d: %w", n, off, err)
	}
	if written != n {
		return fmt.Errorf("copy %d bytes at %d: got %d: %w", n, off, written, io.ErrUnexpectedEOF)
	}
	return nil
}

// copyTail copies everything in src from off to end of file.
func copyTail(dst io.Writer, src *os.File, off int64) error {
	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if off > info.Size() {
		return fmt.Errorf("copy tail at %d: file is %d bytes: %w", off, info.Size(), io.ErrUnexpectedEOF)
	}
	return copyRange(dst, src, off, info.Size()-off)
}

func writeAll(w io.Writer, data ...[]byte) error {
	for _, b := range data {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}
	return fmt.Errorf("remove %s: %w", path, err)
}
