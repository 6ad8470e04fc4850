// Package jpg reads EXIF fields from JPEG images and raw TIFF/EXIF blocks.
package jpg

import (
	"fmt"
	"io"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// CategoryEXIF labels every field ReadEXIF returns.
const CategoryEXIF = "EXIF"

// ReadEXIF decodes the EXIF block of a JPEG stream, or a bare TIFF-encoded
// EXIF block as found in PNG eXIf chunks.
func ReadEXIF(r io.Reader) ([]core.MetaField, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("no EXIF metadata found: %w", err)
	}

	w := &walker{}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("walk EXIF: %w", err)
	}
	return w.fields, nil
}

type walker struct {
	fields []core.MetaField
}

func (w *walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	val := tag.String()
	// Remove surrounding quotes from string values
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	w.fields = append(w.fields, core.MetaField{
		Key:      string(name),
		Value:    val,
		Category: CategoryEXIF,
	})
	return nil
}
