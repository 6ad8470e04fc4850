// Package core defines the shared types and format detection for ID3
// Surgery.
package core

// MetaField represents a single metadata key-value pair.
type MetaField struct {
	Key      string // Canonical field name (e.g. "TIT2", "Title", "Make")
	Value    string // String representation of the value
	Category string // Category label (e.g. "ID3v2", "Summary", "Picture", "EXIF")
	Editable bool   // Whether this field can be written back by surgery
	Raw      string // Raw / hex representation if different from Value
}

// Metadata holds all metadata extracted from a single file.
type Metadata struct {
	FilePath string
	Format   string // Human-readable format name (e.g. "MP3")
	Version  string // Tag version, e.g. "ID3v2.3.0"
	TagSize  uint32 // Declared tag size from the header
	Fields   []MetaField
}

// Summary returns a short string of key fields for quick display.
func (m *Metadata) Summary() string {
	for _, f := range m.Fields {
		if f.Key == "Title" || f.Key == "Artist" {
			return f.Key + ": " + f.Value
		}
	}
	return m.Format
}

// EditOptions holds field changes for an edit operation.
type EditOptions struct {
	// Set is a map of Key → Value for fields to set or update. Keys are
	// friendly names ("title") or frame identifiers ("TIT2").
	Set map[string]string
	// Delete is a list of field keys to remove.
	Delete []string
	// DryRun previews changes without writing.
	DryRun bool
}

// FormatInfo describes what a format handler supports.
type FormatInfo struct {
	Name           string   // "MP3"
	Extensions     []string // [".mp3"]
	MediaType      string   // "audio"
	MIMETypes      []string
	CanView        bool
	CanEdit        bool
	EditableFields []string // Names of fields the handler can write
	Notes          string   // Any caveats or notes
}

// Handler is the interface every format must implement.
type Handler interface {
	// View reads and returns all discoverable metadata from path.
	View(path string) (*Metadata, error)
	// Edit writes new/updated fields into path, saving to outPath.
	// outPath == "" means in-place edit.
	Edit(path string, outPath string, opts EditOptions) error
	// Info returns format capabilities.
	Info() FormatInfo
}
