// Package audio implements core.Handler for MP3 files on top of the id3
// rewrite engine.
package audio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/ankit-chaubey/id3-surgery/core/image"
	"github.com/dhowden/tag"
)

// Metadata categories produced by View.
const (
	CategoryFrames  = "ID3v2"
	CategorySummary = "Summary"
)

// Handler implements core.Handler for MP3.
type Handler struct {
	// Out receives dry-run previews.
	Out io.Writer

	inspector *id3.Inspector
	editor    *id3.Editor
	log       *log.Logger
	summary   func(path string, m *core.Metadata) error
}

// New returns an MP3 Handler. Edits through the handler create missing
// frames, so opts.Confirm is ignored.
func New(opts id3.Options) *Handler {
	opts.Confirm = func(string) bool { return true }
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Handler{
		Out:       os.Stdout,
		inspector: id3.NewInspector(opts.Registry),
		editor:    id3.NewEditor(opts),
		log:       opts.Logger,
		summary:   viewWithDhowden,
	}
}

func (h *Handler) Info() core.FormatInfo {
	return formatInfo
}

var formatInfo = core.FormatInfo{
	Name:       "MP3",
	Extensions: []string{".mp3"},
	MediaType:  "audio",
	MIMETypes:  []string{"audio/mpeg"},
	CanView:    true,
	CanEdit:    true,
	Notes:      "ID3v2 tags. Frames are rewritten in place; unsynchronisation and compression are not supported.",
	EditableFields: []string{
		"Title", "Artist", "Album", "Year", "Genre",
		"Comment", "TrackNumber", "AlbumArtist", "Composer",
		"Lyrics", "Copyright",
	},
}

// ──────────────────────────────────────────────────────────────────────────────
// View
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) View(path string) (*core.Metadata, error) {
	info, err := h.inspector.List(path)
	if err != nil {
		return nil, err
	}

	m := &core.Metadata{
		FilePath: path,
		Format:   formatInfo.Name,
		Version:  info.Header.VersionString(),
		TagSize:  info.Header.Size,
	}

	for _, fi := range info.Frames {
		m.Fields = append(m.Fields, core.MetaField{
			Key:      fi.ID,
			Value:    fi.Text,
			Category: CategoryFrames,
			Editable: fi.ID != id3.PictureFrameID,
			Raw:      fmt.Sprintf("%s, offset %d, %d bytes, flags %02x%02x", fi.Description, fi.Offset, fi.Size, fi.Flags[0], fi.Flags[1]),
		})
		if fi.Picture != nil {
			m.Fields = append(m.Fields, image.Describe(fi.Picture.Data)...)
		}
	}

	// A tag the summary reader rejects still has its frames listed above.
	if err := h.summary(path, m); err != nil {
		h.log.Printf("%s: summary skipped: %v", path, err)
	}

	return m, nil
}

// viewWithDhowden adds the common fields as read by dhowden/tag.
func viewWithDhowden(path string, m *core.Metadata) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	t, err := tag.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("could not read tags: %w", err)
	}

	add := func(key, val string) {
		if val != "" {
			m.Fields = append(m.Fields, core.MetaField{
				Key:      key,
				Value:    val,
				Category: CategorySummary,
			})
		}
	}

	add("Title", t.Title())
	add("Artist", t.Artist())
	add("Album", t.Album())
	add("AlbumArtist", t.AlbumArtist())
	add("Composer", t.Composer())
	add("Genre", t.Genre())
	add("Comment", t.Comment())
	if t.Year() != 0 {
		add("Year", fmt.Sprintf("%d", t.Year()))
	}
	track, total := t.Track()
	if track != 0 {
		trackStr := fmt.Sprintf("%d", track)
		if total != 0 {
			trackStr = fmt.Sprintf("%d/%d", track, total)
		}
		add("TrackNumber", trackStr)
	}
	disc, totalDisc := t.Disc()
	if disc != 0 {
		discStr := fmt.Sprintf("%d", disc)
		if totalDisc != 0 {
			discStr = fmt.Sprintf("%d/%d", disc, totalDisc)
		}
		add("DiscNumber", discStr)
	}
	if p := t.Picture(); p != nil {
		b, _ := json.Marshal(struct {
			MIME string `json:"mime"`
			Type string `json:"type"`
			Size int    `json:"size"`
		}{p.MIMEType, p.Type, len(p.Data)})
		add("Picture", string(b))
	}

	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Edit
// ──────────────────────────────────────────────────────────────────────────────

// Edit applies opts to path, or to a copy at outPath. Deletions run before
// sets; keys are friendly names or frame identifiers.
func (h *Handler) Edit(path string, outPath string, opts core.EditOptions) error {
	out := core.ResolveOutPath(path, outPath)

	deletes := make([]string, 0, len(opts.Delete))
	for _, k := range opts.Delete {
		fid, err := frameID(k)
		if err != nil {
			return err
		}
		deletes = append(deletes, fid)
	}

	keys := make([]string, 0, len(opts.Set))
	for k := range opts.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type change struct {
		id      string
		payload []byte
	}
	sets := make([]change, 0, len(keys))
	for _, k := range keys {
		fid, err := frameID(k)
		if err != nil {
			return err
		}
		if fid == id3.PictureFrameID {
			return fmt.Errorf("%s: %w", k, id3.ErrPictureFrame)
		}
		payload, err := framePayload(fid, opts.Set[k])
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		sets = append(sets, change{id: fid, payload: payload})
	}

	if opts.DryRun {
		fmt.Fprintln(h.Out, "Dry-run: MP3 ID3 tags would be updated:")
		for _, fid := range deletes {
			fmt.Fprintf(h.Out, "  - %s\n", fid)
		}
		for i, c := range sets {
			fmt.Fprintf(h.Out, "  %s = %s\n", c.id, opts.Set[keys[i]])
		}
		return nil
	}

	// Copy to outPath first if different
	if path != out {
		if err := copyFile(path, out); err != nil {
			return err
		}
	}

	for _, fid := range deletes {
		if err := h.removeAll(out, fid); err != nil {
			return err
		}
	}
	for _, c := range sets {
		if _, err := h.editor.EditFrame(out, c.id, c.payload); err != nil {
			return err
		}
	}

	return nil
}

// removeAll drops every fid frame; a missing frame is not an error.
func (h *Handler) removeAll(path, fid string) error {
	for {
		_, err := h.editor.RemoveFrame(path, fid)
		if errors.Is(err, id3.ErrFrameNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// friendlyNames maps friendly names to ID3v2.3 frame IDs.
var friendlyNames = map[string]string{
	"title":       "TIT2",
	"artist":      "TPE1",
	"album":       "TALB",
	"year":        "TYER",
	"genre":       "TCON",
	"comment":     "COMM",
	"tracknumber": "TRCK",
	"albumartist": "TPE2",
	"composer":    "TCOM",
	"lyrics":      "USLT",
	"copyright":   "TCOP",
	"picture":     "APIC",
}

// frameID resolves a friendly name or a raw frame identifier.
func frameID(name string) (string, error) {
	if fid, ok := friendlyNames[strings.ToLower(name)]; ok {
		return fid, nil
	}
	if fid := strings.ToUpper(name); len(fid) == 4 {
		return fid, nil
	}
	return "", fmt.Errorf("%w: unknown field %q", id3.ErrInvalidTag, name)
}

// framePayload encodes value the way fid expects it.
func framePayload(fid, value string) ([]byte, error) {
	enc := id3.BestEncoding(value)
	switch fid {
	case "COMM", "USLT":
		// encoding, language, empty description, text
		text, err := id3.EncodeText(value, enc)
		if err != nil {
			return nil, err
		}
		desc := []byte{0}
		switch enc {
		case id3.EncodingUTF16BOM:
			desc = []byte{0xFF, 0xFE, 0, 0}
		case id3.EncodingUTF16BE:
			desc = []byte{0, 0}
		}
		out := append([]byte{text[0]}, "eng"...)
		out = append(out, desc...)
		return append(out, text[1:]...), nil
	}
	if strings.HasPrefix(fid, "W") && fid != "WXXX" {
		return []byte(value), nil
	}
	return id3.EncodeText(value, enc)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
