// Package tags holds the table of ID3v2 frame identifiers recognised by
// Media Metadata Surgery.
package tags

import "sort"

// Mapping pairs a 4-character frame identifier with its description.
type Mapping struct {
	ID          string
	Description string
}

// Registry is an immutable lookup table of frame identifiers.
// It is safe for concurrent use.
type Registry struct {
	byID  map[string]string
	order []Mapping
}

// New builds a Registry from mappings. Later duplicates win.
func New(mappings []Mapping) *Registry {
	r := &Registry{byID: make(map[string]string, len(mappings))}
	for _, m := range mappings {
		if len(m.ID) != 4 {
			continue
		}
		if _, dup := r.byID[m.ID]; !dup {
			r.order = append(r.order, m)
		}
		r.byID[m.ID] = m.Description
	}
	for i := range r.order {
		r.order[i].Description = r.byID[r.order[i].ID]
	}
	sort.SliceStable(r.order, func(i, j int) bool { return r.order[i].ID < r.order[j].ID })
	return r
}

// IsValid reports whether id is a known frame identifier.
func (r *Registry) IsValid(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IsValidBytes is IsValid for a raw identifier read off disk.
func (r *Registry) IsValidBytes(id []byte) bool {
	if len(id) != 4 {
		return false
	}
	_, ok := r.byID[string(id)]
	return ok
}

// Describe returns the human readable description of id, or "" if unknown.
func (r *Registry) Describe(id string) string {
	return r.byID[id]
}

// All returns the mappings sorted by identifier. The slice is a copy.
func (r *Registry) All() []Mapping {
	out := make([]Mapping, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of identifiers in the registry.
func (r *Registry) Len() int { return len(r.order) }

var defaultRegistry = New(defaultMappings)

// Default returns the shared ID3v2.4 registry.
func Default() *Registry { return defaultRegistry }

// defaultMappings is the ID3v2.4 frame list.
var defaultMappings = []Mapping{
	{"AENC", "Audio encryption"},
	{"APIC", "Attached picture"},
	{"ASPI", "Audio seek point index"},
	{"COMM", "Comments"},
	{"COMR", "Commercial frame"},
	{"ENCR", "Encryption method registration"},
	{"EQU2", "Equalization (2)"},
	{"ETCO", "Event timing codes"},
	{"GEOB", "General encapsulated object"},
	{"GRID", "Group identification registration"},
	{"LINK", "Linked information"},
	{"MCDI", "Music CD identifier"},
	{"MLLT", "MPEG location lookup table"},
	{"OWNE", "Ownership frame"},
	{"PRIV", "Private frame"},
	{"PCNT", "Play counter"},
	{"POPM", "Popularimeter"},
	{"POSS", "Position synchronisation frame"},
	{"RBUF", "Recommended buffer size"},
	{"RVA2", "Relative volume adjustment (2)"},
	{"RVRB", "Reverb"},
	{"SEEK", "Seek frame"},
	{"SIGN", "Signature frame"},
	{"SYLT", "Synchronized lyric/text"},
	{"SYTC", "Synchronized tempo codes"},
	{"TALB", "Album/Movie/Show title"},
	{"TBPM", "BPM (beats per minute)"},
	{"TCOM", "Composer"},
	{"TCON", "Content type"},
	{"TCOP", "Copyright message"},
	{"TDEN", "Encoding time"},
	{"TDLY", "Playlist delay"},
	{"TDOR", "Original release time"},
	{"TDRC", "Recording time"},
	{"TDRL", "Release time"},
	{"TDTG", "Tagging time"},
	{"TENC", "Encoded by"},
	{"TEXT", "Lyricist/Text writer"},
	{"TFLT", "File type"},
	{"TIPL", "Involved people list"},
	{"TIT1", "Content group description"},
	{"TIT2", "Title/songname/content description"},
	{"TIT3", "Subtitle/Description refinement"},
	{"TKEY", "Initial key"},
	{"TLAN", "Language(s)"},
	{"TLEN", "Length"},
	{"TMCL", "Musician credits list"},
	{"TMED", "Media type"},
	{"TMOO", "Mood"},
	{"TOAL", "Original album/movie/show title"},
	{"TOFN", "Original filename"},
	{"TOLY", "Original lyricist(s)/text writer(s)"},
	{"TOPE", "Original artist(s)/performer(s)"},
	{"TOWN", "File owner/licensee"},
	{"TPE1", "Lead performer(s)/Soloist(s)"},
	{"TPE2", "Band/orchestra/accompaniment"},
	{"TPE3", "Conductor/performer refinement"},
	{"TPE4", "Interpreted, remixed, or otherwise modified by"},
	{"TPOS", "Part of a set"},
	{"TPRO", "Produced notice"},
	{"TPUB", "Publisher"},
	{"TRCK", "Track number/Position in set"},
	{"TRSN", "Internet radio station name"},
	{"TRSO", "Internet radio station owner"},
	{"TSOA", "Album sort order"},
	{"TSOP", "Performer sort order"},
	{"TSOT", "Title sort order"},
	{"TSRC", "ISRC (international standard recording code)"},
	{"TSSE", "Software/Hardware and settings used for encoding"},
	{"TSST", "Set subtitle"},
	{"TYER", "Year"},
	{"TXXX", "User defined text information frame"},
	{"UFID", "Unique file identifier"},
	{"USER", "Terms of use"},
	{"USLT", "Unsynchronized lyric/text transcription"},
	{"WCOM", "Commercial information"},
	{"WCOP", "Copyright/Legal information"},
	{"WOAF", "Official audio file webpage"},
	{"WOAR", "Official artist/performer webpage"},
	{"WOAS", "Official audio source webpage"},
	{"WORS", "Official internet radio station homepage"},
	{"WPAY", "Payment"},
	{"WPUB", "Publishers official webpage"},
	{"WXXX", "User defined URL link frame"},
}
