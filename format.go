package doctran

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Format is the per-document-type implementation of the translation
// contract. Parse never fails: malformed input is classified fail-open
// as content rather than rejected.
//
// Implementations live in the document package and register themselves
// by extension; import it (blank import suffices) to make the standard
// formats available:
//
//	import _ "github.com/ZaguanLabs/doctran/document"
type Format interface {
	// Name identifies the format ("sgml", "markdown", ...).
	Name() string

	// Parse splits raw document text into an ordered segment sequence.
	Parse(text string) []Segment

	// ExtractUnits filters segments down to the translatable subset,
	// assigning each its sequence key.
	ExtractUnits(segments []Segment) []TranslationUnit

	// Reassemble merges translated units back into the segment sequence by
	// sequence key. Units with no matching segment are dropped; segments
	// with no matching unit keep their source text.
	Reassemble(segments []Segment, translated []TranslatedUnit) []Segment

	// Serialize joins segments back into document text, reconstructing the
	// exact original layout except for the translated spans.
	Serialize(segments []Segment) string

	// PromptTemplate returns the translation prompt for this format, with
	// {{targetLang}} left for the pipeline to resolve.
	PromptTemplate() string
}

var (
	formatsMu sync.RWMutex
	formats   = make(map[string]Format)
)

// RegisterFormat associates a file extension (".sgml") with a Format.
// Later registrations for the same extension replace earlier ones.
func RegisterFormat(ext string, f Format) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	formats[strings.ToLower(ext)] = f
}

// FormatForPath returns the registered Format for a file path, selected
// by extension.
func FormatForPath(path string) (Format, error) {
	formatsMu.RLock()
	f, ok := formats[strings.ToLower(filepath.Ext(path))]
	formatsMu.RUnlock()
	if !ok {
		return nil, &FormatError{Message: "unsupported file type", Path: path}
	}
	return f, nil
}

// RegisteredExtensions returns the extensions with a registered Format,
// sorted.
func RegisteredExtensions() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
