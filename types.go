// Package doctran translates structured technical documents.
package doctran

import (
	"context"
	"time"
)

// SegmentKind classifies one parsed line of a document.
type SegmentKind string

const (
	// KindTag is a complete structural markup line with no enclosed text.
	KindTag SegmentKind = "tag"
	// KindTitle is a heading or title line.
	KindTitle SegmentKind = "title"
	// KindContent is translatable prose.
	KindContent SegmentKind = "content"
	// KindExample is a code/example block line, including its delimiters.
	KindExample SegmentKind = "example"
)

// Translatable reports whether segments of this kind are sent to translation.
func (k SegmentKind) Translatable() bool {
	return k == KindContent || k == KindTitle
}

// Segment is one classified unit (line) of a parsed document, in original
// order. Only Raw is ever rewritten, by reassembly; everything else is fixed
// at parse time.
type Segment struct {
	Seq    int         // zero-based position in the document
	Kind   SegmentKind // classification
	Raw    string      // original line, verbatim
	Indent string      // leading whitespace, stored separately for reassembly
}

// TranslationUnit is the pre-translation form of one translatable segment.
// Key is the zero-padded 1-based sequence key; it must be unique within a
// document.
type TranslationUnit struct {
	Key  string `json:"seq"`
	Text string `json:"text"`
}

// TranslatedUnit is the post-translation form returned by the provider,
// matched back to its TranslationUnit by Key.
type TranslatedUnit struct {
	Key  string `json:"seq"`
	Text string `json:"text"`
}

// TermEntry is one terminology store row: a source term and its
// translations keyed by language code ("ko", "ja"). Entries are created on
// first encounter and updated on re-encounter; the pipeline never deletes
// them.
type TermEntry struct {
	Source       string
	Translations map[string]string
	Trained      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TrainingExample is one prompt/completion pair for a fine-tuning dataset.
type TrainingExample struct {
	Source       string
	Translations map[string]string
}

// UnitsRequest is one chunked translation request to the provider.
type UnitsRequest struct {
	Units          []TranslationUnit
	PromptTemplate string
	Model          string
}

// ChunkTranslator translates a batch of keyed units. The response must be
// matchable 1:1 against the request by Key; a structurally invalid response
// is a *ResponseFormatError.
type ChunkTranslator interface {
	TranslateUnits(ctx context.Context, req UnitsRequest) ([]TranslatedUnit, error)
}

// TermTranslator translates a list of terms into each target language. A
// malformed provider response never fails the call: every term is assigned
// a sentinel error marker per language instead.
type TermTranslator interface {
	TranslateTerms(ctx context.Context, terms []string, targetLangs []string) (map[string][]string, error)
}

// FineTuner submits a fine-tuning job. Fire-and-forget: completion is not
// awaited by the pipeline.
type FineTuner interface {
	SubmitFineTune(ctx context.Context, examples []TrainingExample) (jobID string, err error)
}

// TranslationCache caches per-unit translations keyed by text hash and
// target language.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// TermStore is the persistent terminology store the pipeline mines into.
// The termstore package provides the SQLite implementation.
type TermStore interface {
	// Missing returns the terms with no stored entry, in input order.
	Missing(ctx context.Context, terms []string) ([]string, error)

	// MissingOrUntrained returns terms with no entry or an untrained
	// entry, in input order.
	MissingOrUntrained(ctx context.Context, terms []string) ([]string, error)

	// Upsert inserts or updates entries in one transaction, setting the
	// trained flag on each.
	Upsert(ctx context.Context, entries []TermEntry, trained bool) error

	// FetchUntrained returns all stored entries not yet trained.
	FetchUntrained(ctx context.Context) ([]TermEntry, error)

	// MarkTrained flags the given terms as trained.
	MarkTrained(ctx context.Context, terms []string) error
}

// TermMiner extracts candidate terminology from raw document content.
// The termmine package provides the part-of-speech implementation.
type TermMiner interface {
	Mine(content string) ([]string, error)
}

// Stage is a pipeline state machine state.
type Stage string

const (
	StageInit            Stage = "init"
	StageTermMining      Stage = "term_mining"
	StageTermPersisted   Stage = "term_persisted"
	StageLanguageCheck   Stage = "language_check"
	StageSkipExit        Stage = "skip_exit"
	StageTranslateChunks Stage = "translate_chunks"
	StageReassemble      Stage = "reassemble"
	StageWrite           Stage = "write"
	StageDone            Stage = "done"
	StageAborted         Stage = "aborted"
)

// FileResult reports the outcome of one file's pipeline run.
type FileResult struct {
	Path        string
	OutputPath  string
	Stage       Stage // StageDone, StageSkipExit, or StageAborted
	Units       int   // translatable units extracted
	Translated  int   // units translated by the provider
	Cached      int   // units served from cache
	TermsMined  int   // candidate terms after filtering
	TermsStored int   // terms persisted this run
	Err         error // non-nil iff Stage == StageAborted
}

// FolderResult aggregates per-file results of a folder run.
type FolderResult struct {
	Files   []FileResult
	Aborted int
	Skipped int
	Done    int
}
