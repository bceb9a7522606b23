package doctran

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFineTuneThreshold is the untrained-term count that triggers a
// fine-tuning job after a file's terminology has been persisted.
const DefaultFineTuneThreshold = 20

// DefaultSkipRatio is the target-script character ratio above which a
// file counts as already translated.
const DefaultSkipRatio = 0.10

// OutputMode selects where translated documents are written.
type OutputMode string

const (
	// OutputModeTest writes to translated/translated_<name> next to the
	// source, leaving the source untouched.
	OutputModeTest OutputMode = "test"
	// OutputModeReal renames the source to <name>_original<ext> and
	// writes the translation in its place.
	OutputModeReal OutputMode = "real"
)

// Pipeline runs the per-file translation state machine: terminology
// mining, skip detection, chunked translation, reassembly, and output.
type Pipeline struct {
	translator     ChunkTranslator
	termTranslator TermTranslator
	fineTuner      FineTuner
	store          TermStore
	cache          TranslationCache
	miner          TermMiner

	chunkSize         int
	fineTuneThreshold int
	includeUntrained  bool
	skipRatio         float64
	storeSentinels    bool
	outputMode        OutputMode
	targetLangs       []string
	model             string

	logf func(format string, args ...any)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore sets the terminology store. Without a store (and a miner),
// the terminology stages are skipped.
func WithStore(store TermStore) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithCache sets the per-unit translation cache.
func WithCache(cache TranslationCache) Option {
	return func(p *Pipeline) { p.cache = cache }
}

// WithMiner sets the terminology miner.
func WithMiner(miner TermMiner) Option {
	return func(p *Pipeline) { p.miner = miner }
}

// WithChunkSize sets the number of units per translation request.
func WithChunkSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithFineTuneThreshold sets the untrained-term count that triggers a
// fine-tuning job.
func WithFineTuneThreshold(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.fineTuneThreshold = n
		}
	}
}

// WithIncludeUntrained re-translates mined terms whose stored entry has
// not been trained yet, refreshing them instead of skipping them. Runs
// on the default (non-fine-tuned) model use this so term translations
// keep improving until they make it into a training set.
func WithIncludeUntrained(include bool) Option {
	return func(p *Pipeline) { p.includeUntrained = include }
}

// WithSkipRatio sets the already-translated detection threshold.
func WithSkipRatio(r float64) Option {
	return func(p *Pipeline) {
		if r >= 0 && r <= 1 {
			p.skipRatio = r
		}
	}
}

// WithStoreSentinels persists term entries whose translation failed
// (sentinel markers) instead of dropping them.
func WithStoreSentinels(store bool) Option {
	return func(p *Pipeline) { p.storeSentinels = store }
}

// WithOutputMode selects test or real output.
func WithOutputMode(mode OutputMode) Option {
	return func(p *Pipeline) { p.outputMode = mode }
}

// WithTargetLangs sets the target languages. The first is the document
// translation target; terminology is translated into all of them.
func WithTargetLangs(langs ...string) Option {
	return func(p *Pipeline) {
		if len(langs) > 0 {
			p.targetLangs = langs
		}
	}
}

// WithModel overrides the provider's default model for unit translation,
// typically with a fine-tuned model ID.
func WithModel(model string) Option {
	return func(p *Pipeline) { p.model = model }
}

// WithLog sets a printf-style progress logger.
func WithLog(logf func(format string, args ...any)) Option {
	return func(p *Pipeline) {
		if logf != nil {
			p.logf = logf
		}
	}
}

// NewPipeline creates a pipeline around a translator. If the translator
// also implements TermTranslator or FineTuner those capabilities are
// picked up automatically.
func NewPipeline(translator ChunkTranslator, opts ...Option) *Pipeline {
	p := &Pipeline{
		translator:        translator,
		chunkSize:         DefaultChunkSize,
		fineTuneThreshold: DefaultFineTuneThreshold,
		skipRatio:         DefaultSkipRatio,
		outputMode:        OutputModeTest,
		targetLangs:       []string{"ko", "ja"},
		logf:              func(string, ...any) {},
	}
	if tt, ok := translator.(TermTranslator); ok {
		p.termTranslator = tt
	}
	if ft, ok := translator.(FineTuner); ok {
		p.fineTuner = ft
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// primaryLang is the document translation target.
func (p *Pipeline) primaryLang() string {
	return p.targetLangs[0]
}

// TranslateFile runs the full state machine for one file. The returned
// result always describes how far the run got; the error equals
// result.Err and is non-nil iff the run aborted.
func (p *Pipeline) TranslateFile(ctx context.Context, path string) (FileResult, error) {
	result := FileResult{Path: path, Stage: StageInit}

	format, err := FormatForPath(path)
	if err != nil {
		return p.abort(result, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return p.abort(result, &FormatError{Message: "reading file", Path: path, Cause: err})
	}
	content := string(raw)

	// Terminology stages run before any document translation so a
	// fine-tuned vocabulary can exist by the time its terms are needed.
	result.Stage = StageTermMining
	if err := p.mineTerms(ctx, content, &result); err != nil {
		return p.abort(result, err)
	}
	result.Stage = StageTermPersisted

	result.Stage = StageLanguageCheck
	if AlreadyTranslated(content, p.primaryLang(), p.skipRatio) {
		p.logf("skipping %s: already in %s", path, GetLanguageName(p.primaryLang()))
		result.Stage = StageSkipExit
		return result, nil
	}

	result.Stage = StageTranslateChunks
	segments := format.Parse(content)
	units := format.ExtractUnits(segments)
	result.Units = len(units)

	translated, err := p.translateUnits(ctx, format, units, &result)
	if err != nil {
		return p.abort(result, err)
	}

	result.Stage = StageReassemble
	output := format.Serialize(format.Reassemble(segments, translated))

	result.Stage = StageWrite
	outputPath, err := p.writeOutput(path, output)
	if err != nil {
		return p.abort(result, err)
	}
	result.OutputPath = outputPath

	result.Stage = StageDone
	return result, nil
}

func (p *Pipeline) abort(result FileResult, err error) (FileResult, error) {
	result.Stage = StageAborted
	result.Err = err
	return result, err
}

// mineTerms extracts terminology from content, translates the terms the
// store does not know, persists them, and submits a fine-tuning job when
// enough untrained terms have accumulated. A nil store, miner, or term
// translator disables the stage.
func (p *Pipeline) mineTerms(ctx context.Context, content string, result *FileResult) error {
	if p.store == nil || p.miner == nil || p.termTranslator == nil {
		return nil
	}

	terms, err := p.miner.Mine(content)
	if err != nil {
		return fmt.Errorf("mining terms: %w", err)
	}
	result.TermsMined = len(terms)
	if len(terms) == 0 {
		return p.maybeFineTune(ctx)
	}

	missing := p.store.Missing
	if p.includeUntrained {
		missing = p.store.MissingOrUntrained
	}
	newTerms, err := missing(ctx, terms)
	if err != nil {
		return err
	}

	if len(newTerms) > 0 {
		translations, err := p.termTranslator.TranslateTerms(ctx, newTerms, p.targetLangs)
		if err != nil {
			return err
		}

		entries := p.buildEntries(newTerms, translations)
		if len(entries) > 0 {
			if err := p.store.Upsert(ctx, entries, false); err != nil {
				return err
			}
			result.TermsStored = len(entries)
			p.logf("stored %d new terms", len(entries))
		}
	}

	return p.maybeFineTune(ctx)
}

// buildEntries pairs terms with their per-language translations.
// Sentinel-marked entries are dropped unless configured otherwise.
func (p *Pipeline) buildEntries(terms []string, translations map[string][]string) []TermEntry {
	entries := make([]TermEntry, 0, len(terms))
	for i, term := range terms {
		entry := TermEntry{Source: term, Translations: make(map[string]string, len(p.targetLangs))}
		sentinel := false
		for _, lang := range p.targetLangs {
			if i >= len(translations[lang]) {
				sentinel = true
				entry.Translations[lang] = SentinelMarker(lang)
				continue
			}
			text := translations[lang][i]
			if text == SentinelMarker(lang) {
				sentinel = true
			}
			entry.Translations[lang] = text
		}
		if sentinel && !p.storeSentinels {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// maybeFineTune submits a fine-tuning job when the untrained-term count
// reaches the threshold, then marks those terms trained. Sentinel-marked
// entries never become training examples.
func (p *Pipeline) maybeFineTune(ctx context.Context) error {
	if p.fineTuner == nil {
		return nil
	}

	untrained, err := p.store.FetchUntrained(ctx)
	if err != nil {
		return err
	}
	if len(untrained) < p.fineTuneThreshold {
		return nil
	}

	var examples []TrainingExample
	var sources []string
	for _, entry := range untrained {
		if p.hasSentinel(entry) {
			continue
		}
		examples = append(examples, TrainingExample{
			Source:       entry.Source,
			Translations: entry.Translations,
		})
		sources = append(sources, entry.Source)
	}
	if len(examples) < p.fineTuneThreshold {
		return nil
	}

	jobID, err := p.fineTuner.SubmitFineTune(ctx, examples)
	if err != nil {
		return err
	}
	p.logf("submitted fine-tuning job %s with %d terms", jobID, len(examples))

	return p.store.MarkTrained(ctx, sources)
}

func (p *Pipeline) hasSentinel(entry TermEntry) bool {
	for lang, text := range entry.Translations {
		if text == SentinelMarker(lang) {
			return true
		}
	}
	return false
}

// translateUnits serves cache hits, then translates the remaining units
// chunk by chunk, strictly in order. Any chunk failure is fatal for the
// file.
func (p *Pipeline) translateUnits(ctx context.Context, format Format, units []TranslationUnit, result *FileResult) ([]TranslatedUnit, error) {
	lang := p.primaryLang()
	prompt := strings.ReplaceAll(format.PromptTemplate(), "{{targetLang}}", GetLanguageName(lang))

	translated := make([]TranslatedUnit, 0, len(units))
	var pending []TranslationUnit
	for _, u := range units {
		if p.cache != nil {
			if text, ok := p.cache.Get(CacheKey(HashText(u.Text), lang)); ok {
				translated = append(translated, TranslatedUnit{Key: u.Key, Text: text})
				result.Cached++
				continue
			}
		}
		pending = append(pending, u)
	}

	byKey := make(map[string]string, len(pending))
	for _, u := range pending {
		byKey[u.Key] = u.Text
	}

	chunks := ChunkUnits(pending, p.chunkSize)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.logf("translating chunk %d/%d (%d units)", i+1, len(chunks), len(chunk))
		out, err := p.translator.TranslateUnits(ctx, UnitsRequest{
			Units:          chunk,
			PromptTemplate: prompt,
			Model:          p.model,
		})
		if err != nil {
			return nil, err
		}
		if len(out) != len(chunk) {
			// Reassembly falls back to source text for the gaps.
			p.logf("warning: %v", &CountMismatchError{Expected: len(chunk), Got: len(out)})
		}

		for _, u := range out {
			translated = append(translated, u)
			result.Translated++
			if p.cache != nil {
				if source, ok := byKey[u.Key]; ok {
					if err := p.cache.Set(CacheKey(HashText(source), lang), u.Text); err != nil {
						p.logf("warning: caching unit %s: %v", u.Key, err)
					}
				}
			}
		}
	}

	return translated, nil
}

// writeOutput writes the translated document according to the output
// mode and returns the output path.
func (p *Pipeline) writeOutput(path, content string) (string, error) {
	switch p.outputMode {
	case OutputModeReal:
		ext := filepath.Ext(path)
		backup := strings.TrimSuffix(path, ext) + "_original" + ext
		// Preserve the source before overwriting its path.
		if err := os.Rename(path, backup); err != nil {
			return "", fmt.Errorf("preserving original %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", path, err)
		}
		return path, nil

	default:
		dir := filepath.Join(filepath.Dir(path), "translated")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating %s: %w", dir, err)
		}
		out := filepath.Join(dir, "translated_"+filepath.Base(path))
		if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", out, err)
		}
		return out, nil
	}
}

// TranslateFolder runs TranslateFile over every supported file under
// dir. A file's failure is recorded in its FileResult and does not stop
// the batch; only a walk failure or context cancellation is returned.
func (p *Pipeline) TranslateFolder(ctx context.Context, dir string) (FolderResult, error) {
	paths, err := MatchFiles(dir)
	if err != nil {
		return FolderResult{}, err
	}

	var folder FolderResult
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return folder, err
		}

		result, err := p.TranslateFile(ctx, path)
		if err != nil {
			p.logf("file %s aborted at %s: %v", path, result.Stage, err)
		}
		folder.Files = append(folder.Files, result)
		switch result.Stage {
		case StageAborted:
			folder.Aborted++
		case StageSkipExit:
			folder.Skipped++
		case StageDone:
			folder.Done++
		}
	}
	return folder, nil
}
