package doctran_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/doctran"
	_ "github.com/ZaguanLabs/doctran/document"
)

// stubTranslator translates units through a lookup table, falling back
// to a marked echo. Optional hooks inject failures.
type stubTranslator struct {
	table     map[string]string
	failOn    string // unit text that makes TranslateUnits fail
	unitCalls int
	dropKeys  map[string]bool // keys silently omitted from responses

	termTable    map[string]map[string]string
	fineTuneJobs [][]doctran.TrainingExample
	fineTuneErr  error
	termTransErr error
}

func (s *stubTranslator) TranslateUnits(ctx context.Context, req doctran.UnitsRequest) ([]doctran.TranslatedUnit, error) {
	s.unitCalls++
	var out []doctran.TranslatedUnit
	for _, u := range req.Units {
		if u.Text == s.failOn {
			return nil, &doctran.ResponseFormatError{Message: "unparseable response", Raw: "oops"}
		}
		if s.dropKeys[u.Key] {
			continue
		}
		text, ok := s.table[u.Text]
		if !ok {
			text = "[ko] " + u.Text
		}
		out = append(out, doctran.TranslatedUnit{Key: u.Key, Text: text})
	}
	return out, nil
}

func (s *stubTranslator) TranslateTerms(ctx context.Context, terms []string, targetLangs []string) (map[string][]string, error) {
	if s.termTransErr != nil {
		return nil, s.termTransErr
	}
	result := map[string][]string{"source": terms}
	for _, lang := range targetLangs {
		translations := make([]string, len(terms))
		for i, term := range terms {
			if byLang, ok := s.termTable[term]; ok && byLang[lang] != "" {
				translations[i] = byLang[lang]
			} else {
				translations[i] = term + "-" + lang
			}
		}
		result[lang] = translations
	}
	return result, nil
}

func (s *stubTranslator) SubmitFineTune(ctx context.Context, examples []doctran.TrainingExample) (string, error) {
	if s.fineTuneErr != nil {
		return "", s.fineTuneErr
	}
	s.fineTuneJobs = append(s.fineTuneJobs, examples)
	return "ftjob-test", nil
}

// memStore is an in-memory doctran.TermStore.
type memStore struct {
	entries map[string]doctran.TermEntry
	trained map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		entries: make(map[string]doctran.TermEntry),
		trained: make(map[string]bool),
	}
}

func (m *memStore) Missing(ctx context.Context, terms []string) ([]string, error) {
	var out []string
	for _, t := range terms {
		if _, ok := m.entries[t]; !ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) MissingOrUntrained(ctx context.Context, terms []string) ([]string, error) {
	var out []string
	for _, t := range terms {
		if _, ok := m.entries[t]; !ok || !m.trained[t] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) Upsert(ctx context.Context, entries []doctran.TermEntry, trained bool) error {
	for _, e := range entries {
		m.entries[e.Source] = e
		m.trained[e.Source] = trained
	}
	return nil
}

func (m *memStore) FetchUntrained(ctx context.Context) ([]doctran.TermEntry, error) {
	var out []doctran.TermEntry
	for source, e := range m.entries {
		if !m.trained[source] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) MarkTrained(ctx context.Context, terms []string) error {
	for _, t := range terms {
		m.trained[t] = true
	}
	return nil
}

// sliceMiner returns a fixed term list.
type sliceMiner struct {
	terms []string
	err   error
}

func (s *sliceMiner) Mine(content string) ([]string, error) {
	return s.terms, s.err
}

// mapCache is a map-backed doctran.TranslationCache.
type mapCache map[string]string

func (c mapCache) Get(key string) (string, bool) {
	v, ok := c[key]
	return v, ok
}

func (c mapCache) Set(key, value string) error {
	c[key] = value
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranslateFileSGML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<tag>\nHello world\n</tag>")

	translator := &stubTranslator{table: map[string]string{"Hello world": "안녕 세상"}}
	p := doctran.NewPipeline(translator)

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.Stage != doctran.StageDone {
		t.Errorf("Stage = %s, want done", result.Stage)
	}
	if result.Units != 1 || result.Translated != 1 {
		t.Errorf("Units = %d, Translated = %d; want 1, 1", result.Units, result.Translated)
	}

	want := filepath.Join(dir, "translated", "translated_doc.sgml")
	if result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}
	out, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(out) != "<tag>\n안녕 세상\n</tag>" {
		t.Errorf("output = %q", out)
	}
}

func TestTranslateFileSkipsTranslatedContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\n이 문서는 이미 한국어로 번역되어 있습니다\n</para>")

	translator := &stubTranslator{}
	p := doctran.NewPipeline(translator)

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.Stage != doctran.StageSkipExit {
		t.Errorf("Stage = %s, want skip_exit", result.Stage)
	}
	if translator.unitCalls != 0 {
		t.Errorf("translator called %d times for a skipped file", translator.unitCalls)
	}
	if _, err := os.Stat(filepath.Join(dir, "translated")); !os.IsNotExist(err) {
		t.Error("skipped file should produce no output")
	}
}

func TestTranslateFileChunking(t *testing.T) {
	dir := t.TempDir()
	var lines []string
	for i := 0; i < 5; i++ {
		lines = append(lines, "<para>", "Paragraph number "+strings.Repeat("x", i+1), "</para>")
	}
	path := writeFile(t, dir, "doc.sgml", strings.Join(lines, "\n"))

	translator := &stubTranslator{}
	p := doctran.NewPipeline(translator, doctran.WithChunkSize(2))

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.Units != 5 {
		t.Fatalf("Units = %d, want 5", result.Units)
	}
	// ceil(5/2) = 3 sequential requests.
	if translator.unitCalls != 3 {
		t.Errorf("unitCalls = %d, want 3", translator.unitCalls)
	}
}

func TestTranslateFileCacheHits(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nCached sentence\n</para>\n<para>\nFresh sentence\n</para>")

	cached := mapCache{}
	cached[doctran.CacheKey(doctran.HashText("Cached sentence"), "ko")] = "캐시된 문장"

	translator := &stubTranslator{}
	p := doctran.NewPipeline(translator, doctran.WithCache(cached))

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.Cached != 1 || result.Translated != 1 {
		t.Errorf("Cached = %d, Translated = %d; want 1, 1", result.Cached, result.Translated)
	}

	out, _ := os.ReadFile(result.OutputPath)
	if !strings.Contains(string(out), "캐시된 문장") {
		t.Errorf("output missing cached translation: %q", out)
	}
	// Fresh translation should now be cached for the next run.
	if _, ok := cached[doctran.CacheKey(doctran.HashText("Fresh sentence"), "ko")]; !ok {
		t.Error("fresh translation not cached")
	}
}

func TestTranslateFileFallbackOnDroppedUnits(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nFirst sentence\n</para>\n<para>\nSecond sentence\n</para>")

	// The provider omits the second unit from its response.
	translator := &stubTranslator{dropKeys: map[string]bool{"0005": true}}
	p := doctran.NewPipeline(translator)

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.Stage != doctran.StageDone {
		t.Fatalf("Stage = %s, want done", result.Stage)
	}

	out, _ := os.ReadFile(result.OutputPath)
	// The dropped unit keeps its source text; no line is ever blanked.
	if !strings.Contains(string(out), "Second sentence") {
		t.Errorf("dropped unit should fall back to source, got %q", out)
	}
	if strings.Contains(string(out), "\n\n</para>") {
		t.Errorf("no line may be blanked: %q", out)
	}
}

func TestTranslateFileAbortsOnBadResponse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nBroken sentence\n</para>")

	translator := &stubTranslator{failOn: "Broken sentence"}
	p := doctran.NewPipeline(translator)

	result, err := p.TranslateFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Stage != doctran.StageAborted {
		t.Errorf("Stage = %s, want aborted", result.Stage)
	}
	var formatErr *doctran.ResponseFormatError
	if !errors.As(err, &formatErr) {
		t.Errorf("err = %T, want *ResponseFormatError", err)
	}
	if formatErr != nil && formatErr.Raw != "oops" {
		t.Errorf("Raw = %q, want preserved raw response", formatErr.Raw)
	}
}

func TestTranslateFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "plain text")

	p := doctran.NewPipeline(&stubTranslator{})
	result, err := p.TranslateFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Stage != doctran.StageAborted {
		t.Errorf("Stage = %s, want aborted", result.Stage)
	}
}

func TestTranslateFileRealOutputMode(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nHello\n</para>")

	p := doctran.NewPipeline(&stubTranslator{}, doctran.WithOutputMode(doctran.OutputModeReal))

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.OutputPath != path {
		t.Errorf("OutputPath = %q, want in-place %q", result.OutputPath, path)
	}

	// Original preserved under _original before the translation lands.
	backup := filepath.Join(dir, "doc_original.sgml")
	original, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(original) != "<para>\nHello\n</para>" {
		t.Errorf("backup = %q", original)
	}

	translated, _ := os.ReadFile(path)
	if !strings.Contains(string(translated), "[ko] Hello") {
		t.Errorf("in-place content = %q", translated)
	}
}

func TestTranslateFileTermMining(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nThe server uses the cache\n</para>")

	translator := &stubTranslator{
		termTable: map[string]map[string]string{
			"server": {"ko": "서버", "ja": "サーバー"},
			"cache":  {"ko": "캐시", "ja": "キャッシュ"},
		},
	}
	store := newMemStore()
	p := doctran.NewPipeline(translator,
		doctran.WithStore(store),
		doctran.WithMiner(&sliceMiner{terms: []string{"server", "cache"}}),
	)

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.TermsMined != 2 || result.TermsStored != 2 {
		t.Errorf("TermsMined = %d, TermsStored = %d; want 2, 2", result.TermsMined, result.TermsStored)
	}
	if store.entries["server"].Translations["ko"] != "서버" {
		t.Errorf("stored entry = %+v", store.entries["server"])
	}

	// Second run over the same content mines nothing new.
	path2 := writeFile(t, dir, "doc2.sgml", "<para>\nThe server uses the cache again\n</para>")
	result, err = p.TranslateFile(context.Background(), path2)
	if err != nil {
		t.Fatalf("second TranslateFile: %v", err)
	}
	if result.TermsStored != 0 {
		t.Errorf("TermsStored on rerun = %d, want 0", result.TermsStored)
	}
}

func TestTranslateFileIncludeUntrained(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nThe server boots\n</para>")

	translator := &stubTranslator{
		termTable: map[string]map[string]string{
			"server": {"ko": "서버", "ja": "サーバー"},
		},
	}
	store := newMemStore()
	store.entries["server"] = doctran.TermEntry{
		Source:       "server",
		Translations: map[string]string{"ko": "옛 번역", "ja": "古い訳"},
	}
	store.trained["server"] = false

	p := doctran.NewPipeline(translator,
		doctran.WithStore(store),
		doctran.WithMiner(&sliceMiner{terms: []string{"server"}}),
		doctran.WithIncludeUntrained(true),
	)

	result, err := p.TranslateFile(context.Background(), path)
	if err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if result.TermsStored != 1 {
		t.Errorf("TermsStored = %d, want 1 (untrained entry refreshed)", result.TermsStored)
	}
	if store.entries["server"].Translations["ko"] != "서버" {
		t.Errorf("entry not refreshed: %+v", store.entries["server"])
	}

	// Default mode leaves known entries alone, trained or not.
	p2 := doctran.NewPipeline(translator,
		doctran.WithStore(store),
		doctran.WithMiner(&sliceMiner{terms: []string{"server"}}),
	)
	result, err = p2.TranslateFile(context.Background(), writeFile(t, dir, "doc2.sgml", "<para>\nThe server reboots\n</para>"))
	if err != nil {
		t.Fatalf("second TranslateFile: %v", err)
	}
	if result.TermsStored != 0 {
		t.Errorf("TermsStored = %d, want 0", result.TermsStored)
	}
}

func TestTranslateFileTermTranslationErrorAborts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nSome prose\n</para>")

	translator := &stubTranslator{termTransErr: errors.New("service down")}
	p := doctran.NewPipeline(translator,
		doctran.WithStore(newMemStore()),
		doctran.WithMiner(&sliceMiner{terms: []string{"server"}}),
	)

	result, err := p.TranslateFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Stage != doctran.StageAborted {
		t.Errorf("Stage = %s, want aborted", result.Stage)
	}
	if translator.unitCalls != 0 {
		t.Error("no translation calls should happen after a term translation failure")
	}
}

func TestTranslateFileFineTuneErrorAborts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nSome prose\n</para>")

	translator := &stubTranslator{fineTuneErr: errors.New("upload rejected")}
	store := newMemStore()
	p := doctran.NewPipeline(translator,
		doctran.WithStore(store),
		doctran.WithMiner(&sliceMiner{terms: []string{"alpha", "beta"}}),
		doctran.WithFineTuneThreshold(2),
	)

	result, err := p.TranslateFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Stage != doctran.StageAborted {
		t.Errorf("Stage = %s, want aborted", result.Stage)
	}
	for _, term := range []string{"alpha", "beta"} {
		if store.trained[term] {
			t.Errorf("term %q marked trained despite submission failure", term)
		}
	}
}

func TestTranslateFileFineTuneTrigger(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nSome prose\n</para>")

	translator := &stubTranslator{}
	store := newMemStore()
	p := doctran.NewPipeline(translator,
		doctran.WithStore(store),
		doctran.WithMiner(&sliceMiner{terms: []string{"alpha", "beta", "gamma"}}),
		doctran.WithFineTuneThreshold(3),
	)

	if _, err := p.TranslateFile(context.Background(), path); err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}

	if len(translator.fineTuneJobs) != 1 {
		t.Fatalf("fine-tune jobs = %d, want 1", len(translator.fineTuneJobs))
	}
	if len(translator.fineTuneJobs[0]) != 3 {
		t.Errorf("training examples = %d, want 3", len(translator.fineTuneJobs[0]))
	}
	for _, term := range []string{"alpha", "beta", "gamma"} {
		if !store.trained[term] {
			t.Errorf("term %q not marked trained", term)
		}
	}
}

func TestTranslateFileFineTuneBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nSome prose\n</para>")

	translator := &stubTranslator{}
	store := newMemStore()
	p := doctran.NewPipeline(translator,
		doctran.WithStore(store),
		doctran.WithMiner(&sliceMiner{terms: []string{"alpha", "beta"}}),
		doctran.WithFineTuneThreshold(3),
	)

	if _, err := p.TranslateFile(context.Background(), path); err != nil {
		t.Fatalf("TranslateFile: %v", err)
	}
	if len(translator.fineTuneJobs) != 0 {
		t.Errorf("fine-tune triggered below threshold: %d jobs", len(translator.fineTuneJobs))
	}
}

func TestTranslateFileMinerErrorAborts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.sgml", "<para>\nSome prose\n</para>")

	translator := &stubTranslator{}
	p := doctran.NewPipeline(translator,
		doctran.WithStore(newMemStore()),
		doctran.WithMiner(&sliceMiner{err: errors.New("tagger exploded")}),
	)

	result, err := p.TranslateFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected error")
	}
	if result.Stage != doctran.StageAborted {
		t.Errorf("Stage = %s, want aborted", result.Stage)
	}
	if translator.unitCalls != 0 {
		t.Error("no translation calls should happen after a mining failure")
	}
}

func TestTranslateFolderIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.sgml", "<para>\nFirst file\n</para>")
	writeFile(t, dir, "b.sgml", "<para>\nPoison file\n</para>")
	writeFile(t, dir, "c.sgml", "<para>\nThird file\n</para>")

	translator := &stubTranslator{failOn: "Poison file"}
	p := doctran.NewPipeline(translator)

	folder, err := p.TranslateFolder(context.Background(), dir)
	if err != nil {
		t.Fatalf("TranslateFolder: %v", err)
	}
	if folder.Done != 2 || folder.Aborted != 1 {
		t.Errorf("Done = %d, Aborted = %d; want 2, 1", folder.Done, folder.Aborted)
	}
	if len(folder.Files) != 3 {
		t.Errorf("Files = %d, want 3", len(folder.Files))
	}

	// The failing file keeps its diagnosis; the others completed.
	for _, f := range folder.Files {
		base := filepath.Base(f.Path)
		if base == "b.sgml" {
			if f.Stage != doctran.StageAborted || f.Err == nil {
				t.Errorf("b.sgml: Stage = %s, Err = %v", f.Stage, f.Err)
			}
		} else if f.Stage != doctran.StageDone {
			t.Errorf("%s: Stage = %s, want done", base, f.Stage)
		}
	}
}

func TestTranslateFolderCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.sgml", "<para>\nFirst\n</para>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := doctran.NewPipeline(&stubTranslator{})
	_, err := p.TranslateFolder(ctx, dir)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
