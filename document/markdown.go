package document

import (
	"regexp"
	"strings"

	"github.com/ZaguanLabs/doctran"
)

// MarkdownFormat handles Markdown documents. There is no line-based
// classification: the whole document is one translatable blob after a
// header-anchor pre-pass, so heading links stay stable across the source
// and translated versions.
type MarkdownFormat struct {
	prompt string
}

// NewMarkdownFormat returns the Markdown format implementation.
func NewMarkdownFormat() *MarkdownFormat {
	return &MarkdownFormat{prompt: markdownPrompt}
}

// NewDocusaurusFormat returns the Markdown variant for .mdx files, which
// differs only in its prompt template.
func NewDocusaurusFormat() *MarkdownFormat {
	return &MarkdownFormat{prompt: docusaurusPrompt}
}

func (f *MarkdownFormat) Name() string { return "markdown" }

var (
	headingLine    = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	existingAnchor = regexp.MustCompile(`\{#[^}]+\}\s*$`)
	nonWord        = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// Slug derives a deterministic anchor identifier from heading text:
// lowercase, non-word characters stripped, whitespace collapsed to
// hyphens.
func Slug(heading string) string {
	s := strings.ToLower(strings.TrimSpace(heading))
	s = nonWord.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "-")
	return s
}

// annotateHeadings appends a {#slug} anchor to every heading that lacks
// one, skipping fenced code blocks. Running this before translation keeps
// generated anchors identical in source and translated output.
func annotateHeadings(text string) string {
	lines := strings.Split(text, "\n")
	inFence := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		m := headingLine.FindStringSubmatch(line)
		if m == nil || existingAnchor.MatchString(line) {
			continue
		}
		if slug := Slug(m[2]); slug != "" {
			lines[i] = line + " {#" + slug + "}"
		}
	}
	return strings.Join(lines, "\n")
}

// Parse runs the anchor pre-pass and wraps the whole document in a single
// content segment.
func (f *MarkdownFormat) Parse(text string) []doctran.Segment {
	annotated := annotateHeadings(text)
	return []doctran.Segment{{
		Seq:  0,
		Kind: doctran.KindContent,
		Raw:  annotated,
	}}
}

func (f *MarkdownFormat) ExtractUnits(segments []doctran.Segment) []doctran.TranslationUnit {
	var units []doctran.TranslationUnit
	for _, seg := range segments {
		if !seg.Kind.Translatable() {
			continue
		}
		// Blob text is passed through untrimmed, unlike line formats.
		units = append(units, doctran.TranslationUnit{
			Key:  doctran.SequenceKey(seg.Seq),
			Text: seg.Raw,
		})
	}
	return units
}

func (f *MarkdownFormat) Reassemble(segments []doctran.Segment, translated []doctran.TranslatedUnit) []doctran.Segment {
	out := applyTranslations(segments, translated)
	// Models occasionally wrap the translated document in a code fence.
	for i := range out {
		if out[i].Kind.Translatable() {
			out[i].Raw = doctran.StripCodeFence(out[i].Raw)
		}
	}
	return out
}

func (f *MarkdownFormat) Serialize(segments []doctran.Segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Raw
	}
	return strings.Join(parts, "\n")
}

func (f *MarkdownFormat) PromptTemplate() string { return f.prompt }

var _ Format = (*MarkdownFormat)(nil)
