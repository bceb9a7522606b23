package document

import (
	"strings"

	"github.com/ZaguanLabs/doctran"
)

// SGMLFormat handles DocBook-style SGML documents line by line.
//
// Classification is a pure finite-state scan over trimmed line prefixes.
// The only carried state is whether the scan is inside a
// <programlisting> block; no line is reclassified after being emitted.
type SGMLFormat struct{}

// NewSGMLFormat returns the SGML format implementation.
func NewSGMLFormat() *SGMLFormat {
	return &SGMLFormat{}
}

func (f *SGMLFormat) Name() string { return "sgml" }

// classify tags one trimmed line and returns the updated example-block
// state. Unrecognized content is tagged as content: the parser has no
// notion of format validity and fails open.
func classify(trimmed string, inExample bool) (doctran.SegmentKind, bool) {
	switch {
	case strings.HasPrefix(trimmed, "<programlisting>"):
		return doctran.KindExample, true
	case strings.HasPrefix(trimmed, "</programlisting>"):
		return doctran.KindExample, false
	case inExample:
		return doctran.KindExample, true
	case strings.HasPrefix(trimmed, "<title>"), strings.HasPrefix(trimmed, "<primary>"):
		return doctran.KindTitle, inExample
	case strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">"):
		return doctran.KindTag, inExample
	default:
		return doctran.KindContent, inExample
	}
}

// Parse splits the document into one segment per physical line. Leading
// whitespace is preserved verbatim and stored separately from the line so
// reassembly can restore exact indentation.
func (f *SGMLFormat) Parse(text string) []doctran.Segment {
	lines := strings.Split(text, "\n")
	segments := make([]doctran.Segment, len(lines))

	inExample := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		var kind doctran.SegmentKind
		kind, inExample = classify(trimmed, inExample)

		segments[i] = doctran.Segment{
			Seq:    i,
			Kind:   kind,
			Raw:    line,
			Indent: leadingWhitespace(line),
		}
	}
	return segments
}

func (f *SGMLFormat) ExtractUnits(segments []doctran.Segment) []doctran.TranslationUnit {
	return extractUnits(segments)
}

func (f *SGMLFormat) Reassemble(segments []doctran.Segment, translated []doctran.TranslatedUnit) []doctran.Segment {
	return applyTranslations(segments, translated)
}

// Serialize joins the segments with the native line separator. For a
// document whose translations equal their sources this reproduces the
// input byte for byte.
func (f *SGMLFormat) Serialize(segments []doctran.Segment) string {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = seg.Raw
	}
	return strings.Join(lines, "\n")
}

func (f *SGMLFormat) PromptTemplate() string { return sgmlPrompt }

var _ Format = (*SGMLFormat)(nil)
