package document

import (
	"strings"

	"github.com/ZaguanLabs/doctran"
)

// AsciidocFormat handles AsciiDoc documents as a single translatable blob.
// Unlike Markdown there is no pre-pass: AsciiDoc generates section anchors
// from its own id attributes, so nothing needs annotating.
type AsciidocFormat struct{}

// NewAsciidocFormat returns the AsciiDoc format implementation.
func NewAsciidocFormat() *AsciidocFormat {
	return &AsciidocFormat{}
}

func (f *AsciidocFormat) Name() string { return "asciidoc" }

func (f *AsciidocFormat) Parse(text string) []doctran.Segment {
	return []doctran.Segment{{
		Seq:  0,
		Kind: doctran.KindContent,
		Raw:  text,
	}}
}

func (f *AsciidocFormat) ExtractUnits(segments []doctran.Segment) []doctran.TranslationUnit {
	var units []doctran.TranslationUnit
	for _, seg := range segments {
		if seg.Kind.Translatable() {
			units = append(units, doctran.TranslationUnit{
				Key:  doctran.SequenceKey(seg.Seq),
				Text: seg.Raw,
			})
		}
	}
	return units
}

func (f *AsciidocFormat) Reassemble(segments []doctran.Segment, translated []doctran.TranslatedUnit) []doctran.Segment {
	out := applyTranslations(segments, translated)
	for i := range out {
		if out[i].Kind.Translatable() {
			out[i].Raw = doctran.StripCodeFence(out[i].Raw)
		}
	}
	return out
}

func (f *AsciidocFormat) Serialize(segments []doctran.Segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Raw
	}
	return strings.Join(parts, "\n")
}

func (f *AsciidocFormat) PromptTemplate() string { return asciidocPrompt }

var _ Format = (*AsciidocFormat)(nil)
