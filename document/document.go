// Package document provides format-specific parsing, extraction, and
// reassembly for the supported document types.
//
// Each format implements the same four-step contract — parse into
// segments, extract translatable units, reassemble translated units,
// serialize back to text — so the pipeline stays format-agnostic. The
// SGML format classifies line by line; the prose-oriented formats
// (Markdown, AsciiDoc) treat the document as a single translatable blob
// after a format-specific pre-pass.
package document

import (
	"strings"

	"github.com/ZaguanLabs/doctran"
)

// Format is the translation contract each document type implements.
// See doctran.Format.
type Format = doctran.Format

func init() {
	doctran.RegisterFormat(".sgml", NewSGMLFormat())
	doctran.RegisterFormat(".md", NewMarkdownFormat())
	doctran.RegisterFormat(".markdown", NewMarkdownFormat())
	doctran.RegisterFormat(".mdx", NewDocusaurusFormat())
	doctran.RegisterFormat(".adoc", NewAsciidocFormat())
	doctran.RegisterFormat(".asciidoc", NewAsciidocFormat())
}

// ForPath returns the Format for a file path, selected by extension.
func ForPath(path string) (Format, error) {
	return doctran.FormatForPath(path)
}

// extractUnits is the shared extraction step: translatable segments in
// input order, keyed 1-based and zero-padded so reassembly can locate the
// segment without ambiguity.
func extractUnits(segments []doctran.Segment) []doctran.TranslationUnit {
	var units []doctran.TranslationUnit
	for _, seg := range segments {
		if !seg.Kind.Translatable() {
			continue
		}
		text := strings.TrimSpace(seg.Raw)
		if text == "" {
			// Blank lines reassemble from source; no need to send them.
			continue
		}
		units = append(units, doctran.TranslationUnit{
			Key:  doctran.SequenceKey(seg.Seq),
			Text: text,
		})
	}
	return units
}

// applyTranslations is the shared reassembly step. Lookup is by sequence
// key rather than position, which keeps reassembly robust to responses
// that arrive out of order or with gaps.
func applyTranslations(segments []doctran.Segment, translated []doctran.TranslatedUnit) []doctran.Segment {
	lookup := make(map[string]string, len(translated))
	for _, u := range translated {
		lookup[doctran.NormalizeKey(u.Key)] = u.Text
	}

	out := make([]doctran.Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg
		if !seg.Kind.Translatable() {
			continue
		}
		if text, ok := lookup[doctran.SequenceKey(seg.Seq)]; ok {
			out[i].Raw = seg.Indent + text
		}
		// No match: keep the source line. Never blank it.
	}
	return out
}

// leadingWhitespace returns the run of spaces and tabs at the start of line.
func leadingWhitespace(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}
