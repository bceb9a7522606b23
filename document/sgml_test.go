package document

import (
	"strings"
	"testing"

	"github.com/ZaguanLabs/doctran"
)

func TestSGMLParseClassification(t *testing.T) {
	text := strings.Join([]string{
		"<sect1>",
		" <title>Overview</title>",
		" Hello world",
		" <programlisting>",
		"   SELECT * FROM t;",
		" </programlisting>",
		"</sect1>",
	}, "\n")

	segments := NewSGMLFormat().Parse(text)
	want := []doctran.SegmentKind{
		doctran.KindTag,
		doctran.KindTitle,
		doctran.KindContent,
		doctran.KindExample,
		doctran.KindExample,
		doctran.KindExample,
		doctran.KindTag,
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segments), len(want))
	}
	for i, kind := range want {
		if segments[i].Kind != kind {
			t.Errorf("segment %d: Kind = %s, want %s (%q)", i, segments[i].Kind, kind, segments[i].Raw)
		}
	}
}

func TestSGMLParseThreeLineScenario(t *testing.T) {
	segments := NewSGMLFormat().Parse("<tag>\nHello world\n</tag>")

	kinds := []doctran.SegmentKind{doctran.KindTag, doctran.KindContent, doctran.KindTag}
	for i, kind := range kinds {
		if segments[i].Kind != kind {
			t.Errorf("segment %d: Kind = %s, want %s", i, segments[i].Kind, kind)
		}
	}

	units := NewSGMLFormat().ExtractUnits(segments)
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	// The content line is at seq 1, so its key is the 1-based "0002".
	if units[0].Key != "0002" || units[0].Text != "Hello world" {
		t.Errorf("unit = %+v", units[0])
	}
}

func TestSGMLReassembleTranslation(t *testing.T) {
	f := NewSGMLFormat()
	segments := f.Parse("<tag>\nHello world\n</tag>")

	out := f.Serialize(f.Reassemble(segments, []doctran.TranslatedUnit{
		{Key: "0002", Text: "안녕 세상"},
	}))
	if out != "<tag>\n안녕 세상\n</tag>" {
		t.Errorf("output = %q", out)
	}
}

func TestSGMLReassembleUnpaddedKey(t *testing.T) {
	f := NewSGMLFormat()
	segments := f.Parse("<tag>\nHello world\n</tag>")

	// Providers sometimes drop the zero padding.
	out := f.Serialize(f.Reassemble(segments, []doctran.TranslatedUnit{
		{Key: "2", Text: "안녕 세상"},
	}))
	if out != "<tag>\n안녕 세상\n</tag>" {
		t.Errorf("unpadded key not matched: %q", out)
	}
}

func TestSGMLReassembleFallbackToSource(t *testing.T) {
	f := NewSGMLFormat()
	segments := f.Parse("<tag>\nHello world\n</tag>")

	// No translations at all: every line survives untouched.
	out := f.Serialize(f.Reassemble(segments, nil))
	if out != "<tag>\nHello world\n</tag>" {
		t.Errorf("missing translations must fall back to source, got %q", out)
	}

	// An unknown key is dropped, never blanking a line.
	out = f.Serialize(f.Reassemble(segments, []doctran.TranslatedUnit{
		{Key: "9999", Text: "orphan"},
	}))
	if strings.Contains(out, "orphan") || !strings.Contains(out, "Hello world") {
		t.Errorf("orphan translation mishandled: %q", out)
	}
}

func TestSGMLIndentPreserved(t *testing.T) {
	f := NewSGMLFormat()
	segments := f.Parse("<para>\n    Indented prose\n</para>")

	out := f.Serialize(f.Reassemble(segments, []doctran.TranslatedUnit{
		{Key: "0002", Text: "들여쓴 산문"},
	}))
	if out != "<para>\n    들여쓴 산문\n</para>" {
		t.Errorf("indentation lost: %q", out)
	}
}

func TestSGMLRoundTripBytePreservation(t *testing.T) {
	text := strings.Join([]string{
		"<!-- comment -->",
		"<sect1 id=\"intro\">",
		"  <title>Intro</title>",
		"",
		"  Some prose here.",
		"  <programlisting>",
		"    code &amp; more",
		"  </programlisting>",
		"</sect1>",
	}, "\n")

	f := NewSGMLFormat()
	out := f.Serialize(f.Parse(text))
	if out != text {
		t.Errorf("parse/serialize round trip changed bytes:\n got: %q\nwant: %q", out, text)
	}
}

func TestSGMLExampleBlockNotExtracted(t *testing.T) {
	text := strings.Join([]string{
		"<programlisting>",
		"plain looking line inside code",
		"</programlisting>",
		"real prose",
	}, "\n")

	units := NewSGMLFormat().ExtractUnits(NewSGMLFormat().Parse(text))
	if len(units) != 1 || units[0].Text != "real prose" {
		t.Errorf("units = %+v, want only the prose line", units)
	}
}

func TestSGMLConsecutiveExampleBlocks(t *testing.T) {
	text := strings.Join([]string{
		"<programlisting>",
		"code one",
		"</programlisting>",
		"between",
		"<programlisting>",
		"code two",
		"</programlisting>",
	}, "\n")

	segments := NewSGMLFormat().Parse(text)
	if segments[3].Kind != doctran.KindContent {
		t.Errorf("line between blocks: Kind = %s, want content", segments[3].Kind)
	}
	if segments[5].Kind != doctran.KindExample {
		t.Errorf("second block interior: Kind = %s, want example", segments[5].Kind)
	}
}
