package doctran

import (
	"encoding/json"
	"regexp"
	"strings"
)

// DefaultChunkSize is the maximum number of units per translation request.
const DefaultChunkSize = 500

// ChunkUnits partitions units into consecutive chunks of at most size.
// For N units the number of chunks is ceil(N/size), and concatenating the
// chunks reproduces the input order.
func ChunkUnits(units []TranslationUnit, size int) [][]TranslationUnit {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if len(units) == 0 {
		return nil
	}

	chunks := make([][]TranslationUnit, 0, (len(units)+size-1)/size)
	for start := 0; start < len(units); start += size {
		end := start + size
		if end > len(units) {
			end = len(units)
		}
		chunks = append(chunks, units[start:end])
	}
	return chunks
}

// markdownCodeFence matches a response fully wrapped in ``` fences, with
// or without a language tag. Anchored so fences inside the content are
// left alone.
var markdownCodeFence = regexp.MustCompile("(?s)\\A```(?:[a-zA-Z]*)?\\r?\\n(.*?)\\r?\\n?```\\z")

// StripCodeFence removes a markdown code-fence wrapper from provider
// output. Models wrap responses in fences often enough that this is a
// known, strippable artifact rather than an error.
func StripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if m := markdownCodeFence.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return content
}

// ParseUnitsResponse parses provider output as a JSON array of
// {seq, text} objects. The code fence is stripped and the outer JSON array
// located first; anything that still fails to parse is a
// *ResponseFormatError carrying the raw content.
func ParseUnitsResponse(content string) ([]TranslatedUnit, error) {
	raw := content
	content = StripCodeFence(content)

	// Locate the outer JSON array in case the model added prose around it.
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	var units []TranslatedUnit
	if err := json.Unmarshal([]byte(content), &units); err != nil {
		return nil, &ResponseFormatError{
			Message: "response is not a JSON array of {seq, text} objects",
			Raw:     raw,
			Cause:   err,
		}
	}

	for i := range units {
		units[i].Key = NormalizeKey(units[i].Key)
	}
	return units, nil
}
