package doctran

import "unicode"

// LanguageNames maps supported target language codes to human-readable
// names for AI prompts.
var LanguageNames = map[string]string{
	"ko": "Korean",
	"ja": "Japanese",
	"en": "English",
	"zh": "Chinese (Simplified)",
	"de": "German",
	"es": "Spanish",
	"fr": "French",
}

// GetLanguageName returns the human-readable name for a language code,
// falling back to the code itself.
func GetLanguageName(code string) string {
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	return code
}

// SentinelMarkers maps language codes to the marker stored when a term
// translation response cannot be parsed. Downstream steps only check for
// non-empty values of matching length, so the markers are ordinary strings.
var SentinelMarkers = map[string]string{
	"ko": "번역 오류",
	"ja": "翻訳エラー",
}

// SentinelMarker returns the translation-error marker for a language.
func SentinelMarker(lang string) string {
	if m, ok := SentinelMarkers[lang]; ok {
		return m
	}
	return "translation error"
}

// scriptTables maps language codes to the Unicode scripts that identify
// text already written in that language.
var scriptTables = map[string][]*unicode.RangeTable{
	"ko": {unicode.Hangul},
	"ja": {unicode.Hiragana, unicode.Katakana, unicode.Han},
	"zh": {unicode.Han},
}

// ScriptRatio returns the proportion of non-space characters in text that
// belong to the target language's script. Languages without a registered
// script table (Latin-alphabet targets) always report 0.
func ScriptRatio(text, targetLang string) float64 {
	tables, ok := scriptTables[targetLang]
	if !ok {
		return 0
	}

	total := 0
	matched := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		for _, t := range tables {
			if unicode.Is(t, r) {
				matched++
				break
			}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// AlreadyTranslated reports whether the text's target-script proportion
// exceeds the threshold, in which case the file is assumed translated and
// the translation step is skipped. This is a deliberate no-op outcome, not
// an error.
func AlreadyTranslated(text, targetLang string, threshold float64) bool {
	return ScriptRatio(text, targetLang) > threshold
}
