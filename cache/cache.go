// Package cache provides per-unit translation caches. Keys combine the
// source text hash with the target language so the same sentence cached
// for Korean never leaks into a Japanese run.
package cache

// TranslationCache stores translated unit text keyed by source hash and
// target language.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and
	// false on a miss or expired entry.
	Get(key string) (string, bool)

	// Set stores a translation.
	Set(key string, value string) error
}
