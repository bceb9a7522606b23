package doctran

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a cache key for one unit's translation from its text
// hash and the target language.
func CacheKey(hash, targetLang string) string {
	return hash + ":" + targetLang
}

// CacheKeyExtended additionally scopes the key by model, for installations
// that switch between the default and fine-tuned models.
func CacheKeyExtended(hash, targetLang, model string) string {
	return hash + ":" + targetLang + ":" + model
}
