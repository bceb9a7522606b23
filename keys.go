package doctran

import (
	"fmt"
	"strconv"
)

// sequenceKeyWidth is the zero-pad width of sequence keys.
const sequenceKeyWidth = 4

// SequenceKey returns the key for a segment's position. Keys are 1-based so
// they read naturally in logs, which means the same +1 offset must be
// applied at extraction and reassembly or translations silently misalign.
func SequenceKey(seq int) string {
	return fmt.Sprintf("%0*d", sequenceKeyWidth, seq+1)
}

// NormalizeKey re-pads a key that the provider may have returned without
// leading zeros ("2" -> "0002"). Non-numeric keys are returned unchanged so
// they simply never match and fall through to the source-text fallback.
func NormalizeKey(key string) string {
	n, err := strconv.Atoi(key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%0*d", sequenceKeyWidth, n)
}
