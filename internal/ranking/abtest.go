// internal/ranking/abtest.go
package ranking

import "unicode/utf16"

const (
	VariantA = "A"
	VariantB = "B"
)

// GetABTestVariant deterministically buckets userID into "A" or "B" for testName.
//
// The hash is the 32-bit hash*31+c rolling hash over the UTF-16 code units of
// userID+testName. It is neither uniform nor collision resistant; it is kept
// so existing assignments stay stable.
func GetABTestVariant(userID, testName string) string {
	var hash int32
	for _, c := range utf16.Encode([]rune(userID + testName)) {
		hash = hash*31 + int32(c)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	if abs%2 == 0 {
		return VariantA
	}
	return VariantB
}
