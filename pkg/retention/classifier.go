package retention

import (
	"math"
	"strings"
	"time"
)

// Day is the unit retention thresholds are expressed in.
const Day = 24 * time.Hour

// MaxDays is the largest threshold that fits in a time.Duration.
const MaxDays = int(math.MaxInt64 / int64(Day))

// DefaultExemptExtensions are never demoted out of the active directory.
var DefaultExemptExtensions = []string{".exe", ".msi", ".ini", ".bat"}

// ExtensionSet is a normalized set of lowercase file-name suffixes.
type ExtensionSet []string

// NewExtensionSet lowercases each extension, prefixes a "." when missing,
// and drops blanks and duplicates.
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, 0, len(exts))
	seen := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		set = append(set, ext)
	}
	return set
}

// Matches reports whether the lowercase form of name ends with any
// extension in the set. Only the name is inspected.
func (s ExtensionSet) Matches(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Threshold converts a day count into a duration. Counts above MaxDays
// saturate at the largest representable duration.
func Threshold(days int) time.Duration {
	if days > MaxDays {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(days) * Day
}

// Age returns how long ago rec was last modified, relative to now.
func Age(rec FileRecord, now time.Time) time.Duration {
	return now.Sub(rec.ModTime)
}

// Classify decides what a pass should do with rec. Exemption is checked
// first, so an exempt file is SkippedExempt regardless of age. A file is
// aged only when strictly older than the threshold; a file exactly at the
// boundary is kept one more cycle.
func Classify(rec FileRecord, thresholdDays int, exempt ExtensionSet, now time.Time) Outcome {
	if exempt.Matches(rec.Name) {
		return OutcomeSkippedExempt
	}
	if Age(rec, now) > Threshold(thresholdDays) {
		return outcomeEligible
	}
	return OutcomeSkippedNotAged
}

// IsEligible reports whether rec should be acted on: strictly older than
// thresholdDays relative to now, and not exempt.
func IsEligible(rec FileRecord, thresholdDays int, exempt ExtensionSet, now time.Time) bool {
	return Classify(rec, thresholdDays, exempt, now) == outcomeEligible
}
