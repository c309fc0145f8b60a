// Package scoring converts raw oral-reading observations into the
// percentages and the reading-level verdict defined by the Phil-IRI 2018
// manual. Everything here is a pure function.
package scoring

import (
	"math"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

// WordAccuracyPct returns the word-accuracy percentage rounded to one
// decimal place. Returns 0 when totalWords is not positive.
//
// miscueCount is not validated here; callers guarantee
// 0 <= miscueCount <= totalWords.
func WordAccuracyPct(totalWords, miscueCount int) float64 {
	if totalWords <= 0 {
		return 0
	}
	correct := float64(totalWords - miscueCount)
	return math.Round(correct/float64(totalWords)*1000) / 10
}

// ComprehensionPct returns the comprehension percentage rounded to the
// nearest whole number. Returns 0 when total is not positive.
func ComprehensionPct(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct) / float64(total) * 100)
}

// WPM returns words read per minute rounded to the nearest whole number.
// Returns 0 when readingTimeMs is not positive.
func WPM(totalWords int, readingTimeMs int64) int {
	if readingTimeMs <= 0 {
		return 0
	}
	minutes := float64(readingTimeMs) / 60000
	return int(math.Round(float64(totalWords) / minutes))
}

// LevelResult is the classifier verdict with its per-metric breakdown.
type LevelResult struct {
	Level              philiri.ReadingLevel
	WordAccuracyLevel  philiri.ReadingLevel
	ComprehensionLevel philiri.ReadingLevel
}

// LevelFromWordAccuracy maps a word-accuracy percentage to its band.
func LevelFromWordAccuracy(pct float64) philiri.ReadingLevel {
	switch {
	case pct >= philiri.WordAccuracyIndependentMin:
		return philiri.Independent
	case pct >= philiri.WordAccuracyInstructionalMin:
		return philiri.Instructional
	default:
		return philiri.Frustration
	}
}

// LevelFromComprehension maps a comprehension percentage to its band.
func LevelFromComprehension(pct float64) philiri.ReadingLevel {
	switch {
	case pct >= philiri.ComprehensionIndependentMin:
		return philiri.Independent
	case pct >= philiri.ComprehensionInstructionalMin:
		return philiri.Instructional
	default:
		return philiri.Frustration
	}
}

// Classify evaluates both bands independently and applies the
// lower-level-wins rule. Total over all inputs; no clamping.
func Classify(wordAccuracyPct, comprehensionPct float64) LevelResult {
	wa := LevelFromWordAccuracy(wordAccuracyPct)
	cp := LevelFromComprehension(comprehensionPct)
	return LevelResult{
		Level:              philiri.LowerLevel(wa, cp),
		WordAccuracyLevel:  wa,
		ComprehensionLevel: cp,
	}
}
