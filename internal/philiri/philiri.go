// Package philiri holds the Phil-IRI 2018 reference data: the GST cutoff,
// the reading-level bands, the miscue taxonomy, and the passage
// configuration published in the DepEd Phil-IRI 2018 manual.
//
// Every threshold lives here and only here. If DepEd revises the manual,
// this package changes and nothing else does.
package philiri

// Language is an assessment language.
type Language string

const (
	Filipino Language = "Filipino"
	English  Language = "English"
)

// Languages returns the administration order. Filipino is always first.
func Languages() []Language {
	return []Language{Filipino, English}
}

// Stage marks whether an assessment is a pretest or a posttest.
type Stage string

const (
	Pretest  Stage = "pretest"
	Posttest Stage = "posttest"
)

// Group Screening Test parameters.
const (
	GSTTotalItems = 20

	// Scores below this cutoff trigger individual passage testing.
	IndividualTestingCutoff = 14
)

// Grade levels where the GST is administered, per language.
var (
	FilipinoGSTGrades = []int{3, 4, 5, 6}
	EnglishGSTGrades  = []int{4, 5, 6}
)

// GSTEligible reports whether the GST is administered in the given
// language at the given grade level.
func GSTEligible(lang Language, gradeLevel int) bool {
	grades := FilipinoGSTGrades
	if lang == English {
		grades = EnglishGSTGrades
	}
	for _, g := range grades {
		if g == gradeLevel {
			return true
		}
	}
	return false
}

// EligibleGSTLanguages returns the languages whose GST is offered at the
// given grade level, in administration order.
func EligibleGSTLanguages(gradeLevel int) []Language {
	var langs []Language
	for _, lang := range Languages() {
		if GSTEligible(lang, gradeLevel) {
			langs = append(langs, lang)
		}
	}
	return langs
}

// GSTTriggersIndividual reports whether a raw GST score sends the student
// to individual graded-passage testing.
func GSTTriggersIndividual(score int) bool {
	return score < IndividualTestingCutoff
}

// Reading-level bands (Table 7, Phil-IRI 2018 manual). Both word accuracy
// and comprehension must meet a threshold; on disagreement the lower level
// stands.
const (
	WordAccuracyIndependentMin   = 97.0
	WordAccuracyInstructionalMin = 90.0

	ComprehensionIndependentMin   = 80.0
	ComprehensionInstructionalMin = 59.0
)

// Passage configuration.
const (
	FilipinoPassageMinGrade = 1
	FilipinoPassageMaxGrade = 7
	EnglishPassageMinGrade  = 2
	EnglishPassageMaxGrade  = 7

	// Narrative passages run grades 1-4; expository grades 5-7.
	NarrativeMaxGrade = 4
)

// PassageSets are the four parallel forms published per grade and language.
var PassageSets = []string{"A", "B", "C", "D"}

// WPMRange is a reference fluency band for one grade level.
type WPMRange struct {
	Min int
	Max int
}

// WPMBenchmarks maps grade level to a general fluency band. WPM is a
// supplementary data point in Phil-IRI, never a level determinant.
var WPMBenchmarks = map[int]WPMRange{
	1: {Min: 40, Max: 60},
	2: {Min: 70, Max: 90},
	3: {Min: 90, Max: 110},
	4: {Min: 100, Max: 120},
	5: {Min: 110, Max: 130},
	6: {Min: 120, Max: 140},
	7: {Min: 130, Max: 150},
}
