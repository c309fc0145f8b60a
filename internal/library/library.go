// Package library is the read-only graded-passage lookup. The DepEd
// passage set is fixed reference material, so it ships compiled into the
// binary and is validated against a schema at load time. The rest of the
// system treats passage text as opaque; only TotalWords and Questions
// drive scoring.
package library

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

//go:embed passages.json
var passagesJSON []byte

//go:embed schema.json
var schemaJSON []byte

// Question is one comprehension question attached to a passage.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"` // literal, inferential, critical
}

// Passage is one graded passage form.
type Passage struct {
	ID         string           `json:"id"`
	Language   philiri.Language `json:"language"`
	GradeLevel int              `json:"gradeLevel"`
	Set        string           `json:"set"`
	Type       string           `json:"type"` // narrative or expository
	Title      string           `json:"title"`
	Text       string           `json:"text"`
	Questions  []Question       `json:"questions"`
	TotalWords int              `json:"totalWords"`
}

// Library is an immutable collection of passages.
type Library struct {
	passages []Passage
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the embedded library, loading and validating it once.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(passagesJSON)
	})
	return defaultLib, defaultErr
}

// Load parses a passage library document, validating it against the
// embedded schema first.
func Load(data []byte) (*Library, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse passage library: %w", err)
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse passage schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("philiri://passages.schema.json", schemaDoc); err != nil {
		return nil, fmt.Errorf("add passage schema: %w", err)
	}
	compiled, err := c.Compile("philiri://passages.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile passage schema: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, fmt.Errorf("passage library failed validation: %w", err)
	}

	var passages []Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, fmt.Errorf("decode passage library: %w", err)
	}
	return &Library{passages: passages}, nil
}

// FindPassage returns the passage for (language, grade, set), or nil when
// the library has no such form.
func (l *Library) FindPassage(lang philiri.Language, gradeLevel int, set string) *Passage {
	for i := range l.passages {
		p := &l.passages[i]
		if p.Language == lang && p.GradeLevel == gradeLevel && p.Set == set {
			cp := *p
			return &cp
		}
	}
	return nil
}

// AvailableGrades returns the sorted distinct grade levels that have at
// least one passage in the given language.
func (l *Library) AvailableGrades(lang philiri.Language) []int {
	seen := map[int]bool{}
	var grades []int
	for _, p := range l.passages {
		if p.Language == lang && !seen[p.GradeLevel] {
			seen[p.GradeLevel] = true
			grades = append(grades, p.GradeLevel)
		}
	}
	sort.Ints(grades)
	return grades
}

// All returns a copy of every passage, for reporting.
func (l *Library) All() []Passage {
	out := make([]Passage, len(l.passages))
	copy(out, l.passages)
	return out
}
