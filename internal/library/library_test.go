package library

import (
	"strings"
	"testing"

	"github.com/nbwedev/phil-iri/internal/philiri"
)

func TestDefaultLibraryLoads(t *testing.T) {
	lib, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if len(lib.All()) == 0 {
		t.Fatal("embedded library is empty")
	}
}

func TestFindPassage(t *testing.T) {
	lib, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	p := lib.FindPassage(philiri.Filipino, 1, "A")
	if p == nil {
		t.Fatal("Filipino grade 1 set A not found")
	}
	if p.ID != "fil-gr1-A" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.TotalWords <= 0 || len(p.Questions) < 5 {
		t.Errorf("incomplete passage: totalWords=%d questions=%d", p.TotalWords, len(p.Questions))
	}

	if got := lib.FindPassage(philiri.English, 1, "A"); got != nil {
		t.Errorf("English grade 1 should be absent, got %q", got.ID)
	}
	if got := lib.FindPassage(philiri.Filipino, 1, "B"); got != nil {
		t.Errorf("set B should be absent, got %q", got.ID)
	}
}

func TestAvailableGrades(t *testing.T) {
	lib, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	fil := lib.AvailableGrades(philiri.Filipino)
	if len(fil) == 0 || fil[0] != 1 {
		t.Errorf("Filipino grades = %v, want ascending starting at 1", fil)
	}
	for i := 1; i < len(fil); i++ {
		if fil[i] <= fil[i-1] {
			t.Fatalf("grades not strictly ascending: %v", fil)
		}
	}
	eng := lib.AvailableGrades(philiri.English)
	if len(eng) == 0 || eng[0] != 2 {
		t.Errorf("English grades = %v, want ascending starting at 2", eng)
	}
}

// The embedded word counts are load-bearing: they drive WPM and word
// accuracy. Keep them equal to the whitespace token count.
func TestTotalWordsMatchText(t *testing.T) {
	lib, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range lib.All() {
		if got := len(strings.Fields(p.Text)); got != p.TotalWords {
			t.Errorf("%s: totalWords=%d but text has %d tokens", p.ID, p.TotalWords, got)
		}
	}
}

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not JSON", `{{`},
		{"empty list", `[]`},
		{"missing fields", `[{"id": "x"}]`},
		{"bad language", `[{"id":"x","language":"Spanish","gradeLevel":1,"set":"A","type":"narrative","title":"t","text":"a b","questions":[{"id":"q1","text":"?","type":"literal"},{"id":"q2","text":"?","type":"literal"},{"id":"q3","text":"?","type":"literal"},{"id":"q4","text":"?","type":"literal"},{"id":"q5","text":"?","type":"literal"}],"totalWords":2}]`},
		{"too few questions", `[{"id":"x","language":"English","gradeLevel":2,"set":"A","type":"narrative","title":"t","text":"a b","questions":[{"id":"q1","text":"?","type":"literal"}],"totalWords":2}]`},
	}
	for _, tt := range tests {
		if _, err := Load([]byte(tt.doc)); err == nil {
			t.Errorf("%s: Load accepted an invalid document", tt.name)
		}
	}
}
