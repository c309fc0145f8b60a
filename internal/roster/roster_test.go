package roster

import (
	"strings"
	"testing"
)

func TestFullName(t *testing.T) {
	s := Student{FirstName: "Maria", LastName: "Santos"}
	if got := s.FullName(); got != "Maria Santos" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := Student{FirstName: "Maria", LastName: "Santos", GradeLevel: 4}

	tests := []struct {
		name    string
		mutate  func(*Student)
		wantErr string
	}{
		{"valid", func(s *Student) {}, ""},
		{"valid with LRN", func(s *Student) { s.LRN = "123456789012" }, ""},
		{"missing first name", func(s *Student) { s.FirstName = "  " }, "first name"},
		{"missing last name", func(s *Student) { s.LastName = "" }, "last name"},
		{"grade too low", func(s *Student) { s.GradeLevel = 0 }, "grade level"},
		{"grade too high", func(s *Student) { s.GradeLevel = 8 }, "grade level"},
		{"LRN too short", func(s *Student) { s.LRN = "12345" }, "12 digits"},
		{"LRN with letters", func(s *Student) { s.LRN = "12345678901a" }, "only digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
