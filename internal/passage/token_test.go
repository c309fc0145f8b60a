package passage

import "testing"

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"simple", "Si Ana ay masipag.", []string{"Si", "Ana", "ay", "masipag."}},
		{"collapsed whitespace", "one  two\n\nthree\tfour", []string{"one", "two", "three", "four"}},
		{"leading and trailing space", "  hello world  ", []string{"hello", "world"}},
		{"empty", "", nil},
		{"only whitespace", "   \n\t ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) produced %d tokens, want %d", tt.text, len(got), len(tt.want))
			}
			for i, tok := range got {
				if tok.Index != i {
					t.Errorf("token %d has Index %d", i, tok.Index)
				}
				if tok.Word != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, tok.Word, tt.want[i])
				}
				if tok.Miscue != "" || tok.SelfCorrection {
					t.Errorf("token %d not clean: %+v", i, tok)
				}
			}
		})
	}
}
