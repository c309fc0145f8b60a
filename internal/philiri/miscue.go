package philiri

// MiscueType is one of the seven oral-reading deviation categories in the
// Phil-IRI manual. Self-correction is not a miscue type: it is noted on a
// word but never counted as an error.
type MiscueType struct {
	ID          string
	Label       string
	ShortLabel  string
	Description string
}

// MiscueTypes lists the seven categories in manual order.
var MiscueTypes = []MiscueType{
	{ID: "mispronunciation", Label: "Mispronunciation", ShortLabel: "MP", Description: "Word is pronounced incorrectly"},
	{ID: "omission", Label: "Omission", ShortLabel: "OM", Description: "Word is skipped entirely"},
	{ID: "substitution", Label: "Substitution", ShortLabel: "SB", Description: "A different word is read in place of the printed word"},
	{ID: "insertion", Label: "Insertion", ShortLabel: "IN", Description: "An extra word is added that is not in the text"},
	{ID: "repetition", Label: "Repetition", ShortLabel: "RP", Description: "A word or phrase is repeated"},
	{ID: "transposition", Label: "Transposition", ShortLabel: "TR", Description: "Word order is reversed or rearranged"},
	{ID: "reversal", Label: "Reversal", ShortLabel: "RV", Description: "Letters within a word are reversed (e.g., \"was\" read as \"saw\")"},
}

// MiscueTypeByID looks up a miscue type. The second return is false for
// unknown ids.
func MiscueTypeByID(id string) (MiscueType, bool) {
	for _, mt := range MiscueTypes {
		if mt.ID == id {
			return mt, true
		}
	}
	return MiscueType{}, false
}
