package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
)

type passageResultRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

type passageResultRow struct {
	ID                   string  `db:"id"`
	AssessmentID         string  `db:"assessment_id"`
	PassageID            string  `db:"passage_id"`
	Language             string  `db:"language"`
	GradeLevel           int     `db:"grade_level"`
	PassageSet           string  `db:"passage_set"`
	TotalWords           int     `db:"total_words"`
	ReadingTimeMs        int64   `db:"reading_time_ms"`
	WPM                  int     `db:"wpm"`
	Miscues              string  `db:"miscues"`
	MiscueCount          int     `db:"miscue_count"`
	WordAccuracyPct      float64 `db:"word_accuracy_pct"`
	ComprehensionAnswers string  `db:"comprehension_answers"`
	CorrectCompCount     int     `db:"correct_comp_count"`
	TotalQuestions       int     `db:"total_questions"`
	ComprehensionPct     float64 `db:"comprehension_pct"`
	ReadingLevel         string  `db:"reading_level"`
	WordAccuracyLevel    string  `db:"word_accuracy_level"`
	ComprehensionLevel   string  `db:"comprehension_level"`
	CompletedAt          string  `db:"completed_at"`
}

func (r passageResultRow) toResult() (passage.Result, error) {
	completed, err := parseTime(r.CompletedAt)
	if err != nil {
		return passage.Result{}, err
	}
	var miscues []passage.MiscueRecord
	if err := json.Unmarshal([]byte(r.Miscues), &miscues); err != nil {
		return passage.Result{}, fmt.Errorf("decode miscues: %w", err)
	}
	var answers map[string]philiri.Mark
	if err := json.Unmarshal([]byte(r.ComprehensionAnswers), &answers); err != nil {
		return passage.Result{}, fmt.Errorf("decode comprehension answers: %w", err)
	}
	return passage.Result{
		ID:                   r.ID,
		AssessmentID:         r.AssessmentID,
		PassageID:            r.PassageID,
		Language:             philiri.Language(r.Language),
		GradeLevel:           r.GradeLevel,
		PassageSet:           r.PassageSet,
		TotalWords:           r.TotalWords,
		ReadingTimeMs:        r.ReadingTimeMs,
		WPM:                  r.WPM,
		Miscues:              miscues,
		MiscueCount:          r.MiscueCount,
		WordAccuracyPct:      r.WordAccuracyPct,
		ComprehensionAnswers: answers,
		CorrectCompCount:     r.CorrectCompCount,
		TotalQuestions:       r.TotalQuestions,
		ComprehensionPct:     r.ComprehensionPct,
		ReadingLevel:         philiri.ReadingLevel(r.ReadingLevel),
		WordAccuracyLevel:    philiri.ReadingLevel(r.WordAccuracyLevel),
		ComprehensionLevel:   philiri.ReadingLevel(r.ComprehensionLevel),
		CompletedAt:          completed,
	}, nil
}

// Save always inserts; passage results are append-only so the
// retry-at-lower-grade history survives.
func (r *passageResultRepo) Save(ctx context.Context, res *passage.Result) error {
	miscues, err := json.Marshal(res.Miscues)
	if err != nil {
		return fmt.Errorf("encode miscues: %w", err)
	}
	if res.Miscues == nil {
		miscues = []byte("[]")
	}
	answers, err := json.Marshal(res.ComprehensionAnswers)
	if err != nil {
		return fmt.Errorf("encode comprehension answers: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO passage_results (
			id, assessment_id, passage_id, language, grade_level, passage_set,
			total_words, reading_time_ms, wpm, miscues, miscue_count, word_accuracy_pct,
			comprehension_answers, correct_comp_count, total_questions, comprehension_pct,
			reading_level, word_accuracy_level, comprehension_level, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.AssessmentID, res.PassageID, string(res.Language), res.GradeLevel, res.PassageSet,
		res.TotalWords, res.ReadingTimeMs, res.WPM, string(miscues), res.MiscueCount, res.WordAccuracyPct,
		string(answers), res.CorrectCompCount, res.TotalQuestions, res.ComprehensionPct,
		string(res.ReadingLevel), string(res.WordAccuracyLevel), string(res.ComprehensionLevel),
		formatTime(res.CompletedAt),
	)
	if err != nil {
		r.log.Error("save passage result failed", zap.String("assessmentId", res.AssessmentID), zap.Error(err))
		return fmt.Errorf("save passage result: %w", err)
	}
	return nil
}

func (r *passageResultRepo) ListForAssessment(ctx context.Context, assessmentID string) ([]passage.Result, error) {
	var rows []passageResultRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM passage_results WHERE assessment_id = ? ORDER BY completed_at`, assessmentID)
	if err != nil {
		r.log.Error("list passage results failed", zap.String("assessmentId", assessmentID), zap.Error(err))
		return nil, fmt.Errorf("list passage results: %w", err)
	}
	out := make([]passage.Result, 0, len(rows))
	for _, row := range rows {
		res, err := row.toResult()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
