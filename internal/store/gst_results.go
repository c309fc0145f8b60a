package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/philiri"
)

type gstResultRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

type gstResultRow struct {
	ID                 string `db:"id"`
	AssessmentID       string `db:"assessment_id"`
	Language           string `db:"language"`
	Answers            string `db:"answers"`
	Score              int    `db:"score"`
	TotalItems         int    `db:"total_items"`
	TriggersIndividual bool   `db:"triggers_individual"`
	SubmittedAt        string `db:"submitted_at"`
}

func (r gstResultRow) toResult() (gst.Result, error) {
	submitted, err := parseTime(r.SubmittedAt)
	if err != nil {
		return gst.Result{}, err
	}
	var answers [philiri.GSTTotalItems]philiri.Mark
	if err := json.Unmarshal([]byte(r.Answers), &answers); err != nil {
		return gst.Result{}, fmt.Errorf("decode GST answers: %w", err)
	}
	return gst.Result{
		ID:                 r.ID,
		AssessmentID:       r.AssessmentID,
		Language:           philiri.Language(r.Language),
		Answers:            answers,
		Score:              r.Score,
		TotalItems:         r.TotalItems,
		TriggersIndividual: r.TriggersIndividual,
		SubmittedAt:        submitted,
	}, nil
}

func (r *gstResultRepo) Get(ctx context.Context, assessmentID string, lang philiri.Language) (*gst.Result, error) {
	var row gstResultRow
	err := r.db.GetContext(ctx, &row,
		`SELECT * FROM gst_results WHERE assessment_id = ? AND language = ?`,
		assessmentID, string(lang))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("get GST result failed", zap.String("assessmentId", assessmentID), zap.Error(err))
		return nil, fmt.Errorf("get GST result: %w", err)
	}
	res, err := row.toResult()
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Save upserts on (assessment_id, language): a re-test overwrites the
// earlier submission for the pair.
func (r *gstResultRepo) Save(ctx context.Context, res *gst.Result) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return fmt.Errorf("encode GST answers: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO gst_results (id, assessment_id, language, answers, score, total_items, triggers_individual, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (assessment_id, language) DO UPDATE SET
			id = excluded.id,
			answers = excluded.answers,
			score = excluded.score,
			total_items = excluded.total_items,
			triggers_individual = excluded.triggers_individual,
			submitted_at = excluded.submitted_at`,
		res.ID, res.AssessmentID, string(res.Language), string(answers),
		res.Score, res.TotalItems, res.TriggersIndividual, formatTime(res.SubmittedAt),
	)
	if err != nil {
		r.log.Error("save GST result failed", zap.String("assessmentId", res.AssessmentID), zap.Error(err))
		return fmt.Errorf("save GST result: %w", err)
	}
	return nil
}

func (r *gstResultRepo) ListForAssessment(ctx context.Context, assessmentID string) ([]gst.Result, error) {
	var rows []gstResultRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM gst_results WHERE assessment_id = ?`, assessmentID)
	if err != nil {
		r.log.Error("list GST results failed", zap.String("assessmentId", assessmentID), zap.Error(err))
		return nil, fmt.Errorf("list GST results: %w", err)
	}
	byLang := make(map[philiri.Language]gst.Result, len(rows))
	for _, row := range rows {
		res, err := row.toResult()
		if err != nil {
			return nil, err
		}
		byLang[res.Language] = res
	}
	// Administration order: Filipino, then English.
	out := make([]gst.Result, 0, len(byLang))
	for _, lang := range philiri.Languages() {
		if res, ok := byLang[lang]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}
