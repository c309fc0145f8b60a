package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/philiri"
)

type assessmentRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

type assessmentRow struct {
	ID          string  `db:"id"`
	StudentID   string  `db:"student_id"`
	Stage       string  `db:"stage"`
	CreatedAt   string  `db:"created_at"`
	UpdatedAt   string  `db:"updated_at"`
	CompletedAt *string `db:"completed_at"`
	FinalLevel  string  `db:"final_level"`
	Languages   string  `db:"languages"`
}

func (r assessmentRow) toAssessment() (assessment.Assessment, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return assessment.Assessment{}, err
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return assessment.Assessment{}, err
	}
	completed, err := parseNullableTime(r.CompletedAt)
	if err != nil {
		return assessment.Assessment{}, err
	}
	var langs []philiri.Language
	if err := json.Unmarshal([]byte(r.Languages), &langs); err != nil {
		return assessment.Assessment{}, fmt.Errorf("decode assessment languages: %w", err)
	}
	return assessment.Assessment{
		ID:          r.ID,
		StudentID:   r.StudentID,
		Stage:       philiri.Stage(r.Stage),
		CreatedAt:   created,
		UpdatedAt:   updated,
		CompletedAt: completed,
		FinalLevel:  philiri.ReadingLevel(r.FinalLevel),
		Languages:   langs,
	}, nil
}

func (r *assessmentRepo) Create(ctx context.Context, a *assessment.Assessment) error {
	langs, err := json.Marshal(a.Languages)
	if err != nil {
		return fmt.Errorf("encode assessment languages: %w", err)
	}
	if a.Languages == nil {
		langs = []byte("[]")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assessments (id, student_id, stage, created_at, updated_at, completed_at, final_level, languages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.StudentID, string(a.Stage),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt), formatNullableTime(a.CompletedAt),
		string(a.FinalLevel), string(langs),
	)
	if err != nil {
		r.log.Error("create assessment failed", zap.String("id", a.ID), zap.Error(err))
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepo) Get(ctx context.Context, id string) (*assessment.Assessment, error) {
	var row assessmentRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM assessments WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("get assessment failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	a, err := row.toAssessment()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) ListForStudent(ctx context.Context, studentID string) ([]assessment.Assessment, error) {
	var rows []assessmentRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM assessments WHERE student_id = ? ORDER BY created_at DESC`, studentID)
	if err != nil {
		r.log.Error("list assessments failed", zap.String("studentId", studentID), zap.Error(err))
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	out := make([]assessment.Assessment, 0, len(rows))
	for _, row := range rows {
		a, err := row.toAssessment()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// RecordPassageOutcome is a last-write update of the running final level
// plus membership in the administered-language set. CompletedAt is left
// alone; the routing layer owns it.
func (r *assessmentRepo) RecordPassageOutcome(ctx context.Context, id string, lang philiri.Language, level philiri.ReadingLevel) error {
	a, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return fmt.Errorf("record passage outcome: assessment %s not found", id)
	}
	langs := a.Languages
	if !a.HasLanguage(lang) {
		langs = append(langs, lang)
	}
	encoded, err := json.Marshal(langs)
	if err != nil {
		return fmt.Errorf("encode assessment languages: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE assessments SET final_level = ?, languages = ?, updated_at = ? WHERE id = ?`,
		string(level), string(encoded), formatTime(time.Now()), id,
	)
	if err != nil {
		r.log.Error("record passage outcome failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("record passage outcome: %w", err)
	}
	return nil
}

func (r *assessmentRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE assessments SET completed_at = ?, updated_at = ? WHERE id = ? AND completed_at IS NULL`,
		formatTime(at), formatTime(at), id,
	)
	if err != nil {
		r.log.Error("mark assessment complete failed", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("mark assessment complete: %w", err)
	}
	return nil
}
