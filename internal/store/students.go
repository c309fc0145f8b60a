package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nbwedev/phil-iri/internal/roster"
)

type studentRepo struct {
	db  *sqlx.DB
	log *zap.Logger
}

type studentRow struct {
	ID         string `db:"id"`
	FirstName  string `db:"first_name"`
	LastName   string `db:"last_name"`
	LRN        string `db:"lrn"`
	GradeLevel int    `db:"grade_level"`
	Section    string `db:"section"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

func (r studentRow) toStudent() (roster.Student, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return roster.Student{}, err
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return roster.Student{}, err
	}
	return roster.Student{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		LRN:        r.LRN,
		GradeLevel: r.GradeLevel,
		Section:    r.Section,
		CreatedAt:  created,
		UpdatedAt:  updated,
	}, nil
}

func (r *studentRepo) Create(ctx context.Context, s *roster.Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, first_name, last_name, lrn, grade_level, section, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.FirstName, s.LastName, s.LRN, s.GradeLevel, s.Section,
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		r.log.Error("create student failed", zap.String("id", s.ID), zap.Error(err))
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (r *studentRepo) Get(ctx context.Context, id string) (*roster.Student, error) {
	var row studentRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM students WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("get student failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get student: %w", err)
	}
	s, err := row.toStudent()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) List(ctx context.Context) ([]roster.Student, error) {
	var rows []studentRow
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM students ORDER BY last_name, first_name`)
	if err != nil {
		r.log.Error("list students failed", zap.Error(err))
		return nil, fmt.Errorf("list students: %w", err)
	}
	students := make([]roster.Student, 0, len(rows))
	for _, row := range rows {
		s, err := row.toStudent()
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, nil
}

func (r *studentRepo) Update(ctx context.Context, s *roster.Student) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET first_name = ?, last_name = ?, lrn = ?, grade_level = ?, section = ?, updated_at = ?
		WHERE id = ?`,
		s.FirstName, s.LastName, s.LRN, s.GradeLevel, s.Section, formatTime(s.UpdatedAt), s.ID,
	)
	if err != nil {
		r.log.Error("update student failed", zap.String("id", s.ID), zap.Error(err))
		return fmt.Errorf("update student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update student: %s not found", s.ID)
	}
	return nil
}

// Delete removes the student and cascades to their assessments and every
// result scoped to those assessments, in one transaction.
func (r *studentRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM gst_results WHERE assessment_id IN (SELECT id FROM assessments WHERE student_id = ?)`,
		`DELETE FROM passage_results WHERE assessment_id IN (SELECT id FROM assessments WHERE student_id = ?)`,
		`DELETE FROM assessments WHERE student_id = ?`,
		`DELETE FROM students WHERE id = ?`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			r.log.Error("cascade delete failed", zap.String("id", id), zap.Error(err))
			return fmt.Errorf("delete student: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
