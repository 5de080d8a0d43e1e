package db

import (
	"context"

	"github.com/lib/pq"

	"github.com/sv8bshs/enrollment/internal/ctxutil"
	"github.com/sv8bshs/enrollment/internal/models"
)

const periodColumns = `e.id, e.lrn, e.school_year, e.semester, e.status, e.enrollment_type, e.grade_slip, e.rejection_reason, e.created_at`

func scanPeriod(row rowScanner) (*models.EnrollmentPeriod, error) {
	var p models.EnrollmentPeriod
	if err := row.Scan(&p.ID, &p.LRN, &p.SchoolYear, &p.Semester, &p.Status, &p.EnrollmentType, &p.GradeSlip, &p.RejectionReason, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CurrentPeriod returns the most recently created period record of the school year.
func (s *Store) CurrentPeriod(ctx context.Context, lrn, schoolYear string) (*models.EnrollmentPeriod, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+periodColumns+`
		FROM student_enrollments e
		WHERE e.lrn = $1 AND e.school_year = $2
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT 1`, lrn, schoolYear)
	p, err := scanPeriod(row)
	if err != nil {
		return nil, translate("current period", err)
	}
	return p, nil
}

func (s *Store) GetPeriod(ctx context.Context, lrn, schoolYear string, sem models.Semester) (*models.EnrollmentPeriod, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+periodColumns+`
		FROM student_enrollments e
		WHERE e.lrn = $1 AND e.school_year = $2 AND e.semester = $3`, lrn, schoolYear, string(sem))
	p, err := scanPeriod(row)
	if err != nil {
		return nil, translate("get period", err)
	}
	return p, nil
}

func (s *Store) ListPeriods(ctx context.Context, lrn string) ([]models.EnrollmentPeriod, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+periodColumns+`
		FROM student_enrollments e
		WHERE e.lrn = $1
		ORDER BY e.created_at, e.id`, lrn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.EnrollmentPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// InsertPeriod adds a new period record. A second record for the same
// (LRN, school year, semester) is rejected with apperr.ErrDuplicate.
func (s *Store) InsertPeriod(ctx context.Context, p models.EnrollmentPeriod) (*models.EnrollmentPeriod, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO student_enrollments AS e (lrn, school_year, semester, status, enrollment_type, grade_slip, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING `+periodColumns,
		p.LRN, p.SchoolYear, string(p.Semester), string(p.Status), string(p.EnrollmentType), p.GradeSlip, p.CreatedAt)
	out, err := scanPeriod(row)
	if err != nil {
		return nil, translate("insert period", err)
	}
	return out, nil
}

// Roster lists every student with a period record in the school year, joined
// with that record and the guardian, ordered by strand and name.
func (s *Store) Roster(ctx context.Context, schoolYear string, statuses ...models.Status) ([]models.RosterRow, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, string(st))
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+studentColumns+`, `+periodColumns+`,
			g.lrn, g.fathers_name, g.fathers_contact, g.mothers_name, g.mothers_contact, g.guardian_name, g.guardian_contact
		FROM students s
		JOIN LATERAL (
			SELECT * FROM student_enrollments x
			WHERE x.lrn = s.lrn AND x.school_year = $1
			ORDER BY x.created_at DESC, x.id DESC
			LIMIT 1
		) e ON TRUE
		JOIN guardians g ON g.lrn = s.lrn
		WHERE cardinality($2::text[]) = 0 OR s.enrollment_status = ANY($2)
		ORDER BY s.strand, s.lastname, s.firstname`, schoolYear, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.RosterRow
	for rows.Next() {
		var (
			p models.EnrollmentPeriod
			g models.Guardian
		)
		st, err := scanStudent(rows,
			&p.ID, &p.LRN, &p.SchoolYear, &p.Semester, &p.Status, &p.EnrollmentType, &p.GradeSlip, &p.RejectionReason, &p.CreatedAt,
			&g.LRN, &g.FatherName, &g.FatherContact, &g.MotherName, &g.MotherContact, &g.GuardianName, &g.GuardianContact,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, models.RosterRow{Student: *st, Period: &p, Guardian: &g})
	}
	return out, rows.Err()
}
