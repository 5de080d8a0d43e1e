package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/ctxutil"
	"github.com/sv8bshs/enrollment/internal/models"
)

const studentColumns = `
	s.lrn, s.firstname, s.middlename, s.lastname, s.suffix, s.age, s.sex, s.civil_status,
	s.nationality, s.birthdate, s.place_of_birth, s.religion, s.cpnumber, s.home_add, s.email,
	s.yearlevel, s.strand, s.student_type, s.enrollment_status, s.reason, s.created_at, s.status_updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner, extra ...any) (*models.Student, error) {
	var st models.Student
	dest := []any{
		&st.LRN, &st.FirstName, &st.MiddleName, &st.LastName, &st.Suffix, &st.Age, &st.Sex, &st.CivilStatus,
		&st.Nationality, &st.Birthdate, &st.PlaceOfBirth, &st.Religion, &st.Phone, &st.HomeAddress, &st.Email,
		&st.YearLevel, &st.Strand, &st.StudentType, &st.Status, &st.Reason, &st.CreatedAt, &st.StatusUpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) LRNExists(ctx context.Context, lrn string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE lrn = $1)`, lrn)
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, strings.ToLower(email))
}

// CreateApplicant inserts the five intake rows in one transaction.
// A unique violation from any of them surfaces as apperr.ErrDuplicate and nothing is kept.
func (s *Store) CreateApplicant(ctx context.Context, r models.ApplicantRecords) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		st := r.Student
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO students (
				lrn, firstname, middlename, lastname, suffix, age, sex, civil_status, nationality,
				birthdate, place_of_birth, religion, cpnumber, home_add, email, yearlevel, strand,
				student_type, enrollment_status, reason, created_at, status_updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NULL, $20, $20)`,
			st.LRN, st.FirstName, st.MiddleName, st.LastName, st.Suffix, st.Age, st.Sex, st.CivilStatus, st.Nationality,
			st.Birthdate, st.PlaceOfBirth, st.Religion, st.Phone, st.HomeAddress, strings.ToLower(st.Email), st.YearLevel, st.Strand,
			st.StudentType, string(models.StatusPending), st.CreatedAt,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO student_documents (lrn) VALUES ($1)`, st.LRN); err != nil {
			return err
		}

		g := r.Guardian
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO guardians (lrn, fathers_name, fathers_contact, mothers_name, mothers_contact, guardian_name, guardian_contact)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			st.LRN, g.FatherName, g.FatherContact, g.MotherName, g.MotherContact, g.GuardianName, g.GuardianContact,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO student_accounts (lrn, tracking_code, password_hash) VALUES ($1, $2, NULL)`,
			st.LRN, r.Account.TrackingCode,
		); err != nil {
			return err
		}

		p := r.Period
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO student_enrollments (lrn, school_year, semester, status, enrollment_type, grade_slip, rejection_reason, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NULL, $7)`,
			st.LRN, p.SchoolYear, string(p.Semester), string(models.StatusPending), string(p.EnrollmentType), p.GradeSlip, st.CreatedAt,
		); err != nil {
			return err
		}
		return nil
	})
	return translate("create applicant", err)
}

func (s *Store) GetStudent(ctx context.Context, lrn string) (*models.Student, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students s WHERE s.lrn = $1`, lrn)
	st, err := scanStudent(row)
	if err != nil {
		return nil, translate("get student", err)
	}
	return st, nil
}

// ApplyStatusChange writes status, reason, the optional password hash and the current
// period record in one short transaction.
func (s *Store) ApplyStatusChange(ctx context.Context, c models.StatusChange) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE students
			SET enrollment_status = $2, reason = $3, status_updated_at = $4
			WHERE lrn = $1`,
			c.LRN, string(c.Status), c.Reason, c.At,
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New("apply status", apperr.ErrNotFound, "student %s not found", c.LRN)
		}

		if c.PasswordHash != nil {
			res, err := tx.ExecContext(ctx, `UPDATE student_accounts SET password_hash = $2 WHERE lrn = $1`, c.LRN, *c.PasswordHash)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return apperr.New("apply status", apperr.ErrNotFound, "account for %s not found", c.LRN)
			}
		}

		var rejection *string
		if c.Status == models.StatusRejected {
			rejection = c.Reason
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE student_enrollments
			SET status = $3, rejection_reason = $4, updated_at = $5
			WHERE id = (
				SELECT id FROM student_enrollments
				WHERE lrn = $1 AND school_year = $2
				ORDER BY created_at DESC, id DESC
				LIMIT 1
			)`,
			c.LRN, c.SchoolYear, string(c.Status), rejection, c.At,
		)
		return err
	})
	return translate("apply status", err)
}

func (s *Store) GetAccount(ctx context.Context, lrn string) (*models.AccountCredential, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var a models.AccountCredential
	err := s.db.QueryRowContext(ctx,
		`SELECT lrn, tracking_code, password_hash FROM student_accounts WHERE lrn = $1`, lrn,
	).Scan(&a.LRN, &a.TrackingCode, &a.PasswordHash)
	if err != nil {
		return nil, translate("get account", err)
	}
	return &a, nil
}

func (s *Store) GetGuardian(ctx context.Context, lrn string) (*models.Guardian, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var g models.Guardian
	err := s.db.QueryRowContext(ctx, `
		SELECT lrn, fathers_name, fathers_contact, mothers_name, mothers_contact, guardian_name, guardian_contact
		FROM guardians WHERE lrn = $1`, lrn,
	).Scan(&g.LRN, &g.FatherName, &g.FatherContact, &g.MotherName, &g.MotherContact, &g.GuardianName, &g.GuardianContact)
	if err != nil {
		return nil, translate("get guardian", err)
	}
	return &g, nil
}

// ListByStatus returns students in any of the given statuses, newest applications first.
func (s *Store) ListByStatus(ctx context.Context, statuses ...models.Status) ([]models.Student, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, string(st))
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+studentColumns+`
		FROM students s
		WHERE s.enrollment_status = ANY($1)
		ORDER BY s.created_at DESC`, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

// TemporaryEnrolledSince lists students whose Temporary Enrolled status was set before cutoff.
func (s *Store) TemporaryEnrolledSince(ctx context.Context, cutoff time.Time) ([]models.Student, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+studentColumns+`
		FROM students s
		WHERE s.enrollment_status = $1 AND s.status_updated_at < $2
		ORDER BY s.status_updated_at`, string(models.StatusTemporaryEnrolled), cutoff)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}
