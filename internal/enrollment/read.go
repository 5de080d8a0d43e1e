package enrollment

import (
	"context"
	"errors"
	"strings"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/models"
)

// Applicant is the full record of one student.
type Applicant struct {
	Student      models.Student            `json:"student"`
	Guardian     *models.Guardian          `json:"guardian,omitempty"`
	TrackingCode string                    `json:"tracking_code,omitempty"`
	HasAccount   bool                      `json:"has_account"`
	Current      *models.EnrollmentPeriod  `json:"current_period,omitempty"`
	Periods      []models.EnrollmentPeriod `json:"periods"`
	Documents    *models.DocumentSet       `json:"documents,omitempty"`
}

// GetApplicant joins the student with its satellite records; missing satellites stay nil.
func (s *Service) GetApplicant(ctx context.Context, lrn string) (*Applicant, error) {
	lrn = strings.TrimSpace(lrn)
	st, err := s.store.GetStudent(ctx, lrn)
	if err != nil {
		return nil, err
	}
	out := &Applicant{Student: *st}

	if out.Guardian, err = optionalRecord(s.store.GetGuardian(ctx, lrn)); err != nil {
		return nil, err
	}
	acc, err := optionalRecord(s.store.GetAccount(ctx, lrn))
	if err != nil {
		return nil, err
	}
	if acc != nil {
		out.TrackingCode = acc.TrackingCode
		out.HasAccount = acc.HasPassword()
	}
	if out.Current, err = optionalRecord(s.store.CurrentPeriod(ctx, lrn, s.CurrentSchoolYear())); err != nil {
		return nil, err
	}
	if out.Periods, err = s.store.ListPeriods(ctx, lrn); err != nil {
		return nil, err
	}
	if out.Documents, err = optionalRecord(s.store.GetDocuments(ctx, lrn)); err != nil {
		return nil, err
	}
	return out, nil
}

func optionalRecord[T any](v *T, err error) (*T, error) {
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// ListByStatus serves the review queues. At least one status is required.
func (s *Service) ListByStatus(ctx context.Context, statuses ...models.Status) ([]models.Student, error) {
	if len(statuses) == 0 {
		return nil, apperr.New("list by status", apperr.ErrValidation, "at least one status is required")
	}
	return s.store.ListByStatus(ctx, statuses...)
}

// Roster lists Enrolled and Temporary Enrolled students of a school year
// (the current one when empty).
func (s *Service) Roster(ctx context.Context, schoolYear string) ([]models.RosterRow, error) {
	schoolYear = strings.TrimSpace(schoolYear)
	if schoolYear == "" {
		schoolYear = s.CurrentSchoolYear()
	}
	return s.store.Roster(ctx, schoolYear, models.StatusEnrolled, models.StatusTemporaryEnrolled)
}

// OverdueTemporary lists students whose Temporary Enrolled window has run out.
func (s *Service) OverdueTemporary(ctx context.Context) ([]models.Student, error) {
	return s.store.TemporaryEnrolledSince(ctx, s.now().Add(-s.tempWindow))
}

// TempWindowDays is the Temporary Enrolled window in whole days.
func (s *Service) TempWindowDays() int {
	return int(s.tempWindow.Hours() / 24)
}
