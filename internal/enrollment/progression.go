package enrollment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/metrics"
	"github.com/sv8bshs/enrollment/internal/models"
)

type ProgressionResult struct {
	Period   models.EnrollmentPeriod `json:"period"`
	Password string                  `json:"password"`
}

// AdvanceSemester adds the 2nd semester record of schoolYear (the current one
// when empty), carrying type and grade slip over from the 1st. The returned
// password is regenerated, never stored and never mailed.
func (s *Service) AdvanceSemester(ctx context.Context, lrn, schoolYear string) (*ProgressionResult, error) {
	const op = "advance semester"
	lrn = strings.TrimSpace(lrn)
	if lrn == "" {
		return nil, apperr.New(op, apperr.ErrValidation, "LRN is required")
	}
	schoolYear = strings.TrimSpace(schoolYear)
	if schoolYear == "" {
		schoolYear = s.CurrentSchoolYear()
	}

	first, err := s.store.GetPeriod(ctx, lrn, schoolYear, models.FirstSemester)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Wrap(op, apperr.ErrNotFound, err, "no 1st semester record for %s in %s", lrn, schoolYear)
		}
		return nil, err
	}
	st, err := s.store.GetStudent(ctx, lrn)
	if err != nil {
		return nil, err
	}
	password, err := s.gen.Password(st.LastName, lrn)
	if err != nil {
		return nil, err
	}

	next, err := s.store.InsertPeriod(ctx, models.EnrollmentPeriod{
		LRN:            lrn,
		SchoolYear:     schoolYear,
		Semester:       models.SecondSemester,
		Status:         models.StatusEnrolled,
		EnrollmentType: first.EnrollmentType,
		GradeSlip:      first.GradeSlip,
		CreatedAt:      s.now(),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Wrap(op, apperr.ErrDuplicate, err, "%s is already in the 2nd semester of %s", lrn, schoolYear)
		}
		return nil, err
	}
	metrics.Progressions.Inc()
	s.logger(ctx).Info("advanced to 2nd semester", zap.String("lrn", lrn), zap.String("school_year", schoolYear))
	return &ProgressionResult{Period: *next, Password: password}, nil
}
