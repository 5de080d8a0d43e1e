package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/metrics"
	"github.com/sv8bshs/enrollment/internal/models"
	"github.com/sv8bshs/enrollment/internal/notify"
)

const notAvailable = "N/A"

// Application is what an applicant submits.
type Application struct {
	LRN          string `json:"lrn"`
	FirstName    string `json:"firstname"`
	MiddleName   string `json:"middlename"`
	LastName     string `json:"lastname"`
	Suffix       string `json:"suffix"`
	Age          int    `json:"age"`
	Sex          string `json:"sex"`
	CivilStatus  string `json:"civil_status"`
	Nationality  string `json:"nationality"`
	Birthdate    string `json:"birthdate"` // YYYY-MM-DD
	PlaceOfBirth string `json:"place_of_birth"`
	Religion     string `json:"religion"`
	Phone        string `json:"cpnumber"`
	HomeAddress  string `json:"home_add"`
	Email        string `json:"email"`
	YearLevel    string `json:"yearlevel"`
	Strand       string `json:"strand"`
	StudentType  string `json:"student_type"`

	EnrollmentType string `json:"enrollment_type"`
	GradeSlip      string `json:"grade_slip"`

	FatherName      string `json:"fathers_name"`
	FatherContact   string `json:"fathers_contact"`
	MotherName      string `json:"mothers_name"`
	MotherContact   string `json:"mothers_contact"`
	GuardianName    string `json:"guardian_name"`
	GuardianContact string `json:"guardian_contact"`
}

func (a *Application) normalize() {
	for _, f := range []*string{
		&a.LRN, &a.FirstName, &a.MiddleName, &a.LastName, &a.Suffix, &a.Sex, &a.CivilStatus,
		&a.Nationality, &a.Birthdate, &a.PlaceOfBirth, &a.Religion, &a.Phone, &a.HomeAddress,
		&a.Email, &a.YearLevel, &a.Strand, &a.StudentType, &a.EnrollmentType, &a.GradeSlip,
		&a.FatherName, &a.FatherContact, &a.MotherName, &a.MotherContact, &a.GuardianName, &a.GuardianContact,
	} {
		*f = strings.TrimSpace(*f)
	}
	a.Email = strings.ToLower(a.Email)
}

func (a Application) validate() error {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"lrn", a.LRN}, {"lastname", a.LastName}, {"firstname", a.FirstName},
		{"strand", a.Strand}, {"email", a.Email},
	} {
		if f.v == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.New("create applicant", apperr.ErrValidation, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if !strings.Contains(a.Email, "@") {
		return apperr.New("create applicant", apperr.ErrValidation, "email %q is not valid", a.Email)
	}
	if a.EnrollmentType != "" {
		if _, ok := models.ParseEnrollmentType(a.EnrollmentType); !ok {
			return apperr.New("create applicant", apperr.ErrValidation, "unknown enrollment type %q", a.EnrollmentType)
		}
	}
	if a.Age < 0 {
		return apperr.New("create applicant", apperr.ErrValidation, "age must not be negative")
	}
	return nil
}

// guardianOf picks the guardian: the named guardian, else father, else mother, else N/A.
func guardianOf(a Application) models.Guardian {
	g := models.Guardian{
		LRN:           a.LRN,
		FatherName:    optional(a.FatherName),
		FatherContact: optional(a.FatherContact),
		MotherName:    optional(a.MotherName),
		MotherContact: optional(a.MotherContact),
	}
	switch {
	case a.GuardianName != "":
		g.GuardianName, g.GuardianContact = a.GuardianName, a.GuardianContact
	case a.FatherName != "":
		g.GuardianName, g.GuardianContact = a.FatherName, a.FatherContact
	case a.MotherName != "":
		g.GuardianName, g.GuardianContact = a.MotherName, a.MotherContact
	default:
		g.GuardianName = notAvailable
	}
	if g.GuardianContact == "" {
		g.GuardianContact = notAvailable
	}
	return g
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateApplicant registers a new applicant and returns the tracking code.
func (s *Service) CreateApplicant(ctx context.Context, a Application) (string, error) {
	const op = "create applicant"
	a.normalize()
	if err := a.validate(); err != nil {
		metrics.Intakes.WithLabelValues("invalid").Inc()
		return "", err
	}

	var birthdate *time.Time
	if a.Birthdate != "" {
		t, err := time.Parse(time.DateOnly, a.Birthdate)
		if err != nil {
			metrics.Intakes.WithLabelValues("invalid").Inc()
			return "", apperr.New(op, apperr.ErrValidation, "birthdate %q is not YYYY-MM-DD", a.Birthdate)
		}
		birthdate = &t
	}

	tracking, err := s.gen.TrackingCode(a.LRN)
	if err != nil {
		metrics.Intakes.WithLabelValues("invalid").Inc()
		return "", err
	}

	if taken, err := s.store.LRNExists(ctx, a.LRN); err != nil {
		return "", fmt.Errorf("%s: check lrn: %w", op, err)
	} else if taken {
		metrics.Intakes.WithLabelValues("duplicate").Inc()
		return "", apperr.New(op, apperr.ErrDuplicate, "LRN %s is already registered", a.LRN)
	}
	if taken, err := s.store.EmailExists(ctx, a.Email); err != nil {
		return "", fmt.Errorf("%s: check email: %w", op, err)
	} else if taken {
		metrics.Intakes.WithLabelValues("duplicate").Inc()
		return "", apperr.New(op, apperr.ErrDuplicate, "email %s is already registered", a.Email)
	}

	now := s.now()
	etype := models.TypeNew
	if a.EnrollmentType != "" {
		etype, _ = models.ParseEnrollmentType(a.EnrollmentType)
	}
	var age *int
	if a.Age > 0 {
		age = &a.Age
	}

	rec := models.ApplicantRecords{
		Student: models.Student{
			LRN:          a.LRN,
			FirstName:    a.FirstName,
			MiddleName:   optional(a.MiddleName),
			LastName:     a.LastName,
			Suffix:       optional(a.Suffix),
			Age:          age,
			Sex:          optional(a.Sex),
			CivilStatus:  optional(a.CivilStatus),
			Nationality:  optional(a.Nationality),
			Birthdate:    birthdate,
			PlaceOfBirth: optional(a.PlaceOfBirth),
			Religion:     optional(a.Religion),
			Phone:        optional(a.Phone),
			HomeAddress:  optional(a.HomeAddress),
			Email:        a.Email,
			YearLevel:    optional(a.YearLevel),
			Strand:       a.Strand,
			StudentType:  optional(a.StudentType),
			Status:       models.StatusPending,
			CreatedAt:    now,
		},
		Guardian:  guardianOf(a),
		Documents: models.DocumentSet{LRN: a.LRN},
		Account:   models.AccountCredential{LRN: a.LRN, TrackingCode: tracking},
		Period: models.EnrollmentPeriod{
			LRN:            a.LRN,
			SchoolYear:     s.years.SchoolYear(now),
			Semester:       models.FirstSemester,
			Status:         models.StatusPending,
			EnrollmentType: etype,
			GradeSlip:      optional(a.GradeSlip),
			CreatedAt:      now,
		},
	}

	if err := s.store.CreateApplicant(ctx, rec); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			metrics.Intakes.WithLabelValues("duplicate").Inc()
			return "", apperr.Wrap(op, apperr.ErrDuplicate, err, "LRN %s, email or tracking code is already registered", a.LRN)
		}
		metrics.Intakes.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.Intakes.WithLabelValues("created").Inc()
	s.logger(ctx).Info("applicant created",
		zap.String("lrn", a.LRN), zap.String("school_year", rec.Period.SchoolYear), zap.String("strand", a.Strand))

	name := rec.Student.FullName()
	s.notifyBestEffort(ctx, a.LRN, a.Email, notify.IntakeConfirmation{Name: name, TrackingCode: tracking})
	s.alertBestEffort(ctx, fmt.Sprintf("New applicant: %s (LRN %s, %s), tracking code %s", name, a.LRN, a.Strand, tracking))
	return tracking, nil
}
