// Package enrollment is the applicant lifecycle: intake, document verification,
// status transitions and semester progression.
package enrollment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/credentials"
	"github.com/sv8bshs/enrollment/internal/ctxutil"
	"github.com/sv8bshs/enrollment/internal/db"
	"github.com/sv8bshs/enrollment/internal/logging"
	"github.com/sv8bshs/enrollment/internal/metrics"
	"github.com/sv8bshs/enrollment/internal/models"
	"github.com/sv8bshs/enrollment/internal/notify"
	"github.com/sv8bshs/enrollment/internal/observability"
)

// Store is the persistence the lifecycle needs; *db.Store implements it.
type Store interface {
	LRNExists(ctx context.Context, lrn string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateApplicant(ctx context.Context, r models.ApplicantRecords) error
	GetStudent(ctx context.Context, lrn string) (*models.Student, error)
	GetGuardian(ctx context.Context, lrn string) (*models.Guardian, error)
	GetAccount(ctx context.Context, lrn string) (*models.AccountCredential, error)
	ApplyStatusChange(ctx context.Context, c models.StatusChange) error
	ListByStatus(ctx context.Context, statuses ...models.Status) ([]models.Student, error)
	TemporaryEnrolledSince(ctx context.Context, cutoff time.Time) ([]models.Student, error)

	GetDocuments(ctx context.Context, lrn string) (*models.DocumentSet, error)
	SetDocumentFlag(ctx context.Context, lrn string, t models.DocumentType, verified bool) error
	AppendVerificationLog(ctx context.Context, e models.VerificationLogEntry) error
	ListVerificationLog(ctx context.Context, lrn string) ([]models.VerificationLogEntry, error)

	GetPeriod(ctx context.Context, lrn, schoolYear string, sem models.Semester) (*models.EnrollmentPeriod, error)
	CurrentPeriod(ctx context.Context, lrn, schoolYear string) (*models.EnrollmentPeriod, error)
	ListPeriods(ctx context.Context, lrn string) ([]models.EnrollmentPeriod, error)
	InsertPeriod(ctx context.Context, p models.EnrollmentPeriod) (*models.EnrollmentPeriod, error)
	Roster(ctx context.Context, schoolYear string, statuses ...models.Status) ([]models.RosterRow, error)
}

type Notifier interface {
	Notify(ctx context.Context, to string, p notify.Payload) error
}

type StaffAlerter interface {
	Alert(ctx context.Context, text string) error
}

const defaultActor = "system"

type Deps struct {
	Store     Store
	Notifier  Notifier
	Alerts    StaffAlerter
	Generator credentials.Generator
	Hasher    credentials.Hasher
	Years     db.SchoolYearResolver
	Now       func() time.Time
	Log       *zap.Logger

	// TempWindow is how long a Temporary Enrolled status stays valid.
	TempWindow time.Duration
}

type Service struct {
	store      Store
	notifier   Notifier
	alerts     StaffAlerter
	gen        credentials.Generator
	hasher     credentials.Hasher
	years      db.SchoolYearResolver
	now        func() time.Time
	log        *zap.Logger
	tempWindow time.Duration
}

func NewService(d Deps) *Service {
	s := &Service{
		store:      d.Store,
		notifier:   d.Notifier,
		alerts:     d.Alerts,
		gen:        d.Generator,
		hasher:     d.Hasher,
		years:      d.Years,
		now:        d.Now,
		log:        d.Log,
		tempWindow: d.TempWindow,
	}
	if s.gen.TrackingPrefix == "" || s.gen.PasswordPrefix == "" {
		s.gen = credentials.NewGenerator(s.gen.TrackingPrefix, s.gen.PasswordPrefix)
	}
	if s.hasher == nil {
		s.hasher = credentials.BcryptHasher{}
	}
	if s.years == nil {
		s.years = db.JuneSchoolYear{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.tempWindow <= 0 {
		s.tempWindow = 30 * 24 * time.Hour
	}
	return s
}

// CurrentSchoolYear is the label of the school year that is running now.
func (s *Service) CurrentSchoolYear() string {
	return s.years.SchoolYear(s.now())
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logging.With(ctx, s.log)
}

func actorFrom(ctx context.Context, actor string) string {
	if actor != "" {
		return actor
	}
	if a, ok := ctxutil.Actor(ctx); ok {
		return a
	}
	return defaultActor
}

// notifyBestEffort sends once after commit. Failures are logged, counted and
// reported to Sentry but never returned.
func (s *Service) notifyBestEffort(ctx context.Context, lrn, to string, p notify.Payload) bool {
	if s.notifier == nil {
		return false
	}
	err := s.notifier.Notify(ctx, to, p)
	if err == nil {
		return true
	}
	metrics.NotificationFailures.WithLabelValues(p.Kind()).Inc()
	s.logger(ctx).Error("notification failed", zap.String("lrn", lrn), zap.String("kind", p.Kind()), zap.Error(err))
	observability.CaptureWithTags(err, map[string]string{"lrn": lrn, "notification": p.Kind()})
	return false
}

func (s *Service) alertBestEffort(ctx context.Context, text string) {
	if s.alerts == nil {
		return
	}
	if err := s.alerts.Alert(ctx, text); err != nil {
		s.logger(ctx).Warn("staff alert failed", zap.Error(err))
	}
}
