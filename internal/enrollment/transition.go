package enrollment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/metrics"
	"github.com/sv8bshs/enrollment/internal/models"
	"github.com/sv8bshs/enrollment/internal/notify"
)

type TransitionRequest struct {
	LRN      string        `json:"-"`
	Status   models.Status `json:"status"`
	Reason   string        `json:"reason"`
	Password string        `json:"password"`
}

type TransitionResult struct {
	LRN      string        `json:"lrn"`
	From     models.Status `json:"from"`
	To       models.Status `json:"to"`
	Notified bool          `json:"notified"`
}

func (r *TransitionRequest) validate() error {
	const op = "transition"
	r.LRN = strings.TrimSpace(r.LRN)
	r.Reason = strings.TrimSpace(r.Reason)
	if r.LRN == "" {
		return apperr.New(op, apperr.ErrValidation, "LRN is required")
	}
	if !r.Status.IsTransitionTarget() {
		return apperr.New(op, apperr.ErrValidation, "status %q is not a valid target", string(r.Status))
	}
	if r.Status.RequiresReason() && r.Reason == "" {
		return apperr.New(op, apperr.ErrValidation, "a reason is required for %s", string(r.Status))
	}
	if r.Status.GrantsAccount() && r.Password == "" {
		return apperr.New(op, apperr.ErrMissingCredential, "a password is required for %s", string(r.Status))
	}
	return nil
}

// Transition moves a student to a new status. Storage is idempotent; the
// notification is sent again on every call.
func (s *Service) Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	st, err := s.store.GetStudent(ctx, req.LRN)
	if err != nil {
		return nil, err
	}
	log := s.logger(ctx).With(zap.String("lrn", req.LRN))
	if !models.InFlow(st.Status, req.Status) {
		log.Warn("status change outside the review flow",
			zap.String("from", string(st.Status)), zap.String("to", string(req.Status)))
	}

	change := models.StatusChange{
		LRN:        req.LRN,
		Status:     req.Status,
		SchoolYear: s.years.SchoolYear(s.now()),
		At:         s.now(),
	}
	if req.Status.RequiresReason() {
		reason := req.Reason
		change.Reason = &reason
	}
	if req.Status.GrantsAccount() {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("transition: hash password: %w", err)
		}
		change.PasswordHash = &hash
	}

	if err := s.store.ApplyStatusChange(ctx, change); err != nil {
		return nil, err
	}
	metrics.Transitions.WithLabelValues(string(req.Status)).Inc()
	log.Info("status changed", zap.String("from", string(st.Status)), zap.String("to", string(req.Status)))

	tracking := notAvailable
	if acc, err := s.store.GetAccount(ctx, req.LRN); err != nil {
		log.Warn("tracking code lookup failed", zap.Error(err))
	} else {
		tracking = acc.TrackingCode
	}

	res := &TransitionResult{LRN: req.LRN, From: st.Status, To: req.Status}
	res.Notified = s.notifyBestEffort(ctx, req.LRN, st.Email, s.transitionPayload(st.FullName(), tracking, req))
	return res, nil
}

func (s *Service) transitionPayload(name, tracking string, req TransitionRequest) notify.Payload {
	switch req.Status {
	case models.StatusEnrolled:
		return notify.Enrolled{Name: name, TrackingCode: tracking, Password: req.Password}
	case models.StatusTemporaryEnrolled:
		return notify.TemporaryEnrolled{
			Name: name, TrackingCode: tracking, Password: req.Password,
			Reason: req.Reason, WindowDays: s.TempWindowDays(),
		}
	case models.StatusRejected:
		return notify.Rejected{Name: name, Reason: req.Reason}
	default:
		return notify.UnderReview{Name: name, TrackingCode: tracking}
	}
}
