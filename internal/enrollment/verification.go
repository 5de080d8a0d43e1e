package enrollment

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/metrics"
	"github.com/sv8bshs/enrollment/internal/models"
	"github.com/sv8bshs/enrollment/internal/notify"
)

// SetVerification sets or clears one document flag and appends to the audit log.
// The audit entry is best-effort.
func (s *Service) SetVerification(ctx context.Context, lrn, documentType string, verified bool, actor string) error {
	const op = "set verification"
	lrn = strings.TrimSpace(lrn)
	if lrn == "" {
		return apperr.New(op, apperr.ErrValidation, "LRN is required")
	}
	doc, ok := models.ParseDocumentType(strings.TrimSpace(documentType))
	if !ok {
		return apperr.New(op, apperr.ErrInvalidDocumentType, "unknown document type %q", documentType)
	}

	if err := s.store.SetDocumentFlag(ctx, lrn, doc, verified); err != nil {
		return err
	}

	action := models.ActionUnverified
	if verified {
		action = models.ActionVerified
	}
	metrics.Verifications.WithLabelValues(string(action)).Inc()

	entry := models.VerificationLogEntry{
		LRN:          lrn,
		DocumentType: doc,
		Action:       action,
		Actor:        actorFrom(ctx, strings.TrimSpace(actor)),
		At:           s.now(),
	}
	if err := s.store.AppendVerificationLog(ctx, entry); err != nil {
		metrics.AuditLogFailures.Inc()
		s.logger(ctx).Warn("verification log write failed",
			zap.String("lrn", lrn), zap.String("document", string(doc)), zap.Error(err))
	}
	return nil
}

func (s *Service) VerificationStatus(ctx context.Context, lrn string) (*models.DocumentSet, error) {
	return s.store.GetDocuments(ctx, strings.TrimSpace(lrn))
}

// VerificationHistory is the audit trail, newest first.
func (s *Service) VerificationHistory(ctx context.Context, lrn string) ([]models.VerificationLogEntry, error) {
	return s.store.ListVerificationLog(ctx, strings.TrimSpace(lrn))
}

// RemindMissing e-mails the applicant the list of documents still unverified and
// returns that list. Nothing is sent when the file is complete.
func (s *Service) RemindMissing(ctx context.Context, lrn string) ([]models.DocumentType, error) {
	lrn = strings.TrimSpace(lrn)
	st, err := s.store.GetStudent(ctx, lrn)
	if err != nil {
		return nil, err
	}
	docs, err := optionalRecord(s.store.GetDocuments(ctx, lrn))
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = &models.DocumentSet{LRN: lrn}
	}
	missing := docs.Missing()
	if len(missing) == 0 {
		return []models.DocumentType{}, nil
	}
	labels := make([]string, 0, len(missing))
	for _, d := range missing {
		labels = append(labels, d.Label())
	}
	s.notifyBestEffort(ctx, lrn, st.Email, notify.MissingDocuments{Name: st.FullName(), Documents: labels})
	return missing, nil
}
