package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/ctxutil"
	"github.com/sv8bshs/enrollment/internal/models"
)

// documentColumns is the only way a document type reaches SQL text.
var documentColumns = map[models.DocumentType]string{
	models.DocBirthCert:          "birth_cert",
	models.DocForm137:            "form137",
	models.DocGoodMoral:          "good_moral",
	models.DocReportCard:         "report_card",
	models.DocPicture:            "picture",
	models.DocTranscriptRecords:  "transcript_records",
	models.DocHonorableDismissal: "honorable_dismissal",
}

func documentColumn(op string, t models.DocumentType) (string, error) {
	col, ok := documentColumns[t]
	if !ok {
		return "", apperr.New(op, apperr.ErrInvalidDocumentType, "unknown document type %q", string(t))
	}
	return col, nil
}

func (s *Store) GetDocuments(ctx context.Context, lrn string) (*models.DocumentSet, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var d models.DocumentSet
	err := s.db.QueryRowContext(ctx, `
		SELECT lrn, birth_cert, form137, good_moral, report_card, picture, transcript_records, honorable_dismissal
		FROM student_documents WHERE lrn = $1`, lrn,
	).Scan(&d.LRN, &d.BirthCert, &d.Form137, &d.GoodMoral, &d.ReportCard, &d.Picture, &d.TranscriptRecords, &d.HonorableDismissal)
	if err != nil {
		return nil, translate("get documents", err)
	}
	return &d, nil
}

// SetDocumentFlag flips one document flag. Verifying creates a missing document
// row with every other flag false; unverifying requires the row to exist.
func (s *Store) SetDocumentFlag(ctx context.Context, lrn string, t models.DocumentType, verified bool) error {
	col, err := documentColumn("set document", t)
	if err != nil {
		return err
	}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if !verified {
			res, err := tx.ExecContext(ctx,
				`UPDATE student_documents SET `+col+` = FALSE, updated_at = now() WHERE lrn = $1`, lrn)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return apperr.New("set document", apperr.ErrNotFound, "no documents on file for %s", lrn)
			}
			return nil
		}

		var ok bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE lrn = $1)`, lrn).Scan(&ok); err != nil {
			return err
		}
		if !ok {
			return apperr.New("set document", apperr.ErrNotFound, "student %s not found", lrn)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO student_documents (lrn, `+col+`, updated_at)
			VALUES ($1, TRUE, now())
			ON CONFLICT (lrn) DO UPDATE SET `+col+` = TRUE, updated_at = now()`,
			lrn)
		return err
	})
	return translate("set document", err)
}

// AppendVerificationLog writes one audit row. The LRN is not checked against students.
func (s *Store) AppendVerificationLog(ctx context.Context, e models.VerificationLogEntry) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO document_verification_logs (lrn, document_type, action, verified_by, verified_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.LRN, string(e.DocumentType), string(e.Action), e.Actor, at)
	return err
}

// ListVerificationLog returns the audit trail for one LRN, newest first.
func (s *Store) ListVerificationLog(ctx context.Context, lrn string) ([]models.VerificationLogEntry, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lrn, document_type, action, verified_by, verified_at
		FROM document_verification_logs
		WHERE lrn = $1
		ORDER BY verified_at DESC, id DESC`, lrn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.VerificationLogEntry
	for rows.Next() {
		var e models.VerificationLogEntry
		if err := rows.Scan(&e.ID, &e.LRN, &e.DocumentType, &e.Action, &e.Actor, &e.At); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
