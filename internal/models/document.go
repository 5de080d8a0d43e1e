package models

import "time"

type DocumentType string

const (
	DocBirthCert          DocumentType = "birth_cert"
	DocForm137            DocumentType = "form137"
	DocGoodMoral          DocumentType = "good_moral"
	DocReportCard         DocumentType = "report_card"
	DocPicture            DocumentType = "picture"
	DocTranscriptRecords  DocumentType = "transcript_records"
	DocHonorableDismissal DocumentType = "honorable_dismissal"
)

// DocumentTypes is the closed set of recognised documents, in display order.
var DocumentTypes = []DocumentType{
	DocBirthCert, DocForm137, DocGoodMoral, DocReportCard,
	DocPicture, DocTranscriptRecords, DocHonorableDismissal,
}

var documentLabels = map[DocumentType]string{
	DocBirthCert:          "Birth Certificate",
	DocForm137:            "Form 137",
	DocGoodMoral:          "Certificate of Good Moral",
	DocReportCard:         "Report Card",
	DocPicture:            "2x2 Picture",
	DocTranscriptRecords:  "Transcript of Records",
	DocHonorableDismissal: "Honorable Dismissal",
}

func ParseDocumentType(s string) (DocumentType, bool) {
	d := DocumentType(s)
	_, ok := documentLabels[d]
	return d, ok
}

func (d DocumentType) Label() string {
	if l, ok := documentLabels[d]; ok {
		return l
	}
	return string(d)
}

type DocumentSet struct {
	LRN                string `db:"lrn" json:"lrn"`
	BirthCert          bool   `db:"birth_cert" json:"birth_cert"`
	Form137            bool   `db:"form137" json:"form137"`
	GoodMoral          bool   `db:"good_moral" json:"good_moral"`
	ReportCard         bool   `db:"report_card" json:"report_card"`
	Picture            bool   `db:"picture" json:"picture"`
	TranscriptRecords  bool   `db:"transcript_records" json:"transcript_records"`
	HonorableDismissal bool   `db:"honorable_dismissal" json:"honorable_dismissal"`
}

func (d *DocumentSet) field(t DocumentType) *bool {
	switch t {
	case DocBirthCert:
		return &d.BirthCert
	case DocForm137:
		return &d.Form137
	case DocGoodMoral:
		return &d.GoodMoral
	case DocReportCard:
		return &d.ReportCard
	case DocPicture:
		return &d.Picture
	case DocTranscriptRecords:
		return &d.TranscriptRecords
	case DocHonorableDismissal:
		return &d.HonorableDismissal
	}
	return nil
}

func (d DocumentSet) Verified(t DocumentType) bool {
	if f := d.field(t); f != nil {
		return *f
	}
	return false
}

func (d *DocumentSet) Set(t DocumentType, v bool) {
	if f := d.field(t); f != nil {
		*f = v
	}
}

// Missing lists unverified documents in display order.
func (d DocumentSet) Missing() []DocumentType {
	var out []DocumentType
	for _, t := range DocumentTypes {
		if !d.Verified(t) {
			out = append(out, t)
		}
	}
	return out
}

type VerificationAction string

const (
	ActionVerified   VerificationAction = "verified"
	ActionUnverified VerificationAction = "unverified"
)

type VerificationLogEntry struct {
	ID           int64              `db:"id" json:"id"`
	LRN          string             `db:"lrn" json:"lrn"`
	DocumentType DocumentType       `db:"document_type" json:"document_type"`
	Action       VerificationAction `db:"action" json:"action"`
	Actor        string             `db:"verified_by" json:"verified_by"`
	At           time.Time          `db:"verified_at" json:"verified_at"`
}
