// Package notify turns enrollment events into e-mails and staff alerts.
package notify

// Payload is one of the message variants below. The core picks the variant; the
// Renderer owns all wording and markup.
type Payload interface {
	Kind() string
	payload()
}

type IntakeConfirmation struct {
	Name         string
	TrackingCode string
}

type UnderReview struct {
	Name         string
	TrackingCode string
}

type Enrolled struct {
	Name         string
	TrackingCode string
	Password     string
}

type TemporaryEnrolled struct {
	Name         string
	TrackingCode string
	Password     string
	Reason       string
	WindowDays   int
}

type Rejected struct {
	Name   string
	Reason string
}

type MissingDocuments struct {
	Name      string
	Documents []string
}

func (IntakeConfirmation) Kind() string { return "intake_confirmation" }
func (UnderReview) Kind() string        { return "under_review" }
func (Enrolled) Kind() string           { return "enrolled" }
func (TemporaryEnrolled) Kind() string  { return "temporary_enrolled" }
func (Rejected) Kind() string           { return "rejected" }
func (MissingDocuments) Kind() string   { return "missing_documents" }

func (IntakeConfirmation) payload() {}
func (UnderReview) payload()        {}
func (Enrolled) payload()           {}
func (TemporaryEnrolled) payload()  {}
func (Rejected) payload()           {}
func (MissingDocuments) payload()   {}
