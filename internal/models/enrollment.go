package models

import "time"

type Semester string

const (
	FirstSemester  Semester = "1st"
	SecondSemester Semester = "2nd"
)

type EnrollmentType string

const (
	TypeNew        EnrollmentType = "New"
	TypeTransferee EnrollmentType = "Transferee"
	TypeReturnee   EnrollmentType = "Returnee"
	TypeContinuing EnrollmentType = "Continuing"
	TypeRegular    EnrollmentType = "Regular"
)

func ParseEnrollmentType(s string) (EnrollmentType, bool) {
	switch t := EnrollmentType(s); t {
	case TypeNew, TypeTransferee, TypeReturnee, TypeContinuing, TypeRegular:
		return t, true
	}
	return "", false
}

// EnrollmentPeriod is one row per (LRN, school year, semester).
type EnrollmentPeriod struct {
	ID              int64          `db:"id" json:"id"`
	LRN             string         `db:"lrn" json:"lrn"`
	SchoolYear      string         `db:"school_year" json:"school_year"`
	Semester        Semester       `db:"semester" json:"semester"`
	Status          Status         `db:"status" json:"status"`
	EnrollmentType  EnrollmentType `db:"enrollment_type" json:"enrollment_type"`
	GradeSlip       *string        `db:"grade_slip" json:"grade_slip,omitempty"`
	RejectionReason *string        `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// RosterRow feeds exports: an enrolled student with current period and guardian.
type RosterRow struct {
	Student  Student
	Period   *EnrollmentPeriod
	Guardian *Guardian
}

// ApplicantRecords is everything intake writes for one applicant, in one transaction.
type ApplicantRecords struct {
	Student   Student
	Guardian  Guardian
	Documents DocumentSet
	Account   AccountCredential
	Period    EnrollmentPeriod
}

// StatusChange is the storage side of a status transition.
type StatusChange struct {
	LRN          string
	Status       Status
	Reason       *string
	PasswordHash *string
	SchoolYear   string
	At           time.Time
}
