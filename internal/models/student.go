package models

import "time"

type Student struct {
	LRN             string     `db:"lrn" json:"lrn"`
	FirstName       string     `db:"firstname" json:"firstname"`
	MiddleName      *string    `db:"middlename" json:"middlename,omitempty"`
	LastName        string     `db:"lastname" json:"lastname"`
	Suffix          *string    `db:"suffix" json:"suffix,omitempty"`
	Age             *int       `db:"age" json:"age,omitempty"`
	Sex             *string    `db:"sex" json:"sex,omitempty"`
	CivilStatus     *string    `db:"civil_status" json:"civil_status,omitempty"`
	Nationality     *string    `db:"nationality" json:"nationality,omitempty"`
	Birthdate       *time.Time `db:"birthdate" json:"birthdate,omitempty"`
	PlaceOfBirth    *string    `db:"place_of_birth" json:"place_of_birth,omitempty"`
	Religion        *string    `db:"religion" json:"religion,omitempty"`
	Phone           *string    `db:"cpnumber" json:"cpnumber,omitempty"`
	HomeAddress     *string    `db:"home_add" json:"home_add,omitempty"`
	Email           string     `db:"email" json:"email"`
	YearLevel       *string    `db:"yearlevel" json:"yearlevel,omitempty"`
	Strand          string     `db:"strand" json:"strand"`
	StudentType     *string    `db:"student_type" json:"student_type,omitempty"`
	Status          Status     `db:"enrollment_status" json:"enrollment_status"`
	Reason          *string    `db:"reason" json:"reason,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	StatusUpdatedAt time.Time  `db:"status_updated_at" json:"status_updated_at"`
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

type Guardian struct {
	LRN             string  `db:"lrn" json:"lrn"`
	FatherName      *string `db:"fathers_name" json:"fathers_name,omitempty"`
	FatherContact   *string `db:"fathers_contact" json:"fathers_contact,omitempty"`
	MotherName      *string `db:"mothers_name" json:"mothers_name,omitempty"`
	MotherContact   *string `db:"mothers_contact" json:"mothers_contact,omitempty"`
	GuardianName    string  `db:"guardian_name" json:"guardian_name"`
	GuardianContact string  `db:"guardian_contact" json:"guardian_contact"`
}

type AccountCredential struct {
	LRN          string  `db:"lrn" json:"lrn"`
	TrackingCode string  `db:"tracking_code" json:"tracking_code"`
	PasswordHash *string `db:"password_hash" json:"-"`
}

func (a AccountCredential) HasPassword() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}
