package db

import (
	"fmt"
	"time"
)

// SchoolYearResolver maps a moment to the "YYYY-YYYY" school year label.
type SchoolYearResolver interface {
	SchoolYear(t time.Time) string
}

// JuneSchoolYear starts the school year in June: 2025-06-01 → "2025-2026", 2025-05-31 → "2024-2025".
type JuneSchoolYear struct {
	Location *time.Location
}

func (r JuneSchoolYear) SchoolYear(t time.Time) string {
	if r.Location != nil {
		t = t.In(r.Location)
	}
	return SchoolYearLabel(SchoolYearStartYear(t))
}

// SchoolYearStartYear is the calendar year in which the school year of t began.
func SchoolYearStartYear(t time.Time) int {
	if t.Month() < time.June {
		return t.Year() - 1
	}
	return t.Year()
}

func SchoolYearLabel(startYear int) string {
	return fmt.Sprintf("%d-%d", startYear, startYear+1)
}

// FixedSchoolYear always answers the same label.
type FixedSchoolYear string

func (f FixedSchoolYear) SchoolYear(time.Time) string { return string(f) }
