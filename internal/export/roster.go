package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sv8bshs/enrollment/internal/models"
)

var rosterHeader = []string{
	"LRN", "Last Name", "First Name", "Middle Name", "Suffix", "Sex", "Year Level", "Strand",
	"Status", "Semester", "Enrollment Type", "Email", "Contact No.", "Guardian", "Guardian Contact",
}

// RosterWorkbook puts every row on an "All" sheet plus one sheet per strand.
func RosterWorkbook(schoolYear string, rows []models.RosterRow) (*Workbook, error) {
	all := SheetSpec{Title: "All " + schoolYear, Header: rosterHeader}
	byStrand := map[string]*SheetSpec{}
	var strands []string

	for _, r := range rows {
		line := rosterLine(r)
		all.Rows = append(all.Rows, line)

		strand := strings.TrimSpace(r.Student.Strand)
		if strand == "" {
			strand = "No strand"
		}
		s, ok := byStrand[strand]
		if !ok {
			s = &SheetSpec{Title: strand, Header: rosterHeader}
			byStrand[strand] = s
			strands = append(strands, strand)
		}
		s.Rows = append(s.Rows, line)
	}

	sort.Strings(strands)
	sheets := []SheetSpec{all}
	for _, name := range strands {
		sheets = append(sheets, *byStrand[name])
	}
	return NewWorkbook(sheets)
}

func rosterLine(r models.RosterRow) []string {
	st := r.Student
	line := []string{
		st.LRN, st.LastName, st.FirstName, deref(st.MiddleName), deref(st.Suffix), deref(st.Sex),
		deref(st.YearLevel), st.Strand, string(st.Status), "", "", st.Email, deref(st.Phone), "", "",
	}
	if r.Period != nil {
		line[9] = string(r.Period.Semester)
		line[10] = string(r.Period.EnrollmentType)
	}
	if r.Guardian != nil {
		line[13] = r.Guardian.GuardianName
		line[14] = r.Guardian.GuardianContact
	}
	return line
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func RosterFilename(schoolYear string) string {
	return sanitizeFileName(fmt.Sprintf("SV8BSHS Roster %s.xlsx", schoolYear))
}
