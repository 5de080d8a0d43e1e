package enrollment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/credentials"
	"github.com/sv8bshs/enrollment/internal/db"
	"github.com/sv8bshs/enrollment/internal/models"
	"github.com/sv8bshs/enrollment/internal/notify"
)

var july = time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	store  *memStore
	notes  *fakeNotifier
	alerts *fakeAlerter
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: newMemStore(), notes: &fakeNotifier{}, alerts: &fakeAlerter{}, now: july}
	f.svc = NewService(Deps{
		Store:     f.store,
		Notifier:  f.notes,
		Alerts:    f.alerts,
		Generator: credentials.NewGenerator("", ""),
		Hasher:    plainHasher{},
		Years:     db.JuneSchoolYear{},
		Now:       func() time.Time { return f.now },
	})
	return f
}

func validApplication() Application {
	return Application{
		LRN:        "123456789012",
		FirstName:  "Juan",
		LastName:   "Cruz",
		Strand:     "STEM",
		Email:      " Juan.Cruz@Example.com ",
		FatherName: "Pedro Cruz", FatherContact: "09171234567",
	}
}

func (f *fixture) applicant(t *testing.T) string {
	t.Helper()
	code, err := f.svc.CreateApplicant(context.Background(), validApplication())
	if err != nil {
		t.Fatal(err)
	}
	return code
}

func TestCreateApplicant_WritesEveryRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	code := f.applicant(t)
	if code != "SV8BSHS-789012" {
		t.Fatalf("unexpected tracking code %q", code)
	}
	if got := f.store.rows(); got != 5 {
		t.Fatalf("expected one row of each kind (5), got %d", got)
	}

	st, _ := f.store.GetStudent(ctx, "123456789012")
	if st.Status != models.StatusPending || st.Reason != nil || st.Email != "juan.cruz@example.com" {
		t.Fatalf("unexpected student %+v", st)
	}
	g, _ := f.store.GetGuardian(ctx, "123456789012")
	if g.GuardianName != "Pedro Cruz" || g.GuardianContact != "09171234567" {
		t.Fatalf("guardian should fall back to the father, got %+v", g)
	}
	docs, _ := f.store.GetDocuments(ctx, "123456789012")
	if len(docs.Missing()) != len(models.DocumentTypes) {
		t.Fatalf("documents should start unverified: %+v", docs)
	}
	acc, _ := f.store.GetAccount(ctx, "123456789012")
	if acc.HasPassword() {
		t.Fatal("intake must not set a password")
	}
	p, err := f.store.CurrentPeriod(ctx, "123456789012", "2025-2026")
	if err != nil {
		t.Fatal(err)
	}
	if p.Semester != models.FirstSemester || p.EnrollmentType != models.TypeNew || p.Status != models.StatusPending {
		t.Fatalf("unexpected period %+v", p)
	}

	last, ok := f.notes.last()
	if !ok || last.to != "juan.cruz@example.com" {
		t.Fatalf("expected intake confirmation, got %+v", f.notes.sent)
	}
	if c, ok := last.payload.(notify.IntakeConfirmation); !ok || c.TrackingCode != code {
		t.Fatalf("unexpected payload %#v", last.payload)
	}
	if len(f.alerts.texts) != 1 || !strings.Contains(f.alerts.texts[0], "123456789012") {
		t.Fatalf("expected a staff alert, got %v", f.alerts.texts)
	}
}

func TestCreateApplicant_SchoolYearBoundary(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)
	f.applicant(t)
	if _, err := f.store.CurrentPeriod(context.Background(), "123456789012", "2025-2026"); err != nil {
		t.Fatalf("May belongs to the school year that began the previous June: %v", err)
	}
}

func TestCreateApplicant_Validation(t *testing.T) {
	cases := map[string]func(a *Application){
		"no_lrn":       func(a *Application) { a.LRN = "" },
		"no_lastname":  func(a *Application) { a.LastName = "  " },
		"no_firstname": func(a *Application) { a.FirstName = "" },
		"no_strand":    func(a *Application) { a.Strand = "" },
		"no_email":     func(a *Application) { a.Email = "" },
		"bad_email":    func(a *Application) { a.Email = "juan" },
		"bad_type":     func(a *Application) { a.EnrollmentType = "Alien" },
		"bad_birth":    func(a *Application) { a.Birthdate = "15/07/2008" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			a := validApplication()
			mutate(&a)
			_, err := f.svc.CreateApplicant(context.Background(), a)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if f.store.rows() != 0 || len(f.notes.sent) != 0 {
				t.Fatal("nothing may be written or sent on validation failure")
			}
		})
	}

	f := newFixture(t)
	a := validApplication()
	a.LRN = "12345"
	if _, err := f.svc.CreateApplicant(context.Background(), a); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("short LRN should be invalid input, got %v", err)
	}
}

func TestCreateApplicant_Duplicates(t *testing.T) {
	f := newFixture(t)
	f.applicant(t)
	before := f.store.rows()
	notes := len(f.notes.sent)

	if _, err := f.svc.CreateApplicant(context.Background(), validApplication()); !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("duplicate LRN: got %v", err)
	}

	a := validApplication()
	a.LRN = "999999111111"
	a.Email = "JUAN.CRUZ@example.com"
	if _, err := f.svc.CreateApplicant(context.Background(), a); !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("duplicate email: got %v", err)
	}

	if f.store.rows() != before || len(f.notes.sent) != notes {
		t.Fatal("a rejected duplicate must not write or notify")
	}
}

func TestCreateApplicant_RaceSurfacesAsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.store.failCreate = apperr.New("create applicant", apperr.ErrDuplicate, "record already exists")
	if _, err := f.svc.CreateApplicant(context.Background(), validApplication()); !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	f.store.failCreate = errBoom
	if _, err := f.svc.CreateApplicant(context.Background(), validApplication()); !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if len(f.notes.sent) != 0 {
		t.Fatal("no notification without a commit")
	}
}

func TestCreateApplicant_NotificationFailureIsNotReturned(t *testing.T) {
	f := newFixture(t)
	f.notes.err = errBoom
	f.alerts.err = errBoom
	if _, err := f.svc.CreateApplicant(context.Background(), validApplication()); err != nil {
		t.Fatalf("side-effect failures must not fail intake: %v", err)
	}
}

func TestGuardianFallback(t *testing.T) {
	cases := []struct {
		name        string
		a           Application
		wantName    string
		wantContact string
	}{
		{"guardian", Application{GuardianName: "Tita", GuardianContact: "1", FatherName: "F"}, "Tita", "1"},
		{"father", Application{FatherName: "F", FatherContact: "2", MotherName: "M"}, "F", "2"},
		{"mother", Application{MotherName: "M", MotherContact: "3"}, "M", "3"},
		{"mother_no_contact", Application{MotherName: "M"}, "M", "N/A"},
		{"nobody", Application{}, "N/A", "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := guardianOf(tc.a)
			if g.GuardianName != tc.wantName || g.GuardianContact != tc.wantContact {
				t.Fatalf("got %q/%q", g.GuardianName, g.GuardianContact)
			}
		})
	}
}

func TestTransition_UnderReviewClearsReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)

	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusRejected, Reason: "Incomplete"}); err != nil {
		t.Fatal(err)
	}
	st, _ := f.store.GetStudent(ctx, "123456789012")
	if st.Reason == nil || *st.Reason != "Incomplete" {
		t.Fatalf("reason not stored: %+v", st)
	}
	if last, _ := f.notes.last(); last.payload.Kind() != "rejected" {
		t.Fatalf("expected rejected payload, got %#v", last.payload)
	}

	res, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusUnderReview, Reason: "ignored"})
	if err != nil {
		t.Fatal(err)
	}
	if res.From != models.StatusRejected || res.To != models.StatusUnderReview || !res.Notified {
		t.Fatalf("unexpected result %+v", res)
	}
	st, _ = f.store.GetStudent(ctx, "123456789012")
	if st.Status != models.StatusUnderReview || st.Reason != nil {
		t.Fatalf("reason should be cleared: %+v", st)
	}
	p, _ := f.store.CurrentPeriod(ctx, "123456789012", "2025-2026")
	if p.Status != models.StatusUnderReview || p.RejectionReason != nil {
		t.Fatalf("period should follow the student: %+v", p)
	}
	last, _ := f.notes.last()
	if ur, ok := last.payload.(notify.UnderReview); !ok || ur.TrackingCode != "SV8BSHS-789012" {
		t.Fatalf("unexpected payload %#v", last.payload)
	}
}

func TestTransition_EnrolledRequiresPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)
	notes := len(f.notes.sent)

	_, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusEnrolled})
	if !errors.Is(err, apperr.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
	st, _ := f.store.GetStudent(ctx, "123456789012")
	if st.Status != models.StatusPending || len(f.notes.sent) != notes {
		t.Fatal("status must be unchanged and nothing sent")
	}

	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusEnrolled, Password: "SV8B-Cruz9012"}); err != nil {
		t.Fatal(err)
	}
	acc, _ := f.store.GetAccount(ctx, "123456789012")
	if !acc.HasPassword() || *acc.PasswordHash != "hashed:SV8B-Cruz9012" || acc.TrackingCode != "SV8BSHS-789012" {
		t.Fatalf("unexpected account %+v", acc)
	}
	last, _ := f.notes.last()
	if e, ok := last.payload.(notify.Enrolled); !ok || e.Password != "SV8B-Cruz9012" {
		t.Fatalf("unexpected payload %#v", last.payload)
	}
}

func TestTransition_TemporaryEnrolledRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)

	_, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusTemporaryEnrolled, Password: "pw"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("reason is required: %v", err)
	}
	_, err = f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusTemporaryEnrolled, Reason: "Form 137"})
	if !errors.Is(err, apperr.ErrMissingCredential) {
		t.Fatalf("password is required: %v", err)
	}

	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusTemporaryEnrolled, Reason: "Form 137", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	last, _ := f.notes.last()
	te, ok := last.payload.(notify.TemporaryEnrolled)
	if !ok || te.Reason != "Form 137" || te.WindowDays != 30 || te.Password != "pw" {
		t.Fatalf("unexpected payload %#v", last.payload)
	}
}

func TestTransition_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)

	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusPending}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("Pending is not a target: %v", err)
	}
	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: "Graduated"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown target: %v", err)
	}
	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "000000000000", Status: models.StatusUnderReview}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown LRN: %v", err)
	}

	f.store.failApply = errBoom
	notes := len(f.notes.sent)
	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusUnderReview}); !errors.Is(err, errBoom) {
		t.Fatalf("store failure should surface: %v", err)
	}
	if len(f.notes.sent) != notes {
		t.Fatal("no notification when the write failed")
	}
	f.store.failApply = nil

	f.svc.hasher = plainHasher{err: errBoom}
	if _, err := f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusEnrolled, Password: "x"}); !errors.Is(err, errBoom) {
		t.Fatalf("hash failure should surface: %v", err)
	}
	st, _ := f.store.GetStudent(ctx, "123456789012")
	if st.Status != models.StatusPending {
		t.Fatal("nothing may be written when hashing fails")
	}
}

func TestTransition_IdempotentStorageRepeatedNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)
	req := TransitionRequest{LRN: "123456789012", Status: models.StatusUnderReview}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Transition(ctx, req); err != nil {
			t.Fatal(err)
		}
	}
	st, _ := f.store.GetStudent(ctx, "123456789012")
	if st.Status != models.StatusUnderReview {
		t.Fatalf("unexpected status %s", st.Status)
	}
	// intake confirmation plus one per call
	if len(f.notes.sent) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(f.notes.sent))
	}
}

func TestTransition_NotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.applicant(t)
	f.notes.err = errBoom

	res, err := f.svc.Transition(context.Background(), TransitionRequest{LRN: "123456789012", Status: models.StatusUnderReview})
	if err != nil {
		t.Fatalf("dispatch failure must not be returned: %v", err)
	}
	if res.Notified {
		t.Fatal("result should report the failed notification")
	}
	st, _ := f.store.GetStudent(context.Background(), "123456789012")
	if st.Status != models.StatusUnderReview {
		t.Fatal("the status change must stick")
	}
}

func TestSetVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)

	if err := f.svc.SetVerification(ctx, "123456789012", "form137", true, "registrar"); err != nil {
		t.Fatal(err)
	}
	docs, _ := f.svc.VerificationStatus(ctx, "123456789012")
	if !docs.Form137 || docs.BirthCert {
		t.Fatalf("unexpected flags %+v", docs)
	}

	if err := f.svc.SetVerification(ctx, "123456789012", "form137", false, ""); err != nil {
		t.Fatal(err)
	}
	hist, _ := f.svc.VerificationHistory(ctx, "123456789012")
	if len(hist) != 2 || hist[0].Action != models.ActionUnverified || hist[0].Actor != "system" || hist[1].Actor != "registrar" {
		t.Fatalf("unexpected history %+v", hist)
	}

	if err := f.svc.SetVerification(ctx, "123456789012", "diploma", true, ""); !errors.Is(err, apperr.ErrInvalidDocumentType) {
		t.Fatalf("expected invalid document type, got %v", err)
	}
	if err := f.svc.SetVerification(ctx, "000000000000", "form137", true, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetVerification_LazyDocumentRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)
	delete(f.store.docs, "123456789012")

	if err := f.svc.SetVerification(ctx, "123456789012", "picture", false, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unverify without a row: %v", err)
	}
	if err := f.svc.SetVerification(ctx, "123456789012", "picture", true, ""); err != nil {
		t.Fatal(err)
	}
	docs, err := f.svc.VerificationStatus(ctx, "123456789012")
	if err != nil {
		t.Fatal(err)
	}
	if !docs.Picture || len(docs.Missing()) != len(models.DocumentTypes)-1 {
		t.Fatalf("only the picture should be verified: %+v", docs)
	}
}

func TestSetVerification_ActorFromContext(t *testing.T) {
	f := newFixture(t)
	f.applicant(t)
	ctx := ctxWithActor("admin@school")
	if err := f.svc.SetVerification(ctx, "123456789012", "good_moral", true, ""); err != nil {
		t.Fatal(err)
	}
	if f.store.log[0].Actor != "admin@school" {
		t.Fatalf("unexpected actor %q", f.store.log[0].Actor)
	}
}

func TestSetVerification_AuditFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.applicant(t)
	f.store.failLog = errBoom
	if err := f.svc.SetVerification(context.Background(), "123456789012", "report_card", true, ""); err != nil {
		t.Fatalf("audit failure must not fail verification: %v", err)
	}
	docs, _ := f.svc.VerificationStatus(context.Background(), "123456789012")
	if !docs.ReportCard {
		t.Fatal("flag must be set")
	}
}

func TestSetVerification_NoAutoTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)
	for _, d := range models.DocumentTypes {
		if err := f.svc.SetVerification(ctx, "123456789012", string(d), true, ""); err != nil {
			t.Fatal(err)
		}
	}
	st, _ := f.store.GetStudent(ctx, "123456789012")
	if st.Status != models.StatusPending {
		t.Fatalf("complete documents must not change status, got %s", st.Status)
	}
}

func TestRemindMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)
	for _, d := range models.DocumentTypes[:5] {
		_ = f.svc.SetVerification(ctx, "123456789012", string(d), true, "")
	}
	notes := len(f.notes.sent)

	missing, err := f.svc.RemindMissing(ctx, "123456789012")
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 2 || missing[0] != models.DocTranscriptRecords {
		t.Fatalf("unexpected missing list %v", missing)
	}
	last, _ := f.notes.last()
	md, ok := last.payload.(notify.MissingDocuments)
	if !ok || len(md.Documents) != 2 || md.Documents[1] != "Honorable Dismissal" || len(f.notes.sent) != notes+1 {
		t.Fatalf("unexpected reminder %#v", last.payload)
	}

	for _, d := range models.DocumentTypes[5:] {
		_ = f.svc.SetVerification(ctx, "123456789012", string(d), true, "")
	}
	missing, err = f.svc.RemindMissing(ctx, "123456789012")
	if err != nil || len(missing) != 0 || len(f.notes.sent) != notes+1 {
		t.Fatalf("complete file: missing=%v err=%v sent=%d", missing, err, len(f.notes.sent))
	}

	if _, err := f.svc.RemindMissing(ctx, "000000000000"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdvanceSemester(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := validApplication()
	a.EnrollmentType = "Transferee"
	a.GradeSlip = "slips/123.pdf"
	if _, err := f.svc.CreateApplicant(ctx, a); err != nil {
		t.Fatal(err)
	}
	notes := len(f.notes.sent)

	f.now = july.AddDate(0, 5, 0)
	res, err := f.svc.AdvanceSemester(ctx, "123456789012", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Password != "SV8B-Cruz9012" {
		t.Fatalf("unexpected password %q", res.Password)
	}
	p := res.Period
	if p.Semester != models.SecondSemester || p.Status != models.StatusEnrolled || p.SchoolYear != "2025-2026" ||
		p.EnrollmentType != models.TypeTransferee || p.GradeSlip == nil || *p.GradeSlip != "slips/123.pdf" || p.RejectionReason != nil {
		t.Fatalf("unexpected period %+v", p)
	}

	all, _ := f.store.ListPeriods(ctx, "123456789012")
	if len(all) != 2 || all[0].Semester != models.FirstSemester {
		t.Fatalf("1st semester history must be kept: %+v", all)
	}
	acc, _ := f.store.GetAccount(ctx, "123456789012")
	if acc.HasPassword() || len(f.notes.sent) != notes {
		t.Fatal("progression must not write credentials or notify")
	}

	if _, err := f.svc.AdvanceSemester(ctx, "123456789012", "2025-2026"); !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("second advance should be a duplicate, got %v", err)
	}
	if _, err := f.svc.AdvanceSemester(ctx, "123456789012", "2030-2031"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("no 1st semester record: %v", err)
	}
	if _, err := f.svc.AdvanceSemester(ctx, "", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty LRN: %v", err)
	}
}

func TestGetApplicantAndQueues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)

	app, err := f.svc.GetApplicant(ctx, "123456789012")
	if err != nil {
		t.Fatal(err)
	}
	if app.TrackingCode != "SV8BSHS-789012" || app.HasAccount || app.Guardian == nil || app.Current == nil || app.Documents == nil || len(app.Periods) != 1 {
		t.Fatalf("unexpected applicant %+v", app)
	}
	if _, err := f.svc.GetApplicant(ctx, "000000000000"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	pending, err := f.svc.ListByStatus(ctx, models.StatusPending)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending queue: %v %v", pending, err)
	}
	if _, err := f.svc.ListByStatus(ctx); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	rows, _ := f.svc.Roster(ctx, "")
	if len(rows) != 0 {
		t.Fatal("pending applicants are not on the roster")
	}
	_, _ = f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusEnrolled, Password: "pw"})
	rows, _ = f.svc.Roster(ctx, "")
	if len(rows) != 1 || rows[0].Period.Status != models.StatusEnrolled {
		t.Fatalf("unexpected roster %+v", rows)
	}
}

func TestOverdueTemporary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.applicant(t)
	_, _ = f.svc.Transition(ctx, TransitionRequest{LRN: "123456789012", Status: models.StatusTemporaryEnrolled, Reason: "Form 137", Password: "pw"})

	f.now = july.Add(29 * 24 * time.Hour)
	if got, _ := f.svc.OverdueTemporary(ctx); len(got) != 0 {
		t.Fatalf("window still open, got %v", got)
	}
	f.now = july.Add(31 * 24 * time.Hour)
	got, err := f.svc.OverdueTemporary(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one overdue student, got %v %v", got, err)
	}
	if got[0].Status != models.StatusTemporaryEnrolled {
		t.Fatal("the watch must not change status")
	}
}
