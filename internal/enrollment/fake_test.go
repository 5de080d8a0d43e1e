package enrollment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sv8bshs/enrollment/internal/apperr"
	"github.com/sv8bshs/enrollment/internal/ctxutil"
	"github.com/sv8bshs/enrollment/internal/models"
	"github.com/sv8bshs/enrollment/internal/notify"
)

// memStore mirrors the Postgres constraints the lifecycle relies on.
type memStore struct {
	mu        sync.Mutex
	students  map[string]models.Student
	guardians map[string]models.Guardian
	docs      map[string]models.DocumentSet
	accounts  map[string]models.AccountCredential
	periods   []models.EnrollmentPeriod
	log       []models.VerificationLogEntry

	failCreate error
	failApply  error
	failLog    error
	nextID     int64
}

func newMemStore() *memStore {
	return &memStore{
		students:  map[string]models.Student{},
		guardians: map[string]models.Guardian{},
		docs:      map[string]models.DocumentSet{},
		accounts:  map[string]models.AccountCredential{},
	}
}

func notFound(what string) error {
	return apperr.New("mem", apperr.ErrNotFound, "%s not found", what)
}

func (m *memStore) rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students) + len(m.guardians) + len(m.docs) + len(m.accounts) + len(m.periods)
}

func (m *memStore) LRNExists(_ context.Context, lrn string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.students[lrn]
	return ok, nil
}

func (m *memStore) EmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateApplicant(_ context.Context, r models.ApplicantRecords) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	if _, ok := m.students[r.Student.LRN]; ok {
		return apperr.New("mem", apperr.ErrDuplicate, "lrn")
	}
	for _, s := range m.students {
		if s.Email == r.Student.Email {
			return apperr.New("mem", apperr.ErrDuplicate, "email")
		}
	}
	for _, a := range m.accounts {
		if a.TrackingCode == r.Account.TrackingCode {
			return apperr.New("mem", apperr.ErrDuplicate, "tracking code")
		}
	}
	m.students[r.Student.LRN] = r.Student
	m.guardians[r.Student.LRN] = r.Guardian
	m.docs[r.Student.LRN] = r.Documents
	m.accounts[r.Student.LRN] = r.Account
	m.nextID++
	p := r.Period
	p.ID = m.nextID
	m.periods = append(m.periods, p)
	return nil
}

func (m *memStore) GetStudent(_ context.Context, lrn string) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[lrn]
	if !ok {
		return nil, notFound("student")
	}
	return &s, nil
}

func (m *memStore) GetGuardian(_ context.Context, lrn string) (*models.Guardian, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guardians[lrn]
	if !ok {
		return nil, notFound("guardian")
	}
	return &g, nil
}

func (m *memStore) GetAccount(_ context.Context, lrn string) (*models.AccountCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[lrn]
	if !ok {
		return nil, notFound("account")
	}
	return &a, nil
}

func (m *memStore) ApplyStatusChange(_ context.Context, c models.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failApply != nil {
		return m.failApply
	}
	s, ok := m.students[c.LRN]
	if !ok {
		return notFound("student")
	}
	s.Status, s.Reason, s.StatusUpdatedAt = c.Status, c.Reason, c.At
	m.students[c.LRN] = s
	if c.PasswordHash != nil {
		a := m.accounts[c.LRN]
		a.PasswordHash = c.PasswordHash
		m.accounts[c.LRN] = a
	}
	if i := m.currentIdx(c.LRN, c.SchoolYear); i >= 0 {
		m.periods[i].Status = c.Status
		m.periods[i].RejectionReason = nil
		if c.Status == models.StatusRejected {
			m.periods[i].RejectionReason = c.Reason
		}
	}
	return nil
}

func (m *memStore) ListByStatus(_ context.Context, statuses ...models.Status) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Student
	for _, s := range m.students {
		for _, st := range statuses {
			if s.Status == st {
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LRN < out[j].LRN })
	return out, nil
}

func (m *memStore) TemporaryEnrolledSince(_ context.Context, cutoff time.Time) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Student
	for _, s := range m.students {
		if s.Status == models.StatusTemporaryEnrolled && s.StatusUpdatedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) GetDocuments(_ context.Context, lrn string) (*models.DocumentSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[lrn]
	if !ok {
		return nil, notFound("documents")
	}
	return &d, nil
}

func (m *memStore) SetDocumentFlag(_ context.Context, lrn string, t models.DocumentType, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[lrn]
	if !ok {
		if !verified {
			return notFound("documents")
		}
		if _, ok := m.students[lrn]; !ok {
			return notFound("student")
		}
		d = models.DocumentSet{LRN: lrn}
	}
	d.Set(t, verified)
	m.docs[lrn] = d
	return nil
}

func (m *memStore) AppendVerificationLog(_ context.Context, e models.VerificationLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failLog != nil {
		return m.failLog
	}
	e.ID = int64(len(m.log) + 1)
	m.log = append(m.log, e)
	return nil
}

func (m *memStore) ListVerificationLog(_ context.Context, lrn string) ([]models.VerificationLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.VerificationLogEntry
	for i := len(m.log) - 1; i >= 0; i-- {
		if m.log[i].LRN == lrn {
			out = append(out, m.log[i])
		}
	}
	return out, nil
}

func (m *memStore) currentIdx(lrn, year string) int {
	idx := -1
	for i, p := range m.periods {
		if p.LRN == lrn && p.SchoolYear == year {
			idx = i
		}
	}
	return idx
}

func (m *memStore) GetPeriod(_ context.Context, lrn, year string, sem models.Semester) (*models.EnrollmentPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		if p.LRN == lrn && p.SchoolYear == year && p.Semester == sem {
			return &p, nil
		}
	}
	return nil, notFound("period")
}

func (m *memStore) CurrentPeriod(_ context.Context, lrn, year string) (*models.EnrollmentPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.currentIdx(lrn, year); i >= 0 {
		p := m.periods[i]
		return &p, nil
	}
	return nil, notFound("period")
}

func (m *memStore) ListPeriods(_ context.Context, lrn string) ([]models.EnrollmentPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EnrollmentPeriod
	for _, p := range m.periods {
		if p.LRN == lrn {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) InsertPeriod(_ context.Context, p models.EnrollmentPeriod) (*models.EnrollmentPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.periods {
		if q.LRN == p.LRN && q.SchoolYear == p.SchoolYear && q.Semester == p.Semester {
			return nil, apperr.New("mem", apperr.ErrDuplicate, "period")
		}
	}
	m.nextID++
	p.ID = m.nextID
	m.periods = append(m.periods, p)
	return &p, nil
}

func (m *memStore) Roster(_ context.Context, year string, statuses ...models.Status) ([]models.RosterRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RosterRow
	for lrn, s := range m.students {
		i := m.currentIdx(lrn, year)
		if i < 0 {
			continue
		}
		for _, st := range statuses {
			if s.Status == st {
				p, g := m.periods[i], m.guardians[lrn]
				out = append(out, models.RosterRow{Student: s, Period: &p, Guardian: &g})
			}
		}
	}
	return out, nil
}

type sent struct {
	to      string
	payload notify.Payload
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, to string, p notify.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{to: to, payload: p})
	return f.err
}

func (f *fakeNotifier) last() (sent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sent{}, false
	}
	return f.sent[len(f.sent)-1], true
}

type fakeAlerter struct {
	texts []string
	err   error
}

func (f *fakeAlerter) Alert(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

// plainHasher keeps tests fast and predictable.
type plainHasher struct{ err error }

func (h plainHasher) Hash(p string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + p, nil
}

func (h plainHasher) Compare(hash, p string) bool { return hash == "hashed:"+p }

var errBoom = errors.New("boom")

func ctxWithActor(actor string) context.Context {
	return ctxutil.WithActor(context.Background(), actor)
}
