// Package credentials derives applicant identifiers and account passwords from student data.
package credentials

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sv8bshs/enrollment/internal/apperr"
)

const (
	DefaultTrackingPrefix = "SV8BSHS"
	DefaultPasswordPrefix = "SV8B"

	trackingDigits = 6
	passwordDigits = 4
)

// Generator is pure: the same (last name, LRN) always yields the same output.
type Generator struct {
	TrackingPrefix string
	PasswordPrefix string
}

func NewGenerator(trackingPrefix, passwordPrefix string) Generator {
	if trackingPrefix == "" {
		trackingPrefix = DefaultTrackingPrefix
	}
	if passwordPrefix == "" {
		passwordPrefix = DefaultPasswordPrefix
	}
	return Generator{TrackingPrefix: trackingPrefix, PasswordPrefix: passwordPrefix}
}

// TrackingCode is "<prefix>-" + the last six characters of the LRN.
func (g Generator) TrackingCode(lrn string) (string, error) {
	lrn = strings.TrimSpace(lrn)
	if err := checkLRN("tracking code", lrn); err != nil {
		return "", err
	}
	return g.TrackingPrefix + "-" + lrn[len(lrn)-trackingDigits:], nil
}

// Password is "<prefix>-<LastName>" + the last four characters of the LRN.
func (g Generator) Password(lastName, lrn string) (string, error) {
	lastName = strings.TrimSpace(lastName)
	lrn = strings.TrimSpace(lrn)
	if lastName == "" {
		return "", apperr.New("password", apperr.ErrInvalidInput, "last name is required")
	}
	if err := checkLRN("password", lrn); err != nil {
		return "", err
	}
	return g.PasswordPrefix + "-" + lastName + lrn[len(lrn)-passwordDigits:], nil
}

func checkLRN(op, lrn string) error {
	if lrn == "" {
		return apperr.New(op, apperr.ErrInvalidInput, "LRN is required")
	}
	if len(lrn) < trackingDigits {
		return apperr.New(op, apperr.ErrInvalidInput, "LRN %q is shorter than %d characters", lrn, trackingDigits)
	}
	return nil
}

type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// BcryptHasher uses cost 10 unless told otherwise.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
