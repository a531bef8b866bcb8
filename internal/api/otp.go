package api

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	errOTPNotFound = errors.New("otp not found")
	errOTPExpired  = errors.New("otp expired")
	errOTPMismatch = errors.New("otp mismatch")
)

// Codes are single-use and a handful of wrong guesses burns the code.
const maxOTPVerifyAttempts = 5

type otpEntry struct {
	codeHash  []byte
	userID    int64
	email     string
	expiresAt time.Time
	attempts  int
}

// otpStore holds pending login codes keyed by employee number. Codes
// are stored bcrypt-hashed, expire on the injected clock, and are
// deleted on first successful verify.
type otpStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
	now     func() time.Time
}

func newOTPStore(ttl time.Duration, now func() time.Time) *otpStore {
	return &otpStore{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (o *otpStore) issue(employeeNumber, code string, userID int64, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// Re-issuing replaces any pending code for the employee.
	o.entries[employeeNumber] = otpEntry{
		codeHash:  hash,
		userID:    userID,
		email:     email,
		expiresAt: o.now().Add(o.ttl),
	}
	return nil
}

func (o *otpStore) verify(employeeNumber, code string) (otpEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.entries[employeeNumber]
	if !ok {
		return otpEntry{}, errOTPNotFound
	}
	if o.now().After(entry.expiresAt) {
		delete(o.entries, employeeNumber)
		return otpEntry{}, errOTPExpired
	}

	if err := bcrypt.CompareHashAndPassword(entry.codeHash, []byte(code)); err != nil {
		entry.attempts++
		if entry.attempts >= maxOTPVerifyAttempts {
			delete(o.entries, employeeNumber)
		} else {
			o.entries[employeeNumber] = entry
		}
		return otpEntry{}, errOTPMismatch
	}

	delete(o.entries, employeeNumber)
	return entry, nil
}
