package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"brassmart/internal/store"
)

const (
	otpLength = 6
	otpTTL    = 5 * time.Minute
)

type otpRecord struct {
	Hash      []byte    `json:"hash"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// otpStore keeps bcrypt-hashed one-time codes with a short expiry.
type otpStore struct {
	store store.Store
	now   func() time.Time
}

func newOTPStore(st store.Store) *otpStore {
	return &otpStore{store: st, now: time.Now}
}

func otpKey(email string) string {
	return "brassmart:otp:" + email
}

func generateOTP() (string, error) {
	buf := make([]byte, otpLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := make([]byte, otpLength)
	for i, b := range buf {
		code[i] = '0' + b%10
	}
	return string(code), nil
}

// Save hashes the code and stores it, replacing any previous code for the
// same email.
func (s *otpStore) Save(ctx context.Context, email, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}
	rec := otpRecord{Hash: hash, ExpiresAt: s.now().Add(otpTTL)}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode otp record: %w", err)
	}
	return s.store.Set(ctx, otpKey(email), raw)
}

// Consume verifies the code and deletes it so it cannot be replayed.
// Expired or missing codes report ErrOTPInvalid.
func (s *otpStore) Consume(ctx context.Context, email, code string) error {
	raw, err := s.store.Get(ctx, otpKey(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOTPInvalid
		}
		return err
	}
	var rec otpRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ErrOTPInvalid
	}
	if s.now().After(rec.ExpiresAt) {
		_ = s.store.Delete(ctx, otpKey(email))
		return ErrOTPInvalid
	}
	if bcrypt.CompareHashAndPassword(rec.Hash, []byte(code)) != nil {
		return ErrOTPInvalid
	}
	return s.store.Delete(ctx, otpKey(email))
}
