package otp

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

const (
	codeLength = 6
	ttl        = 10 * time.Minute
)

// Sender delivers a one-time code to a phone number. Delivery is an external
// concern; production wires an SMS gateway here.
type Sender interface {
	Send(countryCode, phoneNumber, code string) error
}

// LogSender logs codes instead of sending them. Used in development and tests.
type LogSender struct{}

func (LogSender) Send(countryCode, phoneNumber, code string) error {
	slog.Info("otp issued", "phone", countryCode+phoneNumber, "code", code)
	return nil
}

type Service struct {
	store  store.Store
	sender Sender
}

func NewService(s store.Store, sender Sender) *Service {
	return &Service{store: s, sender: sender}
}

// Issue generates a fresh code for the phone/purpose pair, persists it and
// hands it to the sender.
func (s *Service) Issue(countryCode, phoneNumber, purpose string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	record := models.OTP{
		CountryCode: countryCode,
		PhoneNumber: phoneNumber,
		Code:        code,
		Purpose:     purpose,
		ExpiresAt:   time.Now().UTC().Add(ttl),
	}
	if err := s.store.CreateOTP(&record); err != nil {
		return err
	}
	return s.sender.Send(countryCode, phoneNumber, code)
}

// Verify checks a submitted code.
func (s *Service) Verify(countryCode, phoneNumber, code, purpose string) error {
	return s.store.VerifyOTP(countryCode, phoneNumber, code, purpose)
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n), nil
}
