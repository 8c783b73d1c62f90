package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"brassmart/internal/domain"
	"brassmart/internal/identity"
	"brassmart/internal/store"
	"brassmart/internal/validate"
	"brassmart/internal/verification"
)

// Service errors surfaced to the HTTP layer.
var (
	ErrOTPInvalid   = errors.New("invalid or expired code")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidPin   = errors.New("invalid pincode")
	ErrWrongState   = errors.New("registration step out of order")
)

// identityClient is the slice of the identity backend the service needs.
type identityClient interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, in identity.CreateInput) (*domain.Customer, error)
	SendInvite(ctx context.Context, customerID string) error
	Update(ctx context.Context, customerID string, in identity.UpdateInput) (*domain.Customer, error)
	UpdateTags(ctx context.Context, customerID string, expected, tags []string) (*domain.Customer, error)
	Orders(ctx context.Context, customerID string) ([]domain.Order, error)
	CreateAddress(ctx context.Context, customerID string, addr domain.Address) (*domain.Address, error)
}

// Service implements passwordless login and the email verification flow on
// top of the identity backend.
type Service struct {
	identity identityClient
	otps     *otpStore
	tokens   *TokenManager
	mailer   Mailer
	logger   *log.Logger
}

func NewService(id identityClient, st store.Store, tokens *TokenManager, mailer Mailer, logger *log.Logger) *Service {
	return &Service{
		identity: id,
		otps:     newOTPStore(st),
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
	}
}

// SendOTPResult reports what SendOTP did for the given email.
type SendOTPResult struct {
	// Invited is true when no customer existed and an account invitation
	// was sent instead of a login code.
	Invited bool
	Message string
}

// SendOTP sends a one-time login code to an existing customer. For an
// unknown email it creates the customer and sends an account invitation
// instead, so a login attempt doubles as signup.
func (s *Service) SendOTP(ctx context.Context, email string) (*SendOTPResult, error) {
	if !validate.Email(email) {
		return nil, ErrInvalidEmail
	}
	customer, err := s.identity.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		_, err := s.identity.Create(ctx, identity.CreateInput{
			Email:           email,
			SendEmailInvite: true,
		})
		if err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		return &SendOTPResult{Invited: true, Message: "Account invitation sent to your email"}, nil
	}
	if err != nil {
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	if err := s.otps.Save(ctx, customer.Email, code); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}
	if err := s.mailer.SendOTP(ctx, customer.Email, code); err != nil {
		return nil, fmt.Errorf("send otp: %w", err)
	}
	return &SendOTPResult{Message: "OTP sent to your email"}, nil
}

// VerifyOTP checks the code, consumes it, and returns the customer with a
// fresh session token. A code can be used at most once.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*domain.Customer, string, error) {
	if err := s.otps.Consume(ctx, email, code); err != nil {
		return nil, "", err
	}
	customer, err := s.identity.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(customer.ID, customer.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return customer, token, nil
}

// SendVerification starts registration for a new customer, creating the
// remote record in the pending-verification state and sending the invitation
// email. Calling it again before the email is verified re-sends the
// invitation for the existing record instead of creating a duplicate.
func (s *Service) SendVerification(ctx context.Context, email, firstName, lastName string) (string, error) {
	if !validate.Email(email) {
		return "", ErrInvalidEmail
	}
	customer, err := s.identity.GetByEmail(ctx, email)
	if err == nil {
		if verification.FromTags(customer.Tags) != verification.Pending {
			return "", domain.ErrAlreadyExists
		}
		if err := s.identity.SendInvite(ctx, customer.ID); err != nil {
			return "", fmt.Errorf("resend invite: %w", err)
		}
		return "Verification email resent successfully", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	_, err = s.identity.Create(ctx, identity.CreateInput{
		Email:           email,
		FirstName:       firstName,
		LastName:        lastName,
		Tags:            []string{domain.TagPendingVerification},
		SendEmailInvite: true,
	})
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return "Verification email sent successfully", nil
}

// VerifyEmail advances a pending customer to the email-verified state.
func (s *Service) VerifyEmail(ctx context.Context, email string) (*domain.Customer, error) {
	customer, err := s.identity.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.advance(ctx, customer, verification.Pending, verification.EmailVerified)
}

// CompleteRegistrationInput carries the final registration step.
type CompleteRegistrationInput struct {
	Email   string
	Phone   string
	Address *domain.Address
}

// CompleteRegistration records the customer's phone number, stores an
// optional default address, and advances email-verified to
// registration-complete.
func (s *Service) CompleteRegistration(ctx context.Context, in CompleteRegistrationInput) (*domain.Customer, error) {
	if !validate.Phone(in.Phone) {
		return nil, ErrInvalidPhone
	}
	customer, err := s.identity.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if verification.FromTags(customer.Tags) != verification.EmailVerified {
		return nil, ErrWrongState
	}
	phone := validate.FormatPhone(in.Phone)
	if _, err := s.identity.Update(ctx, customer.ID, identity.UpdateInput{Phone: &phone}); err != nil {
		return nil, fmt.Errorf("set phone: %w", err)
	}
	if in.Address != nil {
		if !validate.Pincode(in.Address.Zip) {
			return nil, ErrInvalidPin
		}
		if _, err := s.identity.CreateAddress(ctx, customer.ID, *in.Address); err != nil {
			return nil, fmt.Errorf("create address: %w", err)
		}
	}
	return s.advance(ctx, customer, verification.EmailVerified, verification.Complete)
}

// advance moves the customer one step along the verification state machine,
// rejecting stale tag sets via the compare-and-update in UpdateTags.
func (s *Service) advance(ctx context.Context, customer *domain.Customer, from, to verification.State) (*domain.Customer, error) {
	if verification.FromTags(customer.Tags) != from {
		return nil, ErrWrongState
	}
	next, err := verification.ApplyTransition(customer.Tags, from, to)
	if err != nil {
		return nil, err
	}
	updated, err := s.identity.UpdateTags(ctx, customer.ID, customer.Tags, next)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("customer %s: %s -> %s", customer.ID, from, to)
	return updated, nil
}

// Profile returns the customer record for an authenticated session.
func (s *Service) Profile(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.identity.GetByID(ctx, customerID)
}

// UpdateProfileInput is the subset of the customer record a customer can
// edit themselves.
type UpdateProfileInput struct {
	FirstName        *string
	LastName         *string
	Phone            *string
	AcceptsMarketing *bool
}

// UpdateProfile applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, customerID string, in UpdateProfileInput) (*domain.Customer, error) {
	if in.Phone != nil {
		if !validate.Phone(*in.Phone) {
			return nil, ErrInvalidPhone
		}
		formatted := validate.FormatPhone(*in.Phone)
		in.Phone = &formatted
	}
	return s.identity.Update(ctx, customerID, identity.UpdateInput{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		AcceptsMarketing: in.AcceptsMarketing,
	})
}

// Orders lists the customer's orders.
func (s *Service) Orders(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.identity.Orders(ctx, customerID)
}
