package auth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"edura/internal/mailer"
	"edura/internal/models"
	"edura/internal/store"
)

// ResendCooldown is the minimum interval between OTP issuances for the same
// account. The check is anchored to the current window's expiry, not to a
// separate "last sent" timestamp: a new code is refused while otp_expires_at
// is still later than now minus the cooldown.
const ResendCooldown = 60 * time.Second

const (
	storeTimeout = 5 * time.Second
	mailTimeout  = 10 * time.Second
)

// Service orchestrates registration, email verification, OTP resend and
// login over the user store and the mailer.
type Service struct {
	Store      store.UserStore
	Mailer     mailer.Mailer
	Tokens     *TokenService
	BcryptCost int
}

func NewService(st store.UserStore, m mailer.Mailer, tokens *TokenService, bcryptCost int) *Service {
	return &Service{Store: st, Mailer: m, Tokens: tokens, BcryptCost: bcryptCost}
}

// Register creates an unverified user with a fresh OTP and emails the code.
// If the email cannot be sent the user still exists; the caller gets a
// *DeliveryError alongside the created record so it can say so.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	otp, err := GenerateOTP()
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	user, err := s.Store.Create(cctx, store.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         r,
		OTP:          otp,
		OTPExpiresAt: time.Now().Add(OTPValidity),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendOTP(ctx, email, otp); err != nil {
		return user, &DeliveryError{Err: err}
	}
	return user, nil
}

// VerifyEmail consumes a pending OTP and marks the account verified. A code
// that matches but has outlived its window fails as expired, not mismatched.
func (s *Service) VerifyEmail(ctx context.Context, email, otp string) (*models.User, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.Store.FindByEmail(cctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if user.OTP == nil || *user.OTP != otp {
		return nil, ErrOTPMismatch
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return nil, ErrOTPExpired
	}

	if err := s.Store.ConsumeOTP(cctx, user.ID, otp); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// someone else verified or rotated the code between our read
			// and this write
			return nil, ErrOTPMismatch
		}
		return nil, fmt.Errorf("consume otp: %w", err)
	}

	return s.Store.FindByID(cctx, user.ID)
}

// ResendOTP rotates the pending code after the cooldown has elapsed. The
// returned *CooldownError carries the remaining wait in seconds.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.Store.FindByEmail(cctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	threshold := time.Now().Add(-ResendCooldown)
	if user.OTPExpiresAt != nil && user.OTPExpiresAt.After(threshold) {
		remaining := user.OTPExpiresAt.Sub(threshold).Seconds()
		return &CooldownError{RetryAfter: int(math.Ceil(remaining))}
	}

	otp, err := GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.Store.RotateOTP(cctx, user.ID, otp, time.Now().Add(OTPValidity)); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return ErrAlreadyVerified
		}
		return fmt.Errorf("rotate otp: %w", err)
	}

	if err := s.sendOTP(ctx, email, otp); err != nil {
		return &DeliveryError{Err: err}
	}
	return nil
}

// Login checks the credentials of a verified account and issues a session
// token. Verification is checked before the password, so an unverified user
// is told to verify regardless of what they typed.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	cctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user, err := s.Store.FindByEmail(cctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}
	if !user.IsVerified {
		return nil, "", ErrNotVerified
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidPassword
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *Service) sendOTP(ctx context.Context, email, otp string) error {
	mctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	body := fmt.Sprintf("Your verification code is %s. It expires in 5 minutes.", otp)
	return s.Mailer.Send(mctx, email, "Your verification code", body)
}
