package services

import (
	"log"
	"strings"
	"time"

	"clubportal/internal/apperrors"
	"clubportal/internal/models"
	"clubportal/internal/repositories"
	"clubportal/internal/utils"
)

const minPasswordLength = 8

// ResetRequest carries the issued token back to the caller. It is nil
// when the email matched no account: the HTTP response must look the
// same either way so registration status never leaks.
type ResetRequest struct {
	Token     string
	Email     string
	FirstName string
}

type TokenInfo struct {
	Email     string
	FirstName string
}

type PasswordResetService interface {
	RequestReset(email string) (*ResetRequest, error)
	ValidateToken(token string) (*TokenInfo, error)
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	emails   EmailService
	auth     AuthService
	tokenTTL time.Duration
	now      func() time.Time
}

func NewPasswordResetService(userRepo repositories.UserRepository, emails EmailService, auth AuthService, tokenTTL time.Duration) PasswordResetService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &passwordResetService{
		userRepo: userRepo,
		emails:   emails,
		auth:     auth,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *passwordResetService) RequestReset(email string) (*ResetRequest, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, apperrors.New(apperrors.KindValidation, "invalid request", "email is required")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// don't leak existence
		log.Printf("[password-reset][request] no account for %q", email)
		return nil, nil
	}

	token, err := utils.NewResetToken()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(s.tokenTTL)
	// sole store operation; overwrites any prior live token for the user
	if err := s.userRepo.SetResetToken(user.ID, token, expires); err != nil {
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.SendPasswordResetEmail(user.Email, token, user.FirstName); err != nil {
			// a failed send must not flip the outcome
			log.Printf("[password-reset][request] failed to send email to %s: %v", user.Email, err)
		}
	}
	return &ResetRequest{Token: token, Email: user.Email, FirstName: user.FirstName}, nil
}

func (s *passwordResetService) ValidateToken(token string) (*TokenInfo, error) {
	user, err := s.lookupLive(token)
	if err != nil {
		return nil, err
	}
	return &TokenInfo{Email: user.Email, FirstName: user.FirstName}, nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < minPasswordLength {
		return apperrors.New(apperrors.KindValidation, "weak password",
			"password must be at least 8 characters")
	}

	user, err := s.lookupLive(token)
	if err != nil {
		return err
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// single conditional update: new hash + token fields cleared, only if
	// the token still matches. A concurrent consumer loses the race and
	// sees the same error as a token that never existed.
	consumed, err := s.userRepo.ConsumeResetToken(token, hash)
	if err != nil {
		return err
	}
	if !consumed {
		return apperrors.ErrNotFound
	}
	log.Printf("[password-reset][reset] password updated for user_id=%d", user.ID)
	return nil
}

func (s *passwordResetService) lookupLive(token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.New(apperrors.KindValidation, "invalid request", "token is required")
	}
	user, err := s.userRepo.GetByResetToken(token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	// rows issued before expiries became mandatory carry no expiry and
	// stay valid until consumed
	if user.ResetExpiresAt != nil && s.now().After(*user.ResetExpiresAt) {
		return nil, apperrors.ErrExpired
	}
	return user, nil
}
