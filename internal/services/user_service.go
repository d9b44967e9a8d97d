package services

import (
	"log"
	"strings"

	"clubportal/internal/apperrors"
	"clubportal/internal/authz"
	"clubportal/internal/models"
	"clubportal/internal/repositories"
)

type UserService interface {
	Register(req *models.RegisterRequest) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateProfile(user *models.User) error
	ChangePassword(userID int, currentPassword, newPassword string) error
	ListUsers(limit, offset int) ([]*models.User, error)
	GetUserCount() (int, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
	}
}

func (s *userService) Register(req *models.RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.New(apperrors.KindValidation, "invalid request", "a valid email is required")
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, apperrors.New(apperrors.KindValidation, "weak password",
			"password must be at least 8 characters")
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.KindConflict, "email taken",
			"an account with this email already exists")
	}

	hash, err := s.authService.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hash,
		RoleID:       authz.RoleMember,
		USVNumber:    strings.TrimSpace(req.USVNumber),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			// warn but do not fail registration
			log.Printf("[user][register] failed to send welcome email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *userService) UpdateProfile(user *models.User) error {
	return s.repo.UpdateProfile(user)
}

func (s *userService) ChangePassword(userID int, currentPassword, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < minPasswordLength {
		return apperrors.New(apperrors.KindValidation, "weak password",
			"password must be at least 8 characters")
	}
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrNotFound
	}
	if !s.authService.CheckPassword(user.PasswordHash, currentPassword) {
		return apperrors.New(apperrors.KindUnauthorized, "unauthorized", "current password is incorrect")
	}
	hash, err := s.authService.HashPassword(strings.TrimSpace(newPassword))
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(userID, hash)
}

func (s *userService) ListUsers(limit, offset int) ([]*models.User, error) {
	return s.repo.List(limit, offset)
}

func (s *userService) GetUserCount() (int, error) {
	return s.repo.GetCount()
}
