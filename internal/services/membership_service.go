package services

import (
	"context"
	"log"
	"strings"

	"clubportal/internal/apperrors"
	"clubportal/internal/repositories"
	"clubportal/internal/usv"
)

// VerificationStatus is returned to the caller after a completed USV
// check. Valid:false means the federation rejected the number.
type VerificationStatus struct {
	Valid       bool    `json:"valid"`
	MemberSince *string `json:"member_since,omitempty"`
}

// USVVerifier abstracts the federation client for tests.
type USVVerifier interface {
	Verify(ctx context.Context, usvNumber string) (*usv.Result, error)
}

type MembershipService interface {
	Verify(ctx context.Context, userID int, usvNumber string) (*VerificationStatus, error)
}

type membershipService struct {
	userRepo repositories.UserRepository
	client   USVVerifier
}

func NewMembershipService(userRepo repositories.UserRepository, client USVVerifier) MembershipService {
	return &membershipService{userRepo: userRepo, client: client}
}

// Verify runs the retrying federation call and, only on a positive
// answer, flips the user's verified flag. Failed attempts never write.
func (s *membershipService) Verify(ctx context.Context, userID int, usvNumber string) (*VerificationStatus, error) {
	usvNumber = strings.TrimSpace(usvNumber)
	if usvNumber == "" {
		return nil, apperrors.New(apperrors.KindValidation, "invalid request", "usv_number is required")
	}

	res, err := s.client.Verify(ctx, usvNumber)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		log.Printf("[membership][verify] rejected: user_id=%d number=%s", userID, usvNumber)
		return &VerificationStatus{Valid: false}, nil
	}

	if err := s.userRepo.SetVerified(userID, res.MemberSince); err != nil {
		return nil, err
	}
	log.Printf("[membership][verify] OK user_id=%d", userID)
	return &VerificationStatus{Valid: true, MemberSince: res.MemberSince}, nil
}
