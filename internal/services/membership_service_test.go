package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubportal/internal/apperrors"
	"clubportal/internal/repositories"
	"clubportal/internal/usv"
)

type fakeVerifier struct {
	calls  int
	result *usv.Result
	err    error
}

func (f *fakeVerifier) Verify(ctx context.Context, usvNumber string) (*usv.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakeVerifyRepo struct {
	repositories.UserRepository
	writes    int
	lastSince *string
}

func (r *fakeVerifyRepo) SetVerified(userID int, memberSince *string) error {
	r.writes++
	r.lastSince = memberSince
	return nil
}

func TestMembershipVerify_PositiveResultWritesOnce(t *testing.T) {
	since := "2019-04-01"
	client := &fakeVerifier{result: &usv.Result{Valid: true, MemberSince: &since}}
	repo := &fakeVerifyRepo{}
	svc := NewMembershipService(repo, client)

	status, err := svc.Verify(context.Background(), 7, "USV-12345")
	require.NoError(t, err)
	assert.True(t, status.Valid)
	require.NotNil(t, status.MemberSince)
	assert.Equal(t, since, *status.MemberSince)

	assert.Equal(t, 1, repo.writes)
	require.NotNil(t, repo.lastSince)
	assert.Equal(t, since, *repo.lastSince)
}

func TestMembershipVerify_NegativeResultNeverWrites(t *testing.T) {
	client := &fakeVerifier{result: &usv.Result{Valid: false}}
	repo := &fakeVerifyRepo{}
	svc := NewMembershipService(repo, client)

	status, err := svc.Verify(context.Background(), 7, "USV-12345")
	require.NoError(t, err)
	assert.False(t, status.Valid)
	assert.Zero(t, repo.writes)
}

func TestMembershipVerify_ClientFailurePropagates(t *testing.T) {
	client := &fakeVerifier{err: apperrors.Wrap(apperrors.KindTransient, "usv verification failed", errors.New("timeout"))}
	repo := &fakeVerifyRepo{}
	svc := NewMembershipService(repo, client)

	_, err := svc.Verify(context.Background(), 7, "USV-12345")
	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
	assert.Zero(t, repo.writes)
}

func TestMembershipVerify_EmptyNumberRejected(t *testing.T) {
	client := &fakeVerifier{}
	repo := &fakeVerifyRepo{}
	svc := NewMembershipService(repo, client)

	_, err := svc.Verify(context.Background(), 7, "   ")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Zero(t, client.calls)
	assert.Zero(t, repo.writes)
}
