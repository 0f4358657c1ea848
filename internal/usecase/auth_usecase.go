package usecase

import (
	"context"
	"crypto/subtle"
	"errors"

	"ocs-recruitment-backend/internal/domain"
	"ocs-recruitment-backend/pkg/apperror"
	"ocs-recruitment-backend/pkg/token"
)

type authUsecase struct {
	identityRepo domain.IdentityRepository
	tokens       *token.Provider
}

func NewAuthUsecase(identityRepo domain.IdentityRepository, tokens *token.Provider) domain.AuthUsecase {
	return &authUsecase{identityRepo: identityRepo, tokens: tokens}
}

// Login verifies the submitted credential digest and issues a session token.
// An unknown identity and a wrong digest produce the exact same failure, so
// the endpoint cannot be used to enumerate identities.
func (u *authUsecase) Login(ctx context.Context, identityID, credentialDigest string) (*domain.LoginResult, error) {
	if identityID == "" || credentialDigest == "" {
		return nil, apperror.BadRequest("Missing identity ID or credential digest")
	}

	identity, err := u.identityRepo.GetByID(ctx, identityID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		// Storage failure, not a credential failure: this one is retryable
		// and must not masquerade as a rejected login.
		return nil, apperror.Internal(err)
	}

	// Compare even when the identity is missing so both failure paths do the
	// same amount of work.
	stored := ""
	if identity != nil {
		stored = identity.CredentialDigest
	}
	match := subtle.ConstantTimeCompare([]byte(stored), []byte(credentialDigest)) == 1

	if identity == nil || !match {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	signed, expiresAt, err := u.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.LoginResult{
		Token:     signed,
		Role:      identity.Role,
		ExpiresAt: expiresAt,
	}, nil
}

func (u *authUsecase) WhoAmI(ctx context.Context, identityID string) (*domain.Identity, error) {
	identity, err := u.identityRepo.GetByID(ctx, identityID)
	if err != nil || identity == nil {
		// Token was valid but the identity behind it is gone.
		return nil, apperror.Unauthorized("Identity not found")
	}
	return identity, nil
}
