package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
)

// NoAuthnUseCase authenticates every request as a fixed identity (for development/testing)
type NoAuthnUseCase struct {
	identity *model.Identity
}

var _ AuthUseCaseInterface = &NoAuthnUseCase{}

// NewNoAuthnUseCase creates a NoAuthnUseCase acting as the given user
func NewNoAuthnUseCase(userID, role string, departments []string) (*NoAuthnUseCase, error) {
	identity, err := model.NewIdentity(userID, role, departments)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid no-authn identity")
	}
	return &NoAuthnUseCase{identity: identity}, nil
}

// ValidateToken ignores the token and returns a copy of the fixed identity
func (uc *NoAuthnUseCase) ValidateToken(ctx context.Context, raw string) (*model.Identity, error) {
	id := *uc.identity
	id.Departments = append([]string(nil), uc.identity.Departments...)
	return &id, nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
