package usecase

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/taskhub/pkg/domain/model"
)

// Claim names carried by identity tokens
const (
	ClaimRole        = "role"
	ClaimDepartments = "departments"
)

// AuthUseCaseInterface turns a bearer token into the requester identity
type AuthUseCaseInterface interface {
	ValidateToken(ctx context.Context, raw string) (*model.Identity, error)
	IsNoAuthn() bool
}

// AuthUseCase verifies HS256 tokens issued by an external identity provider. Issuing
// tokens is not part of this service.
type AuthUseCase struct {
	secret []byte
	issuer string
	skew   time.Duration
}

var _ AuthUseCaseInterface = &AuthUseCase{}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithIssuer requires the iss claim to match
func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

// WithAcceptableSkew tolerates clock drift when checking exp and nbf
func WithAcceptableSkew(d time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.skew = d
	}
}

func NewAuthUseCase(secret []byte, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		secret: secret,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// ValidateToken verifies the signature and standard claims, then builds the Identity
// from sub, role and departments.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, raw string) (*model.Identity, error) {
	if raw == "" {
		return nil, goerr.Wrap(ErrInvalidToken, "token is empty")
	}

	parseOpts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(uc.skew),
	}
	if uc.issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(uc.issuer))
	}

	token, err := jwt.Parse([]byte(raw), parseOpts...)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, err.Error())
	}

	role, _ := token.PrivateClaims()[ClaimRole].(string)
	departments, err := stringsClaim(token.PrivateClaims()[ClaimDepartments])
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, err.Error(), goerr.V("sub", token.Subject()))
	}

	identity, err := model.NewIdentity(token.Subject(), role, departments)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidToken, err.Error(), goerr.V("sub", token.Subject()))
	}
	return identity, nil
}

func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// stringsClaim accepts a missing claim, a single string or a list of strings
func stringsClaim(v any) ([]string, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{vv}, nil
	case []string:
		return vv, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, goerr.New("departments claim must contain strings", goerr.V("value", item))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, goerr.New("departments claim has unexpected type", goerr.V("value", v))
	}
}
