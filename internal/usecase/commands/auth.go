package commands

import (
	"context"
	"crypto/subtle"

	"parkbridge/internal/pkg/config"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/pkg/jwt"
	"parkbridge/internal/pkg/password"
)

var ErrInvalidCredentials = errs.New("invalid credentials")

type AuthCommands interface {
	Login(ctx context.Context, username, pass string) (string, error)
}

// TokenValidator is consumed by the auth middleware.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

type authUseCaseImpl struct {
	cfg    config.APIConfig
	tokens *jwt.Service
}

func NewAuthUseCase(cfg config.APIConfig, tokens *jwt.Service) AuthCommands {
	return &authUseCaseImpl{cfg: cfg, tokens: tokens}
}

func (a *authUseCaseImpl) Login(_ context.Context, username, pass string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.Username)) == 1
	passwordErr := password.Compare(a.cfg.PasswordHash, pass)
	if !usernameOK || passwordErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := a.tokens.GenerateToken(username)
	if err != nil {
		return "", errs.Wrap(err, "failed to generate token")
	}
	return token, nil
}
