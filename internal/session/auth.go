package session

import (
	"context"

	"github.com/moodix/journal/internal/gateway"
	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/models"
)

// AuthService is the thin authentication boundary: is the caller authorized.
// Session state itself lives in the gateway's cookie jar.
type AuthService struct {
	gw  gateway.Client
	log logging.Logger
}

func NewAuthService(gw gateway.Client, log logging.Logger) *AuthService {
	return &AuthService{gw: gw, log: log}
}

func (a *AuthService) Check(ctx context.Context) models.SessionInfo {
	return a.gw.CheckSession(ctx)
}

func (a *AuthService) Login(ctx context.Context, username, password string) bool {
	ok := a.gw.Login(ctx, username, password)
	if !ok {
		a.log.Warn(ctx, "login failed", "username", username)
	}
	return ok
}

func (a *AuthService) Logout(ctx context.Context) {
	a.gw.Logout(ctx)
}
