package auth

import (
	"context"
	"net/http"

	"walletclient/app/dispatch"
	"walletclient/app/models"
	"walletclient/pkg/log"
	"walletclient/pkg/protocol"
)

const (
	pathLogin   = "/v1/auth/login"
	pathLogout  = "/v1/auth/logout"
	pathSession = "/v1/auth/session"
)

type Manager struct {
	Dispatcher dispatch.Service
}

func (m *Manager) Login(ctx context.Context, credentials *models.Credentials) (*protocol.Response, error) {
	if credentials == nil {
		return nil, protocol.BadRequest("no credentials provided")
	}
	// never log the password
	log.AddFields(ctx, "email", credentials.Email)

	if err := credentials.Validate(); err != nil {
		return nil, protocol.BadRequest("%s", err)
	}
	return m.Dispatcher.Dispatch(ctx, http.MethodPost, pathLogin, credentials, nil)
}

func (m *Manager) Logout(ctx context.Context) (*protocol.Response, error) {
	return m.Dispatcher.Dispatch(ctx, http.MethodPost, pathLogout, nil, nil)
}

func (m *Manager) Session(ctx context.Context) (*protocol.Response, error) {
	return m.Dispatcher.Dispatch(ctx, http.MethodGet, pathSession, nil, nil)
}
