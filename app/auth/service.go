package auth

import (
	"context"

	"walletclient/app/models"
	"walletclient/pkg/protocol"
)

// Service talks to the auth group of the backend. The session cookie set on
// login is kept by the dispatcher's cookie jar.
type Service interface {
	Login(ctx context.Context, credentials *models.Credentials) (*protocol.Response, error)
	Logout(ctx context.Context) (*protocol.Response, error)
	Session(ctx context.Context) (*protocol.Response, error)
}
