package http

import (
	"github.com/adgate/internal/application/adsession"
	"github.com/adgate/internal/application/impression"
	jwtinfra "github.com/adgate/internal/infrastructure/jwt"
	"github.com/adgate/internal/transport/http/handler"
)

// Deps holds the services exposed over the HTTP surface.
type Deps struct {
	AdSessions  adsession.Service
	Dispatcher  *impression.Dispatcher
	Tiers       handler.TierStore
	JWTProvider *jwtinfra.Provider // nil disables the admin endpoints
}
