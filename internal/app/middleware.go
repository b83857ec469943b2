package app

import (
	"github.com/tushar-behera15/padh-ai-tracker/internal/middleware"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, services.Auth),
	}
}
