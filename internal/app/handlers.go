package app

import (
	"github.com/znznow/agreements-backend/internal/http/handlers"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Agreement *handlers.AgreementHandler
}

func (a *App) wireHandlers() {
	a.Handlers = &Handlers{
		Health:    handlers.NewHealthHandler(),
		Agreement: handlers.NewAgreementHandler(a.Log, a.Services.Agreement, a.Services.Mail),
	}
}
