package webhook

import (
	"orderbot_backend/internal/bot"
	"orderbot_backend/internal/gateway"
	apphttp "orderbot_backend/internal/http"
	"orderbot_backend/platform/httpkit"
	"orderbot_backend/platform/logger"
	"orderbot_backend/platform/validator"
)

// Module is the webhook module implementing http.Module.
type Module struct {
	handler *Handler
	apiKey  string
}

// NewModule creates and initializes the webhook module.
func NewModule(router *bot.Router, gw *gateway.Client, apiKey string, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(router, gw, val, log),
		apiKey:  apiKey,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/webhook")
	group.Use(httpkit.APIKeyAuth(m.apiKey))
	group.POST("/messages", m.handler.HandleMessage)
	group.GET("/pairing-qr", m.handler.HandlePairingQR)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
