// Package webhook receives inbound chat messages pushed by the WhatsApp
// gateway and hands them to the bot router.
package webhook

import (
	"net/http"

	"orderbot_backend/internal/bot"
	"orderbot_backend/internal/gateway"
	"orderbot_backend/platform/httpkit"
	"orderbot_backend/platform/logger"
	"orderbot_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// InboundMessage is the gateway's webhook payload for one chat message.
type InboundMessage struct {
	SenderID string `json:"sender_id" validate:"required"`
	Text     string `json:"text"`
	IsGroup  bool   `json:"is_group"`
}

// Handler handles webhook HTTP requests.
type Handler struct {
	router  *bot.Router
	gateway *gateway.Client
	val     *validator.Validator
	log     *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(router *bot.Router, gw *gateway.Client, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{router: router, gateway: gw, val: val, log: log}
}

// HandleMessage processes one inbound chat message.
// POST /api/v1/webhook/messages
//
// Returns 200 for every accepted payload, including ones the bot chooses to
// ignore: a non-2xx answer would make the gateway retry a message that was
// already handled.
func (h *Handler) HandleMessage(c *gin.Context) {
	var msg InboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(msg); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	h.log.InboundMessage(msg.SenderID, len(msg.Text), msg.IsGroup)

	// Group chat traffic is out of scope for the bot.
	if msg.IsGroup {
		httpkit.OK(c, gin.H{"status": "ignored"})
		return
	}

	h.router.HandleMessage(c.Request.Context(), msg.SenderID, msg.Text)
	httpkit.OK(c, gin.H{"status": "handled"})
}

// HandlePairingQR serves the gateway's current pairing code as a QR PNG for
// linking the WhatsApp device.
// GET /api/v1/webhook/pairing-qr
func (h *Handler) HandlePairingQR(c *gin.Context) {
	png, err := h.gateway.PairingQRPNG(c.Request.Context())
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "gateway pairing failed", nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
