package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/paystack"
	usecase "github.com/LavaJover/safelink-deal-service/internal/usecase/deal"
	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// WebhookHandler receives Paystack events and funnels successful charges
// through the same verification path as the verify-payment endpoint.
type WebhookHandler struct {
	uc        usecase.DealUsecase
	secretKey string
}

func NewWebhookHandler(uc usecase.DealUsecase, secretKey string) *WebhookHandler {
	return &WebhookHandler{uc: uc, secretKey: secretKey}
}

func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid request body"})
		return
	}

	event, err := paystack.ParseWebhook(h.secretKey, body, c.GetHeader(paystack.SignatureHeader))
	if err != nil {
		slog.Warn("rejected paystack webhook", "error", err)
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "invalid signature"})
		return
	}

	if event.Event == paystack.EventChargeSuccess && event.Data.Reference != "" {
		// The gateway is asked again, so the webhook payload itself is never trusted for amounts.
		if _, err := h.uc.VerifyPayment(c.Request.Context(), event.Data.Reference); err != nil {
			slog.Warn("webhook verification failed",
				"reference", event.Data.Reference,
				"error", err,
			)
			// Paystack retries anything but 200; only a gateway outage is worth a retry.
			if errors.Is(err, domain.ErrGatewayUnavailable) {
				c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: "payment gateway unavailable"})
				return
			}
		}
	}

	c.Status(http.StatusOK)
}
