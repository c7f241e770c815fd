package api

import (
	"coachhub/coaching-app/internal/billing"
	"coachhub/coaching-app/internal/service"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebhookHandler is the billing-provider event intake. It is unauthenticated
// in the bearer-token sense; authenticity comes from the HMAC signature over
// the raw body.
type WebhookHandler struct {
	billingEvents service.BillingEventService
	webhookSecret string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(billingEvents service.BillingEventService, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		billingEvents: billingEvents,
		webhookSecret: webhookSecret,
	}
}

// HandleBillingWebhook verifies and processes one event. The signature is
// computed over the raw bytes as received; the body must not be re-parsed
// before verification.
func (h *WebhookHandler) HandleBillingWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Cannot read request body")
		return
	}

	if err := billing.VerifySignature(body, c.GetHeader(billing.SignatureHeader), h.webhookSecret); err != nil {
		log.Printf("Rejected billing webhook: %v", err)
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid signature")
		return
	}

	var event billing.Event
	if err := json.Unmarshal(body, &event); err != nil {
		abortWithCode(c, http.StatusBadRequest, CodeValidation, "Invalid JSON payload")
		return
	}

	if err := h.billingEvents.HandleEvent(c.Request.Context(), &event); err != nil {
		// A transient processing failure; the provider will redeliver.
		log.Printf("ERROR: billing event %s failed: %v", event.ID, err)
		abortWithError(c, http.StatusInternalServerError, "Event processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
