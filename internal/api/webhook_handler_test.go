package api_test

import (
	"bytes"
	"coachhub/coaching-app/internal/api"
	"coachhub/coaching-app/internal/billing"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test"

// fakeEventService records handled events and optionally fails.
type fakeEventService struct {
	events []*billing.Event
	err    error
}

func (f *fakeEventService) HandleEvent(_ context.Context, event *billing.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newWebhookRouter(events *fakeEventService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := api.NewWebhookHandler(events, testWebhookSecret)
	router.POST("/api/v1/billing/webhook", handler.HandleBillingWebhook)
	return router
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(billing.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleBillingWebhook_ValidSignature(t *testing.T) {
	events := &fakeEventService{}
	router := newWebhookRouter(events)

	body := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"customerId":"cus_001","subscriptionId":"sub_001"}}`)
	w := postWebhook(router, body, billing.Sign(body, testWebhookSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())
	require.Len(t, events.events, 1)
	assert.Equal(t, "evt_1", events.events[0].ID)
	assert.Equal(t, "cus_001", events.events[0].Data.CustomerID)
}

func TestHandleBillingWebhook_BadSignature(t *testing.T) {
	events := &fakeEventService{}
	router := newWebhookRouter(events)

	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	w := postWebhook(router, body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postWebhook(router, body, billing.Sign(body, "whsec_other"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A tampered body fails against the original signature.
	signature := billing.Sign(body, testWebhookSecret)
	w = postWebhook(router, []byte(`{"id":"evt_2","type":"checkout.session.completed"}`), signature)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, events.events, "rejected deliveries must not reach the service")
}

func TestHandleBillingWebhook_InvalidJSON(t *testing.T) {
	events := &fakeEventService{}
	router := newWebhookRouter(events)

	body := []byte(`{not json`)
	w := postWebhook(router, body, billing.Sign(body, testWebhookSecret))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, events.events)
}

func TestHandleBillingWebhook_ProcessingFailure(t *testing.T) {
	events := &fakeEventService{err: errors.New("datastore down")}
	router := newWebhookRouter(events)

	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	w := postWebhook(router, body, billing.Sign(body, testWebhookSecret))

	// 5xx so the provider redelivers later.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
