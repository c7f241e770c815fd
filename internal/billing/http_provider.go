package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// httpProvider implements Provider against the billing provider's REST API.
type httpProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPProvider creates a billing provider client for the given API base
// URL and secret key.
func NewHTTPProvider(baseURL, apiKey string) Provider {
	return &httpProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createCustomerRequest struct {
	Email    string            `json:"email"`
	Metadata map[string]string `json:"metadata"`
}

type customerResponse struct {
	ID string `json:"id"`
}

type subscriptionListResponse struct {
	Data []Subscription `json:"data"`
}

// CreateCustomer provisions a billing customer carrying the coach id as
// metadata, so webhook events can be tied back to the coach.
func (p *httpProvider) CreateCustomer(ctx context.Context, email, coachID string) (string, error) {
	body, err := json.Marshal(createCustomerRequest{
		Email:    email,
		Metadata: map[string]string{"coachId": coachID},
	})
	if err != nil {
		return "", err
	}

	var customer customerResponse
	if err := p.do(ctx, http.MethodPost, "/v1/customers", body, &customer); err != nil {
		return "", err
	}
	if customer.ID == "" {
		return "", fmt.Errorf("%w: customer response missing id", ErrProviderUnavailable)
	}
	return customer.ID, nil
}

// ActiveSubscription queries the provider for the customer's active
// subscription. Returns nil without error when the customer has none.
func (p *httpProvider) ActiveSubscription(ctx context.Context, customerID string) (*Subscription, error) {
	path := "/v1/subscriptions?customer=" + url.QueryEscape(customerID) + "&status=active"
	var list subscriptionListResponse
	if err := p.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	sub := list.Data[0]
	return &sub, nil
}

// CancelSubscription cancels a subscription at the provider.
func (p *httpProvider) CancelSubscription(ctx context.Context, subscriptionID string) error {
	path := "/v1/subscriptions/" + url.PathEscape(subscriptionID)
	return p.do(ctx, http.MethodDelete, path, nil, nil)
}

func (p *httpProvider) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR: billing provider call %s %s failed: %v", method, path, err)
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("ERROR: billing provider call %s %s returned %d", method, path, resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrProviderUnavailable, err)
	}
	return nil
}
