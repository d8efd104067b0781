package paymentgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// RESTPaymentGatewayAdapter fetches payment-intent shipping detail from the
// payment gateway's REST API by payment reference.
type RESTPaymentGatewayAdapter struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewRESTPaymentGatewayAdapter(logger *slog.Logger, baseURL, apiKey string, httpClient *http.Client) *RESTPaymentGatewayAdapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTPaymentGatewayAdapter{
		logger:     logger.With("adapter", "rest_payment_gateway"),
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

var _ domain.PaymentGateway = (*RESTPaymentGatewayAdapter)(nil)

// paymentIntentResponse mirrors the gateway's payment-intent resource; only
// the shipping block is consumed here.
type paymentIntentResponse struct {
	ID       string `json:"id"`
	Shipping struct {
		Address struct {
			Line1      string `json:"line1"`
			Line2      string `json:"line2"`
			City       string `json:"city"`
			State      string `json:"state"`
			Country    string `json:"country"`
			PostalCode string `json:"postal_code"`
		} `json:"address"`
		Phone string `json:"phone"`
	} `json:"shipping"`
}

type gatewayErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *RESTPaymentGatewayAdapter) GetPaymentDetails(ctx context.Context, paymentRef string) (*domain.PaymentDetails, error) {
	url := fmt.Sprintf("%s/v1/payment_intents/%s", a.baseURL, paymentRef)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment gateway request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	a.logger.DebugContext(ctx, "Fetching payment intent from gateway", "payment_ref", paymentRef)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer httpResp.Body.Close()

	respBodyBytes, readErr := io.ReadAll(httpResp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("payment gateway request failed (status %d), and failed to read response body: %w", httpResp.StatusCode, readErr)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var gwErr gatewayErrorResponse
		errMsg := fmt.Sprintf("payment gateway error: status %d", httpResp.StatusCode)
		if err := json.Unmarshal(respBodyBytes, &gwErr); err == nil && gwErr.Error.Message != "" {
			errMsg = fmt.Sprintf("payment gateway error: status %d, message: %s", httpResp.StatusCode, gwErr.Error.Message)
		}
		a.logger.WarnContext(ctx, "Payment intent lookup failed", "payment_ref", paymentRef, "status_code", httpResp.StatusCode)
		return nil, fmt.Errorf("%s", errMsg)
	}

	var intent paymentIntentResponse
	if err := json.Unmarshal(respBodyBytes, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment gateway response: %w", err)
	}

	return &domain.PaymentDetails{
		Address: domain.ShippingAddress{
			Line1:      intent.Shipping.Address.Line1,
			Line2:      intent.Shipping.Address.Line2,
			City:       intent.Shipping.Address.City,
			State:      intent.Shipping.Address.State,
			Country:    intent.Shipping.Address.Country,
			PostalCode: intent.Shipping.Address.PostalCode,
		},
		Phone: intent.Shipping.Phone,
	}, nil
}
