package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/ports/adapter"
)

// Ensure compile-time conformance
var _ adapter.PaymentGateway = (*ZarinPalGateway)(nil)

// ZarinPalGateway implements adapter.PaymentGateway against ZarinPal's v4 API
// using direct HTTP calls. Amounts are in Rial.
type ZarinPalGateway struct {
	merchantID string
	sandbox    bool
	baseURL    string
	startPay   string
	client     *http.Client
}

func NewZarinPalGateway(merchantID string, sandbox bool) *ZarinPalGateway {
	baseURL := "https://payment.zarinpal.com/pg/v4/payment"
	startPay := "https://payment.zarinpal.com/pg/StartPay/%s"
	if sandbox {
		baseURL = "https://sandbox.zarinpal.com/pg/v4/payment"
		startPay = "https://sandbox.zarinpal.com/pg/StartPay/%s"
	}
	return &ZarinPalGateway{
		merchantID: merchantID,
		sandbox:    sandbox,
		baseURL:    baseURL,
		startPay:   startPay,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *ZarinPalGateway) Name() string { return "zarinpal" }

// zpRequestResponse is the payment request API response shape.
type zpRequestResponse struct {
	Data struct {
		Code      int    `json:"code"`
		Message   string `json:"message"`
		Authority string `json:"authority"`
		FeeType   string `json:"fee_type"`
		Fee       int    `json:"fee"`
	} `json:"data"`
	Errors []interface{} `json:"errors"`
}

// zpVerifyResponse is the payment verification API response shape.
type zpVerifyResponse struct {
	Data struct {
		Code     int    `json:"code"`
		RefID    int64  `json:"ref_id"`
		CardPan  string `json:"card_pan"`
		CardHash string `json:"card_hash"`
		FeeType  string `json:"fee_type"`
		Fee      int    `json:"fee"`
	} `json:"data"`
	Errors []interface{} `json:"errors"`
}

func (g *ZarinPalGateway) RequestPayment(ctx context.Context, amountIRR int64, description, callbackURL string, meta map[string]interface{}) (string, string, error) {
	requestData := map[string]interface{}{
		"merchant_id":  g.merchantID,
		"amount":       amountIRR,
		"callback_url": callbackURL,
		"description":  description,
	}
	if meta != nil {
		requestData["metadata"] = meta
	}

	var response zpRequestResponse
	if err := g.post(ctx, "/request.json", requestData, &response); err != nil {
		return "", "", err
	}

	if response.Data.Code != 100 {
		return "", "", fmt.Errorf("%w: zarinpal request code %d: %s", domain.ErrUpstream, response.Data.Code, response.Data.Message)
	}
	if len(response.Errors) > 0 {
		errorBytes, _ := json.Marshal(response.Errors)
		return "", "", fmt.Errorf("%w: zarinpal errors: %s", domain.ErrUpstream, string(errorBytes))
	}

	payURL := fmt.Sprintf(g.startPay, response.Data.Authority)
	return response.Data.Authority, payURL, nil
}

func (g *ZarinPalGateway) VerifyPayment(ctx context.Context, authority string, amountIRR int64) (string, error) {
	requestData := map[string]interface{}{
		"merchant_id": g.merchantID,
		"amount":      amountIRR,
		"authority":   authority,
	}

	var response zpVerifyResponse
	if err := g.post(ctx, "/verify.json", requestData, &response); err != nil {
		return "", err
	}

	// 100 = verified, 101 = already verified; both count as success so a
	// replayed callback stays idempotent
	if response.Data.Code != 100 && response.Data.Code != 101 {
		return "", fmt.Errorf("%w: zarinpal verify code %d", domain.ErrUpstream, response.Data.Code)
	}
	if len(response.Errors) > 0 {
		errorBytes, _ := json.Marshal(response.Errors)
		return "", fmt.Errorf("%w: zarinpal errors: %s", domain.ErrUpstream, string(errorBytes))
	}

	return strconv.FormatInt(response.Data.RefID, 10), nil
}

func (g *ZarinPalGateway) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: unmarshal response: %v, body: %s", domain.ErrUpstream, err, string(body))
	}
	return nil
}
