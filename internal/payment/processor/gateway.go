// Package processor implements the external payment processor boundary.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hudumahub/huduma/internal/config"
	"github.com/hudumahub/huduma/internal/payment/domain"
	"go.uber.org/zap"
)

// GatewayClient talks to the mobile-money aggregator. The aggregator pushes
// an approval prompt to the payer's handset; settlement is observed by
// polling GetStatus.
type GatewayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

func NewGatewayClient(cfg config.Config, log *zap.Logger) *GatewayClient {
	return &GatewayClient{
		baseURL:    strings.TrimSuffix(cfg.ProcessorBaseURL, "/"),
		apiKey:     cfg.ProcessorAPIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        log.Named("payment.gateway"),
	}
}

type initiatePayload struct {
	SessionID string `json:"session_id"`
	Purpose   string `json:"purpose"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	MSISDN    string `json:"msisdn"`
	Operator  string `json:"operator"`
}

type initiateResult struct {
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

type statusResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *GatewayClient) Initiate(ctx context.Context, req domain.InitiateRequest) (domain.InitiateResponse, error) {
	body, err := json.Marshal(initiatePayload{
		SessionID: req.SessionID,
		Purpose:   string(req.Purpose),
		Amount:    req.Amount,
		Currency:  req.Currency,
		MSISDN:    req.PhoneNumber,
		Operator:  req.Operator,
	})
	if err != nil {
		return domain.InitiateResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return domain.InitiateResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.InitiateResponse{}, fmt.Errorf("%w: %v", domain.ErrInitiationFailed, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.InitiateResponse{}, err
	}

	var result initiateResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.InitiateResponse{}, fmt.Errorf("%w: unparseable response", domain.ErrInitiationFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("charge initiation rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", result.Message),
		)
		return domain.InitiateResponse{}, fmt.Errorf("%w: %s", domain.ErrInitiationFailed, result.Message)
	}
	if strings.TrimSpace(result.Reference) == "" {
		return domain.InitiateResponse{}, fmt.Errorf("%w: missing reference", domain.ErrInitiationFailed)
	}

	return domain.InitiateResponse{Reference: result.Reference}, nil
}

func (c *GatewayClient) GetStatus(ctx context.Context, reference string) (domain.StatusResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/charges/"+reference, nil)
	if err != nil {
		return domain.StatusResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.StatusResponse{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.StatusResponse{}, err
	}

	var result statusResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.StatusResponse{}, err
	}

	return domain.StatusResponse{
		Status:  mapGatewayStatus(result.Status),
		Message: result.Message,
	}, nil
}

// The aggregator's status vocabulary collapses onto three states; anything
// unknown is treated as still pending.
func mapGatewayStatus(raw string) domain.ProcessorStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUCCESS", "COMPLETED", "SETTLED":
		return domain.ProcessorStatusCompleted
	case "FAILED", "DECLINED", "CANCELLED", "REJECTED":
		return domain.ProcessorStatusFailed
	default:
		return domain.ProcessorStatusPending
	}
}
