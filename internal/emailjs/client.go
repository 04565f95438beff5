// Package emailjs relays inquiries through the EmailJS REST API
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"airspring/internal/domain"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.emailjs.com"
	DefaultTimeout = 15 * time.Second

	sendPath = "/api/v1.0/email/send"
)

// Config addresses one EmailJS template
type Config struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	BaseURL    string
	Timeout    time.Duration
}

// Complete reports whether the three required identifiers are set
func (c Config) Complete() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

// Client sends template emails
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *zap.Logger
}

// NewClient creates an EmailJS client. An incomplete config is accepted; every send then reports failure.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

type templateParams struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Marka   string `json:"marka"`
	VIN     string `json:"vin"`
	Message string `json:"message"`
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams templateParams `json:"template_params"`
}

// SendInquiry posts the form fields as template parameters.
// It returns false without an error when the client is not configured.
func (c *Client) SendInquiry(ctx context.Context, data domain.ContactFormData) (bool, error) {
	if !c.cfg.Complete() {
		c.logger.Error("EmailJS configuration missing")
		return false, nil
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:   c.cfg.ServiceID,
		TemplateID:  c.cfg.TemplateID,
		UserID:      c.cfg.PublicKey,
		AccessToken: c.cfg.PrivateKey,
		TemplateParams: templateParams{
			Name:    data.Name,
			Phone:   data.Phone,
			Marka:   data.Marka,
			VIN:     data.VIN,
			Message: data.Message,
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("emailjs rejected request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	c.logger.Info("Inquiry email sent", zap.String("marka", data.Marka))
	return true, nil
}
