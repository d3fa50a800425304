package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Sender dispatches a code to a phone number out of band.
type Sender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// LogSender writes the code to the log instead of sending an SMS.
// Only suitable for development.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender returns a Sender that logs codes.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "otp-log-sender").Logger()}
}

func (s *LogSender) SendOTP(ctx context.Context, phone, code string) error {
	s.logger.Info().Str("phone", phone).Str("otp", code).Msg("OTP issued")
	return nil
}

const (
	defaultSMSLocalURL = "https://www.smslocal.com/dev/bulkV2"
	defaultSMSTimeout  = 15 * time.Second
)

// SMSLocalSender sends codes through the SMS Local OTP route.
type SMSLocalSender struct {
	APIKey     string
	BaseURL    string
	SenderID   string
	HTTPClient *http.Client
}

// NewSMSLocalSender returns a sender for the given API key; baseURL and
// senderID are optional.
func NewSMSLocalSender(apiKey, baseURL, senderID string) *SMSLocalSender {
	if baseURL == "" {
		baseURL = defaultSMSLocalURL
	}
	return &SMSLocalSender{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		SenderID:   senderID,
		HTTPClient: &http.Client{Timeout: defaultSMSTimeout},
	}
}

// SendOTP posts the code to SMS Local. It never logs the code.
func (c *SMSLocalSender) SendOTP(ctx context.Context, phone, code string) error {
	if c.APIKey == "" {
		return fmt.Errorf("sms: API key not configured")
	}

	body := map[string]string{
		"route":     "otp",
		"numbers":   phone,
		"variables": code,
	}
	if c.SenderID != "" {
		body["sender_id"] = c.SenderID
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms: request failed status=%d body=%s", resp.StatusCode, string(b))
	}
	return nil
}
