package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/ports/adapter"
)

var _ adapter.SMSSender = (*RayganSender)(nil)

const rayganEndpoint = "https://raygansms.com/SendMessageWithCode.ashx"

// RayganSender delivers SMS through the RayganSMS HTTP API. The API takes a
// form POST and reports failures in the response body rather than the status
// code.
type RayganSender struct {
	username string
	password string
	endpoint string
	client   *http.Client
}

func NewRayganSender(username, password string) *RayganSender {
	return &RayganSender{
		username: username,
		password: password,
		endpoint: rayganEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *RayganSender) Name() string { return "raygansms" }

func (s *RayganSender) Send(ctx context.Context, phone, message string) error {
	form := url.Values{}
	form.Set("UserName", s.username)
	form.Set("Password", s.password)
	form.Set("PhoneNumber", phone)
	form.Set("Mobile", phone)
	form.Set("Message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || strings.Contains(strings.ToLower(text), "error") {
		return fmt.Errorf("%w: raygansms status %d: %s", domain.ErrUpstream, resp.StatusCode, text)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used in dev
// environments without SMS credentials.
type LogSender struct {
	log *zerolog.Logger
}

func NewLogSender(log *zerolog.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, phone, message string) error {
	s.log.Info().Str("phone", phone).Str("message", message).Msg("sms (log sender)")
	return nil
}
