// Package brevo provides a lightweight client for the Brevo transactional email API.
// Uses raw HTTP calls (no SDK).
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL は Brevo API v3 のベース URL
const DefaultBaseURL = "https://api.brevo.com/v3"

// Address は送信者・宛先
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Attachment は base64 エンコード済みの添付ファイル
type Attachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

// Email は POST /smtp/email のリクエストボディ
type Email struct {
	Sender      Address      `json:"sender"`
	To          []Address    `json:"to"`
	ReplyTo     *Address     `json:"replyTo,omitempty"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
	TextContent string       `json:"textContent,omitempty"`
	Attachments []Attachment `json:"attachment,omitempty"`
}

// Client は Brevo API クライアントのインターフェース
type Client interface {
	// SendTransactionalEmail はメールを送信し messageId を返す
	SendTransactionalEmail(ctx context.Context, email Email) (string, error)
}

// RealClient は Brevo API への raw HTTP クライアント実装
type RealClient struct {
	APIKey     string
	BaseURL    string
	httpClient *http.Client
}

var _ Client = (*RealClient)(nil)

// NewClient は RealClient を生成する。baseURL が空なら DefaultBaseURL を使う
func NewClient(apiKey, baseURL string, timeout time.Duration) *RealClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RealClient{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ErrNotConfigured は API キーが設定されていない場合のエラー
var ErrNotConfigured = errors.New("brevo: not configured")

// APIError は 2xx 以外のレスポンス
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("brevo: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("brevo: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// SendTransactionalEmail は POST /smtp/email を呼び出す
func (c *RealClient) SendTransactionalEmail(ctx context.Context, email Email) (string, error) {
	if c.APIKey == "" {
		return "", ErrNotConfigured
	}

	jsonBody, err := json.Marshal(email)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/smtp/email", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
		return "", apiErr
	}

	var result struct {
		MessageID string `json:"messageId"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("brevo: decode response: %w", err)
		}
	}
	return result.MessageID, nil
}
