// Package client is a typed Go client for the SkillXL submission API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Submission is a lead as returned by the admin API.
type Submission struct {
	ID              string    `json:"id"`
	FormType        string    `json:"formType"`
	RequestCategory string    `json:"requestCategory,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Role            string    `json:"role,omitempty"`
	Organization    string    `json:"organization,omitempty"`
	ServiceInterest string    `json:"serviceInterest,omitempty"`
	Message         string    `json:"message,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SubmitRequest is the public form payload.
type SubmitRequest struct {
	FormType        string `json:"formType"`
	RequestCategory string `json:"requestCategory,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role,omitempty"`
	Organization    string `json:"organization,omitempty"`
	ServiceInterest string `json:"serviceInterest,omitempty"`
	Message         string `json:"message,omitempty"`
}

// Form describes one public form from the catalog.
type Form struct {
	Key           string   `json:"key"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	FormType      string   `json:"formType"`
	Fields        []string `json:"fields"`
	InterestField string   `json:"interestField,omitempty"`
	InterestLabel string   `json:"interestLabel,omitempty"`
	Interests     []string `json:"interests,omitempty"`
}

type OriginalRequest struct {
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Service string `json:"service,omitempty"`
	Message string `json:"message,omitempty"`
}

// Attachment content is base64 encoded.
type Attachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

type ReplyRequest struct {
	ID              string           `json:"id,omitempty"`
	To              string           `json:"to"`
	Subject         string           `json:"subject"`
	Message         string           `json:"message"`
	OriginalRequest *OriginalRequest `json:"originalRequest,omitempty"`
	Attachments     []Attachment     `json:"attachments,omitempty"`
}

// ListOptions filters a listing. Zero values are omitted from the query.
type ListOptions struct {
	Status   string
	FormType string
	Limit    int
	Offset   int
}

// Session is an admin login.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// APIError is any non-2xx response. Field is set for submit validation errors.
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: HTTP %d", e.StatusCode)
	}
	if e.Field != "" {
		return fmt.Sprintf("api: HTTP %d: %s (%s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to one API server. It is safe for concurrent use once configured.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken authenticates admin calls with a session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the session token in use, if any.
func (c *Client) Token() string { return c.token }

// Forms returns the public form catalog.
func (c *Client) Forms(ctx context.Context) ([]Form, error) {
	var forms []Form
	if err := c.do(ctx, http.MethodGet, "/api/forms", nil, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// Submit posts a public form and returns the new submission id.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/submit", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Login exchanges admin credentials for a session and keeps its token for
// later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", body, &sess); err != nil {
		return nil, err
	}
	c.token = sess.Token
	return &sess, nil
}

// List returns submissions newest first.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]Submission, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.FormType != "" {
		q.Set("formType", opts.FormType)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/api/submissions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var subs []Submission
	if err := c.do(ctx, http.MethodGet, path, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id, status string) (*Submission, error) {
	var sub Submission
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, "/api/submissions/"+url.PathEscape(id), body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Reply sends an email to a lead. The server marks the lead contacted on success.
func (c *Client) Reply(ctx context.Context, req ReplyRequest) error {
	return c.do(ctx, http.MethodPost, "/api/reply", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Field = payload.Field
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
