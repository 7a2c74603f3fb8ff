package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SubmitAndForms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/forms":
			_, _ = w.Write([]byte(`[{"key":"contact","formType":"contact","fields":["name","email"]}]`))
		case "/api/submit":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Empty(t, r.Header.Get("Authorization"))
			var req SubmitRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "contact", req.FormType)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"success":true,"message":"Submission saved successfully","id":"new-id"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	forms, err := c.Forms(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "contact", forms[0].Key)

	id, err := c.Submit(context.Background(), SubmitRequest{FormType: "contact", Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
}

func TestClient_SubmitValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":"Missing or invalid fields","field":"email"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Submit(context.Background(), SubmitRequest{FormType: "contact", Name: "A"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "email", apiErr.Field)
	assert.Contains(t, apiErr.Error(), "Missing or invalid fields")
}

func TestClient_LoginStoresToken(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/admin/login":
			_, _ = w.Write([]byte(`{"token":"tok-1","email":"admin@skillxl.com","expiresAt":"2026-01-02T00:00:00Z"}`))
		case "/api/submissions":
			assert.Equal(t, "contacted", r.URL.Query().Get("status"))
			assert.Equal(t, "25", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"id":"s1","status":"contacted","createdAt":"2026-01-01T00:00:00Z"}]`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	sess, err := c.Login(context.Background(), "admin@skillxl.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", c.Token())
	assert.True(t, sess.ExpiresAt.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))

	subs, err := c.List(context.Background(), ListOptions{Status: "contacted", Limit: 25})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, []string{"", "Bearer tok-1"}, gotAuth)
}

func TestClient_UpdateStatusAndReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/submissions/s1":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, _ = w.Write([]byte(`{"id":"s1","status":"` + body["status"] + `"}`))
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Submission not found"}`))
		case r.URL.Path == "/api/reply":
			var req ReplyRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.To == "b@bad-domain-without-mx.test" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"Invalid email domain: the recipient's domain cannot receive email"}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"message":"Email sent successfully"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	sub, err := c.UpdateStatus(ctx, "s1", "closed")
	require.NoError(t, err)
	assert.Equal(t, "closed", sub.Status)

	_, err = c.UpdateStatus(ctx, "missing", "closed")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	require.NoError(t, c.Reply(ctx, ReplyRequest{ID: "s1", To: "a@example.com", Subject: "Re", Message: "hi"}))

	err = c.Reply(ctx, ReplyRequest{To: "b@bad-domain-without-mx.test", Subject: "Re", Message: "hi"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Invalid email domain")
}

func TestAPIError_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Forms(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "api: HTTP 502", apiErr.Error())
}
