// Package dashboard holds the client-side state of the public forms and the
// admin dashboard, independent of any UI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/skillxl/backend/internal/model"
	"github.com/skillxl/backend/pkg/client"
)

// FormState is where a form is in its submit lifecycle.
type FormState string

const (
	FormIdle       FormState = "idle"
	FormSubmitting FormState = "submitting"
	FormSuccess    FormState = "success"
	FormError      FormState = "error"
)

const msgFormUnavailable = "Unable to connect to the server. Please try again later or contact us directly."

// ErrSubmitInProgress is returned by Submit while an earlier submit is pending.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Submitter posts a public form payload and returns the new id.
type Submitter interface {
	Submit(ctx context.Context, req client.SubmitRequest) (string, error)
}

// FormSession is one visitor filling in one form.
type FormSession struct {
	form      model.Form
	submitter Submitter

	mu      sync.Mutex
	state   FormState
	message string
	values  map[string]string
	id      string
}

func NewFormSession(form model.Form, submitter Submitter) *FormSession {
	return &FormSession{
		form:      form,
		submitter: submitter,
		state:     FormIdle,
		values:    make(map[string]string),
	}
}

// Set records the value of one input, keyed by field name.
func (f *FormSession) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
}

// Values returns a copy of the current inputs.
func (f *FormSession) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

func (f *FormSession) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message is the text shown to the visitor for the current state.
func (f *FormSession) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// SubmissionID is set after a successful submit.
func (f *FormSession) SubmissionID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

// Submit sends the form. On failure the inputs are kept so the visitor can
// retry; on success they are cleared.
func (f *FormSession) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	f.state = FormSubmitting
	f.message = ""
	payload := f.form.Payload(f.values)
	f.mu.Unlock()

	id, err := f.submitter.Submit(ctx, client.SubmitRequest{
		FormType:        string(payload.FormType),
		RequestCategory: payload.RequestCategory,
		Name:            payload.Name,
		Email:           payload.Email,
		Phone:           payload.Phone,
		Role:            payload.Role,
		Organization:    payload.Organization,
		ServiceInterest: payload.ServiceInterest,
		Message:         payload.Message,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FormError
		f.message = formErrorMessage(err)
		return err
	}
	f.state = FormSuccess
	f.id = id
	f.values = make(map[string]string)
	f.message = fmt.Sprintf("Thank you for reaching out. Our team will review your request for %s and get back to you within 24 hours.", f.form.Title)
	return nil
}

// Reset returns the session to an empty idle form.
func (f *FormSession) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormIdle
	f.message = ""
	f.id = ""
	f.values = make(map[string]string)
}

func formErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 && apiErr.Field != "" {
		return fmt.Sprintf("Please check the %s field and try again.", apiErr.Field)
	}
	return msgFormUnavailable
}
