package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skillxl/backend/internal/model"
	"github.com/skillxl/backend/pkg/client"
)

// DefaultPollInterval is how often Run refreshes the lead list.
const DefaultPollInterval = 30 * time.Second

var (
	ErrSendInProgress = errors.New("a reply is already being sent")
	ErrNoSelection    = errors.New("no lead selected")
)

// API is the part of the admin API the dashboard uses. *client.Client
// satisfies it.
type API interface {
	List(ctx context.Context, opts client.ListOptions) ([]client.Submission, error)
	UpdateStatus(ctx context.Context, id, status string) (*client.Submission, error)
	Reply(ctx context.Context, req client.ReplyRequest) error
}

// Compose is the reply being drafted for the selected lead.
type Compose struct {
	Subject     string
	Message     string
	Attachments []client.Attachment
}

// Dashboard is the admin's view of the lead list.
type Dashboard struct {
	api      API
	interval time.Duration
	logger   *slog.Logger
	refresh  singleflight.Group

	mu          sync.Mutex
	submissions []client.Submission
	selectedID  string
	compose     Compose
	sending     bool
	errMessage  string
	lastRefresh time.Time
}

// New creates a Dashboard. interval <= 0 uses DefaultPollInterval.
func New(api API, interval time.Duration, logger *slog.Logger) *Dashboard {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{api: api, interval: interval, logger: logger}
}

// Refresh reloads the lead list. Concurrent callers share one request. On
// failure the previous list is kept.
func (d *Dashboard) Refresh(ctx context.Context) error {
	_, err, _ := d.refresh.Do("list", func() (any, error) {
		subs, err := d.api.List(ctx, client.ListOptions{})
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.submissions = subs
		d.lastRefresh = time.Now()
		d.mu.Unlock()
		return nil, nil
	})
	return err
}

// Run refreshes immediately and then every interval until ctx is done.
func (d *Dashboard) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if err := d.Refresh(ctx); err != nil && ctx.Err() == nil {
			d.logger.Warn("refresh submissions failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Submissions returns a copy of the current list, newest first.
func (d *Dashboard) Submissions() []client.Submission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]client.Submission(nil), d.submissions...)
}

func (d *Dashboard) LastRefresh() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRefresh
}

// Select opens a lead. Selecting a different lead discards the draft reply.
func (d *Dashboard) Select(id string) (client.Submission, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(id)
	if i < 0 {
		return client.Submission{}, false
	}
	if d.selectedID != id {
		d.compose = Compose{}
	}
	d.selectedID = id
	d.errMessage = ""
	return d.submissions[i], true
}

func (d *Dashboard) Selected() (client.Submission, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(d.selectedID)
	if i < 0 {
		return client.Submission{}, false
	}
	return d.submissions[i], true
}

// Deselect closes the open lead.
func (d *Dashboard) Deselect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selectedID = ""
	d.compose = Compose{}
	d.errMessage = ""
}

// ChangeStatus updates a lead on the server and reflects it in the local list.
func (d *Dashboard) ChangeStatus(ctx context.Context, id, status string) error {
	st, err := model.ParseStatus(status)
	if err != nil {
		return err
	}
	updated, err := d.api.UpdateStatus(ctx, id, string(st))
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.indexLocked(id); i >= 0 {
		if updated != nil && updated.ID == id {
			d.submissions[i] = *updated
		} else {
			d.submissions[i].Status = string(st)
		}
	}
	return nil
}

func (d *Dashboard) SetCompose(c Compose) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.compose = c
}

func (d *Dashboard) Compose() Compose {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.compose
}

// Sending reports whether a reply is in flight.
func (d *Dashboard) Sending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sending
}

// ErrorMessage is the last reply failure shown to the admin.
func (d *Dashboard) ErrorMessage() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errMessage
}

// SendReply emails the draft to the selected lead. Only one reply may be in
// flight. On success the lead is marked contacted locally, the draft is
// cleared and the lead is closed.
func (d *Dashboard) SendReply(ctx context.Context) error {
	d.mu.Lock()
	if d.sending {
		d.mu.Unlock()
		return ErrSendInProgress
	}
	i := d.indexLocked(d.selectedID)
	if i < 0 {
		d.mu.Unlock()
		return ErrNoSelection
	}
	lead := d.submissions[i]
	req := client.ReplyRequest{
		ID:              lead.ID,
		To:              lead.Email,
		Subject:         d.compose.Subject,
		Message:         d.compose.Message,
		OriginalRequest: originalRequest(lead),
		Attachments:     d.compose.Attachments,
	}
	d.sending = true
	d.errMessage = ""
	d.mu.Unlock()

	err := d.api.Reply(ctx, req)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sending = false
	if err != nil {
		d.errMessage = replyErrorMessage(err)
		return err
	}
	if i := d.indexLocked(lead.ID); i >= 0 {
		d.submissions[i].Status = string(model.StatusContacted)
	}
	d.compose = Compose{}
	if d.selectedID == lead.ID {
		d.selectedID = ""
	}
	return nil
}

func (d *Dashboard) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range d.submissions {
		if d.submissions[i].ID == id {
			return i
		}
	}
	return -1
}

func originalRequest(s client.Submission) *client.OriginalRequest {
	role := s.Role
	if strings.TrimSpace(role) == "" {
		role = "Not Specified"
	}
	service := s.ServiceInterest
	if service == "" {
		service = s.RequestCategory
	}
	return &client.OriginalRequest{
		Name:    s.Name,
		Role:    role,
		Service: service,
		Message: s.Message,
	}
}

func replyErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Failed to send email."
	}
	return "Network error. Is the backend running?"
}
