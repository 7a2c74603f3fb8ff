package model

// OriginalRequest echoes the lead's own words back into a reply email.
type OriginalRequest struct {
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Service string `json:"service,omitempty"`
	Message string `json:"message,omitempty"`
}

// Attachment is a file sent along with a reply. Content is base64 encoded.
type Attachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

// ReplyRequest is the admin's answer to a submission.
type ReplyRequest struct {
	ID              string           `json:"id"`
	To              string           `json:"to"`
	Subject         string           `json:"subject"`
	Message         string           `json:"message"`
	OriginalRequest *OriginalRequest `json:"originalRequest,omitempty"`
	Attachments     []Attachment     `json:"attachments,omitempty"`
}

// OriginalRequestFrom builds the echo block the dashboard sends for a lead.
// Service falls back to the request category when no specific interest was given.
func OriginalRequestFrom(s *Submission) *OriginalRequest {
	service := s.ServiceInterest
	if service == "" {
		service = s.RequestCategory
	}
	return &OriginalRequest{
		Name:    s.Name,
		Role:    s.Role,
		Service: service,
		Message: s.Message,
	}
}
