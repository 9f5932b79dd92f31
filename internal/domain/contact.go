package domain

import (
	"context"
	"io"
	"strings"
	"time"
)

// ContactStatus is the triage state of a stored message.
type ContactStatus string

const (
	StatusPending  ContactStatus = "pending"
	StatusRead     ContactStatus = "read"
	StatusReplied  ContactStatus = "replied"
	StatusArchived ContactStatus = "archived"
)

// ParseContactStatus returns the status for s and whether it is one of the four known values.
func ParseContactStatus(s string) (ContactStatus, bool) {
	switch st := ContactStatus(s); st {
	case StatusPending, StatusRead, StatusReplied, StatusArchived:
		return st, true
	}
	return "", false
}

// ContactMessage is the persisted contact form submission.
type ContactMessage struct {
	ID          string
	Name        string
	Email       string
	Subject     string
	Message     string
	Phone       *string
	Company     *string
	SubmittedAt time.Time
	Status      ContactStatus
	IPAddress   *string
	UserAgent   *string
	// Attachment fields are set together at creation, or not at all
	HasAttachment      bool
	AttachmentFilename *string
	AttachmentPath     *string
	AttachmentSize     *int64
	AttachmentType     *string
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `form:"name" json:"name" validate:"required,notblank,min=2,max=100"`
	Email   string `form:"email" json:"email" validate:"required,email"`
	Subject string `form:"subject" json:"subject" validate:"required,notblank,min=5,max=200"`
	Message string `form:"message" json:"message" validate:"required,notblank,min=10,max=2000"`
	Phone   string `form:"phone" json:"phone,omitempty" validate:"max=20"`
	Company string `form:"company" json:"company,omitempty" validate:"max=100"`
}

// Normalize trims every field in place. Length rules apply to the trimmed values.
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
}

// Upload is an optional file part of a submission.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// SubmissionMeta carries request details captured at creation.
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
}

// ContactResponse is the public view of a message. It never carries the
// storage path, client address or user agent.
type ContactResponse struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Subject            string        `json:"subject"`
	Message            string        `json:"message"`
	Phone              *string       `json:"phone"`
	Company            *string       `json:"company"`
	SubmittedAt        time.Time     `json:"submittedAt"`
	Status             ContactStatus `json:"status"`
	HasAttachment      bool          `json:"hasAttachment"`
	AttachmentFilename *string       `json:"attachmentFilename"`
}

func (m *ContactMessage) ToResponse() ContactResponse {
	return ContactResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Email:              m.Email,
		Subject:            m.Subject,
		Message:            m.Message,
		Phone:              m.Phone,
		Company:            m.Company,
		SubmittedAt:        m.SubmittedAt,
		Status:             m.Status,
		HasAttachment:      m.HasAttachment,
		AttachmentFilename: m.AttachmentFilename,
	}
}

// StatusUpdate confirms a status change.
type StatusUpdate struct {
	Message string        `json:"message"`
	Status  ContactStatus `json:"status"`
}

// ContactListFilter holds list options. An empty Status matches every message.
type ContactListFilter struct {
	Status ContactStatus
	Skip   int
	Limit  int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ContactRepository is the persistence boundary for contact messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	// List returns messages newest first.
	List(ctx context.Context, filter ContactListFilter) ([]ContactMessage, error)
	// GetByID returns nil, nil when no message has the id.
	GetByID(ctx context.Context, id string) (*ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, status ContactStatus) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates, stores and acknowledges a contact form submission.
	// Emails are sent in the background and never affect the result.
	Submit(ctx context.Context, req *ContactRequest, upload *Upload, meta SubmissionMeta) (*ContactResponse, error)
	List(ctx context.Context, filter ContactListFilter) ([]ContactResponse, error)
	Get(ctx context.Context, id string) (*ContactResponse, error)
	UpdateStatus(ctx context.Context, id string, status string) (*StatusUpdate, error)
	Delete(ctx context.Context, id string) error
	// Wait blocks until in-flight background notifications have finished.
	Wait()
}
