package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const attachmentPrefix = "contact"

// AttachmentIntake validates, stores and removes uploaded files.
type AttachmentIntake interface {
	Save(ctx context.Context, filename string, size int64, contentType string, r io.Reader, prefix string) (*security.SavedFile, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) (bool, error)
}

// Notifier sends the operator notification and the submitter auto-reply.
type Notifier interface {
	SendContactNotification(ctx context.Context, data email.NotificationData, attachment *email.Attachment) error
	SendAutoReply(ctx context.Context, data email.NotificationData) error
}

// ContactOptions tunes background notification.
type ContactOptions struct {
	// EmailTimeout bounds each email independently
	EmailTimeout time.Duration
	// AttachUpload forwards the stored file with the operator notification
	AttachUpload bool
}

type contactUsecase struct {
	repo     domain.ContactRepository
	intake   AttachmentIntake
	notifier Notifier
	validate *validator.Validate
	opts     ContactOptions
	wg       sync.WaitGroup
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(repo domain.ContactRepository, intake AttachmentIntake, notifier Notifier, validate *validator.Validate, opts ContactOptions) domain.ContactUsecase {
	if opts.EmailTimeout <= 0 {
		opts.EmailTimeout = 15 * time.Second
	}
	return &contactUsecase{
		repo:     repo,
		intake:   intake,
		notifier: notifier,
		validate: validate,
		opts:     opts,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactRequest, upload *domain.Upload, meta domain.SubmissionMeta) (*domain.ContactResponse, error) {
	req.Normalize()
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.Validation(validation.Message(err))
	}

	msg := &domain.ContactMessage{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
		Phone:       optional(req.Phone),
		Company:     optional(req.Company),
		SubmittedAt: time.Now().UTC(),
		Status:      domain.StatusPending,
		IPAddress:   optional(meta.IPAddress),
		UserAgent:   optional(meta.UserAgent),
	}

	if upload != nil && upload.Filename != "" {
		saved, err := uc.intake.Save(ctx, upload.Filename, upload.Size, upload.ContentType, upload.Content, attachmentPrefix)
		if err != nil {
			var policyErr *security.PolicyError
			if errors.As(err, &policyErr) {
				return nil, apperror.FilePolicy(policyErr.Message)
			}
			logger.Log.Errorw("Failed to store attachment", "filename", upload.Filename, "error", err)
			return nil, apperror.Storage(err)
		}
		filename := upload.Filename
		msg.HasAttachment = true
		msg.AttachmentFilename = &filename
		msg.AttachmentPath = &saved.Path
		msg.AttachmentSize = &saved.Size
		msg.AttachmentType = &saved.ContentType
	}

	if err := uc.repo.Create(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to store contact message", "id", msg.ID, "error", err)
		if msg.AttachmentPath != nil {
			// The request may already be cancelled; cleanup must still run
			if _, delErr := uc.intake.Delete(context.WithoutCancel(ctx), *msg.AttachmentPath); delErr != nil {
				logger.Log.Warnw("Failed to remove orphaned attachment", "id", msg.ID, "error", delErr)
			}
		}
		return nil, apperror.Storage(err)
	}

	logger.Log.Infow("Contact message stored",
		"id", msg.ID,
		"email", logger.MaskEmail(msg.Email),
		"has_attachment", msg.HasAttachment)

	uc.notify(msg)

	resp := msg.ToResponse()
	return &resp, nil
}

// notify sends both emails in the background. Failures are logged and never
// reach the client.
func (uc *contactUsecase) notify(msg *domain.ContactMessage) {
	data := notificationData(msg)
	id := msg.ID
	var attachmentPath, attachmentType string
	if uc.opts.AttachUpload && msg.AttachmentPath != nil {
		attachmentPath = *msg.AttachmentPath
		if msg.AttachmentType != nil {
			attachmentType = *msg.AttachmentType
		}
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Errorw("Panic while sending notifications", "id", id, "panic", r)
			}
		}()

		uc.sendNotification(id, data, attachmentPath, attachmentType)
		uc.sendAutoReply(id, data)
	}()
}

func (uc *contactUsecase) sendNotification(id string, data email.NotificationData, attachmentPath, attachmentType string) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.opts.EmailTimeout)
	defer cancel()

	var attachment *email.Attachment
	if attachmentPath != "" {
		att, err := uc.loadAttachment(ctx, attachmentPath, data.AttachmentFilename, attachmentType)
		if err != nil {
			logger.Log.Warnw("Sending notification without attachment", "id", id, "error", err)
		} else {
			attachment = att
		}
	}

	if err := uc.notifier.SendContactNotification(ctx, data, attachment); err != nil {
		logger.Log.Errorw("Contact notification failed", "id", id, "error", err)
	}
}

func (uc *contactUsecase) sendAutoReply(id string, data email.NotificationData) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.opts.EmailTimeout)
	defer cancel()

	if err := uc.notifier.SendAutoReply(ctx, data); err != nil {
		logger.Log.Errorw("Auto-reply failed", "id", id, "error", err)
	}
}

func (uc *contactUsecase) loadAttachment(ctx context.Context, path, filename, contentType string) (*email.Attachment, error) {
	rc, err := uc.intake.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, security.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return &email.Attachment{Filename: filename, ContentType: contentType, Content: content}, nil
}

func notificationData(msg *domain.ContactMessage) email.NotificationData {
	data := email.NotificationData{
		Name:          msg.Name,
		Email:         msg.Email,
		Subject:       msg.Subject,
		Message:       msg.Message,
		SubmittedAt:   msg.SubmittedAt.UTC().Format(email.SubmittedAtLayout),
		HasAttachment: msg.HasAttachment,
	}
	if msg.Phone != nil {
		data.Phone = *msg.Phone
	}
	if msg.Company != nil {
		data.Company = *msg.Company
	}
	if msg.AttachmentFilename != nil {
		data.AttachmentFilename = *msg.AttachmentFilename
	}
	return data
}

func (uc *contactUsecase) Wait() {
	uc.wg.Wait()
}

func (uc *contactUsecase) List(ctx context.Context, filter domain.ContactListFilter) ([]domain.ContactResponse, error) {
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultListLimit
	}
	if filter.Limit > domain.MaxListLimit {
		filter.Limit = domain.MaxListLimit
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Status != "" {
		if _, ok := domain.ParseContactStatus(string(filter.Status)); !ok {
			return nil, apperror.BadRequest(invalidStatusMessage)
		}
	}

	messages, err := uc.repo.List(ctx, filter)
	if err != nil {
		logger.Log.Errorw("Failed to list contact messages", "error", err)
		return nil, apperror.Storage(err)
	}

	views := make([]domain.ContactResponse, 0, len(messages))
	for i := range messages {
		views = append(views, messages[i].ToResponse())
	}
	return views, nil
}

func (uc *contactUsecase) Get(ctx context.Context, id string) (*domain.ContactResponse, error) {
	msg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("Failed to load contact message", "id", id, "error", err)
		return nil, apperror.Storage(err)
	}
	if msg == nil {
		return nil, apperror.NotFound("Message not found")
	}
	resp := msg.ToResponse()
	return &resp, nil
}

var invalidStatusMessage = "Invalid status. Must be one of: " + strings.Join([]string{
	string(domain.StatusPending),
	string(domain.StatusRead),
	string(domain.StatusReplied),
	string(domain.StatusArchived),
}, ", ")

func (uc *contactUsecase) UpdateStatus(ctx context.Context, id string, status string) (*domain.StatusUpdate, error) {
	st, ok := domain.ParseContactStatus(status)
	if !ok {
		return nil, apperror.BadRequest(invalidStatusMessage)
	}

	matched, err := uc.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		logger.Log.Errorw("Failed to update contact status", "id", id, "error", err)
		return nil, apperror.Storage(err)
	}
	if matched == 0 {
		return nil, apperror.NotFound("Message not found")
	}

	return &domain.StatusUpdate{Message: "Status updated successfully", Status: st}, nil
}

func (uc *contactUsecase) Delete(ctx context.Context, id string) error {
	msg, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("Failed to load contact message", "id", id, "error", err)
		return apperror.Storage(err)
	}
	if msg == nil {
		return apperror.NotFound("Message not found")
	}

	if msg.AttachmentPath != nil {
		if _, err := uc.intake.Delete(ctx, *msg.AttachmentPath); err != nil {
			logger.Log.Warnw("Failed to delete attachment", "id", id, "error", err)
		}
	}

	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("Failed to delete contact message", "id", id, "error", err)
		return apperror.Storage(err)
	}
	if deleted == 0 {
		return apperror.NotFound("Message not found")
	}

	logger.Log.Infow("Contact message deleted", "id", id)
	return nil
}
