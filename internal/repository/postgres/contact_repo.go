package postgres

import (
	"context"
	"errors"
	"fmt"

	"portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type contactRepository struct {
	db DBTX
}

func NewContactRepository(db DBTX) domain.ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, name, email, subject, message, phone, company, submitted_at, status,
	ip_address, user_agent, has_attachment, attachment_filename, attachment_path,
	attachment_size, attachment_type`

func (r *contactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `INSERT INTO contact_messages (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message,
		msg.Phone, msg.Company, msg.SubmittedAt, string(msg.Status),
		msg.IPAddress, msg.UserAgent, msg.HasAttachment, msg.AttachmentFilename,
		msg.AttachmentPath, msg.AttachmentSize, msg.AttachmentType,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, filter domain.ContactListFilter) ([]domain.ContactMessage, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filter.Status != "" {
		query := `SELECT ` + contactColumns + ` FROM contact_messages
			WHERE status = $1 ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.db.Query(ctx, query, string(filter.Status), filter.Limit, filter.Skip)
	} else {
		query := `SELECT ` + contactColumns + ` FROM contact_messages
			ORDER BY submitted_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.db.Query(ctx, query, filter.Limit, filter.Skip)
	}
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0)
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages WHERE id = $1`

	msg, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	return msg, nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (int64, error) {
	query := `UPDATE contact_messages SET status = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, string(status), id)
	if err != nil {
		return 0, fmt.Errorf("update contact status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *contactRepository) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete contact message: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanContact(row pgx.Row) (*domain.ContactMessage, error) {
	var (
		msg    domain.ContactMessage
		status string
	)
	err := row.Scan(
		&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message,
		&msg.Phone, &msg.Company, &msg.SubmittedAt, &status,
		&msg.IPAddress, &msg.UserAgent, &msg.HasAttachment, &msg.AttachmentFilename,
		&msg.AttachmentPath, &msg.AttachmentSize, &msg.AttachmentType,
	)
	if err != nil {
		return nil, err
	}
	msg.Status = domain.ContactStatus(status)
	msg.SubmittedAt = msg.SubmittedAt.UTC()
	return &msg, nil
}
