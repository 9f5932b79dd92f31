package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is a file carried by a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is the transport-independent email handed to a Transport.
type Message struct {
	From    mail.Address
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
	// Attachment is optional
	Attachment *Attachment
}

// sanitizeHeader strips CR and LF so user input cannot start a new header.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(v)
}

func sanitizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, sanitizeHeader(v))
	}
	return out
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}

// Bytes renders the message as multipart/mixed wrapping a multipart/alternative
// text and HTML body, plus the attachment when present.
func (m *Message) Bytes() ([]byte, error) {
	var altBuf bytes.Buffer
	alt := multipart.NewWriter(&altBuf)
	if err := writeQuotedPart(alt, "text/plain; charset=UTF-8", m.Text); err != nil {
		return nil, err
	}
	if err := writeQuotedPart(alt, "text/html; charset=UTF-8", m.HTML); err != nil {
		return nil, err
	}
	if err := alt.Close(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mixed := multipart.NewWriter(&body)
	altPart, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + alt.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	if _, err := altPart.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}
	if m.Attachment != nil {
		if err := writeAttachment(mixed, m.Attachment); err != nil {
			return nil, err
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}

	from := mail.Address{Name: sanitizeHeader(m.From.Name), Address: sanitizeHeader(m.From.Address)}

	var out bytes.Buffer
	writeHeader := func(key, value string) {
		fmt.Fprintf(&out, "%s: %s\r\n", key, value)
	}
	writeHeader("From", from.String())
	writeHeader("To", strings.Join(sanitizeList(m.To), ", "))
	if m.ReplyTo != "" {
		writeHeader("Reply-To", sanitizeHeader(m.ReplyTo))
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", sanitizeHeader(m.Subject)))
	writeHeader("Date", time.Now().UTC().Format(time.RFC1123Z))
	writeHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from.Address)))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "multipart/mixed; boundary="+mixed.Boundary())
	out.WriteString("\r\n")
	out.Write(body.Bytes())

	return out.Bytes(), nil
}

func writeQuotedPart(w *multipart.Writer, contentType, content string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(content)); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, a *Attachment) error {
	filename := sanitizeHeader(a.Filename)
	base, _, _ := strings.Cut(a.ContentType, ";")
	contentType := mime.FormatMediaType(strings.TrimSpace(base), map[string]string{"name": filename})
	if contentType == "" {
		contentType = mime.FormatMediaType("application/octet-stream", map[string]string{"name": filename})
	}
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": filename})},
	})
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(a.Content)
	// RFC 2045 caps encoded lines at 76 characters
	for len(encoded) > 76 {
		if _, err := fmt.Fprintf(part, "%s\r\n", encoded[:76]); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err = fmt.Fprintf(part, "%s\r\n", encoded)
	return err
}
