package email

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

// contactNotificationHTML is the HTML body of the operator notification.
// html/template escapes every interpolated value.
const contactNotificationHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #667eea; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
        .content { background: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { background: white; padding: 10px; border-radius: 4px; border-left: 4px solid #667eea; }
        .message-box { background: white; padding: 15px; border-radius: 4px; border-left: 4px solid #28a745; white-space: pre-wrap; }
        .footer { margin-top: 20px; font-size: 12px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>New Contact Form Submission</h2>
            <p>You have received a new message from your portfolio website.</p>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Name:</div>
                <div class="value">{{.Name}}</div>
            </div>
            <div class="field">
                <div class="label">Email:</div>
                <div class="value">{{.Email}}</div>
            </div>
            <div class="field">
                <div class="label">Subject:</div>
                <div class="value">{{.Subject}}</div>
            </div>
            {{- if .Phone}}
            <div class="field">
                <div class="label">Phone:</div>
                <div class="value">{{.Phone}}</div>
            </div>
            {{- end}}
            {{- if .Company}}
            <div class="field">
                <div class="label">Company:</div>
                <div class="value">{{.Company}}</div>
            </div>
            {{- end}}
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
            {{- if .HasAttachment}}
            <div class="field">
                <div class="label">Attachment:</div>
                <div class="value">{{.AttachmentFilename}}</div>
            </div>
            {{- end}}
            <div class="field">
                <div class="label">Submitted At:</div>
                <div class="value">{{.SubmittedAt}}</div>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent from your portfolio contact form.</p>
        </div>
    </div>
</body>
</html>`

const contactNotificationText = `New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}
{{- if .Phone}}
Phone: {{.Phone}}
{{- end}}
{{- if .Company}}
Company: {{.Company}}
{{- end}}
Message: {{.Message}}
{{- if .HasAttachment}}
Attachment: {{.AttachmentFilename}}
{{- end}}
Submitted At: {{.SubmittedAt}}
`

const autoReplyHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Thank you for reaching out</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #667eea; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
        .content { background: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px; }
        .message-box { background: white; padding: 15px; border-radius: 4px; border-left: 4px solid #28a745; white-space: pre-wrap; }
        .footer { margin-top: 20px; font-size: 12px; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Thank you for reaching out!</h2>
        </div>
        <div class="content">
            <p>Hi {{.Name}},</p>
            <p>Thank you for contacting me through my portfolio website. I have received your message and will get back to you as soon as possible.</p>
            <div class="message-box">
                <h4>Your Message:</h4>
                <p><strong>Subject:</strong> {{.Subject}}</p>
                <p><strong>Message:</strong> {{.Message}}</p>
            </div>
            <p>I typically respond within 24-48 hours.</p>
            <p>Best regards,<br><strong>{{.SignatureName}}</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated response. Please do not reply to this email.</p>
        </div>
    </div>
</body>
</html>`

const autoReplyText = `Hi {{.Name}},

Thank you for contacting me through my portfolio website. I have received your message and will get back to you as soon as possible.

Your Message:
Subject: {{.Subject}}
Message: {{.Message}}

I typically respond within 24-48 hours.

Best regards,
{{.SignatureName}}
`

type templates struct {
	notificationHTML *htmltemplate.Template
	notificationText *texttemplate.Template
	autoReplyHTML    *htmltemplate.Template
	autoReplyText    *texttemplate.Template
}

func parseTemplates() (*templates, error) {
	t := &templates{}
	var err error
	if t.notificationHTML, err = htmltemplate.New("notification_html").Parse(contactNotificationHTML); err != nil {
		return nil, err
	}
	if t.notificationText, err = texttemplate.New("notification_text").Parse(contactNotificationText); err != nil {
		return nil, err
	}
	if t.autoReplyHTML, err = htmltemplate.New("autoreply_html").Parse(autoReplyHTML); err != nil {
		return nil, err
	}
	if t.autoReplyText, err = texttemplate.New("autoreply_text").Parse(autoReplyText); err != nil {
		return nil, err
	}
	return t, nil
}
