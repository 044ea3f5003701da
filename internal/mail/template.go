package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/riztech/portfolio-api/internal/models"
)

// bodyTemplate renders the notification email. Field values arrive already
// HTML-escaped from sanitization, so they are embedded as-is; escaping twice
// would show entity text instead of the submitted characters.
var bodyTemplate = template.Must(template.New("contact_email").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2563eb; color: white; padding: 20px; text-align: center; }
        .content { background-color: #f8fafc; padding: 30px; border-left: 4px solid #2563eb; }
        .field { margin-bottom: 20px; }
        .label { font-weight: bold; color: #1e293b; }
        .value { margin-top: 5px; padding: 10px; background-color: white; border-radius: 5px; }
        .footer { text-align: center; padding: 20px; color: #64748b; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>New Contact Form Submission</h2>
            <p>Portfolio Website</p>
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
                <div class="label">Message:</div>
                <div class="value">{{.Message}}</div>
            </div>
            <div class="field">
                <div class="label">Submitted:</div>
                <div class="value">{{.Submitted}}</div>
            </div>
            <div class="field">
                <div class="label">IP Address:</div>
                <div class="value">{{.IP}}</div>
            </div>
        </div>
        <div class="footer">
            <p>This message was sent from your portfolio website contact form.</p>
        </div>
    </div>
</body>
</html>
`))

type bodyData struct {
	Name      template.HTML
	Email     template.HTML
	Message   template.HTML
	Submitted string
	IP        string
}

// ComposeBody renders the HTML email body for a sanitized submission. Newlines
// in the message become line breaks.
func ComposeBody(sub *models.Submission) (string, error) {
	message := strings.ReplaceAll(sub.Message, "\r\n", "\n")
	message = strings.ReplaceAll(message, "\n", "<br>\n")

	var b strings.Builder
	err := bodyTemplate.Execute(&b, bodyData{
		Name:      template.HTML(sub.Name),
		Email:     template.HTML(sub.Email),
		Message:   template.HTML(message),
		Submitted: sub.SubmittedAt.UTC().Format("2006-01-02 15:04:05 MST"),
		IP:        sub.IP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email body: %w", err)
	}

	return b.String(), nil
}

// ComposeSubject builds the email subject from the policy prefix and the
// sender's name.
func ComposeSubject(prefix, name string) string {
	return prefix + "Message from " + name
}
