package mailer

import "strings"

// Template names understood by the email worker.
const (
	TemplateWelcome        = "welcome"
	TemplateProfileUpdated = "profile_updated"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewWelcomeJob builds the job sent after registration.
func NewWelcomeJob(appName, username, email string) EmailJob {
	return EmailJob{
		To:       email,
		Template: TemplateWelcome,
		Data: map[string]any{
			"AppName":  appName,
			"Username": username,
			"Email":    email,
		},
	}
}

// NewProfileUpdatedJob builds the notification sent after a profile change.
// changes lists the field names that were modified, never their values.
func NewProfileUpdatedJob(appName, username, email string, changes []string) EmailJob {
	return EmailJob{
		To:       email,
		Template: TemplateProfileUpdated,
		Data: map[string]any{
			"AppName":  appName,
			"Username": username,
			"Email":    email,
			"Changes":  strings.Join(changes, ", "),
		},
	}
}
