package services

import (
	"fmt"
	"log"

	"casedesk/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email via Resend. In test mode the message is
// logged to the console instead of sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		log.Printf("[EMAIL:TEST] To: %v | Subject: %s\n%s", email.To, email.Subject, email.TextBody)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in the background, logging any failure
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// BuildInvitationEmail builds the email sent when an admin invites a
// new member to the firm.
func BuildInvitationEmail(toEmail, inviteeName, firmName, tempPassword, appURL string) *Email {
	text := fmt.Sprintf(
		"Hi %s,\n\nYou've been invited to join %s on CaseDesk.\n\nSign in at %s/login with this email address and the temporary password below, then change it right away.\n\nTemporary password: %s\n",
		inviteeName, firmName, appURL, tempPassword,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>You've been invited to join <strong>%s</strong> on CaseDesk.</p><p>Sign in at <a href="%s/login">%s/login</a> with this email address and the temporary password below, then change it right away.</p><p>Temporary password: <code>%s</code></p>`,
		inviteeName, firmName, appURL, appURL, tempPassword,
	)

	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("You've been invited to %s on CaseDesk", firmName),
		HTMLBody: html,
		TextBody: text,
	}
}

// BuildDeadlineReminderEmail builds the reminder sent ahead of a
// deadline's due date.
func BuildDeadlineReminderEmail(toEmail, assigneeName, deadlineTitle, caseNumber, dueDate string) *Email {
	text := fmt.Sprintf(
		"Hi %s,\n\nReminder: %q on case %s is due %s.\n\nOpen CaseDesk to review the details.\n",
		assigneeName, deadlineTitle, caseNumber, dueDate,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Reminder: <strong>%s</strong> on case %s is due <strong>%s</strong>.</p><p>Open CaseDesk to review the details.</p>`,
		assigneeName, deadlineTitle, caseNumber, dueDate,
	)

	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Deadline reminder: %s (%s)", deadlineTitle, dueDate),
		HTMLBody: html,
		TextBody: text,
	}
}
