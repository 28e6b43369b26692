package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	common "github.com/KanapuramVaishnavi/Core/coreServices"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrAttachmentsUnsupported = errors.New("mailer does not support attachments")

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	ToName      string
	ToEmail     string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks SendGrid when an API key is configured, the Core SMTP sender otherwise.
func NewMailer(apiKey, fromName, fromEmail string) Mailer {
	if apiKey == "" {
		log.Println("SENDGRID_API_KEY not set, falling back to Core mail sender")
		return CoreMailer{}
	}
	return &SendGridMailer{apiKey: apiKey, fromName: fromName, fromEmail: fromEmail}
}

type SendGridMailer struct {
	apiKey    string
	fromName  string
	fromEmail string
}

func (m *SendGridMailer) build(msg Message) *mail.SGMailV3 {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, html)
	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		message.AddAttachment(att)
	}
	return message
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, m.build(msg))
	if err != nil {
		log.Printf("Error sending email to %s: %v", msg.ToEmail, err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	log.Printf("Email sent successfully to %s. Status Code: %d", msg.ToEmail, response.StatusCode)
	return nil
}

// CoreMailer sends plain text through the shared Core SMTP helper.
type CoreMailer struct{}

func (CoreMailer) Send(_ context.Context, msg Message) error {
	if len(msg.Attachments) > 0 {
		return ErrAttachmentsUnsupported
	}
	if err := common.SendOTPToMail(msg.ToEmail, msg.Subject, msg.Text); err != nil {
		log.Println("Error from SendOTPToMail:", err)
		return err
	}
	return nil
}

func OTPMessage(name, email, otp string, ttl time.Duration) Message {
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Your Cywala verification code",
		Text: fmt.Sprintf("Hello %s,\n\nYour OTP for verification is: %s\nIt expires in %d minutes.\n\nThank you!",
			name, otp, int(ttl.Minutes())),
	}
}
