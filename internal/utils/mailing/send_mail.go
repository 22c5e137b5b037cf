package mailing

import (
	"Supermarket-Vision-Backend/internal/utils"
	"errors"
	"gopkg.in/gomail.v2"
	"io"
)

var ErrMailerDisabled = errors.New("smtp is not configured")

type (
	MailConfig struct {
		SMTPHost     string
		SMTPPort     int
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Attachment struct {
		Name string
		Data []byte
	}

	Mailer interface {
		SendMail(toEmail string, subject string, body string, attachments ...Attachment) error
	}

	// Dialer is satisfied by *gomail.Dialer.
	Dialer interface {
		DialAndSend(m ...*gomail.Message) error
	}

	mailer struct {
		config MailConfig
		dialer Dialer
	}
)

func LoadMailConfig(cfg utils.Config) MailConfig {
	return MailConfig{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPortNumber(),
		SMTPSender:   cfg.SMTPSenderName,
		SMTPEmail:    cfg.SMTPAuthEmail,
		SMTPPassword: cfg.SMTPAuthPassword,
	}
}

func NewMailer(config MailConfig) Mailer {
	var dialer Dialer
	if config.SMTPHost != "" {
		dialer = gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPEmail, config.SMTPPassword)
	}
	return NewMailerWithDialer(config, dialer)
}

func NewMailerWithDialer(config MailConfig, dialer Dialer) Mailer {
	return &mailer{config: config, dialer: dialer}
}

func (m *mailer) SendMail(toEmail string, subject string, body string, attachments ...Attachment) error {
	if m.dialer == nil {
		return ErrMailerDisabled
	}

	message := gomail.NewMessage()
	message.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)

	for _, attachment := range attachments {
		data := attachment.Data
		message.Attach(attachment.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	return m.dialer.DialAndSend(message)
}
