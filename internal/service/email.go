package service

import (
	"context"
	"fmt"

	"donation-matching-backend/internal/config"
	"donation-matching-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailMessage is one email. When TemplateType maps to a SendGrid dynamic
// template, Data feeds it; otherwise Subject and Body go out as plain text.
type EmailMessage struct {
	To           string
	ToName       string
	TemplateType string
	Subject      string
	Body         string
	Data         map[string]any
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    sendClient
	fromEmail string
	fromName  string
	templates map[string]string
}

func NewSendGridEmailService(cfg config.SendGridConfig) EmailService {
	return newSendGridEmailService(sendgrid.NewSendClient(cfg.APIKey), cfg)
}

func newSendGridEmailService(client sendClient, cfg config.SendGridConfig) *sendGridEmailService {
	return &sendGridEmailService{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		templates: cfg.Templates,
	}
}

func (s *sendGridEmailService) Send(ctx context.Context, msg EmailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("email recipient is empty")
	}
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	var message *mail.SGMailV3
	if templateID := s.templates[msg.TemplateType]; templateID != "" {
		message = mail.NewV3Mail()
		message.SetFrom(from)
		message.SetTemplateID(templateID)

		p := mail.NewPersonalization()
		p.AddTos(to)
		for key, value := range msg.Data {
			p.SetDynamicTemplateData(key, value)
		}
		p.SetDynamicTemplateData("subject", msg.Subject)
		message.AddPersonalizations(p)
	} else {
		message = mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")
	}

	logger.ExternalServiceCall("SendGrid", "Send", "template", msg.TemplateType, "to", msg.To)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("SendGrid", "Send", err, "template", msg.TemplateType)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// logEmailService stands in when no SendGrid key is configured.
type logEmailService struct{}

func NewLogEmailService() EmailService { return logEmailService{} }

func (logEmailService) Send(ctx context.Context, msg EmailMessage) error {
	logger.Info("Email (not sent, sendgrid disabled)", "to", msg.To, "template", msg.TemplateType, "subject", msg.Subject)
	return nil
}
