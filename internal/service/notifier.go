package service

import (
	"context"
	"fmt"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
)

// Message is one notification for one recipient organization (or the admin
// inbox). Template selects the email; an empty Template means in-app and push
// only.
type Message struct {
	RecipientType domain.ActorType
	RecipientID   int32
	Kind          domain.NotificationKind
	Title         string
	Body          string
	Template      string
	Data          map[string]any
	Attributes    map[string]string
}

// ActorTopic is the push topic a client subscribes to for an organization.
func ActorTopic(t domain.ActorType, id int32) string {
	return fmt.Sprintf("actor-%s-%d", t, id)
}

type notifier struct {
	noteRepo        repository.NotificationRepository
	businessRepo    repository.BusinessRepository
	beneficiaryRepo repository.BeneficiaryRepository
	emailSvc        EmailService
	pushSvc         PushService
	adminEmails     []string
	async           bool
}

type NotifierOption func(*notifier)

// WithSyncDelivery makes Deliver block until email and push are sent.
func WithSyncDelivery() NotifierOption {
	return func(n *notifier) { n.async = false }
}

// NewNotifier builds the fan-out notifier. pushSvc may be nil when realtime
// hints are disabled.
func NewNotifier(
	noteRepo repository.NotificationRepository,
	businessRepo repository.BusinessRepository,
	beneficiaryRepo repository.BeneficiaryRepository,
	emailSvc EmailService,
	pushSvc PushService,
	adminEmails []string,
	opts ...NotifierOption,
) Notifier {
	n := &notifier{
		noteRepo:        noteRepo,
		businessRepo:    businessRepo,
		beneficiaryRepo: beneficiaryRepo,
		emailSvc:        emailSvc,
		pushSvc:         pushSvc,
		adminEmails:     adminEmails,
		async:           true,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *notifier) Record(ctx context.Context, msgs ...Message) error {
	for _, m := range msgs {
		note := &domain.Notification{
			RecipientType: m.RecipientType,
			RecipientID:   m.RecipientID,
			Kind:          m.Kind,
			Title:         m.Title,
			Message:       m.Body,
			Attributes:    m.Attributes,
		}
		if err := n.noteRepo.Create(ctx, note); err != nil {
			return fmt.Errorf("failed to record notification: %w", err)
		}
	}
	return nil
}

func (n *notifier) Deliver(ctx context.Context, msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	if !n.async {
		n.deliver(ctx, msgs)
		return
	}
	go n.deliver(context.WithoutCancel(ctx), msgs)
}

func (n *notifier) deliver(ctx context.Context, msgs []Message) {
	for _, m := range msgs {
		if m.Template != "" && n.emailSvc != nil {
			n.sendEmail(ctx, m)
		}
		if n.pushSvc != nil {
			n.push(ctx, m)
		}
	}
}

func (n *notifier) sendEmail(ctx context.Context, m Message) {
	recipients, err := n.resolveRecipients(ctx, m.RecipientType, m.RecipientID)
	if err != nil {
		logger.Warn("Failed to resolve email recipient", "kind", m.Kind,
			"recipientType", m.RecipientType, "recipientID", m.RecipientID, "error", err)
		return
	}
	for _, r := range recipients {
		email := EmailMessage{
			To:           r.email,
			ToName:       r.name,
			TemplateType: m.Template,
			Subject:      m.Title,
			Body:         m.Body,
			Data:         m.Data,
		}
		if err := n.emailSvc.Send(ctx, email); err != nil {
			logger.Warn("Notification email not delivered", "kind", m.Kind, "to", r.email,
				"error", fmt.Errorf("%w: %v", domain.ErrEmailDeliveryFailure, err))
		}
	}
}

func (n *notifier) push(ctx context.Context, m Message) {
	data := map[string]string{"kind": string(m.Kind)}
	for k, v := range m.Attributes {
		data[k] = v
	}
	topic := ActorTopic(m.RecipientType, m.RecipientID)
	if err := n.pushSvc.Publish(ctx, topic, data); err != nil {
		logger.Warn("Push hint not delivered", "topic", topic, "kind", m.Kind, "error", err)
	}
}

type emailRecipient struct {
	email string
	name  string
}

func (n *notifier) resolveRecipients(ctx context.Context, t domain.ActorType, id int32) ([]emailRecipient, error) {
	switch t {
	case domain.ActorTypeAdmin:
		out := make([]emailRecipient, 0, len(n.adminEmails))
		for _, e := range n.adminEmails {
			out = append(out, emailRecipient{email: e, name: "Admin"})
		}
		return out, nil
	case domain.ActorTypeBusiness:
		b, err := n.businessRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return []emailRecipient{{email: b.Email, name: b.RepresentativeName}}, nil
	case domain.ActorTypeBeneficiary:
		b, err := n.beneficiaryRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return []emailRecipient{{email: b.Email, name: b.ManagerName}}, nil
	}
	return nil, fmt.Errorf("unknown recipient type %q", t)
}
