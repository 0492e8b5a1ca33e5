package service_test

import (
	"context"
	"errors"
	"testing"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Record(t *testing.T) {
	ctx := context.Background()
	notes := new(MockNotificationRepo)
	n := service.NewNotifier(notes, new(MockBusinessRepo), new(MockBeneficiaryRepo), nil, nil, nil)

	notes.On("Create", mock.Anything, mock.MatchedBy(func(note *domain.Notification) bool {
		return note.RecipientType == domain.ActorTypeBusiness && note.RecipientID == 7 &&
			note.Kind == domain.NotificationKindQuoteSent && note.Attributes["quote_id"] == "9"
	})).Return(nil).Once()

	err := n.Record(ctx, service.Message{
		RecipientType: domain.ActorTypeBusiness,
		RecipientID:   7,
		Kind:          domain.NotificationKindQuoteSent,
		Title:         "Quote",
		Body:          "A quote is waiting",
		Attributes:    map[string]string{"quote_id": "9"},
	})
	require.NoError(t, err)
	notes.AssertExpectations(t)

	notes.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	assert.Error(t, n.Record(ctx, service.Message{RecipientType: domain.ActorTypeAdmin}))
}

func TestNotifier_Deliver(t *testing.T) {
	ctx := context.Background()

	t.Run("Email and push to a beneficiary", func(t *testing.T) {
		beneficiaries := new(MockBeneficiaryRepo)
		email, push := new(MockEmailService), new(MockPushService)
		n := service.NewNotifier(new(MockNotificationRepo), new(MockBusinessRepo), beneficiaries, email, push, nil, service.WithSyncDelivery())

		beneficiaries.On("GetByID", mock.Anything, int32(21)).Return(&domain.Beneficiary{ID: 21, Email: "fb@example.org", ManagerName: "Kim"}, nil)
		email.On("Send", mock.Anything, mock.MatchedBy(func(m service.EmailMessage) bool {
			return m.To == "fb@example.org" && m.ToName == "Kim" && m.TemplateType == "match_proposed"
		})).Return(nil)
		push.On("Publish", mock.Anything, "actor-beneficiary-21", map[string]string{
			"kind":        string(domain.NotificationKindMatchProposed),
			"donation_id": "3",
		}).Return(nil)

		n.Deliver(ctx, service.Message{
			RecipientType: domain.ActorTypeBeneficiary,
			RecipientID:   21,
			Kind:          domain.NotificationKindMatchProposed,
			Template:      "match_proposed",
			Attributes:    map[string]string{"donation_id": "3"},
		})
		email.AssertExpectations(t)
		push.AssertExpectations(t)
	})

	t.Run("Admin email goes to every admin address", func(t *testing.T) {
		email := new(MockEmailService)
		n := service.NewNotifier(new(MockNotificationRepo), new(MockBusinessRepo), new(MockBeneficiaryRepo), email, nil,
			[]string{"ops@example.org", "lead@example.org"}, service.WithSyncDelivery())

		email.On("Send", mock.Anything, mock.Anything).Return(nil)

		n.Deliver(ctx, service.Message{RecipientType: domain.ActorTypeAdmin, Template: "match_answered"})
		email.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("Delivery failures are swallowed", func(t *testing.T) {
		businesses := new(MockBusinessRepo)
		email, push := new(MockEmailService), new(MockPushService)
		n := service.NewNotifier(new(MockNotificationRepo), businesses, new(MockBeneficiaryRepo), email, push, nil, service.WithSyncDelivery())

		businesses.On("GetByID", mock.Anything, int32(7)).Return(&domain.Business{ID: 7, Email: "b@example.org"}, nil)
		email.On("Send", mock.Anything, mock.Anything).Return(errors.New("sendgrid down"))
		push.On("Publish", mock.Anything, "actor-business-7", mock.Anything).Return(errors.New("fcm down"))

		assert.NotPanics(t, func() {
			n.Deliver(ctx, service.Message{RecipientType: domain.ActorTypeBusiness, RecipientID: 7, Template: "quote_sent"})
		})
		email.AssertExpectations(t)
		push.AssertExpectations(t)
	})

	t.Run("No template means no email", func(t *testing.T) {
		email, push := new(MockEmailService), new(MockPushService)
		n := service.NewNotifier(new(MockNotificationRepo), new(MockBusinessRepo), new(MockBeneficiaryRepo), email, push, nil, service.WithSyncDelivery())

		push.On("Publish", mock.Anything, "actor-admin-0", mock.Anything).Return(nil)

		n.Deliver(ctx, service.Message{RecipientType: domain.ActorTypeAdmin, Kind: domain.NotificationKindQuoteAnswered})
		email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		push.AssertExpectations(t)
	})
}
