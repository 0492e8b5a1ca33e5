package service

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"

	"github.com/google/uuid"
)

// registrationService onboards businesses and beneficiaries. Organizations are
// approved or rejected, never deleted.
type registrationService struct {
	tx              repository.TxManager
	profileRepo     repository.ProfileRepository
	businessRepo    repository.BusinessRepository
	beneficiaryRepo repository.BeneficiaryRepository
	notifier        Notifier
	retry           repository.RetryPolicy
}

func NewRegistrationService(
	tx repository.TxManager,
	profileRepo repository.ProfileRepository,
	businessRepo repository.BusinessRepository,
	beneficiaryRepo repository.BeneficiaryRepository,
	notifier Notifier,
	retry repository.RetryPolicy,
) RegistrationService {
	return &registrationService{
		tx:              tx,
		profileRepo:     profileRepo,
		businessRepo:    businessRepo,
		beneficiaryRepo: beneficiaryRepo,
		notifier:        notifier,
		retry:           retry,
	}
}

func validateContact(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q: %w", email, domain.ErrInvalidInput)
	}
	return nil
}

// requireUnlinked fails when the profile already acts for an organization.
func (s *registrationService) requireUnlinked(ctx context.Context, profileID uuid.UUID) error {
	p, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if p.Role == domain.ActorTypeAdmin || p.BusinessID != nil || p.BeneficiaryID != nil {
		return fmt.Errorf("profile %s is already registered: %w", profileID, domain.ErrInvalidInput)
	}
	return nil
}

func (s *registrationService) RegisterBusiness(ctx context.Context, profileID uuid.UUID, b *domain.Business) (*domain.Business, error) {
	logger.EnterMethod("registrationService.RegisterBusiness", "profileID", profileID, "name", b.Name)

	if err := validateContact(b.Name, b.Email); err != nil {
		logger.ExitMethodWithError("registrationService.RegisterBusiness", err)
		return nil, err
	}
	if strings.TrimSpace(b.RegistrationNumber) == "" {
		err := fmt.Errorf("business registration number is required: %w", domain.ErrInvalidInput)
		logger.ExitMethodWithError("registrationService.RegisterBusiness", err)
		return nil, err
	}
	b.Status = domain.RegistrationStatusPending
	b.RejectionReason = ""

	msg := registrationMessage(domain.ActorTypeAdmin, 0, domain.NotificationKindRegistered,
		"New business registration", fmt.Sprintf("%s applied as a business", b.Name), "registration_submitted",
		"business", b.Name, b.Status, "")
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireUnlinked(ctx, profileID); err != nil {
			return err
		}
		if err := s.businessRepo.Create(ctx, b); err != nil {
			return err
		}
		if err := s.profileRepo.LinkOrganization(ctx, profileID, domain.ActorTypeBusiness, b.ID); err != nil {
			return err
		}
		msg.Attributes["business_id"] = strconv.Itoa(int(b.ID))
		return s.notifier.Record(ctx, msg)
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.RegisterBusiness", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("registrationService.RegisterBusiness", "businessID", b.ID)
	return b, nil
}

func (s *registrationService) RegisterBeneficiary(ctx context.Context, profileID uuid.UUID, b *domain.Beneficiary) (*domain.Beneficiary, error) {
	logger.EnterMethod("registrationService.RegisterBeneficiary", "profileID", profileID, "name", b.Name)

	if err := validateContact(b.Name, b.Email); err != nil {
		logger.ExitMethodWithError("registrationService.RegisterBeneficiary", err)
		return nil, err
	}
	if strings.TrimSpace(b.OrganizationType) == "" {
		err := fmt.Errorf("organization type is required: %w", domain.ErrInvalidInput)
		logger.ExitMethodWithError("registrationService.RegisterBeneficiary", err)
		return nil, err
	}
	b.Status = domain.RegistrationStatusPending
	b.RejectionReason = ""

	msg := registrationMessage(domain.ActorTypeAdmin, 0, domain.NotificationKindRegistered,
		"New beneficiary registration", fmt.Sprintf("%s applied as a beneficiary", b.Name), "registration_submitted",
		"beneficiary", b.Name, b.Status, "")
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.requireUnlinked(ctx, profileID); err != nil {
			return err
		}
		if err := s.beneficiaryRepo.Create(ctx, b); err != nil {
			return err
		}
		if err := s.profileRepo.LinkOrganization(ctx, profileID, domain.ActorTypeBeneficiary, b.ID); err != nil {
			return err
		}
		msg.Attributes["beneficiary_id"] = strconv.Itoa(int(b.ID))
		return s.notifier.Record(ctx, msg)
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.RegisterBeneficiary", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("registrationService.RegisterBeneficiary", "beneficiaryID", b.ID)
	return b, nil
}

// review resolves the new status for a pending registration.
func review(current domain.RegistrationStatus, approve bool, reason string) (domain.RegistrationStatus, error) {
	if current != domain.RegistrationStatusPending {
		return "", fmt.Errorf("registration is already %s: %w", current, domain.ErrInvalidInput)
	}
	if approve {
		return domain.RegistrationStatusApproved, nil
	}
	if strings.TrimSpace(reason) == "" {
		return "", fmt.Errorf("a rejection reason is required: %w", domain.ErrInvalidInput)
	}
	return domain.RegistrationStatusRejected, nil
}

func (s *registrationService) ReviewBusiness(ctx context.Context, actor domain.Actor, id int32, approve bool, reason string) (*domain.Business, error) {
	logger.EnterMethod("registrationService.ReviewBusiness", "actor", actor.String(), "businessID", id, "approve", approve)

	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("registrationService.ReviewBusiness", err)
		return nil, err
	}

	var (
		b   *domain.Business
		msg Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.businessRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		status, err := review(b.Status, approve, reason)
		if err != nil {
			return err
		}
		b.Status = status
		if !approve {
			b.RejectionReason = strings.TrimSpace(reason)
		}
		if err := s.businessRepo.Update(ctx, b); err != nil {
			return err
		}
		msg = registrationMessage(domain.ActorTypeBusiness, b.ID, domain.NotificationKindRegistration,
			"Registration "+string(b.Status), fmt.Sprintf("Your business registration was %s", b.Status), "registration_reviewed",
			"business", b.Name, b.Status, b.RejectionReason)
		return s.notifier.Record(ctx, msg)
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.ReviewBusiness", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("registrationService.ReviewBusiness", "businessID", id, "status", b.Status)
	return b, nil
}

func (s *registrationService) ReviewBeneficiary(ctx context.Context, actor domain.Actor, id int32, approve bool, reason string) (*domain.Beneficiary, error) {
	logger.EnterMethod("registrationService.ReviewBeneficiary", "actor", actor.String(), "beneficiaryID", id, "approve", approve)

	if err := requireAdmin(actor); err != nil {
		logger.ExitMethodWithError("registrationService.ReviewBeneficiary", err)
		return nil, err
	}

	var (
		b   *domain.Beneficiary
		msg Message
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.beneficiaryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		status, err := review(b.Status, approve, reason)
		if err != nil {
			return err
		}
		b.Status = status
		if !approve {
			b.RejectionReason = strings.TrimSpace(reason)
		}
		if err := s.beneficiaryRepo.Update(ctx, b); err != nil {
			return err
		}
		msg = registrationMessage(domain.ActorTypeBeneficiary, b.ID, domain.NotificationKindRegistration,
			"Registration "+string(b.Status), fmt.Sprintf("Your beneficiary registration was %s", b.Status), "registration_reviewed",
			"beneficiary", b.Name, b.Status, b.RejectionReason)
		return s.notifier.Record(ctx, msg)
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.ReviewBeneficiary", err)
		return nil, err
	}
	s.notifier.Deliver(ctx, msg)

	logger.ExitMethod("registrationService.ReviewBeneficiary", "beneficiaryID", id, "status", b.Status)
	return b, nil
}

func (s *registrationService) GetBusiness(ctx context.Context, actor domain.Actor, id int32) (*domain.Business, error) {
	if err := requireOwnerOrAdmin(actor, domain.ActorTypeBusiness, id); err != nil {
		return nil, err
	}
	return repository.Read(ctx, s.retry, "business.GetByID", func() (*domain.Business, error) {
		return s.businessRepo.GetByID(ctx, id)
	})
}

func (s *registrationService) GetBeneficiary(ctx context.Context, actor domain.Actor, id int32) (*domain.Beneficiary, error) {
	if err := requireOwnerOrAdmin(actor, domain.ActorTypeBeneficiary, id); err != nil {
		return nil, err
	}
	return repository.Read(ctx, s.retry, "beneficiary.GetByID", func() (*domain.Beneficiary, error) {
		return s.beneficiaryRepo.GetByID(ctx, id)
	})
}

func (s *registrationService) ListBusinesses(ctx context.Context, actor domain.Actor, status domain.RegistrationStatus) ([]domain.Business, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return repository.Read(ctx, s.retry, "business.List", func() ([]domain.Business, error) {
		return s.businessRepo.List(ctx, status)
	})
}

func (s *registrationService) ListBeneficiaries(ctx context.Context, actor domain.Actor, status domain.RegistrationStatus) ([]domain.Beneficiary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return repository.Read(ctx, s.retry, "beneficiary.List", func() ([]domain.Beneficiary, error) {
		return s.beneficiaryRepo.List(ctx, status)
	})
}

func registrationMessage(
	to domain.ActorType, toID int32,
	kind domain.NotificationKind, title, body, template string,
	orgType, orgName string, status domain.RegistrationStatus, reason string,
) Message {
	return Message{
		RecipientType: to,
		RecipientID:   toID,
		Kind:          kind,
		Title:         title,
		Body:          body,
		Template:      template,
		Data: map[string]any{
			"organization_type": orgType,
			"organization_name": orgName,
			"status":            string(status),
			"rejection_reason":  reason,
		},
		Attributes: map[string]string{"organization_type": orgType},
	}
}
