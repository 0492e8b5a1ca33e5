package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/storage"

	"github.com/google/uuid"
)

// documentService hands out presigned upload URLs and attaches uploaded
// objects to their entity by key. File bytes never reach the service.
type documentService struct {
	tx              repository.TxManager
	store           storage.DocumentStorage
	businessRepo    repository.BusinessRepository
	beneficiaryRepo repository.BeneficiaryRepository
	donationRepo    repository.DonationRepository
	matchRepo       repository.MatchRepository
	notifier        Notifier
	clock           Clock
	expiry          time.Duration
	maxSize         int64
	allowedTypes    []string
}

func NewDocumentService(
	tx repository.TxManager,
	store storage.DocumentStorage,
	businessRepo repository.BusinessRepository,
	beneficiaryRepo repository.BeneficiaryRepository,
	donationRepo repository.DonationRepository,
	matchRepo repository.MatchRepository,
	notifier Notifier,
	clock Clock,
	expiry time.Duration,
	maxSizeMB int64,
	allowedTypes []string,
) DocumentService {
	return &documentService{
		tx:              tx,
		store:           store,
		businessRepo:    businessRepo,
		beneficiaryRepo: beneficiaryRepo,
		donationRepo:    donationRepo,
		matchRepo:       matchRepo,
		notifier:        notifier,
		clock:           clock,
		expiry:          expiry,
		maxSize:         maxSizeMB * 1024 * 1024,
		allowedTypes:    allowedTypes,
	}
}

// canWrite decides who may upload each kind of document.
func (s *documentService) canWrite(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32) error {
	switch kind {
	case domain.DocumentBusinessLicense:
		return requireOwnerOrAdmin(actor, domain.ActorTypeBusiness, ownerID)
	case domain.DocumentBeneficiaryCertificate:
		return requireOwnerOrAdmin(actor, domain.ActorTypeBeneficiary, ownerID)
	case domain.DocumentTaxReceipt:
		if actor.IsAdmin() {
			return nil
		}
		if actor.Type == domain.ActorTypeBeneficiary {
			return s.requireHoldingMatch(ctx, actor, ownerID)
		}
	case domain.DocumentESGReport:
		if actor.IsAdmin() {
			return nil
		}
	}
	return fmt.Errorf("%s cannot upload %s for %d: %w", actor, kind, ownerID, domain.ErrUnauthorized)
}

// canRead adds the donating business to the writers of donation documents.
func (s *documentService) canRead(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32) error {
	if kind == domain.DocumentTaxReceipt || kind == domain.DocumentESGReport {
		if actor.Type == domain.ActorTypeBusiness {
			d, err := s.donationRepo.GetByID(ctx, ownerID)
			if err != nil {
				return err
			}
			if d.BusinessID == actor.ID {
				return nil
			}
		}
	}
	return s.canWrite(ctx, actor, kind, ownerID)
}

func (s *documentService) requireHoldingMatch(ctx context.Context, actor domain.Actor, donationID int32) error {
	m, err := s.matchRepo.GetByPair(ctx, donationID, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s has no match on donation %d: %w", actor, donationID, domain.ErrUnauthorized)
		}
		return err
	}
	if !m.Status.HoldsQuantity() {
		return fmt.Errorf("%s has not accepted donation %d: %w", actor, donationID, domain.ErrUnauthorized)
	}
	return nil
}

func (s *documentService) allowed(contentType string) bool {
	if len(s.allowedTypes) == 0 {
		return true
	}
	for _, t := range s.allowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func (s *documentService) RequestUpload(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32, filename, contentType string) (*UploadTicket, error) {
	logger.EnterMethod("documentService.RequestUpload", "actor", actor.String(), "kind", kind, "ownerID", ownerID)

	if !s.allowed(contentType) {
		err := fmt.Errorf("content type %q is not allowed: %w", contentType, domain.ErrInvalidInput)
		logger.ExitMethodWithError("documentService.RequestUpload", err)
		return nil, err
	}
	if err := s.canWrite(ctx, actor, kind, ownerID); err != nil {
		logger.ExitMethodWithError("documentService.RequestUpload", err)
		return nil, err
	}

	key := kind.KeyPrefix(ownerID) + uuid.New().String() + strings.ToLower(path.Ext(filename))
	url, err := s.store.GeneratePresignedUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		logger.ExitMethodWithError("documentService.RequestUpload", err)
		return nil, fmt.Errorf("failed to generate upload url: %w", err)
	}

	logger.ExitMethod("documentService.RequestUpload", "key", key)
	return &UploadTicket{Key: key, UploadURL: url, ExpiresAt: s.clock.now().Add(s.expiry)}, nil
}

// AttachDocument records an uploaded object's key on its entity. The object
// must exist and be within the size limit.
func (s *documentService) AttachDocument(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32, key string) error {
	logger.EnterMethod("documentService.AttachDocument", "actor", actor.String(), "kind", kind, "ownerID", ownerID, "key", key)

	if !strings.HasPrefix(key, kind.KeyPrefix(ownerID)) {
		err := fmt.Errorf("key %q does not belong to %s %d: %w", key, kind, ownerID, domain.ErrInvalidInput)
		logger.ExitMethodWithError("documentService.AttachDocument", err)
		return err
	}
	if err := s.canWrite(ctx, actor, kind, ownerID); err != nil {
		logger.ExitMethodWithError("documentService.AttachDocument", err)
		return err
	}

	exists, size, err := s.store.FileExists(ctx, key)
	if err != nil {
		logger.ExitMethodWithError("documentService.AttachDocument", err)
		return fmt.Errorf("failed to check upload: %w", err)
	}
	if !exists {
		err := fmt.Errorf("no uploaded file at %q: %w", key, domain.ErrInvalidInput)
		logger.ExitMethodWithError("documentService.AttachDocument", err)
		return err
	}
	if s.maxSize > 0 && size > s.maxSize {
		_ = s.store.DeleteFile(ctx, key)
		err := fmt.Errorf("file is %d bytes, limit is %d: %w", size, s.maxSize, domain.ErrInvalidInput)
		logger.ExitMethodWithError("documentService.AttachDocument", err)
		return err
	}

	var msgs []Message
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		switch kind {
		case domain.DocumentBusinessLicense:
			b, err := s.businessRepo.GetByID(ctx, ownerID)
			if err != nil {
				return err
			}
			b.LicenseURL = key
			return s.businessRepo.Update(ctx, b)
		case domain.DocumentBeneficiaryCertificate:
			b, err := s.beneficiaryRepo.GetByID(ctx, ownerID)
			if err != nil {
				return err
			}
			b.CertificateURL = key
			return s.beneficiaryRepo.Update(ctx, b)
		}

		d, err := s.donationRepo.GetForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		if kind == domain.DocumentTaxReceipt {
			d.TaxReceiptURL = key
		} else {
			d.ESGReportURL = key
		}
		if err := s.donationRepo.Update(ctx, d); err != nil {
			return err
		}
		attrs := donationAttributes(d)
		attrs["document"] = string(kind)
		msgs = append(msgs, Message{
			RecipientType: domain.ActorTypeBusiness,
			RecipientID:   d.BusinessID,
			Kind:          domain.NotificationKindDocument,
			Title:         "Document available",
			Body:          fmt.Sprintf("A %s is available for %q", strings.ReplaceAll(string(kind), "_", " "), d.Name),
			Template:      "document_attached",
			Data:          map[string]any{"donation_name": d.Name, "document": string(kind), "donation_id": strconv.Itoa(int(d.ID))},
			Attributes:    attrs,
		})
		return s.notifier.Record(ctx, msgs...)
	})
	if err != nil {
		logger.ExitMethodWithError("documentService.AttachDocument", err)
		return err
	}
	s.notifier.Deliver(ctx, msgs...)

	logger.ExitMethod("documentService.AttachDocument", "key", key)
	return nil
}

func (s *documentService) GetDocumentURL(ctx context.Context, actor domain.Actor, kind domain.DocumentKind, ownerID int32) (string, error) {
	if err := s.canRead(ctx, actor, kind, ownerID); err != nil {
		return "", err
	}

	var key string
	switch kind {
	case domain.DocumentBusinessLicense:
		b, err := s.businessRepo.GetByID(ctx, ownerID)
		if err != nil {
			return "", err
		}
		key = b.LicenseURL
	case domain.DocumentBeneficiaryCertificate:
		b, err := s.beneficiaryRepo.GetByID(ctx, ownerID)
		if err != nil {
			return "", err
		}
		key = b.CertificateURL
	default:
		d, err := s.donationRepo.GetByID(ctx, ownerID)
		if err != nil {
			return "", err
		}
		key = d.TaxReceiptURL
		if kind == domain.DocumentESGReport {
			key = d.ESGReportURL
		}
	}
	if key == "" {
		return "", fmt.Errorf("no %s on file for %d: %w", kind, ownerID, repository.ErrNotFound)
	}
	return s.store.GeneratePresignedDownloadURL(ctx, key, s.expiry)
}
