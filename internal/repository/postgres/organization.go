package postgres

import (
	"context"
	"database/sql"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"

	"github.com/lib/pq"
)

type businessRepository struct {
	db *sql.DB
}

func NewBusinessRepository(db *sql.DB) repository.BusinessRepository {
	return &businessRepository{db: db}
}

const businessColumns = `id, name, COALESCE(representative_name, ''), COALESCE(registration_number, ''), COALESCE(license_url, ''),
	email, COALESCE(phone, ''), COALESCE(address, ''), status, COALESCE(rejection_reason, ''), contract_signed, created_at, updated_at`

func scanBusiness(row scanner) (*domain.Business, error) {
	b := &domain.Business{}
	var createdAt, updatedAt time.Time
	err := row.Scan(&b.ID, &b.Name, &b.RepresentativeName, &b.RegistrationNumber, &b.LicenseURL,
		&b.Email, &b.Phone, &b.Address, &b.Status, &b.RejectionReason, &b.ContractSigned, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	b.CreatedAt = createdAt.Format(time.RFC3339)
	b.UpdatedAt = updatedAt.Format(time.RFC3339)
	return b, nil
}

func (r *businessRepository) Create(ctx context.Context, b *domain.Business) error {
	query := `INSERT INTO businesses (name, representative_name, registration_number, license_url, email, phone, address, status, contract_signed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`
	logger.DatabaseCall("INSERT", "businesses", "email", b.Email)

	now := time.Now().UTC()
	err := conn(ctx, r.db).QueryRowContext(ctx, query, b.Name, b.RepresentativeName, b.RegistrationNumber, b.LicenseURL,
		b.Email, b.Phone, b.Address, b.Status, b.ContractSigned, now).Scan(&b.ID)
	err = mapError(err)
	logger.DatabaseResult("INSERT", 1, err, "businessID", b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = now.Format(time.RFC3339)
	b.UpdatedAt = b.CreatedAt
	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id int32) (*domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	logger.DatabaseCall("SELECT", "businesses", "businessID", id)
	return scanBusiness(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *businessRepository) Update(ctx context.Context, b *domain.Business) error {
	query := `UPDATE businesses SET name = $1, representative_name = $2, license_url = $3, phone = $4, address = $5,
	          status = $6, rejection_reason = $7, contract_signed = $8, updated_at = $9 WHERE id = $10`
	logger.DatabaseCall("UPDATE", "businesses", "businessID", b.ID, "status", b.Status)

	now := time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, b.Name, b.RepresentativeName, b.LicenseURL, b.Phone, b.Address,
		b.Status, b.RejectionReason, b.ContractSigned, now, b.ID)
	if err != nil {
		return mapError(err)
	}
	if err := checkAffected(res, repository.ErrNotFound); err != nil {
		return err
	}
	b.UpdatedAt = now.Format(time.RFC3339)
	return nil
}

func (r *businessRepository) List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE ($1 = '' OR status = $1) ORDER BY created_at`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, mapError(rows.Err())
}

type beneficiaryRepository struct {
	db *sql.DB
}

func NewBeneficiaryRepository(db *sql.DB) repository.BeneficiaryRepository {
	return &beneficiaryRepository{db: db}
}

const beneficiaryColumns = `id, name, COALESCE(organization_type, ''), COALESCE(manager_name, ''), email, COALESCE(phone, ''),
	COALESCE(address, ''), desired_categories, can_pickup, can_issue_receipt, COALESCE(certificate_url, ''), status,
	COALESCE(rejection_reason, ''), created_at, updated_at`

func scanBeneficiary(row scanner) (*domain.Beneficiary, error) {
	b := &domain.Beneficiary{}
	var createdAt, updatedAt time.Time
	err := row.Scan(&b.ID, &b.Name, &b.OrganizationType, &b.ManagerName, &b.Email, &b.Phone,
		&b.Address, pq.Array(&b.DesiredCategories), &b.CanPickup, &b.CanIssueReceipt, &b.CertificateURL, &b.Status,
		&b.RejectionReason, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	b.CreatedAt = createdAt.Format(time.RFC3339)
	b.UpdatedAt = updatedAt.Format(time.RFC3339)
	return b, nil
}

func (r *beneficiaryRepository) Create(ctx context.Context, b *domain.Beneficiary) error {
	query := `INSERT INTO beneficiaries (name, organization_type, manager_name, email, phone, address, desired_categories,
	          can_pickup, can_issue_receipt, certificate_url, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12) RETURNING id`
	logger.DatabaseCall("INSERT", "beneficiaries", "email", b.Email)

	now := time.Now().UTC()
	err := conn(ctx, r.db).QueryRowContext(ctx, query, b.Name, b.OrganizationType, b.ManagerName, b.Email, b.Phone, b.Address,
		pq.Array(b.DesiredCategories), b.CanPickup, b.CanIssueReceipt, b.CertificateURL, b.Status, now).Scan(&b.ID)
	err = mapError(err)
	logger.DatabaseResult("INSERT", 1, err, "beneficiaryID", b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = now.Format(time.RFC3339)
	b.UpdatedAt = b.CreatedAt
	return nil
}

func (r *beneficiaryRepository) GetByID(ctx context.Context, id int32) (*domain.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE id = $1`
	logger.DatabaseCall("SELECT", "beneficiaries", "beneficiaryID", id)
	return scanBeneficiary(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *beneficiaryRepository) Update(ctx context.Context, b *domain.Beneficiary) error {
	query := `UPDATE beneficiaries SET name = $1, organization_type = $2, manager_name = $3, phone = $4, address = $5,
	          desired_categories = $6, can_pickup = $7, can_issue_receipt = $8, certificate_url = $9,
	          status = $10, rejection_reason = $11, updated_at = $12 WHERE id = $13`
	logger.DatabaseCall("UPDATE", "beneficiaries", "beneficiaryID", b.ID, "status", b.Status)

	now := time.Now().UTC()
	res, err := conn(ctx, r.db).ExecContext(ctx, query, b.Name, b.OrganizationType, b.ManagerName, b.Phone, b.Address,
		pq.Array(b.DesiredCategories), b.CanPickup, b.CanIssueReceipt, b.CertificateURL,
		b.Status, b.RejectionReason, now, b.ID)
	if err != nil {
		return mapError(err)
	}
	if err := checkAffected(res, repository.ErrNotFound); err != nil {
		return err
	}
	b.UpdatedAt = now.Format(time.RFC3339)
	return nil
}

func (r *beneficiaryRepository) List(ctx context.Context, status domain.RegistrationStatus) ([]domain.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE ($1 = '' OR status = $1) ORDER BY created_at`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Beneficiary
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, mapError(rows.Err())
}
