package domain

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// Business is a registered donor.
type Business struct {
	ID                 int32              `json:"id"`
	Name               string             `json:"name"`
	RepresentativeName string             `json:"representative_name"`
	RegistrationNumber string             `json:"registration_number"`
	LicenseURL         string             `json:"license_url"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Address            string             `json:"address"`
	Status             RegistrationStatus `json:"status"`
	RejectionReason    string             `json:"rejection_reason"`
	ContractSigned     bool               `json:"contract_signed"`
	CreatedAt          string             `json:"created_at"`
	UpdatedAt          string             `json:"updated_at"`
}

// Beneficiary is a registered recipient organization.
type Beneficiary struct {
	ID                int32              `json:"id"`
	Name              string             `json:"name"`
	OrganizationType  string             `json:"organization_type"`
	ManagerName       string             `json:"manager_name"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	Address           string             `json:"address"`
	DesiredCategories []string           `json:"desired_categories"`
	CanPickup         bool               `json:"can_pickup"`
	CanIssueReceipt   bool               `json:"can_issue_receipt"`
	CertificateURL    string             `json:"certificate_url"`
	Status            RegistrationStatus `json:"status"`
	RejectionReason   string             `json:"rejection_reason"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at"`
}
