package domain

import "fmt"

// DocumentKind names an uploadable document and the entity it attaches to.
type DocumentKind string

const (
	DocumentBusinessLicense        DocumentKind = "business_license"
	DocumentBeneficiaryCertificate DocumentKind = "beneficiary_certificate"
	DocumentTaxReceipt             DocumentKind = "tax_receipt"
	DocumentESGReport              DocumentKind = "esg_report"
)

func ParseDocumentKind(s string) (DocumentKind, error) {
	switch k := DocumentKind(s); k {
	case DocumentBusinessLicense, DocumentBeneficiaryCertificate, DocumentTaxReceipt, DocumentESGReport:
		return k, nil
	}
	return "", fmt.Errorf("unknown document kind %q: %w", s, ErrInvalidInput)
}

// KeyPrefix is the storage prefix every object of this kind for ownerID lives
// under. Owners are businesses, beneficiaries or donations depending on kind.
func (k DocumentKind) KeyPrefix(ownerID int32) string {
	return fmt.Sprintf("%s/%d/", k, ownerID)
}
