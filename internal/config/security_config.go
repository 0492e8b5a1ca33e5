// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityProfile                      // Valid token; the profile need not belong to an organization yet
	SecurityAccess                       // Valid token and an organization (or admin) to act for
)

// EndpointSecurityConfig maps HTTP route names and gRPC full method names to
// their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health and mock storage - Public (the URL itself is the credential)
	"Healthz":       SecurityPublic,
	"StorageUpload": SecurityPublic,
	"StorageFetch":  SecurityPublic,

	// gRPC health and reflection - Public
	"/grpc.health.v1.Health/Check":                                   SecurityPublic,
	"/grpc.health.v1.Health/List":                                    SecurityPublic,
	"/grpc.health.v1.Health/Watch":                                   SecurityPublic,
	"/grpc.reflection.v1.ServerReflection/ServerReflectionInfo":      SecurityPublic,
	"/grpc.reflection.v1alpha.ServerReflection/ServerReflectionInfo": SecurityPublic,

	// Registration - Profile Protected
	"RegisterBusiness":    SecurityProfile,
	"RegisterBeneficiary": SecurityProfile,
	"GetMe":               SecurityProfile,

	// Organizations - Access Protected
	"ListBusinesses":    SecurityAccess,
	"GetBusiness":       SecurityAccess,
	"ReviewBusiness":    SecurityAccess,
	"ListBeneficiaries": SecurityAccess,
	"GetBeneficiary":    SecurityAccess,
	"ReviewBeneficiary": SecurityAccess,

	// Donations - Access Protected
	"SubmitDonation":     SecurityAccess,
	"ListDonations":      SecurityAccess,
	"GetDonation":        SecurityAccess,
	"TransitionDonation": SecurityAccess,
	"SchedulePickup":     SecurityAccess,
	"CompleteDonation":   SecurityAccess,

	// Matches - Access Protected
	"ProposeMatches": SecurityAccess,
	"ListMatches":    SecurityAccess,
	"ListMyMatches":  SecurityAccess,
	"RespondToMatch": SecurityAccess,
	"ConfirmReceipt": SecurityAccess,

	// Quotes - Access Protected
	"PreviewQuote":  SecurityAccess,
	"SendQuote":     SecurityAccess,
	"ListQuotes":    SecurityAccess,
	"AcceptQuote":   SecurityAccess,
	"RejectQuote":   SecurityAccess,
	"ConfirmPickup": SecurityAccess,

	// Gate - Access Protected
	"PendingMatchAcks": SecurityAccess,
	"ConfirmAck":       SecurityAccess,
	"UpcomingPickups":  SecurityAccess,
	"DismissReminder":  SecurityAccess,

	// Documents - Access Protected
	"RequestUpload":  SecurityAccess,
	"AttachDocument": SecurityAccess,
	"GetDocument":    SecurityAccess,

	// Notifications - Access Protected
	"GetNotifications":     SecurityAccess,
	"MarkNotificationRead": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAccess
}
