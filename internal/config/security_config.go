// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic       SecurityLevel = iota // No authentication
	SecurityAccess                            // Access token required
	SecurityRestaurant                        // Access token with RESTAURANT role
	SecurityOrganization                      // Access token with ORGANIZATION role
	SecurityAdmin                             // Access token with ADMIN role
)

// EndpointSecurityConfig maps HTTP route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health - Public
	"Healthz": SecurityPublic,

	// Donations
	"CreateDonation":      SecurityRestaurant,
	"ListDonations":       SecurityAccess,
	"ListMyDonations":     SecurityRestaurant,
	"GetDonation":         SecurityAccess,
	"UpdateDonation":      SecurityRestaurant,
	"DeleteDonation":      SecurityRestaurant,
	"ListDonationPickups": SecurityRestaurant,

	// Pickups
	"RequestPickup":  SecurityOrganization,
	"ListMyPickups":  SecurityOrganization,
	"AcceptPickup":   SecurityRestaurant,
	"RejectPickup":   SecurityRestaurant,
	"CompletePickup": SecurityAccess,
	"CancelPickup":   SecurityOrganization,

	// Stats and notifications - Access Protected
	"GetMyStats":              SecurityAccess,
	"GetNotifications":        SecurityAccess,
	"GetUnreadCount":          SecurityAccess,
	"MarkNotificationRead":    SecurityAccess,
	"MarkAllNotificationRead": SecurityAccess,

	// Admin
	"SweepExpiredDonations": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to access token for unknown routes
	return SecurityAccess
}
