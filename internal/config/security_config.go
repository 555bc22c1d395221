// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No authentication
	SecurityAccess                        // Any valid access token
	SecurityEmployee                      // Access token issued to an employee
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Operations
	"Health":  SecurityPublic,
	"Metrics": SecurityPublic,

	// Auth
	"Login":          SecurityPublic,
	"ChangePassword": SecurityAccess,

	// Catalogue
	"ListVehicles":          SecurityPublic,
	"ListAvailableVehicles": SecurityPublic,
	"ListAddOns":            SecurityPublic,
	"PreviewPrice":          SecurityPublic,

	// Reservations, ownership is checked by the handlers
	"CreateReservation":  SecurityAccess,
	"ListMyReservations": SecurityAccess,
	"GetReservation":     SecurityAccess,
	"CancelReservation":  SecurityAccess,
	"ConfirmReservation": SecurityAccess,
	"UpdateAddOns":       SecurityAccess,

	// Desk operations
	"CompleteReservation":      SecurityEmployee,
	"ListCustomerReservations": SecurityEmployee,
	"ReconcileStatuses":        SecurityEmployee,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityEmployee
}
