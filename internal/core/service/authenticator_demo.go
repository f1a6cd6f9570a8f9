package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/spabook/portal/internal/core/domain"
)

// Reserved demo addresses.
const (
	DemoAdminEmail        = "admin@spabook.com"
	DemoManagerEmail      = "manager@spabook.com"
	DemoReceptionistEmail = "receptionist@spabook.com"
	DemoTherapistEmail    = "therapist@spabook.com"
)

// demoCustomerNamespace scopes the deterministic ids of fallback customers.
var demoCustomerNamespace = uuid.MustParse("6f1c2f3e-5a7b-4c1d-9e8f-0a1b2c3d4e5f")

var demoIdentities = map[string]domain.Identity{
	DemoAdminEmail: {
		ID:          "1",
		Email:       DemoAdminEmail,
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Role:        domain.RoleSuperAdmin,
		Permissions: []domain.Capability{domain.CapabilityAll},
	},
	DemoManagerEmail: {
		ID:        "2",
		Email:     DemoManagerEmail,
		FirstName: "Michael",
		LastName:  "Chen",
		Role:      domain.RoleManager,
		Permissions: []domain.Capability{
			domain.CapManageBookings,
			domain.CapViewReports,
			domain.CapManageStaff,
			domain.CapManageInventory,
		},
	},
	DemoReceptionistEmail: {
		ID:        "3",
		Email:     DemoReceptionistEmail,
		FirstName: "Emily",
		LastName:  "Davis",
		Role:      domain.RoleReceptionist,
		Permissions: []domain.Capability{
			domain.CapManageBookings,
			domain.CapCheckInGuest,
			domain.CapProcessPayments,
		},
	},
	DemoTherapistEmail: {
		ID:        "4",
		Email:     DemoTherapistEmail,
		FirstName: "Jessica",
		LastName:  "Martinez",
		Role:      domain.RoleTherapist,
		Permissions: []domain.Capability{
			domain.CapViewSchedule,
			domain.CapUpdateServiceStatus,
		},
	},
}

// DemoAuthenticator accepts any non-empty credentials. Identities come from
// the reserved address table; every other address becomes a customer.
type DemoAuthenticator struct{}

func NewDemoAuthenticator() *DemoAuthenticator { return &DemoAuthenticator{} }

func (a *DemoAuthenticator) Authenticate(_ context.Context, email, password string) (*domain.Identity, error) {
	if email == "" || password == "" {
		return nil, domain.ErrAuthenticationFailed
	}

	if id, ok := demoIdentities[email]; ok {
		out := id.Clone()
		out.Avatar = AvatarURL(out.FirstName, out.LastName)
		return out, nil
	}

	first := nameFromEmail(email)
	return &domain.Identity{
		ID:          uuid.NewSHA1(demoCustomerNamespace, []byte(email)).String(),
		Email:       email,
		FirstName:   first,
		LastName:    "",
		Avatar:      AvatarURL(first, ""),
		Role:        domain.RoleCustomer,
		Permissions: domain.CustomerCapabilities(),
	}, nil
}

func (a *DemoAuthenticator) Register(_ context.Context, in domain.Registration) (*domain.Identity, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrAuthenticationFailed
	}
	return newCustomerIdentity(uuid.NewString(), in), nil
}

func newCustomerIdentity(id string, in domain.Registration) *domain.Identity {
	return &domain.Identity{
		ID:          id,
		Email:       in.Email,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Avatar:      AvatarURL(in.FirstName, in.LastName),
		Role:        domain.RoleCustomer,
		Permissions: domain.CustomerCapabilities(),
	}
}

// AvatarURL builds the generated-initials avatar for a name.
func AvatarURL(first, last string) string {
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		name = "Guest"
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// nameFromEmail turns "jane.doe@x.com" into "Jane".
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local, _, _ = strings.Cut(local, ".")
	if local == "" {
		return "Guest"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// DefaultPermissions returns the permission set a new account of role gets.
func DefaultPermissions(role domain.Role) []domain.Capability {
	var perms []domain.Capability
	switch role {
	case domain.RoleSuperAdmin:
		perms = demoIdentities[DemoAdminEmail].Permissions
	case domain.RoleManager:
		perms = demoIdentities[DemoManagerEmail].Permissions
	case domain.RoleReceptionist:
		perms = demoIdentities[DemoReceptionistEmail].Permissions
	case domain.RoleTherapist:
		perms = demoIdentities[DemoTherapistEmail].Permissions
	case domain.RoleCustomer:
		perms = domain.CustomerCapabilities()
	case domain.RoleNone:
	}
	return append([]domain.Capability(nil), perms...)
}
