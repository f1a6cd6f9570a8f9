package domain

// Role is the single job-function tag carried by an Identity.
type Role string

// RoleNone is the zero Role. It stands for "no identity" or an unrecognised
// role value and never satisfies a role-gated check.
const RoleNone Role = ""

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleTherapist    Role = "therapist"
	RoleCustomer     Role = "customer"
)

// AllRoles lists the legal roles in privilege order.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleManager,
	RoleReceptionist,
	RoleTherapist,
	RoleCustomer,
}

// ParseRole maps a raw string onto the closed enumeration. Unknown values
// yield RoleNone and false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleManager, RoleReceptionist, RoleTherapist, RoleCustomer:
		return r, true
	default:
		return RoleNone, false
	}
}

// Valid reports whether r is one of the five legal roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsStaff reports whether r belongs to the admin dashboard roles.
func (r Role) IsStaff() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleReceptionist, RoleTherapist:
		return true
	case RoleCustomer, RoleNone:
		return false
	default:
		return false
	}
}

// Label is the human readable role name shown in the header.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleManager:
		return "Manager"
	case RoleReceptionist:
		return "Receptionist"
	case RoleTherapist:
		return "Therapist"
	case RoleCustomer:
		return "Customer"
	case RoleNone:
		return "Guest"
	default:
		return "Guest"
	}
}

// Home is the landing path of the layout shell r belongs to. It is also
// where a logged-in user is sent after a role denial.
func (r Role) Home() string {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleReceptionist, RoleTherapist:
		return "/admin"
	case RoleCustomer:
		return "/portal"
	case RoleNone:
		return "/"
	default:
		return "/"
	}
}
