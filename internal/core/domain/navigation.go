package domain

// Shell identifies one of the layout shells wrapping page content.
type Shell string

const (
	ShellAdmin    Shell = "admin"
	ShellCustomer Shell = "customer"
	ShellPublic   Shell = "public"
)

// ParseShell maps a raw path segment onto a Shell.
func ParseShell(s string) (Shell, bool) {
	switch sh := Shell(s); sh {
	case ShellAdmin, ShellCustomer, ShellPublic:
		return sh, true
	default:
		return "", false
	}
}

// NavEntry is one static menu item. A nil AllowedRoles makes the entry
// visible to everyone, anonymous visitors included.
type NavEntry struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	Badge        string `json:"badge,omitempty"`
	AllowedRoles []Role `json:"allowedRoles,omitempty"`
}

// VisibleTo applies the navigation filtering rule for a single entry.
func (e NavEntry) VisibleTo(role Role) bool {
	if e.AllowedRoles == nil {
		return true
	}
	if !role.Valid() {
		return false
	}
	for _, r := range e.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}
