package service

import "github.com/spabook/portal/internal/core/domain"

// NavigationRegistry is an ordered, immutable list of navigation entries.
type NavigationRegistry struct {
	entries []domain.NavEntry
}

// NewNavigationRegistry copies entries; later changes to the argument do not
// affect the registry.
func NewNavigationRegistry(entries ...domain.NavEntry) *NavigationRegistry {
	out := make([]domain.NavEntry, len(entries))
	for i, e := range entries {
		out[i] = copyEntry(e)
	}
	return &NavigationRegistry{entries: out}
}

// VisibleEntries returns, in registry order, every entry visible to role.
// Pass domain.RoleNone for anonymous callers. The result is recomputed on
// each call and owned by the caller.
func (r *NavigationRegistry) VisibleEntries(role domain.Role) []domain.NavEntry {
	out := make([]domain.NavEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.VisibleTo(role) {
			out = append(out, copyEntry(e))
		}
	}
	return out
}

func copyEntry(e domain.NavEntry) domain.NavEntry {
	if e.AllowedRoles != nil {
		roles := make([]domain.Role, len(e.AllowedRoles))
		copy(roles, e.AllowedRoles)
		e.AllowedRoles = roles
	}
	return e
}

func roles(r ...domain.Role) []domain.Role { return r }

// DefaultNavigation is the sidebar and menu configuration of every shell.
func DefaultNavigation() map[domain.Shell]*NavigationRegistry {
	managers := roles(domain.RoleManager, domain.RoleSuperAdmin)
	frontDesk := roles(domain.RoleSuperAdmin, domain.RoleManager, domain.RoleReceptionist)

	return map[domain.Shell]*NavigationRegistry{
		domain.ShellAdmin: NewNavigationRegistry(
			domain.NavEntry{Path: "/admin", Name: "Dashboard", Icon: "LayoutDashboard"},
			domain.NavEntry{Path: "/admin/bookings", Name: "Bookings", Icon: "CalendarDays", Badge: "12"},
			domain.NavEntry{Path: "/admin/calendar", Name: "Calendar", Icon: "Calendar"},
			domain.NavEntry{Path: "/admin/customers", Name: "Customers", Icon: "Users", AllowedRoles: frontDesk},
			domain.NavEntry{Path: "/admin/employees", Name: "Employees", Icon: "UserCog", AllowedRoles: managers},
			domain.NavEntry{Path: "/admin/services", Name: "Services", Icon: "Sparkles"},
			domain.NavEntry{Path: "/admin/rooms", Name: "Rooms", Icon: "DoorOpen", AllowedRoles: frontDesk},
			domain.NavEntry{Path: "/admin/coupons", Name: "Coupons", Icon: "Ticket", AllowedRoles: managers},
			domain.NavEntry{Path: "/admin/gift-cards", Name: "Gift Cards", Icon: "Gift", AllowedRoles: frontDesk},
			domain.NavEntry{Path: "/admin/memberships", Name: "Memberships", Icon: "Crown", AllowedRoles: frontDesk},
			domain.NavEntry{Path: "/admin/marketing", Name: "Marketing", Icon: "Megaphone", AllowedRoles: managers},
			domain.NavEntry{Path: "/admin/reports", Name: "Reports", Icon: "BarChart3", AllowedRoles: managers},
			domain.NavEntry{Path: "/admin/integrations", Name: "Integrations", Icon: "Plug", AllowedRoles: roles(domain.RoleSuperAdmin)},
			domain.NavEntry{Path: "/admin/attendance", Name: "Attendance", Icon: "Clock"},
			domain.NavEntry{Path: "/admin/settings", Name: "Settings", Icon: "Settings", AllowedRoles: managers},
		),
		domain.ShellCustomer: NewNavigationRegistry(
			domain.NavEntry{Path: "/portal", Name: "Dashboard", Icon: "Home"},
			domain.NavEntry{Path: "/portal/book", Name: "Book Now", Icon: "CalendarPlus"},
			domain.NavEntry{Path: "/portal/bookings", Name: "My Bookings", Icon: "CalendarCheck"},
			domain.NavEntry{Path: "/portal/memberships", Name: "Membership", Icon: "Crown"},
			domain.NavEntry{Path: "/portal/gift-cards", Name: "Gift Cards", Icon: "Gift"},
			domain.NavEntry{Path: "/portal/profile", Name: "Profile", Icon: "User"},
		),
		domain.ShellPublic: NewNavigationRegistry(
			domain.NavEntry{Path: "/", Name: "Home", Icon: "Home"},
			domain.NavEntry{Path: "/services", Name: "Services", Icon: "Sparkles"},
			domain.NavEntry{Path: "/about", Name: "About", Icon: "Info"},
			domain.NavEntry{Path: "/contact", Name: "Contact", Icon: "Phone"},
			domain.NavEntry{Path: "/portal/book", Name: "Book Now", Icon: "CalendarPlus", AllowedRoles: roles(domain.RoleCustomer)},
			domain.NavEntry{Path: "/admin", Name: "Dashboard", Icon: "LayoutDashboard", AllowedRoles: roles(
				domain.RoleSuperAdmin, domain.RoleManager, domain.RoleReceptionist, domain.RoleTherapist,
			)},
		),
	}
}
