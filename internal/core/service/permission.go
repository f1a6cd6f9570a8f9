package service

import "github.com/spabook/portal/internal/core/domain"

// HasPermission is the permission evaluator. A nil identity holds nothing,
// the wildcard grants everything, and otherwise the capability must be
// listed literally.
func HasPermission(identity *domain.Identity, capability domain.Capability) bool {
	if identity == nil {
		return false
	}
	for _, p := range identity.Permissions {
		if p == domain.CapabilityAll || p == capability {
			return true
		}
	}
	return false
}

// Everyone matches every caller, anonymous included.
func Everyone(domain.Role) bool { return true }

// StaffOnly matches the four admin dashboard roles.
func StaffOnly(r domain.Role) bool { return r.IsStaff() }

// AnyRole matches when the role is one of roles.
func AnyRole(roles ...domain.Role) domain.RolePredicate {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return func(r domain.Role) bool {
		if !r.Valid() {
			return false
		}
		_, ok := set[r]
		return ok
	}
}

// Not negates p. Anonymous callers never match a negated predicate, so
// Not(AnyRole(customer)) does not leak staff fragments to guests.
func Not(p domain.RolePredicate) domain.RolePredicate {
	return func(r domain.Role) bool {
		if !r.Valid() {
			return false
		}
		return !p(r)
	}
}
