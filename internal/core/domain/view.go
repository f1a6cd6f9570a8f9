package domain

// FragmentKind classifies a role-gated piece of a page.
type FragmentKind string

const (
	FragmentStatCard      FragmentKind = "stat_card"
	FragmentQuickAction   FragmentKind = "quick_action"
	FragmentHeaderControl FragmentKind = "header_control"
)

// Fragment is a renderable UI element identified by a stable id.
type Fragment struct {
	ID    string       `json:"id"`
	Kind  FragmentKind `json:"kind"`
	Label string       `json:"label"`
	Icon  string       `json:"icon,omitempty"`
	Path  string       `json:"path,omitempty"`
}

// RolePredicate decides fragment visibility from the role alone.
type RolePredicate func(Role) bool
