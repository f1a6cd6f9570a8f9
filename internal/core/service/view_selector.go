package service

import (
	"fmt"
	"sort"

	"github.com/spabook/portal/internal/core/domain"
)

// ViewRule pairs a fragment with its role predicate.
type ViewRule struct {
	Fragment domain.Fragment
	Visible  domain.RolePredicate
}

// ViewSelector filters per-page fragment lists by role.
type ViewSelector struct {
	pages map[string][]ViewRule
}

func NewViewSelector(pages map[string][]ViewRule) *ViewSelector {
	return &ViewSelector{pages: pages}
}

// Select returns the fragments of page visible to role, in declaration order.
func (v *ViewSelector) Select(page string, role domain.Role) ([]domain.Fragment, error) {
	rules, ok := v.pages[page]
	if !ok {
		return nil, fmt.Errorf("select %q: %w", page, domain.ErrPageNotFound)
	}

	out := make([]domain.Fragment, 0, len(rules))
	for _, rule := range rules {
		if rule.Visible(role) {
			out = append(out, rule.Fragment)
		}
	}
	return out, nil
}

// Pages lists the page names known to the selector, sorted.
func (v *ViewSelector) Pages() []string {
	out := make([]string, 0, len(v.pages))
	for name := range v.pages {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func statCard(id, label, icon string) domain.Fragment {
	return domain.Fragment{ID: id, Kind: domain.FragmentStatCard, Label: label, Icon: icon}
}

func quickAction(id, label, path string) domain.Fragment {
	return domain.Fragment{ID: id, Kind: domain.FragmentQuickAction, Label: label, Path: path}
}

func headerControl(id, label, icon string) domain.Fragment {
	return domain.Fragment{ID: id, Kind: domain.FragmentHeaderControl, Label: label, Icon: icon}
}

// DefaultViews is the role gating of the dashboard pages.
func DefaultViews() map[string][]ViewRule {
	managers := AnyRole(domain.RoleManager, domain.RoleSuperAdmin)
	frontDesk := AnyRole(domain.RoleSuperAdmin, domain.RoleManager, domain.RoleReceptionist)
	therapist := AnyRole(domain.RoleTherapist)
	customer := AnyRole(domain.RoleCustomer)

	return map[string][]ViewRule{
		"dashboard": {
			{statCard("total_revenue", "Total Revenue", "DollarSign"), managers},
			{statCard("todays_bookings", "Today's Bookings", "CalendarDays"), StaffOnly},
			{statCard("new_customers", "New Customers", "UserPlus"), frontDesk},
			{statCard("staff_utilization", "Staff Utilization", "Activity"), managers},
			{statCard("my_appointments", "My Appointments", "Clock"), therapist},
			{statCard("my_rating", "My Rating", "Star"), therapist},
			{statCard("pending_check_ins", "Pending Check-ins", "LogIn"), AnyRole(domain.RoleReceptionist)},
			{quickAction("new_booking", "New Booking", "/admin/bookings/new"), frontDesk},
			{quickAction("add_customer", "Add Customer", "/admin/customers/new"), frontDesk},
			{quickAction("view_schedule", "My Schedule", "/admin/calendar"), therapist},
			{quickAction("view_reports", "View Reports", "/admin/reports"), managers},
		},
		"bookings": {
			{statCard("bookings_today", "Today", "CalendarDays"), StaffOnly},
			{statCard("bookings_revenue", "Booking Revenue", "DollarSign"), managers},
			{quickAction("create_booking", "Create Booking", "/admin/bookings/new"), frontDesk},
			{quickAction("check_in", "Check In Guest", "/admin/bookings/check-in"), AnyRole(domain.RoleReceptionist, domain.RoleManager, domain.RoleSuperAdmin)},
			{quickAction("export_bookings", "Export", "/admin/bookings/export"), managers},
		},
		"customers": {
			{statCard("customers_total", "Total Customers", "Users"), frontDesk},
			{statCard("customers_lifetime_value", "Lifetime Value", "TrendingUp"), managers},
			{quickAction("add_customer", "Add Customer", "/admin/customers/new"), frontDesk},
			{quickAction("import_customers", "Import", "/admin/customers/import"), AnyRole(domain.RoleSuperAdmin)},
		},
		"reports": {
			{statCard("revenue_report", "Revenue", "DollarSign"), managers},
			{statCard("payroll_report", "Payroll", "Wallet"), AnyRole(domain.RoleSuperAdmin)},
			{quickAction("download_report", "Download", "/admin/reports/download"), managers},
		},
		"portal": {
			{statCard("upcoming_appointments", "Upcoming Appointments", "CalendarCheck"), customer},
			{statCard("loyalty_points", "Loyalty Points", "Award"), customer},
			{quickAction("book_now", "Book Now", "/portal/book"), customer},
		},
		"header": {
			{headerControl("search", "Search", "Search"), StaffOnly},
			{headerControl("notifications", "Notifications", "Bell"), Not(AnyRole())},
			{headerControl("location_switcher", "Location", "MapPin"), managers},
			{headerControl("clock_in", "Clock In", "Timer"), AnyRole(domain.RoleReceptionist, domain.RoleTherapist)},
			{headerControl("book_now", "Book Now", "CalendarPlus"), Not(StaffOnly)},
			{headerControl("login", "Sign In", "LogIn"), func(r domain.Role) bool { return !r.Valid() }},
		},
	}
}
