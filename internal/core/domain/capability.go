package domain

// Capability names a single permitted action.
type Capability string

// CapabilityAll is the wildcard entry; an Identity holding it may do anything.
const CapabilityAll Capability = "*"

const (
	CapViewServices        Capability = "view_services"
	CapBookAppointment     Capability = "book_appointment"
	CapManageBookings      Capability = "manage_bookings"
	CapViewReports         Capability = "view_reports"
	CapManageStaff         Capability = "manage_staff"
	CapManageInventory     Capability = "manage_inventory"
	CapCheckInGuest        Capability = "check_in_guest"
	CapProcessPayments     Capability = "process_payments"
	CapViewSchedule        Capability = "view_schedule"
	CapUpdateServiceStatus Capability = "update_service_status"
)

// CustomerCapabilities is the fixed permission set of self-registered customers.
func CustomerCapabilities() []Capability {
	return []Capability{CapViewServices, CapBookAppointment}
}
