package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusDelivered  = "DELIVERED"
)

// IsValidOrderStatus reports whether s is a known order status.
// Membership is the only rule enforced; transition ordering is left
// to callers.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusDelivered:
		return true
	}
	return false
}

// ── User roles (CHECK constrained in DB) ──

const (
	RoleCustomer     = "CUSTOMER"
	RoleManager      = "MANAGER"
	RoleDeliveryCrew = "DELIVERY_CREW"
)

// IsValidRole reports whether s is a known user role.
func IsValidRole(s string) bool {
	switch s {
	case RoleCustomer, RoleManager, RoleDeliveryCrew:
		return true
	}
	return false
}
