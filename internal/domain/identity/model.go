package identity

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleOwner       = "OWNER"
	RoleVet         = "VET"
	RoleClinicAdmin = "CLINIC_ADMIN"
)

// User maps to the users table.
type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	Role        string    `db:"role" json:"role"`
	DisplayName string    `db:"display_name" json:"display_name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

var validRoles = map[string]bool{
	RoleOwner: true, RoleVet: true, RoleClinicAdmin: true,
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool { return validRoles[role] }
