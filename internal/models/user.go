package models

import "time"

type Role string

const (
	RoleClient     Role = "client"
	RoleOperator   Role = "operator"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleOperator, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User is an account. Orders reference it by username only, with no
// database-level constraint: deleting an account must never touch the
// orders it created.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'client'" json:"role"`
	Credits      int64     `gorm:"not null;default:0" json:"credits"`
	CreatedAt    time.Time `json:"created_at"`
}
