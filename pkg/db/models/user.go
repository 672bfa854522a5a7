package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisahar-connect/civic-portal/pkg/enums"
)

// User is a portal account, created on first sign-in through the identity provider.
type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	IdentityID        string     `gorm:"column:identity_id;type:text;not null;uniqueIndex"`
	Email             string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name              string     `gorm:"column:name;type:text;not null"`
	Photo             string     `gorm:"column:photo;type:text"`
	Mobile            string     `gorm:"column:mobile;type:text"`
	Address           string     `gorm:"column:address;type:text"`
	WardNumber        int        `gorm:"column:ward_number"`
	AadharPhoto       string     `gorm:"column:aadhar_photo;type:text"`
	Role              enums.Role `gorm:"column:role;type:text;not null;index"`
	IsVerified        bool       `gorm:"column:is_verified;not null"`
	IsProfileComplete bool       `gorm:"column:is_profile_complete;not null"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an id client-side so inserts behave the same on every dialect.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == enums.RoleAdmin
}

// PromoteToAdmin applies the allowlist upgrade. Admins are always verified
// and never routed through profile completion.
func (u *User) PromoteToAdmin() {
	u.Role = enums.RoleAdmin
	u.IsVerified = true
	u.IsProfileComplete = true
}
