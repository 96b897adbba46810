package models

import "time"

// User is an account. Owners hold houses; admins manage owners.
type User struct {
	OwnerID   uint      `gorm:"column:owner_id;primaryKey" json:"owner_id"`
	Fullname  string    `gorm:"size:255;not null" json:"fullname"`
	Phone     *string   `gorm:"size:20;uniqueIndex" json:"phone"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never returned
	RoleID    uint      `gorm:"not null;index" json:"role_id"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Houses []House `gorm:"foreignKey:OwnerID;references:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsOwner reports whether the user's role authority is "owner".
// Role must be preloaded.
func (u User) IsOwner() bool {
	return u.Role.Authority == AuthorityOwner
}

func (u User) IsAdmin() bool {
	return u.Role.Authority == AuthorityAdmin
}
