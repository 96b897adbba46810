package models

// Authority values stored on roles.authority.
const (
	AuthorityOwner = "owner"
	AuthorityAdmin = "admin"
)

type Role struct {
	RoleID      uint   `gorm:"column:role_id;primaryKey" json:"role_id"`
	Authority   string `gorm:"size:50;uniqueIndex;not null" json:"authority"`
	Description string `gorm:"size:255" json:"description"`
}
