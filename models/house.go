package models

import "time"

type House struct {
	HouseID     uint      `gorm:"column:house_id;primaryKey" json:"house_id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	AddressLine string    `gorm:"size:255" json:"address_line"`
	Ward        string    `gorm:"size:100" json:"ward"`
	District    string    `gorm:"size:100;index" json:"district"`
	City        string    `gorm:"size:100" json:"city"`
	FloorCount  int       `json:"floor_count"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Rooms []Room `gorm:"foreignKey:HouseID;references:HouseID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}
