package models

import "time"

// Room is a rentable unit inside a House. IsAvailable is false exactly
// while an active RentedRoom references the room.
type Room struct {
	RoomID      uint      `gorm:"column:room_id;primaryKey" json:"room_id"`
	HouseID     uint      `gorm:"not null;index" json:"house_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Price       float64   `gorm:"not null" json:"price"`
	FloorNumber int       `json:"floor_number"`
	Description string    `gorm:"type:text" json:"description"`
	IsAvailable bool      `gorm:"index" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Assets      []Asset      `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnDelete:CASCADE" json:"assets,omitempty"`
	RentedRooms []RentedRoom `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}
