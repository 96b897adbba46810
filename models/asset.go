package models

import "time"

type Asset struct {
	AssetID   uint      `gorm:"column:asset_id;primaryKey" json:"asset_id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	AssetName string    `gorm:"size:255;not null" json:"asset_name"`
	Quantity  int       `json:"quantity"`
	Condition string    `gorm:"column:asset_condition;size:100" json:"condition"`
	ImageURL  string    `gorm:"size:500" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
