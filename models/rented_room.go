package models

import (
	"time"

	"gorm.io/datatypes"
)

// Default utility prices applied to a new contract when the request omits them.
const (
	DefaultElectricityUnitPrice = 3500
	DefaultWaterPrice           = 80000
	DefaultInternetPrice        = 100000
	DefaultGeneralPrice         = 100000
)

// RentedRoom is a rental contract binding a tenant to a room.
type RentedRoom struct {
	RRID                  uint           `gorm:"column:rr_id;primaryKey" json:"rr_id"`
	RoomID                uint           `gorm:"not null;index" json:"room_id"`
	TenantName            string         `gorm:"size:255;not null" json:"tenant_name"`
	TenantPhone           string         `gorm:"size:20;not null" json:"tenant_phone"`
	NumberOfTenants       int            `gorm:"not null" json:"number_of_tenants"`
	ContractURL           string         `gorm:"size:500" json:"contract_url"`
	StartDate             datatypes.Date `gorm:"not null" json:"start_date"`
	EndDate               datatypes.Date `gorm:"not null;index" json:"end_date"`
	Deposit               float64        `json:"deposit"`
	MonthlyRent           float64        `gorm:"not null" json:"monthly_rent"`
	InitialElectricityNum float64        `json:"initial_electricity_num"`
	ElectricityUnitPrice  float64        `json:"electricity_unit_price"`
	WaterPrice            float64        `json:"water_price"`
	InternetPrice         float64        `json:"internet_price"`
	GeneralPrice          float64        `json:"general_price"`
	IsActive              bool           `gorm:"index" json:"is_active"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`

	Room     *Room     `json:"room,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:RRID;references:RRID;constraint:OnDelete:CASCADE" json:"-"`
}
