package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Utility amounts used by the monthly invoice batch.
const (
	BatchWaterPrice       = 100000
	BatchInternetPrice    = 200000
	BatchGeneralPrice     = 50000
	BatchElectricityPrice = 150000
	BatchDueDays          = 30
)

type Invoice struct {
	InvoiceID        uint           `gorm:"column:invoice_id;primaryKey" json:"invoice_id"`
	RRID             uint           `gorm:"column:rr_id;not null;index" json:"rr_id"`
	Price            float64        `gorm:"not null" json:"price"`
	WaterPrice       float64        `json:"water_price"`
	InternetPrice    float64        `json:"internet_price"`
	GeneralPrice     float64        `json:"general_price"`
	ElectricityPrice float64        `json:"electricity_price"`
	ElectricityNum   float64        `json:"electricity_num"`
	WaterNum         float64        `json:"water_num"`
	DueDate          datatypes.Date `gorm:"not null;index" json:"due_date"`
	PaymentDate      *time.Time     `gorm:"index" json:"payment_date"`
	IsPaid           bool           `gorm:"index" json:"is_paid"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	TotalAmount float64 `gorm:"-:all" json:"total_amount"`
}

// Total is the sum of rent and every utility charge.
func (i Invoice) Total() float64 {
	return i.Price + i.WaterPrice + i.InternetPrice + i.GeneralPrice + i.ElectricityPrice
}

// BeforeSave keeps payment_date populated for paid invoices.
func (i *Invoice) BeforeSave(tx *gorm.DB) error {
	if i.IsPaid && i.PaymentDate == nil {
		paidAt := i.CreatedAt
		if paidAt.IsZero() {
			paidAt = tx.NowFunc()
		}
		i.PaymentDate = &paidAt
	}
	return nil
}

func (i *Invoice) AfterSave(tx *gorm.DB) error {
	i.TotalAmount = i.Total()
	return nil
}

func (i *Invoice) AfterFind(tx *gorm.DB) error {
	i.TotalAmount = i.Total()
	return nil
}
