package services

import (
	"context"
	"fmt"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db, now: time.Now}
}

type InvoiceInput struct {
	RRID             uint    `json:"rr_id" binding:"required"`
	Price            float64 `json:"price" binding:"gte=0"`
	WaterPrice       float64 `json:"water_price" binding:"gte=0"`
	InternetPrice    float64 `json:"internet_price" binding:"gte=0"`
	GeneralPrice     float64 `json:"general_price" binding:"gte=0"`
	ElectricityPrice float64 `json:"electricity_price" binding:"gte=0"`
	ElectricityNum   float64 `json:"electricity_num" binding:"gte=0"`
	WaterNum         float64 `json:"water_num" binding:"gte=0"`
	DueDate          string  `json:"due_date" binding:"required"`
	PaymentDate      *string `json:"payment_date"`
	IsPaid           bool    `json:"is_paid"`
}

type InvoiceUpdateInput struct {
	Price            *float64 `json:"price" binding:"omitempty,gte=0"`
	WaterPrice       *float64 `json:"water_price" binding:"omitempty,gte=0"`
	InternetPrice    *float64 `json:"internet_price" binding:"omitempty,gte=0"`
	GeneralPrice     *float64 `json:"general_price" binding:"omitempty,gte=0"`
	ElectricityPrice *float64 `json:"electricity_price" binding:"omitempty,gte=0"`
	ElectricityNum   *float64 `json:"electricity_num" binding:"omitempty,gte=0"`
	WaterNum         *float64 `json:"water_num" binding:"omitempty,gte=0"`
	DueDate          *string  `json:"due_date"`
	PaymentDate      *string  `json:"payment_date"`
	IsPaid           *bool    `json:"is_paid"`
}

func parsePaymentDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(*raw)
	if err != nil {
		return nil, invalidf("payment_date: %v", err)
	}
	return &t, nil
}

// Create bills a rented room. The rented room must belong to the caller.
func (s *InvoiceService) Create(ctx context.Context, ownerID uint, in InvoiceInput) (*models.Invoice, error) {
	due, err := utils.ParseDate(in.DueDate)
	if err != nil {
		return nil, invalidf("due_date: %v", err)
	}
	paidAt, err := parsePaymentDate(in.PaymentDate)
	if err != nil {
		return nil, err
	}

	var inv models.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedRentedRoom(tx, ownerID, in.RRID); err != nil {
			return err
		}
		inv = models.Invoice{
			RRID:             in.RRID,
			Price:            in.Price,
			WaterPrice:       in.WaterPrice,
			InternetPrice:    in.InternetPrice,
			GeneralPrice:     in.GeneralPrice,
			ElectricityPrice: in.ElectricityPrice,
			ElectricityNum:   in.ElectricityNum,
			WaterNum:         in.WaterNum,
			DueDate:          datatypes.Date(due),
			PaymentDate:      paidAt,
			IsPaid:           in.IsPaid,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *InvoiceService) List(ctx context.Context, ownerID uint, skip, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.DB.WithContext(ctx).Scopes(ownedInvoices(ownerID), page(skip, limit)).
		Order("invoices.invoice_id DESC").Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// ListPending returns unpaid invoices, earliest due first.
func (s *InvoiceService) ListPending(ctx context.Context, ownerID uint, skip, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.DB.WithContext(ctx).Scopes(ownedInvoices(ownerID), page(skip, limit)).
		Where("invoices.is_paid = ?", false).
		Order("invoices.due_date, invoices.invoice_id").Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invoices: %w", err)
	}
	return invoices, nil
}

func (s *InvoiceService) ListByRentedRoom(ctx context.Context, ownerID, rrID uint) ([]models.Invoice, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findOwnedRentedRoom(db, ownerID, rrID); err != nil {
		return nil, err
	}
	var invoices []models.Invoice
	if err := db.Where("rr_id = ?", rrID).Order("invoice_id DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *InvoiceService) Get(ctx context.Context, ownerID, invoiceID uint) (*models.Invoice, error) {
	return findOwnedInvoice(s.DB.WithContext(ctx), ownerID, invoiceID)
}

// Update edits charges and dates. A paid invoice cannot be reopened.
func (s *InvoiceService) Update(ctx context.Context, ownerID, invoiceID uint, in InvoiceUpdateInput) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if inv, err = findOwnedInvoice(tx, ownerID, invoiceID); err != nil {
			return err
		}

		if in.IsPaid != nil {
			if inv.IsPaid && !*in.IsPaid {
				return invalidf("a paid invoice cannot be marked unpaid")
			}
			inv.IsPaid = *in.IsPaid
		}
		if in.DueDate != nil {
			due, err := utils.ParseDate(*in.DueDate)
			if err != nil {
				return invalidf("due_date: %v", err)
			}
			inv.DueDate = datatypes.Date(due)
		}
		if in.PaymentDate != nil {
			paidAt, err := parsePaymentDate(in.PaymentDate)
			if err != nil {
				return err
			}
			if paidAt != nil {
				inv.PaymentDate = paidAt
			}
		}
		for _, f := range []struct {
			src *float64
			dst *float64
		}{
			{in.Price, &inv.Price},
			{in.WaterPrice, &inv.WaterPrice},
			{in.InternetPrice, &inv.InternetPrice},
			{in.GeneralPrice, &inv.GeneralPrice},
			{in.ElectricityPrice, &inv.ElectricityPrice},
			{in.ElectricityNum, &inv.ElectricityNum},
			{in.WaterNum, &inv.WaterNum},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}

		if err := tx.Save(inv).Error; err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, ownerID, invoiceID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := findOwnedInvoice(tx, ownerID, invoiceID)
		if err != nil {
			return err
		}
		if err := tx.Delete(inv).Error; err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		return nil
	})
}

// MarkPaid moves an invoice to paid. payment_date is only filled when
// absent, and paying an already-paid invoice returns it unchanged.
func (s *InvoiceService) MarkPaid(ctx context.Context, ownerID, invoiceID uint) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if inv, err = findOwnedInvoice(tx, ownerID, invoiceID); err != nil {
			return err
		}
		if inv.IsPaid {
			return nil
		}
		inv.IsPaid = true
		if err := tx.Save(inv).Error; err != nil {
			return fmt.Errorf("failed to mark invoice paid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateMonthlyBatch bills every active contract of the caller once, at the
// contract's monthly rent plus the fixed batch utility amounts, due in 30
// days. Running it twice in one period bills twice.
func (s *InvoiceService) CreateMonthlyBatch(ctx context.Context, ownerID uint) (int, error) {
	created := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rentals []models.RentedRoom
		err := tx.Scopes(ownedRentedRooms(ownerID)).
			Where("rented_rooms.is_active = ?", true).
			Order("rented_rooms.rr_id").Find(&rentals).Error
		if err != nil {
			return fmt.Errorf("failed to load active rented rooms: %w", err)
		}
		if len(rentals) == 0 {
			return nil
		}

		due := datatypes.Date(utils.DateOnly(s.now()).AddDate(0, 0, models.BatchDueDays))
		invoices := make([]models.Invoice, 0, len(rentals))
		for _, rr := range rentals {
			invoices = append(invoices, models.Invoice{
				RRID:             rr.RRID,
				Price:            rr.MonthlyRent,
				WaterPrice:       models.BatchWaterPrice,
				InternetPrice:    models.BatchInternetPrice,
				GeneralPrice:     models.BatchGeneralPrice,
				ElectricityPrice: models.BatchElectricityPrice,
				DueDate:          due,
			})
		}
		if err := tx.CreateInBatches(&invoices, 100).Error; err != nil {
			return fmt.Errorf("failed to create monthly invoices: %w", err)
		}
		created = len(invoices)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
