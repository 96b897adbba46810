package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RentalService owns the rental lifecycle: creating a contract occupies its
// room and terminating it frees the room again.
type RentalService struct {
	DB *gorm.DB
}

func NewRentalService(db *gorm.DB) *RentalService {
	return &RentalService{DB: db}
}

// RentalInput opens a contract. Nil utility prices fall back to the contract defaults
// and a zero monthly rent falls back to the room price.
type RentalInput struct {
	RoomID                uint     `json:"room_id" binding:"required"`
	TenantName            string   `json:"tenant_name" binding:"required"`
	TenantPhone           string   `json:"tenant_phone" binding:"required"`
	NumberOfTenants       int      `json:"number_of_tenants" binding:"omitempty,gte=1"`
	ContractURL           string   `json:"contract_url"`
	StartDate             string   `json:"start_date" binding:"required"`
	EndDate               string   `json:"end_date" binding:"required"`
	Deposit               float64  `json:"deposit" binding:"gte=0"`
	MonthlyRent           float64  `json:"monthly_rent" binding:"gte=0"`
	InitialElectricityNum float64  `json:"initial_electricity_num" binding:"gte=0"`
	ElectricityUnitPrice  *float64 `json:"electricity_unit_price" binding:"omitempty,gte=0"`
	WaterPrice            *float64 `json:"water_price" binding:"omitempty,gte=0"`
	InternetPrice         *float64 `json:"internet_price" binding:"omitempty,gte=0"`
	GeneralPrice          *float64 `json:"general_price" binding:"omitempty,gte=0"`
}

// RentalUpdateInput edits tenant and pricing details. The room and the
// active flag cannot be changed here.
type RentalUpdateInput struct {
	TenantName            *string  `json:"tenant_name" binding:"omitempty,min=1"`
	TenantPhone           *string  `json:"tenant_phone" binding:"omitempty,min=1"`
	NumberOfTenants       *int     `json:"number_of_tenants" binding:"omitempty,gte=1"`
	ContractURL           *string  `json:"contract_url"`
	StartDate             *string  `json:"start_date"`
	EndDate               *string  `json:"end_date"`
	Deposit               *float64 `json:"deposit" binding:"omitempty,gte=0"`
	MonthlyRent           *float64 `json:"monthly_rent" binding:"omitempty,gte=0"`
	InitialElectricityNum *float64 `json:"initial_electricity_num" binding:"omitempty,gte=0"`
	ElectricityUnitPrice  *float64 `json:"electricity_unit_price" binding:"omitempty,gte=0"`
	WaterPrice            *float64 `json:"water_price" binding:"omitempty,gte=0"`
	InternetPrice         *float64 `json:"internet_price" binding:"omitempty,gte=0"`
	GeneralPrice          *float64 `json:"general_price" binding:"omitempty,gte=0"`
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	s, err := utils.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, invalidf("start_date: %v", err)
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, invalidf("end_date: %v", err)
	}
	if !e.After(s) {
		return time.Time{}, time.Time{}, invalidf("end_date must be after start_date")
	}
	return s, e, nil
}

// Create opens a contract on an available room. The room is claimed with a
// conditional update inside the transaction, so of two concurrent requests
// for the same room exactly one succeeds and the other gets ErrConflict.
func (s *RentalService) Create(ctx context.Context, ownerID uint, in RentalInput) (*models.RentedRoom, error) {
	start, end, err := parsePeriod(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	tenants := in.NumberOfTenants
	if tenants == 0 {
		tenants = 1
	}

	var rr models.RentedRoom
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := findOwnedRoom(tx, ownerID, in.RoomID)
		if err != nil {
			return err
		}
		if tenants > room.Capacity {
			return invalidf("room %s holds at most %d tenants", room.Name, room.Capacity)
		}

		res := tx.Model(&models.Room{}).
			Where("room_id = ? AND is_available = ?", room.RoomID, true).
			Update("is_available", false)
		if res.Error != nil {
			return fmt.Errorf("failed to reserve room: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return conflictf("room %s is not available", room.Name)
		}

		rent := in.MonthlyRent
		if rent == 0 {
			rent = room.Price
		}
		rr = models.RentedRoom{
			RoomID:                room.RoomID,
			TenantName:            strings.TrimSpace(in.TenantName),
			TenantPhone:           strings.TrimSpace(in.TenantPhone),
			NumberOfTenants:       tenants,
			ContractURL:           in.ContractURL,
			StartDate:             datatypes.Date(start),
			EndDate:               datatypes.Date(end),
			Deposit:               in.Deposit,
			MonthlyRent:           rent,
			InitialElectricityNum: in.InitialElectricityNum,
			ElectricityUnitPrice:  orDefault(in.ElectricityUnitPrice, models.DefaultElectricityUnitPrice),
			WaterPrice:            orDefault(in.WaterPrice, models.DefaultWaterPrice),
			InternetPrice:         orDefault(in.InternetPrice, models.DefaultInternetPrice),
			GeneralPrice:          orDefault(in.GeneralPrice, models.DefaultGeneralPrice),
			IsActive:              true,
		}
		if err := tx.Create(&rr).Error; err != nil {
			return fmt.Errorf("failed to create rented room: %w", err)
		}
		room.IsAvailable = false
		rr.Room = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

// ListActive returns the caller's running contracts, newest first.
func (s *RentalService) ListActive(ctx context.Context, ownerID uint, skip, limit int) ([]models.RentedRoom, error) {
	var rentals []models.RentedRoom
	err := s.DB.WithContext(ctx).Scopes(ownedRentedRooms(ownerID), page(skip, limit)).
		Where("rented_rooms.is_active = ?", true).
		Preload("Room").Order("rented_rooms.rr_id DESC").Find(&rentals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rented rooms: %w", err)
	}
	return rentals, nil
}

// ListByRoom returns every contract, past and present, on one room.
func (s *RentalService) ListByRoom(ctx context.Context, ownerID, roomID uint) ([]models.RentedRoom, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findOwnedRoom(db, ownerID, roomID); err != nil {
		return nil, err
	}
	var rentals []models.RentedRoom
	if err := db.Where("room_id = ?", roomID).Order("rr_id DESC").Find(&rentals).Error; err != nil {
		return nil, fmt.Errorf("failed to list rented rooms: %w", err)
	}
	return rentals, nil
}

func (s *RentalService) Get(ctx context.Context, ownerID, rrID uint) (*models.RentedRoom, error) {
	db := s.DB.WithContext(ctx)
	rr, err := findOwnedRentedRoom(db, ownerID, rrID)
	if err != nil {
		return nil, err
	}
	var room models.Room
	if err := db.First(&room, rr.RoomID).Error; err != nil {
		return nil, lookupErr(err, "room")
	}
	rr.Room = &room
	return rr, nil
}

func (s *RentalService) Update(ctx context.Context, ownerID, rrID uint, in RentalUpdateInput) (*models.RentedRoom, error) {
	var rr *models.RentedRoom
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if rr, err = findOwnedRentedRoom(tx, ownerID, rrID); err != nil {
			return err
		}

		start := time.Time(rr.StartDate)
		end := time.Time(rr.EndDate)
		changes := map[string]interface{}{}
		if in.StartDate != nil {
			if start, err = utils.ParseDate(*in.StartDate); err != nil {
				return invalidf("start_date: %v", err)
			}
			changes["start_date"] = datatypes.Date(start)
		}
		if in.EndDate != nil {
			if end, err = utils.ParseDate(*in.EndDate); err != nil {
				return invalidf("end_date: %v", err)
			}
			changes["end_date"] = datatypes.Date(end)
		}
		if !end.After(start) {
			return invalidf("end_date must be after start_date")
		}
		if in.NumberOfTenants != nil {
			var room models.Room
			if err := tx.First(&room, rr.RoomID).Error; err != nil {
				return lookupErr(err, "room")
			}
			if *in.NumberOfTenants > room.Capacity {
				return invalidf("room %s holds at most %d tenants", room.Name, room.Capacity)
			}
			changes["number_of_tenants"] = *in.NumberOfTenants
		}
		if in.TenantName != nil {
			changes["tenant_name"] = strings.TrimSpace(*in.TenantName)
		}
		if in.TenantPhone != nil {
			changes["tenant_phone"] = strings.TrimSpace(*in.TenantPhone)
		}
		if in.ContractURL != nil {
			changes["contract_url"] = *in.ContractURL
		}
		for column, v := range map[string]*float64{
			"deposit":                 in.Deposit,
			"monthly_rent":            in.MonthlyRent,
			"initial_electricity_num": in.InitialElectricityNum,
			"electricity_unit_price":  in.ElectricityUnitPrice,
			"water_price":             in.WaterPrice,
			"internet_price":          in.InternetPrice,
			"general_price":           in.GeneralPrice,
		} {
			if v != nil {
				changes[column] = *v
			}
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.RentedRoom{}).Where("rr_id = ?", rrID).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update rented room: %w", err)
		}
		return tx.First(rr, rrID).Error
	})
	if err != nil {
		return nil, err
	}
	return rr, nil
}

// Terminate ends an active contract and frees its room in one transaction.
// Terminating a contract that is already inactive reports ErrNotFound and
// leaves the room untouched.
func (s *RentalService) Terminate(ctx context.Context, ownerID, rrID uint) (*models.RentedRoom, error) {
	var rr *models.RentedRoom
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if rr, err = findOwnedRentedRoom(tx, ownerID, rrID); err != nil {
			return err
		}

		res := tx.Model(&models.RentedRoom{}).
			Where("rr_id = ? AND is_active = ?", rrID, true).
			Update("is_active", false)
		if res.Error != nil {
			return fmt.Errorf("failed to terminate rented room: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("active rented room")
		}

		if err := tx.Model(&models.Room{}).Where("room_id = ?", rr.RoomID).Update("is_available", true).Error; err != nil {
			return fmt.Errorf("failed to release room: %w", err)
		}
		rr.IsActive = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rr, nil
}
