package services

import (
	"context"
	"fmt"
	"strings"

	"rental-backend/models"

	"gorm.io/gorm"
)

type HouseService struct {
	DB *gorm.DB
}

func NewHouseService(db *gorm.DB) *HouseService {
	return &HouseService{DB: db}
}

type HouseInput struct {
	Name        string `json:"name" binding:"required"`
	AddressLine string `json:"address_line"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city"`
	FloorCount  int    `json:"floor_count" binding:"gte=0"`
	Description string `json:"description"`
}

type HouseUpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	AddressLine *string `json:"address_line"`
	Ward        *string `json:"ward"`
	District    *string `json:"district"`
	City        *string `json:"city"`
	FloorCount  *int    `json:"floor_count" binding:"omitempty,gte=0"`
	Description *string `json:"description"`
}

func (in HouseUpdateInput) changes() map[string]interface{} {
	m := map[string]interface{}{}
	if in.Name != nil {
		m["name"] = strings.TrimSpace(*in.Name)
	}
	if in.AddressLine != nil {
		m["address_line"] = *in.AddressLine
	}
	if in.Ward != nil {
		m["ward"] = *in.Ward
	}
	if in.District != nil {
		m["district"] = *in.District
	}
	if in.City != nil {
		m["city"] = *in.City
	}
	if in.FloorCount != nil {
		m["floor_count"] = *in.FloorCount
	}
	if in.Description != nil {
		m["description"] = *in.Description
	}
	return m
}

func (s *HouseService) Create(ctx context.Context, ownerID uint, in HouseInput) (*models.House, error) {
	house := models.House{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		AddressLine: in.AddressLine,
		Ward:        in.Ward,
		District:    in.District,
		City:        in.City,
		FloorCount:  in.FloorCount,
		Description: in.Description,
	}
	if err := s.DB.WithContext(ctx).Create(&house).Error; err != nil {
		return nil, fmt.Errorf("failed to create house: %w", err)
	}
	return &house, nil
}

func (s *HouseService) List(ctx context.Context, ownerID uint, skip, limit int) ([]models.House, error) {
	var houses []models.House
	err := s.DB.WithContext(ctx).Scopes(ownedHouses(ownerID), page(skip, limit)).
		Order("houses.house_id").Find(&houses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	return houses, nil
}

func (s *HouseService) Get(ctx context.Context, ownerID, houseID uint) (*models.House, error) {
	return findOwnedHouse(s.DB.WithContext(ctx), ownerID, houseID)
}

func (s *HouseService) Update(ctx context.Context, ownerID, houseID uint, in HouseUpdateInput) (*models.House, error) {
	var house *models.House
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if house, err = findOwnedHouse(tx, ownerID, houseID); err != nil {
			return err
		}
		changes := in.changes()
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(house).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update house: %w", err)
		}
		return tx.First(house, houseID).Error
	})
	if err != nil {
		return nil, err
	}
	return house, nil
}

// Delete removes a house together with its rooms, assets, contracts and invoices.
func (s *HouseService) Delete(ctx context.Context, ownerID, houseID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		house, err := findOwnedHouse(tx, ownerID, houseID)
		if err != nil {
			return err
		}
		if err := tx.Delete(house).Error; err != nil {
			return fmt.Errorf("failed to delete house: %w", err)
		}
		return nil
	})
}

// ListByOwner is the admin view of one owner's houses.
func (s *HouseService) ListByOwner(ctx context.Context, ownerID uint, skip, limit int) ([]models.House, error) {
	return s.List(ctx, ownerID, skip, limit)
}

// ListAll is the admin view of every house in the system.
func (s *HouseService) ListAll(ctx context.Context, skip, limit int) ([]models.House, error) {
	var houses []models.House
	if err := s.DB.WithContext(ctx).Scopes(page(skip, limit)).Order("house_id").Find(&houses).Error; err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	return houses, nil
}
