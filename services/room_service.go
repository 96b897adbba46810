package services

import (
	"context"
	"fmt"
	"strings"

	"rental-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

// RoomInput creates a room. Availability is not part of the input: new rooms
// start available and only the rental lifecycle changes the flag.
type RoomInput struct {
	HouseID     uint    `json:"house_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,gte=1"`
	Price       float64 `json:"price" binding:"gte=0"`
	FloorNumber int     `json:"floor_number"`
	Description string  `json:"description"`
}

type RoomUpdateInput struct {
	HouseID     *uint    `json:"house_id"`
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Capacity    *int     `json:"capacity" binding:"omitempty,gte=1"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	FloorNumber *int     `json:"floor_number"`
	Description *string  `json:"description"`
}

func (s *RoomService) Create(ctx context.Context, ownerID uint, in RoomInput) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedHouse(tx, ownerID, in.HouseID); err != nil {
			return err
		}
		room = models.Room{
			HouseID:     in.HouseID,
			Name:        strings.TrimSpace(in.Name),
			Capacity:    in.Capacity,
			Price:       in.Price,
			FloorNumber: in.FloorNumber,
			Description: in.Description,
			IsAvailable: true,
		}
		if err := tx.Create(&room).Error; err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) List(ctx context.Context, ownerID uint, skip, limit int) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.WithContext(ctx).Scopes(ownedRooms(ownerID), page(skip, limit)).
		Order("rooms.room_id").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ListAvailable returns the caller's free rooms, optionally limited to one house (houseID 0 means all).
func (s *RoomService) ListAvailable(ctx context.Context, ownerID, houseID uint, skip, limit int) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Scopes(ownedRooms(ownerID), page(skip, limit)).
		Where("rooms.is_available = ?", true)
	if houseID != 0 {
		q = q.Where("rooms.house_id = ?", houseID)
	}
	var rooms []models.Room
	if err := q.Order("rooms.price, rooms.room_id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) ListByHouse(ctx context.Context, ownerID, houseID uint, skip, limit int) ([]models.Room, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findOwnedHouse(db, ownerID, houseID); err != nil {
		return nil, err
	}
	var rooms []models.Room
	err := db.Scopes(page(skip, limit)).Where("house_id = ?", houseID).Order("room_id").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// Get returns a room with its assets.
func (s *RoomService) Get(ctx context.Context, ownerID, roomID uint) (*models.Room, error) {
	db := s.DB.WithContext(ctx)
	room, err := findOwnedRoom(db, ownerID, roomID)
	if err != nil {
		return nil, err
	}
	if err := db.Where("room_id = ?", roomID).Order("asset_id").Find(&room.Assets).Error; err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	return room, nil
}

func (s *RoomService) Update(ctx context.Context, ownerID, roomID uint, in RoomUpdateInput) (*models.Room, error) {
	var room *models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if room, err = findOwnedRoom(tx, ownerID, roomID); err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if in.HouseID != nil && *in.HouseID != room.HouseID {
			if _, err := findOwnedHouse(tx, ownerID, *in.HouseID); err != nil {
				return err
			}
			changes["house_id"] = *in.HouseID
		}
		if in.Name != nil {
			changes["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Capacity != nil {
			changes["capacity"] = *in.Capacity
		}
		if in.Price != nil {
			changes["price"] = *in.Price
		}
		if in.FloorNumber != nil {
			changes["floor_number"] = *in.FloorNumber
		}
		if in.Description != nil {
			changes["description"] = *in.Description
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.Room{}).Where("room_id = ?", roomID).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update room: %w", err)
		}
		return tx.First(room, roomID).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) Delete(ctx context.Context, ownerID, roomID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := findOwnedRoom(tx, ownerID, roomID)
		if err != nil {
			return err
		}
		if err := tx.Delete(room).Error; err != nil {
			return fmt.Errorf("failed to delete room: %w", err)
		}
		return nil
	})
}
