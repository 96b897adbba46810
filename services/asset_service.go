package services

import (
	"context"
	"fmt"
	"strings"

	"rental-backend/models"

	"gorm.io/gorm"
)

type AssetService struct {
	DB *gorm.DB
}

func NewAssetService(db *gorm.DB) *AssetService {
	return &AssetService{DB: db}
}

type AssetInput struct {
	RoomID    uint   `json:"room_id" binding:"required"`
	AssetName string `json:"asset_name" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
	Condition string `json:"condition"`
	ImageURL  string `json:"image_url"`
}

type AssetUpdateInput struct {
	AssetName *string `json:"asset_name" binding:"omitempty,min=1"`
	Quantity  *int    `json:"quantity" binding:"omitempty,gte=0"`
	Condition *string `json:"condition"`
	ImageURL  *string `json:"image_url"`
}

func (s *AssetService) Create(ctx context.Context, ownerID uint, in AssetInput) (*models.Asset, error) {
	var asset models.Asset
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedRoom(tx, ownerID, in.RoomID); err != nil {
			return err
		}
		quantity := in.Quantity
		if quantity == 0 {
			quantity = 1
		}
		asset = models.Asset{
			RoomID:    in.RoomID,
			AssetName: strings.TrimSpace(in.AssetName),
			Quantity:  quantity,
			Condition: in.Condition,
			ImageURL:  in.ImageURL,
		}
		if err := tx.Create(&asset).Error; err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *AssetService) ListByRoom(ctx context.Context, ownerID, roomID uint) ([]models.Asset, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findOwnedRoom(db, ownerID, roomID); err != nil {
		return nil, err
	}
	var assets []models.Asset
	if err := db.Where("room_id = ?", roomID).Order("asset_id").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (s *AssetService) Get(ctx context.Context, ownerID, assetID uint) (*models.Asset, error) {
	return findOwnedAsset(s.DB.WithContext(ctx), ownerID, assetID)
}

func (s *AssetService) Update(ctx context.Context, ownerID, assetID uint, in AssetUpdateInput) (*models.Asset, error) {
	var asset *models.Asset
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if asset, err = findOwnedAsset(tx, ownerID, assetID); err != nil {
			return err
		}
		changes := map[string]interface{}{}
		if in.AssetName != nil {
			changes["asset_name"] = strings.TrimSpace(*in.AssetName)
		}
		if in.Quantity != nil {
			changes["quantity"] = *in.Quantity
		}
		if in.Condition != nil {
			changes["asset_condition"] = *in.Condition
		}
		if in.ImageURL != nil {
			changes["image_url"] = *in.ImageURL
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.Asset{}).Where("asset_id = ?", assetID).Updates(changes).Error; err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}
		return tx.First(asset, assetID).Error
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *AssetService) Delete(ctx context.Context, ownerID, assetID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		asset, err := findOwnedAsset(tx, ownerID, assetID)
		if err != nil {
			return err
		}
		if err := tx.Delete(asset).Error; err != nil {
			return fmt.Errorf("failed to delete asset: %w", err)
		}
		return nil
	})
}
