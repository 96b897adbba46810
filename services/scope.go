package services

import (
	"rental-backend/models"

	"gorm.io/gorm"
)

// Owner scoping. Every owner-facing query on houses, rooms, assets, rented
// rooms and invoices goes through one of these scopes, which join up to
// houses and filter on houses.owner_id. Rows owned by someone else are
// therefore indistinguishable from missing rows.

func ownedHouses(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("houses.owner_id = ?", ownerID)
	}
}

func ownedRooms(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN houses ON houses.house_id = rooms.house_id").
			Where("houses.owner_id = ?", ownerID)
	}
}

func ownedAssets(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN rooms ON rooms.room_id = assets.room_id").
			Joins("JOIN houses ON houses.house_id = rooms.house_id").
			Where("houses.owner_id = ?", ownerID)
	}
}

func ownedRentedRooms(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN rooms ON rooms.room_id = rented_rooms.room_id").
			Joins("JOIN houses ON houses.house_id = rooms.house_id").
			Where("houses.owner_id = ?", ownerID)
	}
}

func ownedInvoices(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN rented_rooms ON rented_rooms.rr_id = invoices.rr_id").
			Joins("JOIN rooms ON rooms.room_id = rented_rooms.room_id").
			Joins("JOIN houses ON houses.house_id = rooms.house_id").
			Where("houses.owner_id = ?", ownerID)
	}
}

// page applies skip/limit. A non-positive limit leaves the query unbounded.
func page(skip, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}

// The lookups below resolve a single row under the caller's ownership.
// They take the handle explicitly so callers can run them inside a
// transaction.

func findOwnedHouse(tx *gorm.DB, ownerID, houseID uint) (*models.House, error) {
	var house models.House
	if err := tx.Scopes(ownedHouses(ownerID)).Where("houses.house_id = ?", houseID).First(&house).Error; err != nil {
		return nil, lookupErr(err, "house")
	}
	return &house, nil
}

func findOwnedRoom(tx *gorm.DB, ownerID, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := tx.Scopes(ownedRooms(ownerID)).Where("rooms.room_id = ?", roomID).First(&room).Error; err != nil {
		return nil, lookupErr(err, "room")
	}
	return &room, nil
}

func findOwnedAsset(tx *gorm.DB, ownerID, assetID uint) (*models.Asset, error) {
	var asset models.Asset
	if err := tx.Scopes(ownedAssets(ownerID)).Where("assets.asset_id = ?", assetID).First(&asset).Error; err != nil {
		return nil, lookupErr(err, "asset")
	}
	return &asset, nil
}

func findOwnedRentedRoom(tx *gorm.DB, ownerID, rrID uint) (*models.RentedRoom, error) {
	var rr models.RentedRoom
	if err := tx.Scopes(ownedRentedRooms(ownerID)).Where("rented_rooms.rr_id = ?", rrID).First(&rr).Error; err != nil {
		return nil, lookupErr(err, "rented room")
	}
	return &rr, nil
}

func findOwnedInvoice(tx *gorm.DB, ownerID, invoiceID uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := tx.Scopes(ownedInvoices(ownerID)).Where("invoices.invoice_id = ?", invoiceID).First(&inv).Error; err != nil {
		return nil, lookupErr(err, "invoice")
	}
	return &inv, nil
}
