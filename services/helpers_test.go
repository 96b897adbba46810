package services

import (
	"context"
	"strings"
	"testing"

	"rental-backend/config"
	"rental-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

// newTestDB opens a private in-memory database with the production schema and seed.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.Config{
		DBDriver:      config.DriverSQLite,
		SQLitePath:    "file:" + name + "?mode=memory&cache=shared",
		GinMode:       "test",
		AdminEmail:    "admin@rental.local",
		AdminPassword: "admin-pass",
		AdminName:     "Admin",
	}
	db, err := config.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	require.NoError(t, config.SeedDatabase(db, cfg))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createOwner(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user, err := NewUserService(db).Register(ctx, RegisterInput{
		Fullname: "Owner " + email,
		Email:    email,
		Password: "secret-pass",
	})
	require.NoError(t, err)
	return user
}

func createHouse(t *testing.T, db *gorm.DB, ownerID uint, name, district string) *models.House {
	t.Helper()
	house, err := NewHouseService(db).Create(ctx, ownerID, HouseInput{Name: name, District: district, AddressLine: "1 Main St"})
	require.NoError(t, err)
	return house
}

func createRoom(t *testing.T, db *gorm.DB, ownerID, houseID uint, name string, price float64, capacity int) *models.Room {
	t.Helper()
	room, err := NewRoomService(db).Create(ctx, ownerID, RoomInput{HouseID: houseID, Name: name, Price: price, Capacity: capacity})
	require.NoError(t, err)
	return room
}

func rentalInput(roomID uint) RentalInput {
	return RentalInput{
		RoomID:      roomID,
		TenantName:  "Tenant",
		TenantPhone: "0900000000",
		StartDate:   "2024-01-01",
		EndDate:     "2024-12-31",
		Deposit:     1000000,
	}
}

func createRental(t *testing.T, db *gorm.DB, ownerID, roomID uint) *models.RentedRoom {
	t.Helper()
	rr, err := NewRentalService(db).Create(ctx, ownerID, rentalInput(roomID))
	require.NoError(t, err)
	return rr
}

func reloadRoom(t *testing.T, db *gorm.DB, roomID uint) models.Room {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, roomID).Error)
	return room
}

// portfolio is one owner with one house and one room.
type portfolio struct {
	owner *models.User
	house *models.House
	room  *models.Room
}

func newPortfolio(t *testing.T, db *gorm.DB, email string) portfolio {
	t.Helper()
	owner := createOwner(t, db, email)
	house := createHouse(t, db, owner.OwnerID, "House of "+email, "District 1")
	room := createRoom(t, db, owner.OwnerID, house.HouseID, "101", 3000000, 2)
	return portfolio{owner: owner, house: house, room: room}
}
