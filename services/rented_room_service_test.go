package services

import (
	"sync"
	"testing"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalCreate(t *testing.T) {
	db := newTestDB(t)
	rentals := NewRentalService(db)
	p := newPortfolio(t, db, "a@example.com")

	rr, err := rentals.Create(ctx, p.owner.OwnerID, rentalInput(p.room.RoomID))
	require.NoError(t, err)
	assert.True(t, rr.IsActive)
	assert.Equal(t, 1, rr.NumberOfTenants)
	assert.Equal(t, p.room.Price, rr.MonthlyRent, "monthly rent falls back to the room price")
	assert.Equal(t, float64(models.DefaultElectricityUnitPrice), rr.ElectricityUnitPrice)
	assert.Equal(t, float64(models.DefaultWaterPrice), rr.WaterPrice)
	assert.Equal(t, float64(models.DefaultInternetPrice), rr.InternetPrice)
	assert.Equal(t, float64(models.DefaultGeneralPrice), rr.GeneralPrice)
	assert.Equal(t, "2024-01-01", time.Time(rr.StartDate).Format(utils.DateLayout))

	assert.False(t, reloadRoom(t, db, p.room.RoomID).IsAvailable)

	t.Run("unavailable room conflicts", func(t *testing.T) {
		_, err := rentals.Create(ctx, p.owner.OwnerID, rentalInput(p.room.RoomID))
		assert.ErrorIs(t, err, ErrConflict)

		var n int64
		db.Model(&models.RentedRoom{}).Where("room_id = ?", p.room.RoomID).Count(&n)
		assert.Equal(t, int64(1), n)
	})

	t.Run("foreign room is not found", func(t *testing.T) {
		other := newPortfolio(t, db, "b@example.com")
		_, err := rentals.Create(ctx, p.owner.OwnerID, rentalInput(other.room.RoomID))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, reloadRoom(t, db, other.room.RoomID).IsAvailable)
	})
}

func TestRentalCreateValidation(t *testing.T) {
	db := newTestDB(t)
	rentals := NewRentalService(db)
	p := newPortfolio(t, db, "a@example.com")

	in := rentalInput(p.room.RoomID)
	in.EndDate = in.StartDate
	_, err := rentals.Create(ctx, p.owner.OwnerID, in)
	assert.ErrorIs(t, err, ErrInvalid)

	in = rentalInput(p.room.RoomID)
	in.StartDate = "01/02/2024"
	_, err = rentals.Create(ctx, p.owner.OwnerID, in)
	assert.ErrorIs(t, err, ErrInvalid)

	in = rentalInput(p.room.RoomID)
	in.NumberOfTenants = 3
	_, err = rentals.Create(ctx, p.owner.OwnerID, in)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.True(t, reloadRoom(t, db, p.room.RoomID).IsAvailable)
}

func TestRentalCreateConcurrent(t *testing.T) {
	db := newTestDB(t)
	rentals := NewRentalService(db)
	p := newPortfolio(t, db, "a@example.com")

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = rentals.Create(ctx, p.owner.OwnerID, rentalInput(p.room.RoomID))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	var active int64
	db.Model(&models.RentedRoom{}).Where("room_id = ? AND is_active = ?", p.room.RoomID, true).Count(&active)
	assert.Equal(t, int64(1), active)
}

func TestRentalTerminate(t *testing.T) {
	db := newTestDB(t)
	rentals := NewRentalService(db)
	p := newPortfolio(t, db, "a@example.com")
	first := createRental(t, db, p.owner.OwnerID, p.room.RoomID)

	other := createOwner(t, db, "b@example.com")
	_, err := rentals.Terminate(ctx, other.OwnerID, first.RRID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, reloadRoom(t, db, p.room.RoomID).IsAvailable)

	ended, err := rentals.Terminate(ctx, p.owner.OwnerID, first.RRID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)
	assert.True(t, reloadRoom(t, db, p.room.RoomID).IsAvailable)

	// A new tenant moves in; terminating the old contract again must not free the room.
	createRental(t, db, p.owner.OwnerID, p.room.RoomID)
	_, err = rentals.Terminate(ctx, p.owner.OwnerID, first.RRID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, reloadRoom(t, db, p.room.RoomID).IsAvailable)

	active, err := rentals.ListActive(ctx, p.owner.OwnerID, 0, 100)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.NotNil(t, active[0].Room)
	assert.Equal(t, p.room.RoomID, active[0].Room.RoomID)

	history, err := rentals.ListByRoom(ctx, p.owner.OwnerID, p.room.RoomID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRentalUpdate(t *testing.T) {
	db := newTestDB(t)
	rentals := NewRentalService(db)
	p := newPortfolio(t, db, "a@example.com")
	rr := createRental(t, db, p.owner.OwnerID, p.room.RoomID)

	name, rent := "Tenant B", 2800000.0
	updated, err := rentals.Update(ctx, p.owner.OwnerID, rr.RRID, RentalUpdateInput{TenantName: &name, MonthlyRent: &rent})
	require.NoError(t, err)
	assert.Equal(t, "Tenant B", updated.TenantName)
	assert.Equal(t, 2800000.0, updated.MonthlyRent)
	assert.True(t, updated.IsActive)

	early := "2023-06-01"
	late := "2023-12-01"
	_, err = rentals.Update(ctx, p.owner.OwnerID, rr.RRID, RentalUpdateInput{EndDate: &early})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = rentals.Update(ctx, p.owner.OwnerID, rr.RRID, RentalUpdateInput{StartDate: &early, EndDate: &late})
	assert.NoError(t, err)

	tooMany := 5
	_, err = rentals.Update(ctx, p.owner.OwnerID, rr.RRID, RentalUpdateInput{NumberOfTenants: &tooMany})
	assert.ErrorIs(t, err, ErrInvalid)

	got, err := rentals.Get(ctx, p.owner.OwnerID, rr.RRID)
	require.NoError(t, err)
	require.NotNil(t, got.Room)
	assert.Equal(t, "2023-12-01", time.Time(got.EndDate).Format(utils.DateLayout))
}
