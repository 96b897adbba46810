package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCreate(t *testing.T) {
	db := newTestDB(t)
	rooms := NewRoomService(db)
	a := newPortfolio(t, db, "a@example.com")
	b := newPortfolio(t, db, "b@example.com")

	assert.True(t, a.room.IsAvailable)

	_, err := rooms.Create(ctx, b.owner.OwnerID, RoomInput{HouseID: a.house.HouseID, Name: "201", Capacity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := rooms.List(ctx, a.owner.OwnerID, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.room.RoomID, list[0].RoomID)
}

func TestRoomListAvailable(t *testing.T) {
	db := newTestDB(t)
	rooms := NewRoomService(db)
	p := newPortfolio(t, db, "a@example.com")
	cheap := createRoom(t, db, p.owner.OwnerID, p.house.HouseID, "102", 2000000, 1)
	createRental(t, db, p.owner.OwnerID, p.room.RoomID)

	available, err := rooms.ListAvailable(ctx, p.owner.OwnerID, 0, 0, 100)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, cheap.RoomID, available[0].RoomID)

	byHouse, err := rooms.ListByHouse(ctx, p.owner.OwnerID, p.house.HouseID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, byHouse, 2)
}

func TestRoomUpdate(t *testing.T) {
	db := newTestDB(t)
	rooms := NewRoomService(db)
	a := newPortfolio(t, db, "a@example.com")
	b := newPortfolio(t, db, "b@example.com")
	createRental(t, db, a.owner.OwnerID, a.room.RoomID)

	price := 3500000.0
	updated, err := rooms.Update(ctx, a.owner.OwnerID, a.room.RoomID, RoomUpdateInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 3500000.0, updated.Price)
	assert.False(t, updated.IsAvailable, "editing a room must not release it")

	_, err = rooms.Update(ctx, a.owner.OwnerID, a.room.RoomID, RoomUpdateInput{HouseID: &b.house.HouseID})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = rooms.Update(ctx, b.owner.OwnerID, a.room.RoomID, RoomUpdateInput{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, rooms.Delete(ctx, b.owner.OwnerID, a.room.RoomID), ErrNotFound)
	require.NoError(t, rooms.Delete(ctx, a.owner.OwnerID, a.room.RoomID))
}
