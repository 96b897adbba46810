package services

import (
	"testing"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceInput(rrID uint) InvoiceInput {
	return InvoiceInput{
		RRID:             rrID,
		Price:            3000000,
		WaterPrice:       80000,
		InternetPrice:    100000,
		GeneralPrice:     100000,
		ElectricityPrice: 175000,
		DueDate:          "2024-02-05",
	}
}

func TestInvoiceCreate(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceService(db)
	a := newPortfolio(t, db, "a@example.com")
	b := newPortfolio(t, db, "b@example.com")
	rrA := createRental(t, db, a.owner.OwnerID, a.room.RoomID)

	inv, err := invoices.Create(ctx, a.owner.OwnerID, invoiceInput(rrA.RRID))
	require.NoError(t, err)
	assert.False(t, inv.IsPaid)
	assert.Nil(t, inv.PaymentDate)
	assert.Equal(t, 3455000.0, inv.TotalAmount)

	_, err = invoices.Create(ctx, b.owner.OwnerID, invoiceInput(rrA.RRID))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = invoices.Get(ctx, b.owner.OwnerID, inv.InvoiceID)
	assert.ErrorIs(t, err, ErrNotFound)

	paid := invoiceInput(rrA.RRID)
	paid.IsPaid = true
	created, err := invoices.Create(ctx, a.owner.OwnerID, paid)
	require.NoError(t, err)
	require.NotNil(t, created.PaymentDate, "paid invoices always carry a payment date")

	bad := invoiceInput(rrA.RRID)
	bad.DueDate = "tomorrow"
	_, err = invoices.Create(ctx, a.owner.OwnerID, bad)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestInvoiceMarkPaid(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceService(db)
	p := newPortfolio(t, db, "a@example.com")
	rr := createRental(t, db, p.owner.OwnerID, p.room.RoomID)
	inv, err := invoices.Create(ctx, p.owner.OwnerID, invoiceInput(rr.RRID))
	require.NoError(t, err)

	paid, err := invoices.MarkPaid(ctx, p.owner.OwnerID, inv.InvoiceID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaymentDate)
	assert.WithinDuration(t, inv.CreatedAt, *paid.PaymentDate, time.Second)
	firstPaidAt := *paid.PaymentDate

	again, err := invoices.MarkPaid(ctx, p.owner.OwnerID, inv.InvoiceID)
	require.NoError(t, err)
	assert.True(t, again.IsPaid)
	require.NotNil(t, again.PaymentDate)
	assert.True(t, firstPaidAt.Equal(*again.PaymentDate))

	other := createOwner(t, db, "b@example.com")
	_, err = invoices.MarkPaid(ctx, other.OwnerID, inv.InvoiceID)
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := invoices.ListPending(ctx, p.owner.OwnerID, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestInvoiceUpdate(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceService(db)
	p := newPortfolio(t, db, "a@example.com")
	rr := createRental(t, db, p.owner.OwnerID, p.room.RoomID)
	inv, err := invoices.Create(ctx, p.owner.OwnerID, invoiceInput(rr.RRID))
	require.NoError(t, err)

	electricity := 210000.0
	updated, err := invoices.Update(ctx, p.owner.OwnerID, inv.InvoiceID, InvoiceUpdateInput{ElectricityPrice: &electricity})
	require.NoError(t, err)
	assert.Equal(t, 210000.0, updated.ElectricityPrice)
	assert.Equal(t, 3490000.0, updated.TotalAmount)

	yes, no := true, false
	updated, err = invoices.Update(ctx, p.owner.OwnerID, inv.InvoiceID, InvoiceUpdateInput{IsPaid: &yes})
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentDate)

	_, err = invoices.Update(ctx, p.owner.OwnerID, inv.InvoiceID, InvoiceUpdateInput{IsPaid: &no})
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, invoices.Delete(ctx, p.owner.OwnerID, inv.InvoiceID))
	_, err = invoices.Get(ctx, p.owner.OwnerID, inv.InvoiceID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateMonthlyBatch(t *testing.T) {
	db := newTestDB(t)
	invoices := NewInvoiceService(db)
	invoices.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }

	a := newPortfolio(t, db, "a@example.com")
	second := createRoom(t, db, a.owner.OwnerID, a.house.HouseID, "102", 2500000, 1)
	third := createRoom(t, db, a.owner.OwnerID, a.house.HouseID, "103", 2000000, 1)
	createRental(t, db, a.owner.OwnerID, a.room.RoomID)
	createRental(t, db, a.owner.OwnerID, second.RoomID)
	ended := createRental(t, db, a.owner.OwnerID, third.RoomID)
	_, err := NewRentalService(db).Terminate(ctx, a.owner.OwnerID, ended.RRID)
	require.NoError(t, err)

	b := newPortfolio(t, db, "b@example.com")
	createRental(t, db, b.owner.OwnerID, b.room.RoomID)

	n, err := invoices.CreateMonthlyBatch(ctx, a.owner.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := invoices.List(ctx, a.owner.OwnerID, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, inv := range list {
		assert.Equal(t, float64(models.BatchWaterPrice), inv.WaterPrice)
		assert.Equal(t, float64(models.BatchInternetPrice), inv.InternetPrice)
		assert.Equal(t, float64(models.BatchGeneralPrice), inv.GeneralPrice)
		assert.Equal(t, float64(models.BatchElectricityPrice), inv.ElectricityPrice)
		assert.Equal(t, "2024-04-09", time.Time(inv.DueDate).Format(utils.DateLayout))
		assert.False(t, inv.IsPaid)
		assert.NotEqual(t, ended.RRID, inv.RRID)
	}

	// The batch is not idempotent: a second run bills again.
	n, err = invoices.CreateMonthlyBatch(ctx, a.owner.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	list, err = invoices.List(ctx, a.owner.OwnerID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	otherList, err := invoices.List(ctx, b.owner.OwnerID, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, otherList)

	empty := createOwner(t, db, "c@example.com")
	n, err = invoices.CreateMonthlyBatch(ctx, empty.OwnerID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
