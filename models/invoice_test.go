package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestInvoiceTotal(t *testing.T) {
	inv := Invoice{Price: 3000000, WaterPrice: 100000, InternetPrice: 200000, GeneralPrice: 50000, ElectricityPrice: 150000}
	assert.Equal(t, float64(3500000), inv.Total())
}

func TestInvoiceBeforeSavePaymentDate(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tx := &gorm.DB{Config: &gorm.Config{NowFunc: func() time.Time { return fixed }}}

	t.Run("unpaid invoice keeps empty payment date", func(t *testing.T) {
		inv := &Invoice{}
		require.NoError(t, inv.BeforeSave(tx))
		assert.Nil(t, inv.PaymentDate)
	})

	t.Run("paid invoice defaults to creation time", func(t *testing.T) {
		created := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
		inv := &Invoice{IsPaid: true, CreatedAt: created}
		require.NoError(t, inv.BeforeSave(tx))
		require.NotNil(t, inv.PaymentDate)
		assert.Equal(t, created, *inv.PaymentDate)
	})

	t.Run("paid invoice not yet created uses now", func(t *testing.T) {
		inv := &Invoice{IsPaid: true}
		require.NoError(t, inv.BeforeSave(tx))
		require.NotNil(t, inv.PaymentDate)
		assert.Equal(t, fixed, *inv.PaymentDate)
	})

	t.Run("existing payment date is kept", func(t *testing.T) {
		paid := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
		inv := &Invoice{IsPaid: true, PaymentDate: &paid, CreatedAt: fixed}
		require.NoError(t, inv.BeforeSave(tx))
		assert.Equal(t, paid, *inv.PaymentDate)
	})
}
