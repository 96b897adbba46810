package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorKinds(t *testing.T) {
	err := notFound("house")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "house not found", err.Error())

	wrapped := fmt.Errorf("outer: %w", conflictf("room %s is not available", "101"))
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("create: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a' for key 'email'"})))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, isDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`)))
	assert.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1452, Message: "foreign key"}))
	assert.False(t, isDuplicateKey(nil))
}

func TestLookupErr(t *testing.T) {
	assert.ErrorIs(t, lookupErr(gorm.ErrRecordNotFound, "room"), ErrNotFound)

	boom := errors.New("connection reset")
	err := lookupErr(boom, "room")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}
