package xmeal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapStoreError(t *testing.T) {
	assert.NoError(t, WrapStoreError("op", nil))

	notFound := fmt.Errorf("lookup: %w", ErrOrderNotFound)
	assert.Same(t, notFound, WrapStoreError("order", notFound))

	raw := errors.New("connection reset")
	err := WrapStoreError("menu_items", raw)
	var dbErr *DatabaseError
	assert.ErrorAs(t, err, &dbErr)
	assert.Equal(t, "menu_items", dbErr.Op)
	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, raw)
	assert.Equal(t, "database error: menu_items: connection reset", err.Error())

	assert.Same(t, err, WrapStoreError("again", err))
}
