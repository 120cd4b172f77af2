package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create event: %w", NewValidationError("userId", "Invalid User ID"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrConflict))

	var verr *ValidationError
	if assert.True(t, errors.As(err, &verr)) {
		assert.Equal(t, "userId", verr.Field)
		assert.Equal(t, "Invalid User ID", verr.Error())
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(NewID()))
	assert.True(t, ValidID("507f1f77bcf86cd799439011"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("not-an-id"))
	assert.False(t, ValidID("507f1f77bcf86cd79943901"))
	assert.False(t, ValidID("507f1f77bcf86cd79943901z"))
}

func TestEnumerations(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("owner").Valid())

	for _, et := range EventTypes {
		assert.True(t, et.Valid(), et)
	}
	assert.False(t, EventType("purchase").Valid())
	assert.False(t, EventType("").Valid())
}

func TestEventFilterIsEmpty(t *testing.T) {
	assert.True(t, EventFilter{}.IsEmpty())
	now := Now()
	assert.False(t, EventFilter{StartTime: &now}.IsEmpty())
	assert.False(t, EventFilter{EventType: EventTypeLogin}.IsEmpty())
}

func TestConflictErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("insert user: %w", ErrEmailTaken)

	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, ErrEmailTaken))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "insert user: User already exists", err.Error())
}
