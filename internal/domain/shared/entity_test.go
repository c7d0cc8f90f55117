package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
	assert.WithinDuration(t, time.Now(), e.CreatedAt, time.Second)
}

func TestBaseEntityTouch(t *testing.T) {
	e := NewBaseEntity()
	created := e.CreatedAt

	e.UpdatedAt = e.UpdatedAt.Add(-time.Minute)
	e.Touch()

	assert.True(t, e.UpdatedAt.After(created.Add(-time.Second)))
	assert.Equal(t, created, e.CreatedAt, "Touch must not move CreatedAt")
	assert.WithinDuration(t, time.Now(), e.UpdatedAt, time.Second)
}
