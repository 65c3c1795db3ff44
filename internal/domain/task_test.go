package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskPatchApplyOnlySetFields(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	orig := Task{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Name:        "A",
		Description: "B",
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	desc := "C"
	got := TaskPatch{Description: &desc}.Apply(orig)

	assert.Equal(t, "A", got.Name)
	assert.Equal(t, "C", got.Description)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.UserID, got.UserID)
	assert.Equal(t, "B", orig.Description, "original must not change")
}

func TestTaskPatchApplyCompletedAtIsCopied(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	got := TaskPatch{CompletedAt: &at}.Apply(Task{Name: "x"})

	at = at.Add(time.Hour)
	if assert.NotNil(t, got.CompletedAt) {
		assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *got.CompletedAt)
	}
}

func TestTaskPatchIsEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.IsEmpty())
	n := "x"
	assert.False(t, TaskPatch{Name: &n}.IsEmpty())
}

func TestTaskOwnedBy(t *testing.T) {
	owner := User{ID: uuid.New()}
	task := Task{UserID: owner.ID}
	assert.True(t, task.OwnedBy(owner))
	assert.False(t, task.OwnedBy(User{ID: uuid.New()}))
}
