package events

import (
	"context"
	"errors"
	"testing"

	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []models.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, event models.Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestMultiPublishesToEverySink(t *testing.T) {
	failing := &recorder{err: errors.New("broker down")}
	ok := &recorder{}

	event := New(models.EventTransactionCreated, "user-1", models.KindIncome, nil)
	err := Multi{failing, ok, Nop{}}.Publish(context.Background(), event)

	assert.NoError(t, err)
	assert.Len(t, failing.events, 1)
	if assert.Len(t, ok.events, 1) {
		assert.Equal(t, "user-1", ok.events[0].UserUUID)
		assert.Equal(t, models.KindIncome, ok.events[0].Kind)
		assert.NotEmpty(t, ok.events[0].ID)
		assert.False(t, ok.events[0].CreatedAt.IsZero())
	}
}
