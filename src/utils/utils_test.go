package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 5, OrDefault(5, 10))
	assert.Equal(t, 10, OrDefault(0, 10))
	assert.Equal(t, "custom", OrDefault("custom", "default"))
	assert.Equal(t, "default", OrDefault("", "default"))
}

func TestRecoverPanicAsError(t *testing.T) {
	doPanic := func() (err error) {
		defer RecoverPanicAsError(&err)
		panic(errors.New("oh no"))
	}
	assert.ErrorContains(t, doPanic(), "oh no")
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SleepContext(ctx, time.Minute)
	assert.ErrorIs(t, err, ErrSleepInterrupted)

	assert.Nil(t, SleepContext(context.Background(), time.Millisecond))
}
