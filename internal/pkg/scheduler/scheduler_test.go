package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsInvalidSpec(t *testing.T) {
	s := New(time.Second)
	err := s.Register("broken", "not a cron spec", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(time.Second)
	ran := make(chan struct{}, 1)

	require.NoError(t, s.Register("tick", "@every 1s", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}
