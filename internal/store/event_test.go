package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_RecordRecent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	signs := []string{"namaste", "none", "peace"}
	for i, sign := range signs {
		e := &Event{
			Sign:       sign,
			Previous:   "none",
			Message:    sign,
			Confidence: 0.9,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Record(e))
		assert.NotEmpty(t, e.ID)
	}

	events, err := repo.Recent(2)
	require.NoError(t, err)

	got := make([]string, len(events))
	for i, e := range events {
		got[i] = e.Sign
	}
	if diff := cmp.Diff([]string{"peace", "none"}, got); diff != "" {
		t.Errorf("Recent(2) mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, events[0].CreatedAt.Equal(base.Add(2*time.Second)))
	assert.Equal(t, 0.9, events[0].Confidence)
}

func TestEventRepository_DefaultLimit(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	for i := 0; i < DefaultEventLimit+5; i++ {
		require.NoError(t, repo.Record(&Event{Sign: "ok", Previous: "none"}))
	}

	events, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Len(t, events, DefaultEventLimit)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, DefaultEventLimit+5, n)
}

func TestEventRepository_Prune(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Record(&Event{Sign: "ok", Previous: "none", CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	deleted, err := repo.Prune(3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)

	events, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.True(t, events[2].CreatedAt.Equal(base.Add(7*time.Minute)))
}
