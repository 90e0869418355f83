package compliance

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseline/internal/domain"
)

var received = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func TestTrackUrgentNearDeadline(t *testing.T) {
	// 70 of 72 hours used: critical but still compliant.
	status := Track(received, domain.UrgencyUrgent, received.Add(70*time.Hour))

	assert.Equal(t, LevelCritical, status.Status)
	assert.True(t, status.Compliant)
	assert.InDelta(t, 97.2, status.PercentUsed, 0.05)
	assert.Equal(t, 2*time.Hour, status.TimeRemaining)
	assert.Equal(t, received.Add(WindowExpedited), status.Deadline)
}

func TestTrackWindowByUrgency(t *testing.T) {
	assert.Equal(t, WindowStandard, Window(domain.UrgencyRoutine))
	assert.Equal(t, WindowExpedited, Window(domain.UrgencyUrgent))
	assert.Equal(t, WindowExpedited, Window(domain.UrgencyEmergent))
}

func TestTrackEscalationLevels(t *testing.T) {
	tests := []struct {
		name    string
		urgency domain.Urgency
		elapsed time.Duration
		want    Level
	}{
		{"fresh standard case", domain.UrgencyRoutine, time.Hour, LevelSafe},
		{"standard past 70 percent", domain.UrgencyRoutine, 120 * time.Hour, LevelWarning},
		{"standard within 72h remaining", domain.UrgencyRoutine, 100 * time.Hour, LevelWarning},
		{"standard past 85 percent", domain.UrgencyRoutine, 145 * time.Hour, LevelCritical},
		{"standard within 24h remaining", domain.UrgencyRoutine, 146 * time.Hour, LevelCritical},
		{"standard exceeded", domain.UrgencyRoutine, 169 * time.Hour, LevelExceeded},
		{"fresh urgent case", domain.UrgencyUrgent, time.Hour, LevelSafe},
		{"urgent past 70 percent", domain.UrgencyUrgent, 51 * time.Hour, LevelWarning},
		{"urgent past 85 percent", domain.UrgencyUrgent, 62 * time.Hour, LevelCritical},
		{"urgent within 12h remaining", domain.UrgencyUrgent, 61 * time.Hour, LevelCritical},
		{"urgent exceeded", domain.UrgencyUrgent, 73 * time.Hour, LevelExceeded},
		{"exceeded exactly at deadline", domain.UrgencyUrgent, 72 * time.Hour, LevelExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := Track(received, tt.urgency, received.Add(tt.elapsed))
			assert.Equal(t, tt.want, status.Status)
			assert.Equal(t, tt.want != LevelExceeded, status.Compliant)
		})
	}
}

func TestTrackExceededFloorsRemaining(t *testing.T) {
	status := Track(received, domain.UrgencyRoutine, received.Add(200*time.Hour))

	assert.Equal(t, LevelExceeded, status.Status)
	assert.False(t, status.Compliant)
	assert.Equal(t, time.Duration(0), status.TimeRemaining)
	assert.Greater(t, status.PercentUsed, 100.0, "percent used keeps counting past the deadline")
}

func TestTrackLevelNeverRegresses(t *testing.T) {
	rank := map[Level]int{LevelSafe: 0, LevelWarning: 1, LevelCritical: 2, LevelExceeded: 3}

	for _, urgency := range []domain.Urgency{domain.UrgencyRoutine, domain.UrgencyUrgent} {
		prev := LevelSafe
		for elapsed := time.Duration(0); elapsed <= 180*time.Hour; elapsed += 30 * time.Minute {
			status := Track(received, urgency, received.Add(elapsed))
			require.GreaterOrEqual(t, rank[status.Status], rank[prev],
				"level regressed from %s to %s at %s elapsed (%s)", prev, status.Status, elapsed, urgency)
			prev = status.Status
		}
	}
}

func TestTrackerRemembersLastPoll(t *testing.T) {
	tracker := NewTracker(received, domain.UrgencyUrgent)
	assert.Equal(t, received.Add(WindowExpedited), tracker.Deadline())

	at := received.Add(10 * time.Hour)
	status := tracker.Poll(at)
	assert.Equal(t, LevelSafe, status.Status)

	polledAt, last := tracker.LastPolled()
	assert.Equal(t, at, polledAt)
	assert.Equal(t, status, last)
}

func TestTrackerConcurrentPolls(t *testing.T) {
	// The compliance endpoint and the review pipeline poll the same
	// tracker; interleaved polls and reads must stay race free.
	tracker := NewTracker(received, domain.UrgencyUrgent)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				at := received.Add(time.Duration(offset*200+i) * time.Minute)
				tracker.Poll(at)
				tracker.LastPolled()
			}
		}(g)
	}
	wg.Wait()

	polledAt, last := tracker.LastPolled()
	require.False(t, polledAt.IsZero())
	assert.Equal(t, Track(received, domain.UrgencyUrgent, polledAt), last)
}
