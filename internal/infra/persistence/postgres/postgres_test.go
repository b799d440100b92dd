package postgres

import (
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolWaitBetween(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prev    sql.DBStats
		cur     sql.DBStats
		waited  bool
		average time.Duration
		level   slog.Level
	}{
		{
			name: "no new waits",
			prev: sql.DBStats{WaitCount: 4, WaitDuration: time.Second},
			cur:  sql.DBStats{WaitCount: 4, WaitDuration: time.Second},
		},
		{
			name:    "short waits stay at debug",
			prev:    sql.DBStats{WaitCount: 1, WaitDuration: 5 * time.Millisecond},
			cur:     sql.DBStats{WaitCount: 3, WaitDuration: 25 * time.Millisecond},
			waited:  true,
			average: 10 * time.Millisecond,
			level:   slog.LevelDebug,
		},
		{
			name:    "long waits warn",
			prev:    sql.DBStats{},
			cur:     sql.DBStats{WaitCount: 2, WaitDuration: 200 * time.Millisecond},
			waited:  true,
			average: 100 * time.Millisecond,
			level:   slog.LevelWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wait, ok := poolWaitBetween(tt.prev, tt.cur)
			assert.Equal(t, tt.waited, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.average, wait.average())
			assert.Equal(t, tt.level, wait.level())
			assert.Len(t, wait.attrs(), 7)
		})
	}
}
