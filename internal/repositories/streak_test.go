package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/myrtti/sightline/internal/repositories"
	"github.com/myrtti/sightline/internal/screening"
	"github.com/stretchr/testify/require"
)

func TestStreakRepository_CurrentStreak(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name        string
		completions []time.Time
		want        int
	}{
		{
			name:        "no completions",
			completions: nil,
			want:        0,
		},
		{
			name:        "single completion today",
			completions: []time.Time{now.Add(-2 * time.Hour)},
			want:        1,
		},
		{
			name: "three consecutive days",
			completions: []time.Time{
				now.Add(-2 * day),
				now.Add(-1 * day),
				now.Add(-2 * time.Hour),
			},
			want: 3,
		},
		{
			name: "yesterday keeps the streak alive",
			completions: []time.Time{
				now.Add(-2 * day),
				now.Add(-1 * day),
			},
			want: 2,
		},
		{
			name: "gap breaks the streak",
			completions: []time.Time{
				now.Add(-4 * day),
				now.Add(-3 * day),
			},
			want: 0,
		},
		{
			name: "gap in history truncates the count",
			completions: []time.Time{
				now.Add(-5 * day),
				now.Add(-1 * day),
				now.Add(-2 * time.Hour),
			},
			want: 2,
		},
		{
			name: "multiple completions per day count once",
			completions: []time.Time{
				now.Add(-1 * day),
				now.Add(-25 * time.Hour),
				now.Add(-2 * time.Hour),
				now.Add(-1 * time.Hour),
			},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbs := newTestDB(t)
			repo := repositories.NewStreakRepository(dbs, discardLogger())
			ctx := context.Background()

			for _, completedAt := range tt.completions {
				require.NoError(t, repo.RecordCompletion(ctx, []byte{1}, screening.TestTypeColorVision, completedAt))
			}

			streak, err := repo.CurrentStreak(ctx, []byte{1}, now)
			require.NoError(t, err)
			require.Equal(t, tt.want, streak)
		})
	}
}
