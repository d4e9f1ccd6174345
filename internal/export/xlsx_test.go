package export

import (
	"bytes"
	"testing"
	"time"

	"roundrobin-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteStandings(t *testing.T) {
	standings := []domain.Standing{
		{
			Player: domain.Player{
				Username: "alice", Wins: 3, Losses: 1, FirstBloodWins: 2, FarmWins: 1,
				TotalKills: 2, TotalFarm: 40, TotalWinTime: 27 * time.Minute,
			},
			SeriesPlayed: 2,
			SeriesWins:   2,
		},
		{Player: domain.Player{Username: "bob"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStandings(&buf, standings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{standingsSheet}, f.GetSheetList())

	rows, err := f.GetRows(standingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, []string{"1", "alice", "2", "2", "0", "3", "1", "75.0", "2", "1", "2", "40", "09:00"}, rows[1])
	assert.Equal(t, "bob", rows[2][1])
	assert.Equal(t, "00:00", rows[2][12])
}
