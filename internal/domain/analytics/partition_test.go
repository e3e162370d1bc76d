package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stamped struct {
	id int
	at time.Time
}

func stampedAt(s stamped) time.Time { return s.at }

func TestPartitionBy_Boundaries(t *testing.T) {
	period := ResolvePeriod("30d", testNow)
	records := []stamped{
		{id: 1, at: period.Current.Start},
		{id: 2, at: period.Previous.Start},
		{id: 3, at: period.Previous.Start.Add(-time.Nanosecond)},
		{id: 4, at: period.Current.Start.Add(-time.Nanosecond)},
		{id: 5, at: daysAgo(1)},
	}

	p := PartitionBy(records, period, stampedAt)

	assert.Equal(t, []stamped{records[0], records[4]}, p.Current)
	assert.Equal(t, []stamped{records[1], records[3]}, p.Previous)
	assert.Equal(t, records, p.All)
}

func TestPartitionBy_WindowsAreDisjointSubsets(t *testing.T) {
	for _, token := range []string{"7d", "30d", "90d", "1y"} {
		t.Run(token, func(t *testing.T) {
			period := ResolvePeriod(token, testNow)

			var records []stamped
			for i := 0; i < 800; i++ {
				records = append(records, stamped{id: i, at: testNow.Add(-time.Duration(i) * 11 * time.Hour)})
			}

			p := PartitionBy(records, period, stampedAt)

			all := make(map[int]bool, len(p.All))
			for _, r := range p.All {
				all[r.id] = true
			}
			current := make(map[int]bool, len(p.Current))
			for _, r := range p.Current {
				require.True(t, all[r.id])
				current[r.id] = true
			}
			for _, r := range p.Previous {
				require.True(t, all[r.id])
				require.False(t, current[r.id], "record %d in both windows", r.id)
			}
		})
	}
}

func TestPartitionBy_Empty(t *testing.T) {
	p := PartitionBy[stamped](nil, ResolvePeriod("7d", testNow), stampedAt)

	assert.Empty(t, p.Current)
	assert.Empty(t, p.Previous)
	assert.Empty(t, p.All)
}
