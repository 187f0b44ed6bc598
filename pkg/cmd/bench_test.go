package cmd

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarkRun(t *testing.T) {
	b := &benchmark{
		n:        2_000,
		keyRange: 500,
		rnd:      rand.New(rand.NewSource(1)),
	}

	report, err := b.run()
	require.NoError(t, err)
	require.Len(t, report.Phases, 3)

	for _, p := range report.Phases {
		assert.Len(t, p.Latencies, 2_000, p.Name)
	}

	assert.Equal(t, 0, report.Phases[0].Misses)
	assert.Equal(t, 0, report.Phases[2].Misses)
	assert.Equal(t, 2_000, report.PeakLen)
	assert.Equal(t, int64(2_000), report.Stats.Alloc)
	assert.Equal(t, int64(2_000), report.Stats.Free)

	var buf bytes.Buffer
	report.Render(&buf, 1)
	assert.Contains(t, buf.String(), "insert")
	assert.Contains(t, buf.String(), "delete")
}
