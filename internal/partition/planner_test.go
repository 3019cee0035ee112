package partition

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daolyap/random.daolyap.dev/internal/scheme"
)

func enumScheme(t *testing.T, key string) *scheme.Scheme {
	t.Helper()
	s, ok := scheme.DefaultRegistry().Lookup(key)
	require.True(t, ok)
	require.True(t, s.Enumerable())
	return s
}

func TestPlanRandomHasNoRanges(t *testing.T) {
	s, ok := scheme.DefaultRegistry().Lookup("uuid_v4")
	require.True(t, ok)

	tasks, err := Plan(Random, 4, s, "target", 1000, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	for i, task := range tasks {
		assert.Equal(t, i, task.WorkerID)
		assert.Equal(t, Random, task.Mode)
		assert.Equal(t, "target", task.Target)
		assert.Equal(t, 1000, task.BatchSize)
		assert.Zero(t, task.Range.Len())
		assert.Nil(t, task.Slice)
	}
}

func TestPlanSequentialOTP6ThreeWorkers(t *testing.T) {
	tasks, err := Plan(Sequential, 3, enumScheme(t, "otp_6"), "123456", 1000, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, Range{0, 333334}, tasks[0].Range)
	assert.Equal(t, Range{333334, 666668}, tasks[1].Range)
	assert.Equal(t, Range{666668, 1000000}, tasks[2].Range)
}

func TestPlanSequentialCoversExactly(t *testing.T) {
	for _, key := range []string{"coin", "dice", "otp_4", "otp_6", "hex_color", "date"} {
		s := enumScheme(t, key)
		total := s.Enum.TotalCount()

		for workers := 1; workers <= 16; workers++ {
			t.Run(fmt.Sprintf("%s/%d", key, workers), func(t *testing.T) {
				tasks, err := Plan(Sequential, workers, s, "x", 100, nil)
				require.NoError(t, err)
				require.Len(t, tasks, workers)

				var covered uint64
				var prevEnd uint64
				for i, task := range tasks {
					r := task.Range
					assert.Equal(t, prevEnd, r.Start, "worker %d range must start where the previous one ended", i)
					assert.LessOrEqual(t, r.Start, r.End)
					covered += r.Len()
					prevEnd = r.End
				}
				assert.Equal(t, total, covered)
				assert.Equal(t, total, prevEnd)
			})
		}
	}
}

func TestPlanSequentialNeedsEnumerator(t *testing.T) {
	s, ok := scheme.DefaultRegistry().Lookup("uuid_v4")
	require.True(t, ok)

	_, err := Plan(Sequential, 2, s, "x", 100, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedMode))
}

func TestPlanWordlistCoversInOrder(t *testing.T) {
	words := make([]string, 103)
	for i := range words {
		words[i] = fmt.Sprintf("word-%03d", i)
	}

	for workers := 1; workers <= 16; workers++ {
		tasks, err := Plan(Wordlist, workers, nil, "x", 100, words)
		require.NoError(t, err)

		var joined []string
		for _, task := range tasks {
			joined = append(joined, task.Slice...)
		}
		assert.Equal(t, words, joined, "workers=%d", workers)
	}
}

func TestPlanWordlistMoreWorkersThanWords(t *testing.T) {
	tasks, err := Plan(Wordlist, 16, nil, "x", 100, []string{"only", "two"})
	require.NoError(t, err)

	assert.Len(t, tasks[0].Slice, 1)
	assert.Len(t, tasks[1].Slice, 1)
	for _, task := range tasks[2:] {
		assert.Empty(t, task.Slice)
	}
}

func TestPlanWordlistRejectsEmpty(t *testing.T) {
	_, err := Plan(Wordlist, 4, nil, "x", 100, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyWordlist))
}

func TestPlanRejectsBadWorkerCount(t *testing.T) {
	_, err := Plan(Random, 0, nil, "x", 100, nil)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Mode
	}{
		{"random", Random},
		{"sequential", Sequential},
		{"wordlist", Wordlist},
	} {
		got, err := ParseMode(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}

	_, err := ParseMode("bogus")
	assert.Error(t, err)
}
