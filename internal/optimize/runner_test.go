package optimize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/codon-optimizer/internal/codon"
	"github.com/inodb/codon-optimizer/internal/metrics"
	"github.com/inodb/codon-optimizer/internal/usage"
)

func TestRunner_PreservesOrder(t *testing.T) {
	code := codon.Standard()
	original := codon.Sequence{"ATG", "GCT", "TGT", "CTT", "AAA", "TAA"}
	organisms := []string{"h_sapiens_9606", "unknown_1", "m_musculus_10090"}

	for _, workers := range []int{1, 3} {
		r := NewRunner(NewOptimizer(code, DefaultConstraints(), DefaultOptions()), usage.Builtin(code))
		r.SetWorkers(workers)

		results, err := r.Run(context.Background(), original, original, organisms)
		require.NoError(t, err)
		require.Len(t, results, len(organisms))

		for i, rr := range results {
			assert.Equal(t, organisms[i], rr.Organism)
		}

		assert.ErrorIs(t, results[1].Err, usage.ErrUnknownOrganism)
		assert.Nil(t, results[1].Result)

		for _, i := range []int{0, 2} {
			rr := results[i]
			require.NoError(t, rr.Err)
			require.NotNil(t, rr.Result)
			requireSameProtein(t, original, rr.Result.Sequence)
			assert.Equal(t, codon.Codon("ATG"), rr.Result.Sequence[0])
			assert.GreaterOrEqual(t, rr.Metrics.CodonMatch, 0.0)
			assert.LessOrEqual(t, rr.Metrics.CodonMatch, 100.0)
		}
	}
}

func TestRunner_ReferenceLengthMismatch(t *testing.T) {
	code := codon.Standard()
	r := NewRunner(NewOptimizer(code, DefaultConstraints(), DefaultOptions()), usage.Builtin(code))

	_, err := r.Run(context.Background(),
		codon.Sequence{"ATG", "TAA"}, codon.Sequence{"ATG"}, []string{"h_sapiens_9606"})
	require.ErrorIs(t, err, metrics.ErrLengthMismatch)
}

func TestRunner_Cancelled(t *testing.T) {
	code := codon.Standard()
	r := NewRunner(NewOptimizer(code, Constraints{GCMin: 0.3, GCMax: 0.84, Window: 6}, DefaultOptions()),
		usage.Builtin(code))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, alaRun(10), alaRun(10), []string{"h_sapiens_9606"})
	require.ErrorIs(t, err, context.Canceled)
}
