package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

func TestEveryBuiltinStageHasLines(t *testing.T) {
	catalogs, err := stages.LoadBuiltinCatalogs()
	require.NoError(t, err)
	require.NotEmpty(t, catalogs)

	p := New()
	for _, catalog := range catalogs {
		for _, spec := range catalog.Stages {
			assert.True(t, p.Has(spec.ID), "%s/%s has no narrative", catalog.Name, spec.ID)
			assert.NotEmpty(t, p.Lines(spec.ID))
		}
	}
}

func TestLinesUnknownStage(t *testing.T) {
	lines := New().Lines("nope")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"nope"`)
}

func TestFigures(t *testing.T) {
	p := New()

	assert.Equal(t, []string{"Risk Hamiltonian:", "  H = 0.1538 * ZI + 0.0358 * IZ"}, p.Lines("hamiltonian"))
	assert.Equal(t, "  [0.1538, 0.0358]", p.Lines("quantum")[1])
	assert.Equal(t, "  [0.21, -0.05, 0.12, 0.03]", p.Lines("pca")[1])

	vqe := p.Lines("vqe")
	require.Len(t, vqe, 3)
	assert.Equal(t, "VQE ground-state energy: -0.1744", vqe[0])
	assert.Equal(t, "  |01>  0.7959", vqe[1])
	assert.Equal(t, "  |00>  0.2041", vqe[2])

	forecast := strings.Join(p.Lines("forecast"), "\n")
	assert.Contains(t, forecast, "79.59%")
	assert.Contains(t, forecast, "Manual review, request OTP")
}

func TestFraudRing(t *testing.T) {
	d := Default()
	assert.Equal(t, int64(18800), d.RingTotal())
	assert.Len(t, d.FlaggedAccounts(), 4)

	lines := New().Lines("fraud-ring")
	assert.Equal(t, "  TX-1001  12:03 PM  C11475 -> C99882  $5,000", lines[1])
	assert.Equal(t, "$18,800 moved through 4 hops in 3 minutes.", lines[len(lines)-1])
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.PCAVector[0] = 99
	assert.Equal(t, 0.21, Default().PCAVector[0])
}
