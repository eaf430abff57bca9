package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPotOdds(t *testing.T) {
	assert.InDelta(t, 0.25, PotOdds(6, 2), 1e-12)
	assert.InDelta(t, 1.0/3, PotOdds(10, 5), 1e-12)
	assert.Equal(t, 1.0, PotOdds(0, 3))
	assert.Zero(t, PotOdds(10, 0))
	assert.Zero(t, PotOdds(10, -1))
}
