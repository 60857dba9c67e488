package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolStrategy_CountRoundTrip(t *testing.T) {
	var s PoolStrategy
	for i, c := range Categories {
		s.SetCount(c, i+1)
	}
	for i, c := range Categories {
		assert.Equal(t, i+1, s.Count(c))
	}
	assert.Equal(t, 15, s.Total())
}

func TestPoolStrategy_Validate(t *testing.T) {
	s := PoolStrategy{ConfidenceBuilders: 7, SkillDevelopment: 2, ProgressiveChallenge: 1}
	assert.NoError(t, s.Validate(10))
	assert.Error(t, s.Validate(9))

	s.SkillDevelopment = -1
	assert.Error(t, s.Validate(6))
}

func TestPoolStrategy_NormalizeFillsShortfall(t *testing.T) {
	s := PoolStrategy{ConfidenceBuilders: 3, SkillDevelopment: 2}
	s.Normalize(10)
	require.NoError(t, s.Validate(10))
	assert.GreaterOrEqual(t, s.ConfidenceBuilders, 3, "remainder goes to the largest bucket")
}

func TestPoolStrategy_NormalizeClampsNegatives(t *testing.T) {
	s := PoolStrategy{ConfidenceBuilders: 12, SkillDevelopment: -2}
	s.Normalize(10)
	require.NoError(t, s.Validate(10))
	assert.GreaterOrEqual(t, s.SkillDevelopment, 0)
}
