package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewardPoints(t *testing.T) {
	assert.Equal(t, uint32(0), RewardPoints(0, 0))
	assert.Equal(t, uint32(10), RewardPoints(1, 0))
	assert.Equal(t, uint32(5), RewardPoints(0, 1))
	assert.Equal(t, uint32(35), RewardPoints(3, 1))
	assert.Equal(t, uint32(0), RewardPoints(-2, -4), "negative counts clamp to zero")
}

func TestTierForPoints(t *testing.T) {
	cases := []struct {
		points uint32
		tier   string
	}{
		{0, TierNone},
		{19, TierNone},
		{20, TierBronze},
		{59, TierBronze},
		{60, TierSilver},
		{119, TierSilver},
		{120, TierGold},
		{500, TierGold},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tier, TierForPoints(tc.points), "points=%d", tc.points)
	}
}
