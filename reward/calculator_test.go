// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var defaultConfig = Config{
	ProposerReward: 10,
	AttesterReward: 1,
	Decay:          0,
	MaxScore:       1000,
}

func TestScores(t *testing.T) {
	tests := []struct {
		name             string
		cfg              Config
		current          uint64
		expectedProposal uint64
		expectedAttest   uint64
	}{
		{
			name:             "no decay",
			cfg:              defaultConfig,
			current:          100,
			expectedProposal: 110,
			expectedAttest:   101,
		},
		{
			name: "decay applies before reward",
			cfg: Config{
				ProposerReward: 10,
				AttesterReward: 1,
				Decay:          5,
				MaxScore:       1000,
			},
			current:          100,
			expectedProposal: 105,
			expectedAttest:   96,
		},
		{
			name: "decay floors at zero",
			cfg: Config{
				ProposerReward: 10,
				AttesterReward: 1,
				Decay:          50,
				MaxScore:       1000,
			},
			current:          3,
			expectedProposal: 10,
			expectedAttest:   1,
		},
		{
			name:             "clamped at max score",
			cfg:              defaultConfig,
			current:          995,
			expectedProposal: 1000,
			expectedAttest:   996,
		},
		{
			name: "increment overflow clamps",
			cfg: Config{
				ProposerReward: math.MaxUint64,
				AttesterReward: 1,
				MaxScore:       math.MaxUint64,
			},
			current:          2,
			expectedProposal: math.MaxUint64,
			expectedAttest:   3,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			c := NewCalculator(test.cfg)
			require.Equal(test.expectedProposal, c.ScoreAfterProposal(test.current))
			require.Equal(test.expectedAttest, c.ScoreAfterAttestation(test.current))
		})
	}
}

func TestDeterminism(t *testing.T) {
	require := require.New(t)
	c := NewCalculator(defaultConfig)
	for i := 0; i < 100; i++ {
		require.Equal(c.ScoreAfterProposal(42), c.ScoreAfterProposal(42))
	}
}
