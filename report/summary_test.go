package report

import (
	"bytes"
	"testing"

	"github.com/kasuganosora/railsim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	s := sim.Summary{
		Trials: 2,
		Players: []sim.PlayerSummary{
			{
				Name: "Blade", Total: 1000, Average: 500.4,
				Tags: []sim.TagShare{
					{Tag: "Basic ATK Wind", DMG: 250, Percent: 25},
					{Tag: "Ultimate Wind", DMG: 750, Percent: 75},
				},
			},
			{Name: "Dummy1"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, s))
	assert.Equal(t, "Average Results Over 2 trials:\n"+
		"Blade did 500 DMG\n"+
		"Basic ATK Wind: 25.0%; Ultimate Wind: 75.0%\n"+
		"Dummy1 did 0 DMG\n", buf.String())
}

func TestSummary_Aborted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, sim.Summary{Trials: 3, Aborted: 1}))
	assert.Contains(t, buf.String(), "1 trials were aborted\n")
}
