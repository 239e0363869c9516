package runloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/runloop/policy"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
queues:
  - sync
  - actions
  - render
maxSweeps: 50
turn: timer
policy:
  mode: warn
  block:
    - render
`)
	config, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"sync", "actions", "render"}, config.Queues)
	assert.Equal(t, 50, config.MaxSweeps)
	assert.Equal(t, TurnTimer, config.Turn)
	require.NotNil(t, config.Policy)
	assert.Equal(t, policy.ModeWarn, config.Policy.Mode)
	assert.Equal(t, []string{"render"}, config.Policy.BlockList)
	assert.NoError(t, config.Validate())
}

func TestParseConfigDefaults(t *testing.T) {
	config, err := ParseConfig([]byte(`queues: [actions]`))
	require.NoError(t, err)
	assert.Equal(t, 1000, config.MaxSweeps)
	assert.Equal(t, TurnMicrotask, config.Turn)
	assert.Nil(t, config.Policy)
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		description string
		config      *Config
		expectErr   bool
	}{
		{
			description: "valid",
			config:      &Config{Queues: []string{"actions"}, MaxSweeps: 10, Turn: TurnMicrotask},
		},
		{
			description: "empty turn falls back to default",
			config:      &Config{Queues: []string{"actions"}, MaxSweeps: 10},
		},
		{
			description: "nil config",
			config:      nil,
			expectErr:   true,
		},
		{
			description: "missing queues",
			config:      &Config{MaxSweeps: 10},
			expectErr:   true,
		},
		{
			description: "non-positive maxSweeps",
			config:      &Config{Queues: []string{"actions"}},
			expectErr:   true,
		},
		{
			description: "unsupported turn vendor",
			config:      &Config{Queues: []string{"actions"}, MaxSweeps: 10, Turn: "idle"},
			expectErr:   true,
		},
	}

	for _, tc := range testCases {
		err := tc.config.Validate()
		if tc.expectErr {
			assert.Error(t, err, tc.description)
			continue
		}
		assert.NoError(t, err, tc.description)
	}
}

func TestNewWithConfig(t *testing.T) {
	config, err := ParseConfig([]byte(`{queues: [actions, render], maxSweeps: 5}`))
	require.NoError(t, err)
	s, err := New(WithConfig(config))
	require.NoError(t, err)
	assert.Equal(t, []string{"actions", "render"}, s.Queues())
	assert.NotEmpty(t, s.ID())
}

func TestNewRequiresQueues(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}
