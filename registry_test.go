package runloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegistry(t *testing.T) {
	testCases := []struct {
		description string
		names       []string
		expectErr   bool
	}{
		{
			description: "ordered queues",
			names:       []string{"sync", "actions", "render"},
		},
		{
			description: "single queue",
			names:       []string{"actions"},
		},
		{
			description: "no queues",
			names:       nil,
			expectErr:   true,
		},
		{
			description: "duplicate queue",
			names:       []string{"actions", "actions"},
			expectErr:   true,
		},
		{
			description: "empty queue name",
			names:       []string{"actions", ""},
			expectErr:   true,
		},
	}

	for _, tc := range testCases {
		reg, err := newRegistry(tc.names)
		if tc.expectErr {
			assert.Error(t, err, tc.description)
			continue
		}
		assert.NoError(t, err, tc.description)
		assert.Equal(t, len(tc.names), reg.size(), tc.description)
		for i, name := range tc.names {
			index, err := reg.indexOf(name)
			assert.NoError(t, err, tc.description)
			assert.Equal(t, i, index, tc.description)
		}
	}
}

func TestRegistryIndexOfUnknown(t *testing.T) {
	reg, err := newRegistry([]string{"actions", "render"})
	assert.NoError(t, err)

	_, err = reg.indexOf("teardown")
	assert.Error(t, err)
	var unknown *UnknownQueueError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "teardown", unknown.Queue)
}
