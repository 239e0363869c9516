package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_AutorunAllowed(t *testing.T) {
	var nilPolicy *Policy
	assert.True(t, nilPolicy.AutorunAllowed())
	assert.True(t, (&Policy{}).AutorunAllowed())
	assert.True(t, (&Policy{Mode: ModeWarn}).AutorunAllowed())
	assert.False(t, (&Policy{Mode: ModeFail}).AutorunAllowed())
	assert.False(t, (&Policy{Mode: "FAIL"}).AutorunAllowed())
}

func TestPolicy_ShouldWarn(t *testing.T) {
	var nilPolicy *Policy
	assert.False(t, nilPolicy.ShouldWarn())
	assert.False(t, (&Policy{Mode: ModeWarn}).ShouldWarn())

	warn := func(queue string, instanceID uint64) {}
	assert.True(t, (&Policy{Mode: ModeWarn, Warn: warn}).ShouldWarn())
	assert.False(t, (&Policy{Mode: ModeAllow, Warn: warn}).ShouldWarn())
}

func TestPolicy_IsAllowed(t *testing.T) {
	testCases := []struct {
		description string
		policy      *Policy
		queue       string
		expect      bool
	}{
		{
			description: "nil policy allows everything",
			policy:      nil,
			queue:       "actions",
			expect:      true,
		},
		{
			description: "empty lists allow everything",
			policy:      &Policy{},
			queue:       "actions",
			expect:      true,
		},
		{
			description: "block list denies",
			policy:      &Policy{BlockList: []string{"render"}},
			queue:       "render",
			expect:      false,
		},
		{
			description: "block list is case-insensitive",
			policy:      &Policy{BlockList: []string{"Render"}},
			queue:       "RENDER",
			expect:      false,
		},
		{
			description: "allow list admits listed queue",
			policy:      &Policy{AllowList: []string{"actions"}},
			queue:       "actions",
			expect:      true,
		},
		{
			description: "allow list denies unlisted queue",
			policy:      &Policy{AllowList: []string{"actions"}},
			queue:       "render",
			expect:      false,
		},
		{
			description: "block list wins over allow list",
			policy:      &Policy{AllowList: []string{"actions"}, BlockList: []string{"actions"}},
			queue:       "actions",
			expect:      false,
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expect, tc.policy.IsAllowed(tc.queue), tc.description)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))

	p := &Policy{Mode: ModeWarn, AllowList: []string{"actions"}, BlockList: []string{"render"}}
	restored := FromConfig(ToConfig(p))
	assert.Equal(t, p.Mode, restored.Mode)
	assert.Equal(t, p.AllowList, restored.AllowList)
	assert.Equal(t, p.BlockList, restored.BlockList)
	assert.Nil(t, restored.Warn)
}

func TestContextHelpers(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, FromContext(nil))

	p := &Policy{Mode: ModeFail}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
}
