// File path: internal/ledger/version_test.go
package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("2.10.3")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 2, Minor: 10, Patch: 3}, v)

	for _, bad := range []string{"", "1.0", "1.0.0.0", "a.b.c", "1.-1.0", "1.0.x"} {
		_, err := ParseVersion(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestVersionStringRoundTrip(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 3}
	parsed, err := ParseVersion(v.String())
	require.NoError(t, err)
	assert.Equal(t, v, parsed)
}

func TestVersionCompare(t *testing.T) {
	assert.Equal(t, 0, Seed.Compare(Version{Major: 1}))
	assert.Equal(t, -1, Version{Major: 1, Patch: 9}.Compare(Version{Major: 1, Minor: 1}))
	assert.Equal(t, 1, Version{Major: 2}.Compare(Version{Major: 1, Minor: 9, Patch: 9}))
	assert.Equal(t, -1, Version{Major: 1, Minor: 1, Patch: 1}.Compare(Version{Major: 1, Minor: 1, Patch: 2}))
}

func TestBumpRules(t *testing.T) {
	cases := []struct {
		action Action
		from   Version
		want   Version
	}{
		{ActionEditLogic, Seed, Version{Major: 1, Patch: 1}},
		{ActionSafetyCheck, Version{Major: 1, Minor: 2, Patch: 5}, Version{Major: 1, Minor: 2, Patch: 6}},
		{ActionValidate, Version{Major: 1, Patch: 3}, Version{Major: 1, Minor: 1}},
		{ActionGenerateCode, Version{Major: 1, Minor: 1, Patch: 4}, Version{Major: 1, Minor: 2}},
	}
	for _, tc := range cases {
		got, err := tc.from.Bump(tc.action)
		require.NoError(t, err, "action %s", tc.action)
		assert.Equal(t, tc.want, got, "action %s from %s", tc.action, tc.from)
	}
}

func TestBumpUnknownAction(t *testing.T) {
	_, err := Seed.Bump(Action("deploy"))
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestBumpSequenceFromSeed(t *testing.T) {
	v := Seed
	for _, want := range []string{"1.0.1", "1.0.2", "1.0.3"} {
		next, err := v.Bump(ActionEditLogic)
		require.NoError(t, err)
		assert.Equal(t, want, next.String())
		v = next
	}
	next, err := v.Bump(ActionValidate)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", next.String())
}

func TestReplay(t *testing.T) {
	assert.Equal(t, Seed, Replay(nil))

	entries := []Entry{
		{ActionType: ActionEditLogic},
		{ActionType: ActionEditLogic},
		{ActionType: ActionValidate},
		{ActionType: ActionSafetyCheck},
	}
	assert.Equal(t, "1.1.1", Replay(entries).String())
}
