package core

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTable_Defaults(t *testing.T) {
	var buf bytes.Buffer
	table := NewErrorTable(log.New(&buf))

	table.Lookup(CodeNotFound)(ErrNoMatch, "#/missing", CodeNotFound)
	assert.Contains(t, buf.String(), "unmatched route")

	buf.Reset()
	table.Lookup(CodeInternal)(errors.New("boom"), "#/x", CodeInternal)
	assert.Contains(t, buf.String(), "internal route error")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	table.Lookup(418)(errors.New("teapot"), "#/tea", 418)
	assert.Contains(t, buf.String(), "route error")
}

func TestErrorTable_Set(t *testing.T) {
	table := NewErrorTable(log.New(&bytes.Buffer{}))

	var got []int
	require.NoError(t, table.Set(401, func(_ error, _ string, code int) { got = append(got, code) }))
	require.NoError(t, table.SetFallback(func(_ error, _ string, code int) { got = append(got, -code) }))

	table.Lookup(401)(nil, "#/", 401)
	table.Lookup(403)(nil, "#/", 403)
	assert.Equal(t, []int{401, -403}, got)
}

func TestErrorTable_RejectsNil(t *testing.T) {
	table := NewErrorTable(log.New(&bytes.Buffer{}))
	assert.ErrorIs(t, table.Set(404, nil), ErrInvalidRegistration)
	assert.ErrorIs(t, table.SetFallback(nil), ErrInvalidRegistration)
	assert.NotNil(t, table.Lookup(404))
}

func TestCodeOf(t *testing.T) {
	base := errors.New("denied")
	assert.Equal(t, 401, CodeOf(WithCode(401, base), 500))
	assert.Equal(t, 500, CodeOf(base, 500))
	assert.Equal(t, 500, CodeOf(WithCode(0, base), 500))
	assert.Equal(t, 403, CodeOf(joined(WithCode(403, base)), 500))

	assert.ErrorIs(t, WithCode(401, base), base)
	assert.Equal(t, "denied", WithCode(401, base).Error())
	assert.Equal(t, "hashmux: error 401", WithCode(401, nil).Error())
}

func joined(err error) error {
	return errors.Join(errors.New("outer"), err)
}

func TestFragmentHelpers(t *testing.T) {
	assert.Equal(t, "#/a?b=1", ExtractFragment("http://host/page#/a?b=1"))
	assert.Equal(t, "#/", ExtractFragment("http://host/page"))

	assert.Equal(t, "/user/42", FragmentPath("#//user/42/?tab=posts"))
	assert.Equal(t, "", FragmentPath("#/"))
	assert.Equal(t, "/a", FragmentPath("#/a"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "route-chain", StateRouteChain.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateErrored.Terminal())
	assert.False(t, StateBeforeChain.Terminal())
}
