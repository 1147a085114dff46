package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderReturnsNamedLoggers(t *testing.T) {
	p, err := New(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)

	log := p.Get("cache")
	require.NotNil(t, log)
	log.Debug("provider ready", "component", "cache")
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.Error(t, err)

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNilProviderFallsBackToNoOp(t *testing.T) {
	var p *Provider
	log := p.Get("anything")
	assert.Equal(t, NoOp(), log)
	assert.Equal(t, NoOp(), OrNoOp(nil))
}
