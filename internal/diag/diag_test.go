package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollisionMessage(t *testing.T) {
	d := Collision(CodeCommandCollision, "command", "shared/run",
		[]string{"./preset-a", "./preset-b", "./preset-c"}, "./preset-c")

	assert.Equal(t,
		`Multiple presets provide the "shared/run" command: ./preset-a, ./preset-b, ./preset-c. Using definition from ./preset-c.`,
		d.Message)
	assert.Equal(t, "./preset-c", d.Chosen)
}

func TestCollectorPreservesOrder(t *testing.T) {
	var c Collector
	c.Warnf("a", "first")
	c.Warnf("b", "second")
	c.Warnf("c", "third")

	assert.Equal(t, []string{"first", "second", "third"}, c.Messages())
	assert.Equal(t, 3, c.Len())
}

func TestNilCollectorDiscards(t *testing.T) {
	var c *Collector
	c.Warnf("a", "dropped")
	assert.Zero(t, c.Len())
	assert.Nil(t, c.Items())
}

func TestEmitWritesWarnings(t *testing.T) {
	var c Collector
	c.Warnf(CodeMCPConflict, "server %q defined differently", "db")

	var buf bytes.Buffer
	Emit(NewLogger(&buf, log.InfoLevel), &c)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.True(t, strings.Contains(out, `server "db" defined differently`), out)
}
