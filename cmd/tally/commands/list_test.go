package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/tally/pkg/registry"
)

func sampleCounters() []*registry.Counter {
	return []*registry.Counter{
		{ID: "67b75d2d1be8186127d3c3284d2ce27e", Value: 1484363077, Owner: "alice.testnet"},
		{ID: "9aedf4c93311fe8aa593f406e0d2afba", Value: -42, Owner: "bob.testnet"},
	}
}

func TestWriteTable(t *testing.T) {
	t.Run("renders rows and count", func(t *testing.T) {
		var buf bytes.Buffer
		writeTable(&buf, sampleCounters(), "demo")

		out := buf.String()
		assert.Contains(t, out, "67b75d2d1be8186127d3c3284d2ce27e")
		assert.Contains(t, out, "1484363077")
		assert.Contains(t, out, "alice.testnet")
		assert.Contains(t, out, "-42")
		assert.Contains(t, out, "2 counters found")
	})

	t.Run("singular count", func(t *testing.T) {
		var buf bytes.Buffer
		writeTable(&buf, sampleCounters()[:1], "demo")
		assert.Contains(t, buf.String(), "1 counter found")
	})

	t.Run("empty instance", func(t *testing.T) {
		var buf bytes.Buffer
		writeTable(&buf, nil, "demo")
		assert.Contains(t, buf.String(), "No counters found for instance 'demo'")
		assert.Contains(t, buf.String(), "tally create")
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeJSON(&buf, sampleCounters()))

		var decoded []registry.Counter
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, *sampleCounters()[0], decoded[0])
		assert.Equal(t, *sampleCounters()[1], decoded[1])
	})

	t.Run("empty list is an array, not null", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeJSON(&buf, nil))
		assert.Equal(t, "[]\n", buf.String())
	})
}
