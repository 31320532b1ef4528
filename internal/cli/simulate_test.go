package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/memory"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
)

func TestSimulate_OneWinner(t *testing.T) {
	t.Parallel()

	report, err := simulate(context.Background(), memory.New[order.Status](), 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Workers)
	assert.Equal(t, 1, report.Committed)
	assert.Equal(t, 9, report.Conflicts)
	assert.Zero(t, report.Rejected)
	assert.Zero(t, report.Errors)
	assert.Equal(t, "confirmed", report.FinalState)
	assert.Equal(t, uint64(1), report.FinalVersion)
	assert.Equal(t, 1, report.HistoryLen)
}

func TestSimulateCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "memory", args: []string{"--store", "memory"}},
		{name: "sqlite", args: []string{"--store", "sqlite", "--db", filepath.Join(t.TempDir(), "orders.db")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append([]string{"simulate", "--format", "json", "--workers", "8"}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)

			var report SimulationReport
			require.NoError(t, json.Unmarshal([]byte(out), &report))
			assert.Equal(t, tt.name, report.Store)
			assert.Equal(t, 1, report.Committed)
			assert.Equal(t, 7, report.Conflicts)
			assert.Equal(t, uint64(1), report.FinalVersion)
		})
	}
}

func TestSimulateCommand_TextOutput(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "simulate", "--workers", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "committed: 1\n")
	assert.Contains(t, out, "conflicts: 2\n")
	assert.Contains(t, out, "final:     confirmed (version 1, 1 history records)\n")
}

func TestSimulateCommand_InvalidFlags(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "simulate", "--workers", "0")
	require.Error(t, err)

	_, err = execute(t, "simulate", "--store", "cassandra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}
