package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFixtures(t *testing.T) {
	f, err := DefaultFixtures()
	require.NoError(t, err)

	assert.NotEmpty(t, f.Agents)
	assert.NotEmpty(t, f.Calls)
	assert.NotEmpty(t, f.Queues)
	assert.NotEmpty(t, f.Metrics)

	assert.Equal(t, "Sarah Johnson", f.Agents[0].Name)
	assert.Equal(t, types.AgentOnline, f.Agents[0].Status)
	assert.Nil(t, f.Agents[0].CurrentCall)

	call := f.Calls[0]
	assert.Equal(t, 2024, call.Timestamp.Year())
	require.NotNil(t, call.CustomerPhone)
	assert.Equal(t, "+1-555-0101", *call.CustomerPhone)
	assert.Equal(t, []string{"billing", "resolved"}, call.Tags)
}

func TestLoadFixturesFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "agents.yaml", "- Id: 4\n  name: Test Agent\n  status: away\n")

	f, err := LoadFixtures(dir)
	require.NoError(t, err)
	require.Len(t, f.Agents, 1)
	assert.Equal(t, 4, f.Agents[0].ID)
	assert.Empty(t, f.Calls)
	assert.Empty(t, f.Queues)
}

func TestLoadFixturesRejectsBadData(t *testing.T) {
	tests := map[string]string{
		"duplicate id":   "- Id: 1\n  name: A\n  status: online\n- Id: 1\n  name: B\n  status: online\n",
		"zero id":        "- Id: 0\n  name: A\n  status: online\n",
		"unknown status": "- Id: 1\n  name: A\n  status: sleeping\n",
		"not yaml list":  "name: [unterminated\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "agents.yaml", body)
			_, err := LoadFixtures(dir)
			assert.Error(t, err)
		})
	}
}

func TestStoreReset(t *testing.T) {
	f, err := DefaultFixtures()
	require.NoError(t, err)
	s := New(f)

	s.Agents.Insert(types.Agent{Name: "Temp", Status: types.AgentOnline})
	s.Queues.Remove(1)

	dropped := s.Reset()
	assert.Equal(t, len(f.Agents)+1+len(f.Calls)+len(f.Queues)-1+len(f.Metrics), dropped)

	counts := s.Counts()
	assert.Equal(t, len(f.Agents), counts[types.KindAgent])
	assert.Equal(t, len(f.Queues), counts[types.KindQueue])
	_, ok := s.Queues.Get(1)
	assert.True(t, ok)
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}
