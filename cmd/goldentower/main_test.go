package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/greenspire/goldentower/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParamsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goldentower.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parameters:\n  nodes_per_segment: 4\n"), 0o644))

	out, err := execute(t, "params", "--config", path)
	require.NoError(t, err)

	var doc paramsDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 4, doc.Parameters.NodesPerSegment)
	assert.InDelta(t, params.GoldenAngleDeg, doc.Derived["golden_angle_deg"], 1e-9)
	assert.NotEmpty(t, doc.Findings)
}

func TestValidateCommandFailsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "validate", "absent.stl",
		"--config", filepath.Join(dir, "none.yaml"), "--out", dir)
	assert.ErrorIs(t, err, errFailed)
}

func TestHumanBytes(t *testing.T) {
	for _, tc := range []struct {
		n    int64
		want string
	}{
		{-1, "0 B"},
		{134, "134 B"},
		{84 + 50*1000, "50 kB"},
		{84 + 50*400000, "20 MB"},
	} {
		assert.Equal(t, tc.want, humanBytes(tc.n))
	}
}
