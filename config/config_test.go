package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := LoadFile(nil, "")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 5576, cfg.RPC.Port)
	require.Equal(t, "/tmp/merkle-tree-service/merkletree.sqlite", cfg.MerkleTree.DBPath)
	require.Equal(t, "2s", cfg.RPC.ReadTimeout.Duration.String())
}

func TestLoadConfigOverride(t *testing.T) {
	override := FileData{
		Name: "override.toml",
		Content: `
PathRWData = "/var/lib/merkle"

[Log]
Level = "debug"
`,
	}
	cfg, err := LoadFile([]FileData{override}, "")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/var/lib/merkle/merkletree.sqlite", cfg.MerkleTree.DBPath)
	// untouched defaults survive the merge
	require.Equal(t, 5576, cfg.RPC.Port)
}

func TestRenderMissingVar(t *testing.T) {
	files := []FileData{
		{Name: "broken.toml", Content: `DBPath = "{{UndefinedVar}}/db.sqlite"`},
	}
	merger := NewConfigRender(files, EnvVarPrefix)
	_, err := merger.Render()
	require.ErrorIs(t, err, ErrMissingVars)
}

func TestRenderEnvVarWins(t *testing.T) {
	t.Setenv("MERKLE_PathRWData", "/from/env")
	files := []FileData{
		{Name: "default_vars", Content: DefaultVars},
		{Name: "default_values", Content: DefaultValues},
	}
	merger := NewConfigRender(files, EnvVarPrefix)
	rendered, err := merger.Render()
	require.NoError(t, err)
	require.Contains(t, rendered, "/from/env/merkletree.sqlite")
}
