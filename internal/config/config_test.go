package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_NoFlags(t *testing.T) {
	args := []string{"gameshell"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.False(t, cfg.Headless)
	assert.Empty(t, cfg.ConfigPath)
	assert.Empty(t, cfg.ScriptPath)
	assert.Empty(t, cfg.ExecCommand)
	assert.Empty(t, cfg.Args)
}

func TestParseArgs_Headless(t *testing.T) {
	args := []string{"gameshell", "--headless"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.True(t, cfg.Headless)
}

func TestParseArgs_ConfigPath(t *testing.T) {
	args := []string{"gameshell", "--config", "/tmp/app.json"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/app.json", cfg.ConfigPath)
}

func TestParseArgs_ConfigPathShortForm(t *testing.T) {
	args := []string{"gameshell", "-c", "/tmp/app.json"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/app.json", cfg.ConfigPath)
}

func TestParseArgs_Script(t *testing.T) {
	args := []string{"gameshell", "--script", "boot.lua"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.Equal(t, "boot.lua", cfg.ScriptPath)
}

func TestParseArgs_Exec(t *testing.T) {
	args := []string{"gameshell", "--exec", "print(shell.args())"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.Equal(t, "print(shell.args())", cfg.ExecCommand)
}

func TestParseArgs_PassThroughArgs(t *testing.T) {
	args := []string{"gameshell", "--headless", "--", "--level", "3", "--cheats"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.True(t, cfg.Headless)
	assert.Equal(t, []string{"--level", "3", "--cheats"}, cfg.Args)
}

func TestParseArgs_PassThroughSeparatorOnly(t *testing.T) {
	args := []string{"gameshell", "--"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.Empty(t, cfg.Args)
}

func TestParseArgs_FlagsAfterSeparatorNotParsed(t *testing.T) {
	args := []string{"gameshell", "--", "--headless"}

	cfg, err := ParseArgs(args)

	require.NoError(t, err)
	assert.False(t, cfg.Headless)
	assert.Equal(t, []string{"--headless"}, cfg.Args)
}

func TestParseArgs_MissingFlagValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"config", []string{"gameshell", "--config"}},
		{"script", []string{"gameshell", "--script"}},
		{"exec", []string{"gameshell", "--exec"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "requires a value")
		})
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	args := []string{"gameshell", "--bogus"}

	_, err := ParseArgs(args)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown argument")
}

func TestParseArgs_Empty(t *testing.T) {
	_, err := ParseArgs([]string{})

	require.Error(t, err)
}

func TestApplyEnv_FillsGaps(t *testing.T) {
	cfg := &Config{}
	envCfg := &EnvConfig{Headless: true, ConfigPath: "/etc/gameshell.json"}

	cfg.ApplyEnv(envCfg)

	assert.True(t, cfg.Headless)
	assert.Equal(t, "/etc/gameshell.json", cfg.ConfigPath)
}

func TestApplyEnv_FlagsWin(t *testing.T) {
	cfg := &Config{ConfigPath: "/tmp/from-flag.json"}
	envCfg := &EnvConfig{ConfigPath: "/etc/from-env.json"}

	cfg.ApplyEnv(envCfg)

	assert.Equal(t, "/tmp/from-flag.json", cfg.ConfigPath)
}

func TestApplyEnv_Nil(t *testing.T) {
	cfg := &Config{Headless: true}

	cfg.ApplyEnv(nil)

	assert.True(t, cfg.Headless)
}

func TestParseEnvConfig_Defaults(t *testing.T) {
	cfg, err := ParseEnvConfig()

	require.NoError(t, err)
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.WrapperManaged)
}

func TestParseEnvConfig_WrapperManaged(t *testing.T) {
	t.Setenv("GAMESHELL_WRAPPER_MANAGED", "1")

	cfg, err := ParseEnvConfig()

	require.NoError(t, err)
	assert.True(t, cfg.WrapperManaged)
}

func TestParseEnvConfig_Headless(t *testing.T) {
	t.Setenv("GAMESHELL_HEADLESS", "true")

	cfg, err := ParseEnvConfig()

	require.NoError(t, err)
	assert.True(t, cfg.Headless)
}
