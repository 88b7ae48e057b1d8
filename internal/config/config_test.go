package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	for _, k := range []string{"SHOWCASE_DATA", "SHOWCASE_BASE_URL", "SHOWCASE_ADDR", "SHOWCASE_WATCH", "SHOWCASE_FORMAT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	c, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "data/slides.json", c.Data)
	require.Equal(t, "http://127.0.0.1:3335/", c.BaseURL)
	require.Equal(t, "127.0.0.1:3335", c.Addr)
	require.Equal(t, "json", c.Format)
	require.False(t, c.Watch)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("SHOWCASE_DATA", "https://example.com/slides.json")
	t.Setenv("SHOWCASE_WATCH", "true")
	t.Setenv("SHOWCASE_LOG_LEVEL", "debug")
	c, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "https://example.com/slides.json", c.Data)
	require.True(t, c.Watch)
	require.Equal(t, "debug", c.LogLevel)
}

func TestParse_InvalidBool(t *testing.T) {
	t.Setenv("SHOWCASE_WATCH", "sometimes")
	if _, err := Parse(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadEnv_SkipsMissingAndKeepsEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SHOWCASE_TUI_THEME=dark\nSHOWCASE_FORMAT=yaml\n"), 0o644))

	t.Setenv("SHOWCASE_FORMAT", "json")
	t.Setenv("SHOWCASE_TUI_THEME", "")
	os.Unsetenv("SHOWCASE_TUI_THEME")

	n, err := LoadEnv([]string{envFile, filepath.Join(dir, ".env.local")})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	c, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "dark", c.Theme)
	require.Equal(t, "json", c.Format)
}
