package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_ConfigFileAndLogFlags(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile(".shallot.yaml", []byte("features_dir: specs\ndatabase: specs/index.db\n"), 0o644))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"init", "--log-level", "info", "--log-format", "json"})
	origCfg, origLogger := cfg, logger
	t.Cleanup(func() {
		cfg, logger = origCfg, origLogger
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "specs/ created")
	assert.Contains(t, out.String(), "specs/index.db created")
	assert.Equal(t, "specs", cfg.FeaturesDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Contains(t, errOut.String(), `"msg":"initialized"`)
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("error", "text", &buf)
	l.Warn("hidden")
	l.Error("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown k=v")

	buf.Reset()
	newLogger("bogus", "json", &buf).Warn("default is warn")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}
