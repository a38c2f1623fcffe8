package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Url         string `json:"url"`
	Concurrency int    `json:"concurrency"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	{ // neither file present
		_, err := ReadConfig[testConfig](name)
		require.ErrorIs(t, err, os.ErrNotExist)
	}

	err := os.WriteFile(name, []byte(`{
		// comments are fine
		url: "postgres://localhost/shortwatch",
		concurrency: 4,
	}`), 0644)
	require.NoError(t, err)

	{ // base file alone
		config, err := ReadConfig[testConfig](name)
		require.NoError(t, err)
		require.Equal(t, "postgres://localhost/shortwatch", config.Url)
		require.Equal(t, 4, config.Concurrency)
	}

	err = os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{url: "postgres://prod/shortwatch"}`),
		0644,
	)
	require.NoError(t, err)

	{ // local file overrides field by field
		config, err := ReadConfig[testConfig](name)
		require.NoError(t, err)
		require.Equal(t, "postgres://prod/shortwatch", config.Url)
		require.Equal(t, 4, config.Concurrency)
	}
}
