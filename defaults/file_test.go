package defaults

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedDefaults() map[string]any {
	return map[string]any{
		"cache":       false,
		"quality":     95,
		"launch_args": []any{"--no-sandbox"},
		"viewport": map[string]any{
			"width":               800,
			"height":              600,
			"device_scale_factor": 1.5,
		},
	}
}

func TestLoadFileFormatsAgree(t *testing.T) {
	for _, name := range []string{"defaults.toml", "defaults.yaml", "defaults.json"} {
		t.Run(name, func(t *testing.T) {
			values, err := LoadFile(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, expectedDefaults(), values.Defaults())
		})
	}
}

func TestLoadFileSniffsFormatWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"toml": "quality = 95\n",
		"yaml": "quality: 95\n",
		"json": `{"quality": 95}`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name+"-defaults")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		values, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, map[string]any{"quality": 95}, values.Defaults(), name)
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults: read")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quality: [95"), 0o600))
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")

	_, err = Parse([]byte("x"), Format("ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStaticReturnsCopies(t *testing.T) {
	origin := map[string]any{"viewport": map[string]any{"width": 1}}
	provider := NewStatic(origin)
	origin["viewport"].(map[string]any)["width"] = 2

	snapshot := provider.Defaults()
	assert.Equal(t, 1, snapshot["viewport"].(map[string]any)["width"])

	snapshot["viewport"].(map[string]any)["width"] = 3
	assert.Equal(t, 1, provider.Defaults()["viewport"].(map[string]any)["width"])
}

func TestProviderFunc(t *testing.T) {
	var nilFunc ProviderFunc
	assert.Nil(t, nilFunc.Defaults())

	fn := ProviderFunc(func() map[string]any { return map[string]any{"cache": true} })
	assert.Equal(t, map[string]any{"cache": true}, fn.Defaults())
}
