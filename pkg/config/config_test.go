package config

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/codemovie/pkg/codemovie"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "full config",
			config: Config{
				Runtime:          Runtime{Enabled: true, Controls: true},
				Arguments:        ArgumentsLenient,
				Grammar:          GrammarYAML,
				MaxDepth:         3,
				FallbackLanguage: "plaintext",
				LogLevel:         "debug",
			},
			wantErr: false,
		},
		{
			name:    "unknown argument policy",
			config:  Config{Arguments: "loose"},
			wantErr: true,
			errMsg:  "arguments must be",
		},
		{
			name:    "unknown grammar",
			config:  Config{Grammar: "toml"},
			wantErr: true,
			errMsg:  "grammar must be",
		},
		{
			name:    "negative depth",
			config:  Config{MaxDepth: -1},
			wantErr: true,
			errMsg:  "max_depth must not be negative",
		},
		{
			name:    "controls without runtime",
			config:  Config{Runtime: Runtime{Controls: true}},
			wantErr: true,
			errMsg:  "runtime.controls requires runtime.enabled",
		},
		{
			name:    "unknown log level",
			config:  Config{LogLevel: "chatty"},
			wantErr: true,
			errMsg:  "invalid log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
runtime:
  enabled: true
  controls: true
arguments: lenient
grammar: yaml
max_depth: 2
fallback_language: plaintext
`))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Runtime:          Runtime{Enabled: true, Controls: true},
		Arguments:        ArgumentsLenient,
		Grammar:          GrammarYAML,
		MaxDepth:         2,
		FallbackLanguage: "plaintext",
	}, cfg)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("grammar: toml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = Parse([]byte("runtime: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Options(t *testing.T) {
	cfg := Config{
		Runtime:          Runtime{Enabled: true, Controls: true},
		Arguments:        ArgumentsLenient,
		Grammar:          GrammarYAML,
		FallbackLanguage: "plaintext",
	}

	var langs []string
	adapter := func(content codemovie.Content, lang codemovie.Language, tok codemovie.Token) (string, error) {
		langs = append(langs, lang.(string))
		return "[" + tok.Language() + "]", nil
	}

	ext, err := codemovie.New(adapter, codemovie.LanguageTable{"plaintext": "plaintext"}, cfg.Options()...)
	require.NoError(t, err)

	out, err := ext.ConvertString("!!!rust\n```(@meta={frame: 1} @decorations=oops: [)\nfn main() {}\n```\n!!!")
	require.NoError(t, err, "lenient arguments and fallback language")
	assert.Equal(t, `<code-movie-runtime keyframes="0" controls="controls">[rust]</code-movie-runtime>`, out)
	assert.Equal(t, []string{"plaintext"}, langs)

	tokens, err := ext.Parse([]byte("```x(@meta={frame: 1, title: demo})\n1\n```"))
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, codemovie.Meta{"frame": 1, "title": "demo"}, tokens[0].(*codemovie.Highlight).Frame.Meta)
}

func TestConfig_Options_Empty(t *testing.T) {
	cfg := Config{}
	assert.Empty(t, cfg.Options())
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer

	cfg := Config{}
	log := cfg.Logger(&buf)
	log.Info().Msg("hidden")
	assert.Empty(t, buf.String(), "default level is warn")

	cfg.LogLevel = "debug"
	log = cfg.Logger(&buf)
	log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Contains(t, buf.String(), `"component":"codemovie"`)
}

func TestConfig_Save_and_Load(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "codemovie.yml")

	original := Config{
		Runtime:  Runtime{Enabled: true},
		Grammar:  GrammarJSON5,
		MaxDepth: 4,
	}

	err := original.Save(configPath)
	require.NoError(t, err)

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/codemovie.yml")
	require.Error(t, err)
}
