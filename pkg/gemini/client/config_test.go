package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
)

// clearEnv 清空会影响配置的环境变量
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_BASE_URL", "GEMINI_MODEL"} {
		t.Setenv(key, "")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 校验
// ═══════════════════════════════════════════════════════════════════════════

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{"有效配置", &Config{APIKey: "k"}, ""},
		{"查询参数认证", &Config{APIKey: "k", AuthMode: AuthModeQuery}, ""},
		{"缺少 API Key", &Config{}, "API key is required"},
		{"未知认证方式", &Config{APIKey: "k", AuthMode: "bearer"}, "unsupported auth mode"},
		{"非法地址", &Config{APIKey: "k", BaseURL: "not a url"}, "invalid base URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, gemini.IsConfigError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_GetDefaults(t *testing.T) {
	baseURL, version, timeout := (&Config{APIKey: "k"}).GetDefaults()
	assert.Equal(t, DefaultBaseURL, baseURL)
	assert.Equal(t, DefaultAPIVersion, version)
	assert.Equal(t, DefaultTimeout, timeout)

	baseURL, version, timeout = (&Config{
		BaseURL:    "http://localhost:8080",
		APIVersion: "v1beta",
		Timeout:    Duration(5 * time.Second),
	}).GetDefaults()
	assert.Equal(t, "http://localhost:8080", baseURL)
	assert.Equal(t, "v1beta", version)
	assert.Equal(t, 5*time.Second, timeout)
}

// ═══════════════════════════════════════════════════════════════════════════
// 请求头与查询参数
// ═══════════════════════════════════════════════════════════════════════════

func TestConfig_BuildHeaders(t *testing.T) {
	t.Run("header 认证", func(t *testing.T) {
		headers := (&Config{
			APIKey:  "secret",
			Headers: map[string]string{"X-Trace": "abc", "Content-Type": "text/plain"},
		}).BuildHeaders()

		assert.Equal(t, "secret", headers[APIKeyHeader])
		assert.Equal(t, "abc", headers["x-trace"])
		assert.Equal(t, "application/json", headers["content-type"])
		assert.NotContains(t, headers, "Content-Type")
	})

	t.Run("query 认证", func(t *testing.T) {
		cfg := &Config{APIKey: "secret", AuthMode: AuthModeQuery}
		assert.NotContains(t, cfg.BuildHeaders(), APIKeyHeader)
		assert.Equal(t, "secret", cfg.BuildQuery().Get("key"))
	})

	t.Run("header 认证无查询参数", func(t *testing.T) {
		assert.Empty(t, (&Config{APIKey: "secret"}).BuildQuery())
	})
}

func TestConfig_Models(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultModel, cfg.GetModel())
	assert.Equal(t, DefaultEmbeddingModel, cfg.GetEmbeddingModel())

	cfg = &Config{Model: "gemini-1.5-pro", EmbeddingModel: gemini.ModelTextEmbedding004}
	assert.Equal(t, gemini.ModelName("gemini-1.5-pro"), cfg.GetModel())
	assert.Equal(t, gemini.ModelTextEmbedding004, cfg.GetEmbeddingModel())
}

func TestConfig_Clone(t *testing.T) {
	cfg := &Config{APIKey: "k", Headers: map[string]string{"a": "1"}}
	clone := cfg.Clone()
	clone.Headers["a"] = "2"
	clone.APIKey = "other"

	assert.Equal(t, "1", cfg.Headers["a"])
	assert.Equal(t, "k", cfg.APIKey)
}

// ═══════════════════════════════════════════════════════════════════════════
// 环境变量
// ═══════════════════════════════════════════════════════════════════════════

func TestDefaultConfig_Env(t *testing.T) {
	t.Run("GEMINI_API_KEY 优先", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini-key")
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GEMINI_MODEL", "gemini-1.5-flash")

		cfg := DefaultConfig()
		assert.Equal(t, "gemini-key", cfg.APIKey)
		assert.Equal(t, gemini.ModelName("gemini-1.5-flash"), cfg.Model)
	})

	t.Run("回退到 GOOGLE_API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google-key")
		t.Setenv("GEMINI_BASE_URL", "http://proxy.local")

		cfg := DefaultConfig()
		assert.Equal(t, "google-key", cfg.APIKey)
		assert.Equal(t, "http://proxy.local", cfg.BaseURL)
	})

	t.Run("显式值不被覆盖", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "env-key")

		cfg := &Config{APIKey: "explicit"}
		cfg.ApplyEnv()
		assert.Equal(t, "explicit", cfg.APIKey)
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 文件加载
// ═══════════════════════════════════════════════════════════════════════════

func TestLoadConfigFromBytes(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		clearEnv(t)
		data := []byte(`
api_key: yaml-key
base_url: http://localhost:9000
api_version: v1beta
model: gemini-1.5-pro
auth_mode: query
timeout: 45s
headers:
  X-Custom: value
`)
		cfg, err := LoadConfigFromBytes(data, "yaml")
		require.NoError(t, err)

		assert.Equal(t, "yaml-key", cfg.APIKey)
		assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
		assert.Equal(t, "v1beta", cfg.APIVersion)
		assert.Equal(t, gemini.ModelName("gemini-1.5-pro"), cfg.Model)
		assert.Equal(t, AuthModeQuery, cfg.AuthMode)
		assert.Equal(t, Duration(45*time.Second), cfg.Timeout)
		assert.Equal(t, "value", cfg.Headers["X-Custom"])
		require.NoError(t, cfg.Validate())
	})

	t.Run("JSON（带前导点）", func(t *testing.T) {
		clearEnv(t)
		data := []byte(`{"api_key":"json-key","timeout":"2m","embedding_model":"text-embedding-004"}`)
		cfg, err := LoadConfigFromBytes(data, ".json")
		require.NoError(t, err)

		assert.Equal(t, "json-key", cfg.APIKey)
		assert.Equal(t, Duration(2*time.Minute), cfg.Timeout)
		assert.Equal(t, gemini.ModelTextEmbedding004, cfg.EmbeddingModel)
	})

	t.Run("JSON 数字时长", func(t *testing.T) {
		clearEnv(t)
		cfg, err := LoadConfigFromBytes([]byte(`{"timeout":1000000000}`), "json")
		require.NoError(t, err)
		assert.Equal(t, Duration(time.Second), cfg.Timeout)
	})

	t.Run("环境变量补齐缺失字段", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "from-env")

		cfg, err := LoadConfigFromBytes([]byte(`model: gemini-pro`), "yml")
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.APIKey)
	})

	t.Run("不支持的格式", func(t *testing.T) {
		_, err := LoadConfigFromBytes([]byte(`api_key = "x"`), "toml")
		require.Error(t, err)
		assert.True(t, gemini.IsConfigError(err))
		assert.Contains(t, err.Error(), "unsupported format: toml (expected yaml, yml, or json)")
	})

	t.Run("YAML 语法错误", func(t *testing.T) {
		_, err := LoadConfigFromBytes([]byte("api_key: [unclosed"), "yaml")
		require.Error(t, err)
		assert.True(t, gemini.IsConfigError(err))
	})

	t.Run("非法时长", func(t *testing.T) {
		_, err := LoadConfigFromBytes([]byte(`timeout: soon`), "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "gemini.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: file-key\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)

	_, err = LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, gemini.IsConfigError(err))
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}
