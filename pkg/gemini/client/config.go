package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini/core"
)

// ═══════════════════════════════════════════════════════════════════════════
// 常量定义
// ═══════════════════════════════════════════════════════════════════════════

const (
	// DefaultBaseURL Gemini API 默认地址（不含版本）
	DefaultBaseURL = "https://generativelanguage.googleapis.com"

	// DefaultAPIVersion 默认 API 版本
	DefaultAPIVersion = "v1"

	// DefaultModel 默认模型
	DefaultModel = gemini.ModelGeminiPro

	// DefaultEmbeddingModel 默认 Embedding 模型
	DefaultEmbeddingModel = gemini.ModelEmbedding001

	// DefaultTimeout 默认超时时间
	DefaultTimeout = 120 * time.Second

	// APIKeyHeader API Key 请求头
	APIKeyHeader = "x-goog-api-key"
)

// AuthMode API Key 的传递方式
type AuthMode string

const (
	// AuthModeHeader 通过 x-goog-api-key 请求头（默认）
	AuthModeHeader AuthMode = "header"

	// AuthModeQuery 通过 key 查询参数
	AuthModeQuery AuthMode = "query"
)

// 环境变量（按优先级）
var (
	envAPIKeys  = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	envBaseURLs = []string{"GEMINI_BASE_URL"}
	envModels   = []string{"GEMINI_MODEL"}
)

// ═══════════════════════════════════════════════════════════════════════════
// Config 客户端配置
// ═══════════════════════════════════════════════════════════════════════════

// Config 客户端配置
//
// 基本用法：
//
//	cfg := &client.Config{APIKey: "xxx"}
//
// 从文件加载：
//
//	cfg, err := client.LoadConfigFile("gemini.yaml")
//
// 从环境变量探测：
//
//	cfg := client.DefaultConfig()
type Config struct {
	// APIKey Gemini API 密钥（必需）
	APIKey string `yaml:"api_key" json:"api_key"`

	// BaseURL API 基础地址，默认 https://generativelanguage.googleapis.com
	BaseURL string `yaml:"base_url" json:"base_url"`

	// APIVersion API 版本，默认 v1
	APIVersion string `yaml:"api_version" json:"api_version"`

	// Model GenerativeModel 的默认模型
	Model gemini.ModelName `yaml:"model" json:"model"`

	// EmbeddingModel EmbeddingModel 的默认模型
	EmbeddingModel gemini.ModelName `yaml:"embedding_model" json:"embedding_model"`

	// AuthMode API Key 传递方式，默认 header
	AuthMode AuthMode `yaml:"auth_mode" json:"auth_mode"`

	// Timeout 请求超时时间（如 "30s"），默认 120 秒
	Timeout Duration `yaml:"timeout" json:"timeout"`

	// Headers 额外的请求头（名字不区分大小写）
	Headers map[string]string `yaml:"headers" json:"headers"`

	// Logger 日志记录器，nil 时丢弃
	Logger *slog.Logger `yaml:"-" json:"-"`
}

// DefaultConfig 返回从环境变量探测出的配置
//
// API Key: GEMINI_API_KEY → GOOGLE_API_KEY
// Base URL: GEMINI_BASE_URL
// Model: GEMINI_MODEL
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv 用环境变量填充尚未设置的字段
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = firstEnv(envAPIKeys)
	}
	if c.BaseURL == "" {
		c.BaseURL = firstEnv(envBaseURLs)
	}
	if c.Model == "" {
		c.Model = gemini.ModelName(firstEnv(envModels))
	}
}

// Clone 返回独立副本
func (c *Config) Clone() *Config {
	clone := *c
	clone.Headers = maps.Clone(c.Headers)
	return &clone
}

// ═══════════════════════════════════════════════════════════════════════════
// core.ServiceConfig 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return gemini.NewConfigError("config is required", nil)
	}
	if c.APIKey == "" {
		return gemini.NewConfigError("API key is required", nil)
	}
	switch c.AuthMode {
	case "", AuthModeHeader, AuthModeQuery:
	default:
		return gemini.NewConfigError(fmt.Sprintf("unsupported auth mode: %s (expected header or query)", c.AuthMode), nil)
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return gemini.NewConfigError("invalid base URL: "+c.BaseURL, err)
		}
	}
	return nil
}

// GetDefaults 获取默认值
func (c *Config) GetDefaults() (string, string, time.Duration) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiVersion := c.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	timeout := time.Duration(c.Timeout)
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return baseURL, apiVersion, timeout
}

// BuildHeaders 构建请求头
//
// 用户自定义头先写入，固定头最后写入，不会被覆盖。
func (c *Config) BuildHeaders() map[string]string {
	headers := make(map[string]string, len(c.Headers)+2)
	for k, v := range c.Headers {
		headers[strings.ToLower(k)] = v
	}
	headers["content-type"] = "application/json"
	if c.authMode() == AuthModeHeader {
		headers[APIKeyHeader] = c.APIKey
	}
	return headers
}

// BuildQuery 构建查询参数
func (c *Config) BuildQuery() url.Values {
	if c.authMode() != AuthModeQuery {
		return nil
	}
	return url.Values{"key": []string{c.APIKey}}
}

// GetModel 返回默认生成模型
func (c *Config) GetModel() gemini.ModelName {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// GetEmbeddingModel 返回默认 Embedding 模型
func (c *Config) GetEmbeddingModel() gemini.ModelName {
	if c.EmbeddingModel == "" {
		return DefaultEmbeddingModel
	}
	return c.EmbeddingModel
}

func (c *Config) authMode() AuthMode {
	if c.AuthMode == "" {
		return AuthModeHeader
	}
	return c.AuthMode
}

// ═══════════════════════════════════════════════════════════════════════════
// 文件加载
// ═══════════════════════════════════════════════════════════════════════════

// LoadConfigFile 从文件加载配置（.yaml / .yml / .json）
//
// 文件中未设置的字段会用环境变量补齐。
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gemini.NewConfigError("read config file", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes 从字节数据加载配置
//
// format 支持 "yaml"、"yml"、"json"，可带前导点。
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg := &Config{}

	// 规范化格式字符串（支持 ".yaml" 或 "yaml"）
	format = strings.TrimPrefix(strings.ToLower(format), ".")

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, gemini.NewConfigError("parse YAML", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, gemini.NewConfigError("parse JSON", err)
		}
	default:
		return nil, gemini.NewConfigError(
			fmt.Sprintf("unsupported format: %s (expected yaml, yml, or json)", format), nil)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Duration
// ═══════════════════════════════════════════════════════════════════════════

// Duration 可从 "30s" 这类字符串解码的时长
type Duration time.Duration

// UnmarshalYAML 实现 yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

// UnmarshalJSON 实现 json.Unmarshaler，同时接受字符串与纳秒整数
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration: %s", data)
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON 输出 "30s" 形式
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func firstEnv(keys []string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

// 确保实现了 core.ServiceConfig 接口
var _ core.ServiceConfig = (*Config)(nil)
