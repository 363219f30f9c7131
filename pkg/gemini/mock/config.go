package mock

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed examples/scenarios.yaml
var exampleConfigYAML []byte

// Config 场景配置文件结构
type Config struct {
	// DefaultResponse 默认响应文本（没有指定场景时使用，支持模板语法）
	DefaultResponse string `yaml:"default_response" json:"default_response"`

	// Scenarios 场景列表（通过 name 标识）
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`

	// Delay 每次请求的响应延迟（如 "100ms"）
	Delay string `yaml:"delay" json:"delay"`

	// ChunkSize 流式响应体每次 Read 最多返回的字节数，0 表示一次返回
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`

	// SimulateError 模拟网络错误（请求直接失败）
	SimulateError string `yaml:"simulate_error" json:"simulate_error"`

	// SimulateStatus 模拟非 2xx 状态码
	SimulateStatus int `yaml:"simulate_status" json:"simulate_status"`
}

// Scenario 场景（一组按顺序消费的轮次）
type Scenario struct {
	// Name 场景名称（必需）
	Name string `yaml:"name" json:"name"`

	// Turns 轮次列表，每次生成请求推进一轮
	Turns []Turn `yaml:"turns" json:"turns"`
}

// Turn 单轮响应
type Turn struct {
	// User 用户消息（仅用于文档说明）
	User string `yaml:"user,omitempty" json:"user,omitempty"`

	// Model 模型响应文本（支持模板语法）
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Chunks 流式响应时逐个对象发送的文本片段；为空时整段作为一个对象发送
	Chunks []string `yaml:"chunks,omitempty" json:"chunks,omitempty"`

	// FinishReason 结束原因，默认 STOP
	FinishReason string `yaml:"finish_reason,omitempty" json:"finish_reason,omitempty"`

	// BlockReason 非空时模拟提示词被拦截（不返回候选）
	BlockReason string `yaml:"block_reason,omitempty" json:"block_reason,omitempty"`
}

// LoadConfigFile 从文件加载配置
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes 从字节数据加载配置
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg := &Config{}

	// 规范化格式字符串（支持 ".yaml" 或 "yaml"）
	format = strings.TrimPrefix(strings.ToLower(format), ".")

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s (expected yaml, yml, or json)", format)
	}

	return cfg, nil
}

// LoadExampleConfig 加载内嵌的示例配置
func LoadExampleConfig() (*Config, error) {
	return LoadConfigFromBytes(exampleConfigYAML, "yaml")
}

// ═══════════════════════════════════════════════════════════════════════════
// 场景状态管理
// ═══════════════════════════════════════════════════════════════════════════

// scenarioState 场景状态
type scenarioState struct {
	scenario Scenario
	turnIdx  int // 当前轮次索引
}

// next 返回当前轮次并推进；场景结束后返回固定提示
func (s *scenarioState) next() Turn {
	if s.turnIdx >= len(s.scenario.Turns) {
		return Turn{Model: "[场景已结束]"}
	}
	turn := s.scenario.Turns[s.turnIdx]
	s.turnIdx++
	return turn
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板渲染
// ═══════════════════════════════════════════════════════════════════════════

// templateFuncs 模板函数映射
var templateFuncs = template.FuncMap{
	"env":     envFunc,
	"default": defaultFunc,
}

// envFunc 获取环境变量
func envFunc(key string, defaultVal ...string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return ""
}

// defaultFunc 提供默认值
func defaultFunc(defaultVal, value any) any {
	if value == nil {
		return defaultVal
	}
	if str, ok := value.(string); ok && str == "" {
		return defaultVal
	}
	return value
}

// renderTemplate 渲染模板，失败时原样返回
func renderTemplate(text string, data map[string]string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := template.New("turn").Funcs(templateFuncs).Parse(text)
	if err != nil {
		return text
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}
