package mock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ═══════════════════════════════════════════════════════════════════════════
// 基础配置加载测试
// ═══════════════════════════════════════════════════════════════════════════

func TestLoadConfigFile_YAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.yaml")
	content := `
default_response: "默认响应"
scenarios:
  - name: "test_scene"
    turns:
      - user: "test"
        model: "response"
        finish_reason: "MAX_TOKENS"
delay: "100ms"
chunk_size: 16
`
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := LoadConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "默认响应", cfg.DefaultResponse)
	require.Len(t, cfg.Scenarios, 1)
	assert.Equal(t, "test_scene", cfg.Scenarios[0].Name)
	assert.Equal(t, "MAX_TOKENS", cfg.Scenarios[0].Turns[0].FinishReason)
	assert.Equal(t, "100ms", cfg.Delay)
	assert.Equal(t, 16, cfg.ChunkSize)
}

func TestLoadConfigFile_JSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.json")
	content := `{
		"default_response": "default",
		"scenarios": [
			{
				"name": "hello_scene",
				"turns": [{"user": "hello", "model": "hi", "chunks": ["h", "i"]}]
			}
		],
		"simulate_status": 503
	}`
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0o644))

	cfg, err := LoadConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.DefaultResponse)
	require.Len(t, cfg.Scenarios, 1)
	assert.Equal(t, []string{"h", "i"}, cfg.Scenarios[0].Turns[0].Chunks)
	assert.Equal(t, 503, cfg.SimulateStatus)
}

func TestLoadConfigFile_InvalidFormat(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	_, err := LoadConfigFile(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestLoadConfigFile_NotFound(t *testing.T) {
	_, err := LoadConfigFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := LoadExampleConfig()
	require.NoError(t, err)

	names := make([]string, 0, len(cfg.Scenarios))
	for _, s := range cfg.Scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"greeting", "streaming", "blocked"}, names)
	assert.Equal(t, 7, cfg.ChunkSize)
}

// ═══════════════════════════════════════════════════════════════════════════
// 场景与模板测试
// ═══════════════════════════════════════════════════════════════════════════

func TestScenarioState_Next(t *testing.T) {
	s := &scenarioState{scenario: Scenario{
		Name:  "two",
		Turns: []Turn{{Model: "first"}, {Model: "second"}},
	}}

	assert.Equal(t, "first", s.next().Model)
	assert.Equal(t, "second", s.next().Model)
	assert.Equal(t, "[场景已结束]", s.next().Model)
}

func TestRenderTemplate(t *testing.T) {
	t.Run("变量替换", func(t *testing.T) {
		got := renderTemplate("you said: {{.LAST_USER_MESSAGE}}", map[string]string{"LAST_USER_MESSAGE": "hi"})
		assert.Equal(t, "you said: hi", got)
	})

	t.Run("环境变量与默认值", func(t *testing.T) {
		t.Setenv("MOCK_GREETING", "hello")
		got := renderTemplate(`{{env "MOCK_GREETING"}} / {{env "MOCK_MISSING" "fallback"}}`, nil)
		assert.Equal(t, "hello / fallback", got)

		got = renderTemplate(`{{default "anon" .NAME}}`, map[string]string{"NAME": ""})
		assert.Equal(t, "anon", got)
	})

	t.Run("非法模板原样返回", func(t *testing.T) {
		assert.Equal(t, "{{.broken", renderTemplate("{{.broken", nil))
	})

	t.Run("普通文本", func(t *testing.T) {
		assert.Equal(t, "plain", renderTemplate("plain", nil))
	})
}
