package client

import (
	"context"
	"slices"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// GenerativeModel 生成模型句柄
// ═══════════════════════════════════════════════════════════════════════════

// GenerativeModel 绑定了模型名、安全设置、生成配置与系统指令的句柄
//
// 不可变：WithX 返回新句柄。可在多个 goroutine 间共享。
type GenerativeModel struct {
	client *Client
	name   gemini.ModelName

	safetySettings    []gemini.SafetySetting
	generationConfig  *gemini.GenerationConfig
	systemInstruction *gemini.Content
}

// Name 返回模型名
func (m *GenerativeModel) Name() gemini.ModelName { return m.name }

// GenerationConfig 返回生成配置及是否设置
func (m *GenerativeModel) GenerationConfig() (gemini.GenerationConfig, bool) {
	if m.generationConfig == nil {
		return gemini.GenerationConfig{}, false
	}
	return *m.generationConfig, true
}

// SafetySettings 返回安全设置副本
func (m *GenerativeModel) SafetySettings() []gemini.SafetySetting {
	return slices.Clone(m.safetySettings)
}

// ═══════════════════════════════════════════════════════════════════════════
// 生成
// ═══════════════════════════════════════════════════════════════════════════

// GenerateContent 以单个用户轮次生成
func (m *GenerativeModel) GenerateContent(ctx context.Context, parts ...gemini.Part) (*gemini.GenerateContentResponse, error) {
	content, err := gemini.NewContent(gemini.RoleUser, parts...)
	if err != nil {
		return nil, err
	}
	return m.GenerateContentWithContents(ctx, content)
}

// GenerateContentWithContents 以完整对话生成
func (m *GenerativeModel) GenerateContentWithContents(ctx context.Context, contents ...gemini.Content) (*gemini.GenerateContentResponse, error) {
	req, err := gemini.NewGenerateContentRequest(m.name, contents, m.requestOptions()...)
	if err != nil {
		return nil, err
	}
	return m.client.GenerateContent(ctx, req)
}

// GenerateContentStream 以单个用户轮次流式生成
func (m *GenerativeModel) GenerateContentStream(ctx context.Context, fn StreamHandler, parts ...gemini.Part) error {
	content, err := gemini.NewContent(gemini.RoleUser, parts...)
	if err != nil {
		return err
	}
	return m.GenerateContentStreamWithContents(ctx, fn, content)
}

// GenerateContentStreamWithContents 以完整对话流式生成
func (m *GenerativeModel) GenerateContentStreamWithContents(ctx context.Context, fn StreamHandler, contents ...gemini.Content) error {
	req, err := gemini.NewStreamGenerateContentRequest(m.name, contents, m.requestOptions()...)
	if err != nil {
		return err
	}
	return m.client.GenerateContentStream(ctx, req, fn)
}

// CountTokens 计算单个用户轮次的 token 数
func (m *GenerativeModel) CountTokens(ctx context.Context, parts ...gemini.Part) (*gemini.CountTokensResponse, error) {
	content, err := gemini.NewContent(gemini.RoleUser, parts...)
	if err != nil {
		return nil, err
	}
	req, err := gemini.NewCountTokensRequest(m.name, []gemini.Content{content})
	if err != nil {
		return nil, err
	}
	return m.client.CountTokens(ctx, req)
}

// StartChat 开启新的多轮会话
func (m *GenerativeModel) StartChat() *ChatSession {
	return newChatSession(m, nil)
}

// ═══════════════════════════════════════════════════════════════════════════
// 写时复制
// ═══════════════════════════════════════════════════════════════════════════

// WithAddedSafetySetting 返回追加了安全设置的新句柄
func (m *GenerativeModel) WithAddedSafetySetting(setting gemini.SafetySetting) *GenerativeModel {
	clone := m.clone()
	clone.safetySettings = append(clone.safetySettings, setting)
	return clone
}

// WithGenerationConfig 返回使用新生成配置的句柄
func (m *GenerativeModel) WithGenerationConfig(cfg gemini.GenerationConfig) *GenerativeModel {
	clone := m.clone()
	clone.generationConfig = &cfg
	return clone
}

// WithSystemInstruction 返回设置了系统指令的句柄
func (m *GenerativeModel) WithSystemInstruction(instruction gemini.Content) *GenerativeModel {
	clone := m.clone()
	c := instruction.Clone()
	clone.systemInstruction = &c
	return clone
}

func (m *GenerativeModel) clone() *GenerativeModel {
	clone := *m
	clone.safetySettings = slices.Clone(m.safetySettings)
	return &clone
}

// requestOptions 将句柄状态转换为请求选项
func (m *GenerativeModel) requestOptions() []gemini.GenerateOption {
	var opts []gemini.GenerateOption
	if len(m.safetySettings) > 0 {
		opts = append(opts, gemini.WithSafetySettings(m.safetySettings...))
	}
	if m.generationConfig != nil {
		opts = append(opts, gemini.WithGenerationConfig(*m.generationConfig))
	}
	if m.systemInstruction != nil {
		opts = append(opts, gemini.WithSystemInstruction(*m.systemInstruction))
	}
	return opts
}
