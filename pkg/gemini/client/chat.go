package client

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// ChatSession 多轮会话
// ═══════════════════════════════════════════════════════════════════════════

// ChatSession 维护只追加的对话历史
//
// 每次发送都携带完整历史，并强制 candidateCount=1（保留模型已有的其余配置）。
// 会话独占自己的历史：History 返回深拷贝，WithHistory 返回新会话。
//
// 非并发安全：同一会话不能同时发送多条消息。
type ChatSession struct {
	id      string
	model   *GenerativeModel
	history []gemini.Content
}

func newChatSession(model *GenerativeModel, history []gemini.Content) *ChatSession {
	return &ChatSession{
		id:      uuid.NewString(),
		model:   model.withSingleCandidate(),
		history: history,
	}
}

// ID 会话标识，用于日志关联
func (s *ChatSession) ID() string { return s.id }

// History 返回历史的深拷贝
func (s *ChatSession) History() []gemini.Content {
	out := make([]gemini.Content, len(s.history))
	for i, c := range s.history {
		out[i] = c.Clone()
	}
	return out
}

// WithHistory 返回以给定历史开始的新会话
//
// 每个轮次都会被校验，任何一个不合法时返回 ValidationError。
func (s *ChatSession) WithHistory(history []gemini.Content) (*ChatSession, error) {
	copied := make([]gemini.Content, 0, len(history))
	for _, c := range history {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		copied = append(copied, c.Clone())
	}
	return newChatSession(s.model, copied), nil
}

// SendMessage 发送一条用户消息
//
// 流程：
//  1. 追加用户轮次
//  2. 携带完整历史发起非流式生成
//  3. 至少有一个候选时，追加第一个候选的内容为模型轮次
//
// 即使提示词被拦截（没有候选）也会返回响应，便于检查 PromptFeedback。
//
// 请求失败时撤销本次追加的用户轮次，历史保持调用前的状态。失败的消息
// 不会留在历史里：重试时直接再次调用 SendMessage；确需保留该轮次时，
// 用 History 取出历史、追加后经 WithHistory 创建新会话。
func (s *ChatSession) SendMessage(ctx context.Context, parts ...gemini.Part) (*gemini.GenerateContentResponse, error) {
	content, err := gemini.NewContent(gemini.RoleUser, parts...)
	if err != nil {
		return nil, err
	}

	mark := len(s.history)
	s.history = append(s.history, content)

	resp, err := s.model.GenerateContentWithContents(ctx, s.history...)
	if err != nil {
		s.history = s.history[:mark]
		return nil, err
	}

	if len(resp.Candidates) > 0 {
		s.appendModelTurn(resp.Candidates[0].Content.Parts)
	}

	s.logger().DebugContext(ctx, "chat message sent",
		"session", s.id,
		"candidates", len(resp.Candidates),
		"history", len(s.history),
	)
	return resp, nil
}

// SendMessageStream 以流式方式发送一条用户消息
//
// 每个响应按到达顺序交给 fn；流结束后，把所有单候选响应中的 Parts
// 合并为一个模型轮次追加到历史（没有任何 Part 时不追加）。
// 请求或流失败时撤销本次追加的用户轮次，已收到的部分内容不进入历史。
func (s *ChatSession) SendMessageStream(ctx context.Context, fn StreamHandler, parts ...gemini.Part) error {
	content, err := gemini.NewContent(gemini.RoleUser, parts...)
	if err != nil {
		return err
	}

	mark := len(s.history)
	s.history = append(s.history, content)

	var collected []gemini.Part
	err = s.model.GenerateContentStreamWithContents(ctx, func(resp *gemini.GenerateContentResponse) error {
		if len(resp.Candidates) == 1 {
			collected = append(collected, resp.Candidates[0].Content.Parts...)
		}
		return fn(resp)
	}, s.history...)
	if err != nil {
		s.history = s.history[:mark]
		return err
	}

	if len(collected) > 0 {
		s.appendModelTurn(collected)
	}

	s.logger().DebugContext(ctx, "chat stream finished",
		"session", s.id,
		"parts", len(collected),
		"history", len(s.history),
	)
	return nil
}

func (s *ChatSession) appendModelTurn(parts []gemini.Part) {
	s.history = append(s.history, gemini.Content{
		Parts: slices.Clone(parts),
		Role:  gemini.RoleModel,
	})
}

func (s *ChatSession) logger() *slog.Logger {
	return s.model.client.Logger()
}

// withSingleCandidate 返回 candidateCount 固定为 1 的句柄，其余配置保持不变
func (m *GenerativeModel) withSingleCandidate() *GenerativeModel {
	cfg, _ := m.GenerationConfig()
	// 1 始终合法，不会返回错误
	cfg, _ = cfg.WithCandidateCount(1)
	return m.WithGenerationConfig(cfg)
}
