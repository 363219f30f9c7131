package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini/mock"
)

// newMockChat 创建使用离线传输层的会话
func newMockChat(t *testing.T, transport *mock.Transport) (*ChatSession, *GenerativeModel) {
	t.Helper()
	c, err := New(&Config{APIKey: "test-key"}, WithTransport(transport))
	require.NoError(t, err)
	model := c.GenerativeModel(gemini.ModelGeminiPro)
	return model.StartChat(), model
}

// sentContents 解码一次调用发送的 contents
func sentContents(t *testing.T, call mock.Call) []gemini.Content {
	t.Helper()
	var body struct {
		Contents []gemini.Content `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(call.Body, &body))
	return body.Contents
}

// ═══════════════════════════════════════════════════════════════════════════
// SendMessage
// ═══════════════════════════════════════════════════════════════════════════

func TestChatSession_SendMessage(t *testing.T) {
	transport := mock.New()
	require.NoError(t, transport.UseScenario("greeting"))
	chat, _ := newMockChat(t, transport)

	resp, err := chat.SendMessage(context.Background(), gemini.NewTextPart("你好"))
	require.NoError(t, err)
	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, "你好！有什么可以帮你的？", text)

	history := chat.History()
	require.Len(t, history, 2)
	assert.Equal(t, gemini.RoleUser, history[0].Role)
	assert.Equal(t, gemini.RoleModel, history[1].Role)
	assert.Equal(t, []gemini.Part{gemini.NewTextPart("你好！有什么可以帮你的？")}, history[1].Parts)

	_, err = chat.SendMessage(context.Background(), gemini.NewTextPart("介绍一下你自己"))
	require.NoError(t, err)
	assert.Len(t, chat.History(), 4)

	// 第二次请求携带完整历史
	calls := transport.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, sentContents(t, calls[0]), 1)
	second := sentContents(t, calls[1])
	require.Len(t, second, 3)
	assert.Equal(t, gemini.RoleModel, second[1].Role)
	assert.Equal(t, gemini.RoleUser, second[2].Role)
}

func TestChatSession_ForcesSingleCandidate(t *testing.T) {
	transport := mock.New(mock.WithResponse("ok"))
	c, err := New(&Config{APIKey: "k"}, WithTransport(transport))
	require.NoError(t, err)

	cfg, err := gemini.GenerationConfig{}.WithCandidateCount(3)
	require.NoError(t, err)
	cfg, err = cfg.WithTemperature(0.7)
	require.NoError(t, err)

	model := c.GenerativeModel("").WithGenerationConfig(cfg)
	chat := model.StartChat()

	_, err = chat.SendMessage(context.Background(), gemini.NewTextPart("hi"))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(transport.Calls()[0].Body, &body))
	assert.Equal(t, map[string]any{"candidateCount": float64(1), "temperature": 0.7}, body["generationConfig"])

	// 原模型句柄保持不变
	original, _ := model.GenerationConfig()
	count, _ := original.CandidateCount()
	assert.Equal(t, 3, count)
}

func TestChatSession_BlockedPrompt(t *testing.T) {
	transport := mock.New()
	require.NoError(t, transport.UseScenario("blocked"))
	chat, _ := newMockChat(t, transport)

	resp, err := chat.SendMessage(context.Background(), gemini.NewTextPart("不当内容"))
	require.NoError(t, err)
	assert.Empty(t, resp.Candidates)
	assert.True(t, resp.PromptFeedback.IsBlocked())
	assert.Equal(t, gemini.BlockReasonSafety, resp.PromptFeedback.BlockReason)

	_, err = resp.Text()
	assert.True(t, gemini.IsPreconditionError(err))

	// 没有候选时只保留用户轮次
	history := chat.History()
	require.Len(t, history, 1)
	assert.Equal(t, gemini.RoleUser, history[0].Role)
}

func TestChatSession_RollbackOnError(t *testing.T) {
	transport := mock.New(mock.WithConfig(&mock.Config{SimulateStatus: 500}))
	chat, _ := newMockChat(t, transport)

	_, err := chat.SendMessage(context.Background(), gemini.NewTextPart("hi"))
	require.Error(t, err)
	assert.Equal(t, 500, gemini.GetStatusCode(err))
	assert.Empty(t, chat.History())

	t.Run("重试再次发送同一消息", func(t *testing.T) {
		_, err := chat.SendMessage(context.Background(), gemini.NewTextPart("hi"))
		require.Error(t, err)
		assert.Empty(t, chat.History())
		assert.Len(t, transport.Calls(), 2)
	})

	t.Run("经 WithHistory 保留失败轮次", func(t *testing.T) {
		kept, err := chat.WithHistory(append(chat.History(), gemini.NewTextContent("hi", gemini.RoleUser)))
		require.NoError(t, err)
		require.Len(t, kept.History(), 1)
		assert.Equal(t, gemini.RoleUser, kept.History()[0].Role)
		assert.Empty(t, chat.History())
	})
}

func TestChatSession_InvalidParts(t *testing.T) {
	chat, _ := newMockChat(t, mock.New())

	_, err := chat.SendMessage(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, gemini.IsValidationError(err))
	assert.Empty(t, chat.History())
}

// ═══════════════════════════════════════════════════════════════════════════
// SendMessageStream
// ═══════════════════════════════════════════════════════════════════════════

func TestChatSession_SendMessageStream(t *testing.T) {
	transport := mock.New()
	require.NoError(t, transport.UseScenario("streaming"))
	chat, _ := newMockChat(t, transport)

	var received []string
	err := chat.SendMessageStream(context.Background(), func(resp *gemini.GenerateContentResponse) error {
		text, err := resp.Text()
		if err != nil {
			return err
		}
		received = append(received, text)
		return nil
	}, gemini.NewTextPart("讲个故事"))
	require.NoError(t, err)
	assert.Equal(t, []string{"从前有座山，", "山里有座庙，", "庙里有个老和尚。"}, received)

	history := chat.History()
	require.Len(t, history, 2)
	assert.Equal(t, gemini.RoleModel, history[1].Role)
	assert.Len(t, history[1].Parts, 3)

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Stream)
	assert.Equal(t, "models/gemini-pro:streamGenerateContent", calls[0].Operation)
}

func TestChatSession_SendMessageStream_HandlerError(t *testing.T) {
	transport := mock.New()
	require.NoError(t, transport.UseScenario("streaming"))
	chat, _ := newMockChat(t, transport)

	stop := errors.New("stop")
	err := chat.SendMessageStream(context.Background(), func(*gemini.GenerateContentResponse) error {
		return stop
	}, gemini.NewTextPart("讲个故事"))
	require.ErrorIs(t, err, stop)
	assert.Empty(t, chat.History())
}

// ═══════════════════════════════════════════════════════════════════════════
// 历史管理
// ═══════════════════════════════════════════════════════════════════════════

func TestChatSession_History(t *testing.T) {
	chat, _ := newMockChat(t, mock.New(mock.WithResponse("ok")))
	assert.NotEmpty(t, chat.ID())

	_, err := chat.SendMessage(context.Background(), gemini.NewTextPart("hi"))
	require.NoError(t, err)

	t.Run("History 返回深拷贝", func(t *testing.T) {
		history := chat.History()
		history[0].AddText("tampered")

		again := chat.History()
		assert.Len(t, again, 2)
		assert.Len(t, again[0].Parts, 1)
	})

	t.Run("WithHistory 返回新会话", func(t *testing.T) {
		seeded, err := chat.WithHistory([]gemini.Content{
			gemini.NewTextContent("earlier question", gemini.RoleUser),
			gemini.NewTextContent("earlier answer", gemini.RoleModel),
		})
		require.NoError(t, err)
		assert.NotEqual(t, chat.ID(), seeded.ID())
		assert.Len(t, seeded.History(), 2)
		assert.Len(t, chat.History(), 2)
	})

	t.Run("WithHistory 校验每个轮次", func(t *testing.T) {
		_, err := chat.WithHistory([]gemini.Content{{Role: "system"}})
		require.Error(t, err)
		assert.True(t, gemini.IsValidationError(err))
	})
}
