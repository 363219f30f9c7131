package client

import (
	"context"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
)

// EmbeddingModel Embedding 模型句柄
type EmbeddingModel struct {
	client   *Client
	name     gemini.ModelName
	taskType gemini.TaskType
}

// Name 返回模型名
func (m *EmbeddingModel) Name() gemini.ModelName { return m.name }

// TaskType 返回任务类型（未设置为空）
func (m *EmbeddingModel) TaskType() gemini.TaskType { return m.taskType }

// WithTaskType 返回使用新任务类型的句柄
func (m *EmbeddingModel) WithTaskType(taskType gemini.TaskType) *EmbeddingModel {
	clone := *m
	clone.taskType = taskType
	return &clone
}

// EmbedContent 生成向量
func (m *EmbeddingModel) EmbedContent(ctx context.Context, parts ...gemini.Part) (*gemini.EmbedContentResponse, error) {
	var opts []gemini.EmbedOption
	if m.taskType != "" {
		opts = append(opts, gemini.WithTaskType(m.taskType))
	}
	return m.embed(ctx, parts, opts)
}

// EmbedContentWithTitle 为带标题的文档生成向量
//
// 本次调用的任务类型固定为 RETRIEVAL_DOCUMENT，句柄本身不变。
func (m *EmbeddingModel) EmbedContentWithTitle(ctx context.Context, title string, parts ...gemini.Part) (*gemini.EmbedContentResponse, error) {
	return m.embed(ctx, parts, []gemini.EmbedOption{
		gemini.WithTaskType(gemini.TaskTypeRetrievalDocument),
		gemini.WithTitle(title),
	})
}

func (m *EmbeddingModel) embed(ctx context.Context, parts []gemini.Part, opts []gemini.EmbedOption) (*gemini.EmbedContentResponse, error) {
	content, err := gemini.NewContent(gemini.RoleUser, parts...)
	if err != nil {
		return nil, err
	}
	req, err := gemini.NewEmbedContentRequest(m.name, content, opts...)
	if err != nil {
		return nil, err
	}
	return m.client.EmbedContent(ctx, req)
}
