package gemini

import (
	"net/http"
	"slices"
)

// ═══════════════════════════════════════════════════════════════════════════
// Request 接口
// ═══════════════════════════════════════════════════════════════════════════

// Request 一次 API 调用
//
// 变体集合是封闭的：生成、流式生成、计数、Embedding、模型列表。
type Request interface {
	// Operation 返回端点路径中的操作标识，如 "models/gemini-pro:generateContent"
	Operation() string

	// HTTPMethod 返回 GET 或 POST
	HTTPMethod() string

	// Payload 返回规范 JSON 请求体，GET 请求返回 nil
	Payload() ([]byte, error)
}

// ═══════════════════════════════════════════════════════════════════════════
// 生成请求选项
// ═══════════════════════════════════════════════════════════════════════════

// GenerateOption 生成请求的可选字段
type GenerateOption func(*generateParams)

type generateParams struct {
	safetySettings    []SafetySetting
	generationConfig  *GenerationConfig
	systemInstruction *Content
}

// WithSafetySettings 设置安全设置（追加）
func WithSafetySettings(settings ...SafetySetting) GenerateOption {
	return func(p *generateParams) {
		p.safetySettings = append(p.safetySettings, settings...)
	}
}

// WithGenerationConfig 设置生成配置
func WithGenerationConfig(cfg GenerationConfig) GenerateOption {
	return func(p *generateParams) {
		p.generationConfig = &cfg
	}
}

// WithSystemInstruction 设置系统指令
func WithSystemInstruction(instruction Content) GenerateOption {
	return func(p *generateParams) {
		c := instruction.Clone()
		p.systemInstruction = &c
	}
}

// generateBody 生成类请求的线上格式（键顺序即字段顺序）
type generateBody struct {
	Model             string            `json:"model"`
	Contents          []Content         `json:"contents"`
	SafetySettings    []SafetySetting   `json:"safetySettings,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
}

// generateBase 生成与流式生成共享的部分
type generateBase struct {
	model ModelName
	generateParams
	contents []Content
}

func newGenerateBase(model ModelName, contents []Content, opts []GenerateOption) (generateBase, error) {
	if model == "" {
		return generateBase{}, NewValidationError("model", "model name is required")
	}
	if err := ensureContents(contents); err != nil {
		return generateBase{}, err
	}

	b := generateBase{model: model, contents: cloneContents(contents)}
	for _, opt := range opts {
		opt(&b.generateParams)
	}

	if err := ensureSafetySettings(b.safetySettings); err != nil {
		return generateBase{}, err
	}
	if b.systemInstruction != nil {
		if err := b.systemInstruction.Validate(); err != nil {
			return generateBase{}, err
		}
	}
	return b, nil
}

func (b *generateBase) payload() ([]byte, error) {
	body := generateBody{
		Model:             b.model.Path(),
		Contents:          b.contents,
		SafetySettings:    b.safetySettings,
		SystemInstruction: b.systemInstruction,
	}
	if b.contents == nil {
		body.Contents = []Content{}
	}
	if b.generationConfig != nil && !b.generationConfig.IsZero() {
		body.GenerationConfig = b.generationConfig
	}
	return MarshalCanonical(body)
}

// Model 返回模型名
func (b *generateBase) Model() ModelName { return b.model }

// Contents 返回内容副本
func (b *generateBase) Contents() []Content { return cloneContents(b.contents) }

// SafetySettings 返回安全设置副本
func (b *generateBase) SafetySettings() []SafetySetting { return slices.Clone(b.safetySettings) }

// GenerationConfig 返回生成配置（可能为 nil）
func (b *generateBase) GenerationConfig() *GenerationConfig { return b.generationConfig }

// SystemInstruction 返回系统指令（可能为 nil）
func (b *generateBase) SystemInstruction() *Content { return b.systemInstruction }

// ═══════════════════════════════════════════════════════════════════════════
// GenerateContentRequest
// ═══════════════════════════════════════════════════════════════════════════

// GenerateContentRequest 非流式生成请求
type GenerateContentRequest struct {
	generateBase
}

// NewGenerateContentRequest 创建生成请求
func NewGenerateContentRequest(model ModelName, contents []Content, opts ...GenerateOption) (*GenerateContentRequest, error) {
	base, err := newGenerateBase(model, contents, opts)
	if err != nil {
		return nil, err
	}
	return &GenerateContentRequest{generateBase: base}, nil
}

// Operation 实现 Request 接口
func (r *GenerateContentRequest) Operation() string {
	return r.model.Path() + ":generateContent"
}

// HTTPMethod 实现 Request 接口
func (r *GenerateContentRequest) HTTPMethod() string { return http.MethodPost }

// Payload 实现 Request 接口
func (r *GenerateContentRequest) Payload() ([]byte, error) { return r.payload() }

// ═══════════════════════════════════════════════════════════════════════════
// StreamGenerateContentRequest
// ═══════════════════════════════════════════════════════════════════════════

// StreamGenerateContentRequest 流式生成请求
//
// 模型名处理规则与非流式请求一致。
type StreamGenerateContentRequest struct {
	generateBase
}

// NewStreamGenerateContentRequest 创建流式生成请求
func NewStreamGenerateContentRequest(model ModelName, contents []Content, opts ...GenerateOption) (*StreamGenerateContentRequest, error) {
	base, err := newGenerateBase(model, contents, opts)
	if err != nil {
		return nil, err
	}
	return &StreamGenerateContentRequest{generateBase: base}, nil
}

// Operation 实现 Request 接口
func (r *StreamGenerateContentRequest) Operation() string {
	return r.model.Path() + ":streamGenerateContent"
}

// HTTPMethod 实现 Request 接口
func (r *StreamGenerateContentRequest) HTTPMethod() string { return http.MethodPost }

// Payload 实现 Request 接口
func (r *StreamGenerateContentRequest) Payload() ([]byte, error) { return r.payload() }

// ═══════════════════════════════════════════════════════════════════════════
// CountTokensRequest
// ═══════════════════════════════════════════════════════════════════════════

// CountTokensRequest token 计数请求
type CountTokensRequest struct {
	model    ModelName
	contents []Content
}

// NewCountTokensRequest 创建计数请求
func NewCountTokensRequest(model ModelName, contents []Content) (*CountTokensRequest, error) {
	if model == "" {
		return nil, NewValidationError("model", "model name is required")
	}
	if err := ensureContents(contents); err != nil {
		return nil, err
	}
	return &CountTokensRequest{model: model, contents: cloneContents(contents)}, nil
}

// Model 返回模型名
func (r *CountTokensRequest) Model() ModelName { return r.model }

// Contents 返回内容副本
func (r *CountTokensRequest) Contents() []Content { return cloneContents(r.contents) }

// Operation 实现 Request 接口
func (r *CountTokensRequest) Operation() string {
	return r.model.Path() + ":countTokens"
}

// HTTPMethod 实现 Request 接口
func (r *CountTokensRequest) HTTPMethod() string { return http.MethodPost }

// Payload 实现 Request 接口
func (r *CountTokensRequest) Payload() ([]byte, error) {
	contents := r.contents
	if contents == nil {
		contents = []Content{}
	}
	return MarshalCanonical(struct {
		Model    string    `json:"model"`
		Contents []Content `json:"contents"`
	}{
		Model:    r.model.Path(),
		Contents: contents,
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// EmbedContentRequest
// ═══════════════════════════════════════════════════════════════════════════

// EmbedOption Embedding 请求的可选字段
type EmbedOption func(*EmbedContentRequest)

// WithTaskType 设置任务类型
func WithTaskType(taskType TaskType) EmbedOption {
	return func(r *EmbedContentRequest) {
		r.taskType = taskType
	}
}

// WithTitle 设置文档标题（仅 RETRIEVAL_DOCUMENT 可用）
func WithTitle(title string) EmbedOption {
	return func(r *EmbedContentRequest) {
		r.title = &title
	}
}

// EmbedContentRequest Embedding 请求
type EmbedContentRequest struct {
	model    ModelName
	content  Content
	taskType TaskType
	title    *string
}

// NewEmbedContentRequest 创建 Embedding 请求
//
// 设置了 title 但 taskType 不是 RETRIEVAL_DOCUMENT 时返回 ValidationError。
func NewEmbedContentRequest(model ModelName, content Content, opts ...EmbedOption) (*EmbedContentRequest, error) {
	if model == "" {
		return nil, NewValidationError("model", "model name is required")
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}

	r := &EmbedContentRequest{model: model, content: content.Clone()}
	for _, opt := range opts {
		opt(r)
	}

	if r.title != nil && r.taskType != TaskTypeRetrievalDocument {
		return nil, NewValidationError("title", "Title is only applicable when TaskType is RETRIEVAL_DOCUMENT")
	}
	return r, nil
}

// Model 返回模型名
func (r *EmbedContentRequest) Model() ModelName { return r.model }

// Content 返回内容副本
func (r *EmbedContentRequest) Content() Content { return r.content.Clone() }

// TaskType 返回任务类型（未设置为空）
func (r *EmbedContentRequest) TaskType() TaskType { return r.taskType }

// Title 返回标题及是否设置
func (r *EmbedContentRequest) Title() (string, bool) {
	if r.title == nil {
		return "", false
	}
	return *r.title, true
}

// Operation 实现 Request 接口
func (r *EmbedContentRequest) Operation() string {
	return r.model.Path() + ":embedContent"
}

// HTTPMethod 实现 Request 接口
func (r *EmbedContentRequest) HTTPMethod() string { return http.MethodPost }

// Payload 实现 Request 接口
func (r *EmbedContentRequest) Payload() ([]byte, error) {
	return MarshalCanonical(struct {
		Content  Content  `json:"content"`
		TaskType TaskType `json:"taskType,omitempty"`
		Title    *string  `json:"title,omitempty"`
	}{
		Content:  r.content,
		TaskType: r.taskType,
		Title:    r.title,
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// ListModelsRequest
// ═══════════════════════════════════════════════════════════════════════════

// ListModelsRequest 模型列表请求
type ListModelsRequest struct{}

// NewListModelsRequest 创建模型列表请求
func NewListModelsRequest() *ListModelsRequest {
	return &ListModelsRequest{}
}

// Operation 实现 Request 接口
func (r *ListModelsRequest) Operation() string { return "models" }

// HTTPMethod 实现 Request 接口
func (r *ListModelsRequest) HTTPMethod() string { return http.MethodGet }

// Payload 实现 Request 接口
func (r *ListModelsRequest) Payload() ([]byte, error) { return nil, nil }

// ═══════════════════════════════════════════════════════════════════════════
// 辅助函数
// ═══════════════════════════════════════════════════════════════════════════

func cloneContents(contents []Content) []Content {
	if contents == nil {
		return nil
	}
	out := make([]Content, len(contents))
	for i, c := range contents {
		out[i] = c.Clone()
	}
	return out
}

// 确保实现了 Request 接口
var (
	_ Request = (*GenerateContentRequest)(nil)
	_ Request = (*StreamGenerateContentRequest)(nil)
	_ Request = (*CountTokensRequest)(nil)
	_ Request = (*EmbedContentRequest)(nil)
	_ Request = (*ListModelsRequest)(nil)
)
