package gemini

import (
	"fmt"
	"slices"
)

// ═══════════════════════════════════════════════════════════════════════════
// Candidate 候选结果
// ═══════════════════════════════════════════════════════════════════════════

// Candidate 一个生成候选
type Candidate struct {
	Content          Content
	FinishReason     FinishReason
	CitationMetadata CitationMetadata
	SafetyRatings    []SafetyRating
	TokenCount       int64
	Index            int64
}

// CandidateFromWire 解码候选结果
//
// 缺省值：tokenCount→0、index→0、citationMetadata→空、safetyRatings→空。
// tokenCount 或 index 为负数时返回 ValidationError。
func CandidateFromWire(obj map[string]any) (Candidate, error) {
	contentObj, err := objectField(obj, "content")
	if err != nil {
		return Candidate{}, NewResponseError("candidates.content", err)
	}
	content := Content{Role: RoleModel}
	if contentObj != nil {
		content, err = ContentFromWire(contentObj, RoleModel)
		if err != nil {
			return Candidate{}, NewResponseError("candidates.content", err)
		}
	}

	citation := CitationMetadata{CitationSources: []CitationSource{}}
	citationObj, err := objectField(obj, "citationMetadata")
	if err != nil {
		return Candidate{}, NewResponseError("candidates.citationMetadata", err)
	}
	if citationObj != nil {
		citation, err = CitationMetadataFromWire(citationObj)
		if err != nil {
			return Candidate{}, NewResponseError("candidates.citationMetadata", err)
		}
	}

	ratings, err := safetyRatingsFromWire(obj)
	if err != nil {
		return Candidate{}, NewResponseError("candidates.safetyRatings", err)
	}

	tokenCount := GetInt64(obj["tokenCount"])
	if tokenCount < 0 {
		return Candidate{}, NewValidationError("tokenCount", "tokenCount cannot be negative")
	}
	index := GetInt64(obj["index"])
	if index < 0 {
		return Candidate{}, NewValidationError("index", "index cannot be negative")
	}

	return Candidate{
		Content:          content,
		FinishReason:     FinishReason(GetString(obj["finishReason"])),
		CitationMetadata: citation,
		SafetyRatings:    ratings,
		TokenCount:       tokenCount,
		Index:            index,
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// GenerateContentResponse
// ═══════════════════════════════════════════════════════════════════════════

// GenerateContentResponse 生成响应
//
// 非流式：每个 HTTP 响应体一个；流式：每个解码出的顶层对象一个。
type GenerateContentResponse struct {
	Candidates     []Candidate
	PromptFeedback *PromptFeedback
	UsageMetadata  *UsageMetadata
}

// UsageMetadata token 用量（API 在部分响应中附带）
type UsageMetadata struct {
	PromptTokenCount     int64
	CandidatesTokenCount int64
	TotalTokenCount      int64
}

// GenerateContentResponseFromWire 解码生成响应
func GenerateContentResponseFromWire(obj map[string]any) (*GenerateContentResponse, error) {
	resp := &GenerateContentResponse{Candidates: []Candidate{}}

	feedbackObj, err := objectField(obj, "promptFeedback")
	if err != nil {
		return nil, NewResponseError("promptFeedback", err)
	}
	if len(feedbackObj) > 0 {
		resp.PromptFeedback, err = PromptFeedbackFromWire(feedbackObj)
		if err != nil {
			return nil, err
		}
	}

	rawCandidates, err := arrayField(obj, "candidates")
	if err != nil {
		return nil, NewResponseError("candidates", err)
	}
	candidateObjs, err := EnsureObjects(rawCandidates)
	if err != nil {
		return nil, NewResponseError("candidates", err)
	}
	for _, c := range candidateObjs {
		candidate, err := CandidateFromWire(c)
		if err != nil {
			return nil, err
		}
		resp.Candidates = append(resp.Candidates, candidate)
	}

	usageObj, err := objectField(obj, "usageMetadata")
	if err != nil {
		return nil, NewResponseError("usageMetadata", err)
	}
	if usageObj != nil {
		resp.UsageMetadata = &UsageMetadata{
			PromptTokenCount:     GetInt64(usageObj["promptTokenCount"]),
			CandidatesTokenCount: GetInt64(usageObj["candidatesTokenCount"]),
			TotalTokenCount:      GetInt64(usageObj["totalTokenCount"]),
		}
	}

	return resp, nil
}

// Parts 单候选快捷访问
//
// 没有候选或有多个候选时返回 PreconditionError。
func (r *GenerateContentResponse) Parts() ([]Part, error) {
	if len(r.Candidates) == 0 {
		return nil, NewPreconditionError("parts",
			"The `GenerateContentResponse.Parts()` quick accessor only works for a single candidate, "+
				"but none were returned. Check the `GenerateContentResponse.PromptFeedback` to see if the prompt was blocked.")
	}
	if len(r.Candidates) > 1 {
		return nil, NewPreconditionError("parts",
			"The `GenerateContentResponse.Parts()` quick accessor only works with a single candidate. "+
				"With multiple candidates use indexed access: GenerateContentResponse.Candidates[index].Content.Parts")
	}
	return slices.Clone(r.Candidates[0].Content.Parts), nil
}

// Text 单候选单文本快捷访问
//
// 结果不是恰好一个文本片段时返回 PreconditionError。
func (r *GenerateContentResponse) Text() (string, error) {
	parts, err := r.Parts()
	if err != nil {
		return "", err
	}
	if len(parts) == 1 {
		if tp, ok := parts[0].(TextPart); ok {
			return tp.Text, nil
		}
	}
	return "", NewPreconditionError("text",
		"The `GenerateContentResponse.Text()` quick accessor only works for simple (single-`Part`) text responses. "+
			"This response is not single-part text. Use the `GenerateContentResponse.Parts()` accessor "+
			"or the full `GenerateContentResponse.Candidates[index].Content.Parts` lookup instead.")
}

// ═══════════════════════════════════════════════════════════════════════════
// CountTokensResponse
// ═══════════════════════════════════════════════════════════════════════════

// CountTokensResponse 计数响应
type CountTokensResponse struct {
	TotalTokens int64
}

// CountTokensResponseFromWire 解码计数响应
func CountTokensResponseFromWire(obj map[string]any) (*CountTokensResponse, error) {
	total := GetInt64(obj["totalTokens"])
	if total < 0 {
		return nil, NewValidationError("totalTokens", "totalTokens cannot be negative")
	}
	return &CountTokensResponse{TotalTokens: total}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// EmbedContentResponse
// ═══════════════════════════════════════════════════════════════════════════

// ContentEmbedding 向量
type ContentEmbedding struct {
	Values []float64
}

// ContentEmbeddingFromWire 解码向量，values 缺失、不是数组或含非数字时报错
func ContentEmbeddingFromWire(obj map[string]any) (ContentEmbedding, error) {
	raw, ok := obj["values"].([]any)
	if !ok {
		return ContentEmbedding{}, NewValidationError("values",
			`The required "values" key is missing or is not an array`)
	}
	values, err := EnsureFloats(raw)
	if err != nil {
		return ContentEmbedding{}, err
	}
	return ContentEmbedding{Values: values}, nil
}

// EmbedContentResponse Embedding 响应
type EmbedContentResponse struct {
	Embedding ContentEmbedding
}

// EmbedContentResponseFromWire 解码 Embedding 响应
func EmbedContentResponseFromWire(obj map[string]any) (*EmbedContentResponse, error) {
	embeddingObj, err := objectField(obj, "embedding")
	if err != nil {
		return nil, NewResponseError("embedding", err)
	}
	if embeddingObj == nil {
		return nil, NewResponseError("embedding", fmt.Errorf("missing"))
	}
	embedding, err := ContentEmbeddingFromWire(embeddingObj)
	if err != nil {
		return nil, err
	}
	return &EmbedContentResponse{Embedding: embedding}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// ListModelsResponse
// ═══════════════════════════════════════════════════════════════════════════

// Model 模型目录条目（只读，完全来自 listModels 响应）
type Model struct {
	Name                       string
	BaseModelID                string
	Version                    string
	DisplayName                string
	Description                string
	InputTokenLimit            int64
	OutputTokenLimit           int64
	SupportedGenerationMethods []string
	Temperature                *float64
	TopP                       *float64
	TopK                       *int64
}

// Supports 是否支持某个生成方法（如 "generateContent"）
func (m Model) Supports(method string) bool {
	return slices.Contains(m.SupportedGenerationMethods, method)
}

// ModelFromWire 解码模型条目
func ModelFromWire(obj map[string]any) (Model, error) {
	rawMethods, err := arrayField(obj, "supportedGenerationMethods")
	if err != nil {
		return Model{}, NewResponseError("models.supportedGenerationMethods", err)
	}
	methods, err := EnsureStrings(rawMethods)
	if err != nil {
		return Model{}, err
	}

	return Model{
		Name:                       GetString(obj["name"]),
		BaseModelID:                GetString(obj["baseModelId"]),
		Version:                    GetString(obj["version"]),
		DisplayName:                GetString(obj["displayName"]),
		Description:                GetString(obj["description"]),
		InputTokenLimit:            GetInt64(obj["inputTokenLimit"]),
		OutputTokenLimit:           GetInt64(obj["outputTokenLimit"]),
		SupportedGenerationMethods: methods,
		Temperature:                optionalFloat(obj, "temperature"),
		TopP:                       optionalFloat(obj, "topP"),
		TopK:                       optionalInt(obj, "topK"),
	}, nil
}

// ListModelsResponse 模型列表响应
type ListModelsResponse struct {
	Models        []Model
	NextPageToken string
}

// ListModelsResponseFromWire 解码模型列表响应
func ListModelsResponseFromWire(obj map[string]any) (*ListModelsResponse, error) {
	raw, err := arrayField(obj, "models")
	if err != nil {
		return nil, NewResponseError("models", err)
	}
	items, err := EnsureObjects(raw)
	if err != nil {
		return nil, NewResponseError("models", err)
	}

	resp := &ListModelsResponse{
		Models:        make([]Model, 0, len(items)),
		NextPageToken: GetString(obj["nextPageToken"]),
	}
	for _, item := range items {
		m, err := ModelFromWire(item)
		if err != nil {
			return nil, err
		}
		resp.Models = append(resp.Models, m)
	}
	return resp, nil
}
