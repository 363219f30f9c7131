package gemini

// ═══════════════════════════════════════════════════════════════════════════
// 安全设置（请求侧）
// ═══════════════════════════════════════════════════════════════════════════

// SafetySetting 某个有害类别的拦截阈值
type SafetySetting struct {
	Category  HarmCategory       `json:"category"`
	Threshold HarmBlockThreshold `json:"threshold"`
}

// NewSafetySetting 创建安全设置
func NewSafetySetting(category HarmCategory, threshold HarmBlockThreshold) SafetySetting {
	return SafetySetting{Category: category, Threshold: threshold}
}

// ═══════════════════════════════════════════════════════════════════════════
// 安全评级（响应侧）
// ═══════════════════════════════════════════════════════════════════════════

// SafetyRating 内容在某个有害类别上的评级
type SafetyRating struct {
	Category    HarmCategory    `json:"category"`
	Probability HarmProbability `json:"probability"`
	Blocked     *bool           `json:"blocked,omitempty"`
}

// SafetyRatingFromWire 解码安全评级
func SafetyRatingFromWire(obj map[string]any) SafetyRating {
	rating := SafetyRating{
		Category:    HarmCategory(GetString(obj["category"])),
		Probability: HarmProbability(GetString(obj["probability"])),
	}
	if b, ok := obj["blocked"].(bool); ok {
		rating.Blocked = &b
	}
	return rating
}

// safetyRatingsFromWire 解码评级数组，缺失时返回空切片
func safetyRatingsFromWire(obj map[string]any) ([]SafetyRating, error) {
	raw, err := arrayField(obj, "safetyRatings")
	if err != nil {
		return nil, err
	}
	items, err := EnsureObjects(raw)
	if err != nil {
		return nil, err
	}
	ratings := make([]SafetyRating, 0, len(items))
	for _, item := range items {
		ratings = append(ratings, SafetyRatingFromWire(item))
	}
	return ratings, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 提示词反馈
// ═══════════════════════════════════════════════════════════════════════════

// PromptFeedback 提示词本身被过滤时附带的反馈
type PromptFeedback struct {
	BlockReason   BlockReason    `json:"blockReason,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}

// IsBlocked 提示词是否被拦截
func (p *PromptFeedback) IsBlocked() bool {
	return p != nil && p.BlockReason != ""
}

// PromptFeedbackFromWire 解码提示词反馈
func PromptFeedbackFromWire(obj map[string]any) (*PromptFeedback, error) {
	ratings, err := safetyRatingsFromWire(obj)
	if err != nil {
		return nil, NewResponseError("promptFeedback.safetyRatings", err)
	}
	return &PromptFeedback{
		BlockReason:   BlockReason(GetString(obj["blockReason"])),
		SafetyRatings: ratings,
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 引用元数据
// ═══════════════════════════════════════════════════════════════════════════

// CitationSource 生成内容引用的来源
type CitationSource struct {
	StartIndex *int64  `json:"startIndex,omitempty"`
	EndIndex   *int64  `json:"endIndex,omitempty"`
	URI        *string `json:"uri,omitempty"`
	License    *string `json:"license,omitempty"`
}

// CitationSourceFromWire 解码引用来源
func CitationSourceFromWire(obj map[string]any) CitationSource {
	src := CitationSource{
		StartIndex: optionalInt(obj, "startIndex"),
		EndIndex:   optionalInt(obj, "endIndex"),
	}
	if uri, ok := obj["uri"].(string); ok {
		src.URI = &uri
	}
	if license, ok := obj["license"].(string); ok {
		src.License = &license
	}
	return src
}

// CitationMetadata 引用元数据
type CitationMetadata struct {
	CitationSources []CitationSource `json:"citationSources"`
}

// CitationMetadataFromWire 解码引用元数据，缺失 citationSources 时为空
func CitationMetadataFromWire(obj map[string]any) (CitationMetadata, error) {
	raw, err := arrayField(obj, "citationSources")
	if err != nil {
		return CitationMetadata{}, err
	}
	items, err := EnsureObjects(raw)
	if err != nil {
		return CitationMetadata{}, err
	}
	sources := make([]CitationSource, 0, len(items))
	for _, item := range items {
		sources = append(sources, CitationSourceFromWire(item))
	}
	return CitationMetadata{CitationSources: sources}, nil
}
