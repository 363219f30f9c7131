package gemini

import (
	"math"
	"slices"
)

// ═══════════════════════════════════════════════════════════════════════════
// GenerationConfig 生成配置
// ═══════════════════════════════════════════════════════════════════════════

// GenerationConfig 不可变的生成参数集合
//
// 每个 WithX 方法先校验自身字段，再返回修改后的新值，接收者保持不变：
//
//	cfg, err := gemini.GenerationConfig{}.WithTemperature(0.2)
//	if err != nil { ... }
//	cfg, err = cfg.WithMaxOutputTokens(1024)
//
// 未设置的字段不会出现在请求 JSON 中；显式设置的零值会出现。
type GenerationConfig struct {
	candidateCount  *int
	stopSequences   []string
	maxOutputTokens *int
	temperature     *float64
	topP            *float64
	topK            *int
}

// WithCandidateCount 设置候选数量（≥ 0）
func (g GenerationConfig) WithCandidateCount(candidateCount int) (GenerationConfig, error) {
	if candidateCount < 0 {
		return g, NewValidationError("candidateCount", "Candidate count is negative")
	}
	g.candidateCount = &candidateCount
	return g, nil
}

// WithStopSequences 设置停止序列
func (g GenerationConfig) WithStopSequences(stopSequences []string) (GenerationConfig, error) {
	g.stopSequences = slices.Clone(stopSequences)
	return g, nil
}

// WithMaxOutputTokens 设置最大输出 tokens（≥ 0）
func (g GenerationConfig) WithMaxOutputTokens(maxOutputTokens int) (GenerationConfig, error) {
	if maxOutputTokens < 0 {
		return g, NewValidationError("maxOutputTokens", "Max output tokens is negative")
	}
	g.maxOutputTokens = &maxOutputTokens
	return g, nil
}

// WithTemperature 设置温度（0 ≤ t ≤ 1）
func (g GenerationConfig) WithTemperature(temperature float64) (GenerationConfig, error) {
	if math.IsNaN(temperature) || temperature < 0.0 || temperature > 1.0 {
		return g, NewValidationError("temperature", "Temperature is negative or more than 1")
	}
	g.temperature = &temperature
	return g, nil
}

// WithTopP 设置 top-p（≥ 0，有限值）
func (g GenerationConfig) WithTopP(topP float64) (GenerationConfig, error) {
	if math.IsNaN(topP) || math.IsInf(topP, 1) {
		return g, NewValidationError("topP", "Top-p is not a finite number")
	}
	if topP < 0.0 {
		return g, NewValidationError("topP", "Top-p is negative")
	}
	g.topP = &topP
	return g, nil
}

// WithTopK 设置 top-k（≥ 0）
func (g GenerationConfig) WithTopK(topK int) (GenerationConfig, error) {
	if topK < 0 {
		return g, NewValidationError("topK", "Top-k is negative")
	}
	g.topK = &topK
	return g, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 读取
// ═══════════════════════════════════════════════════════════════════════════

// CandidateCount 返回候选数量及是否设置
func (g GenerationConfig) CandidateCount() (int, bool) { return derefInt(g.candidateCount) }

// StopSequences 返回停止序列副本
func (g GenerationConfig) StopSequences() []string { return slices.Clone(g.stopSequences) }

// MaxOutputTokens 返回最大输出 tokens 及是否设置
func (g GenerationConfig) MaxOutputTokens() (int, bool) { return derefInt(g.maxOutputTokens) }

// Temperature 返回温度及是否设置
func (g GenerationConfig) Temperature() (float64, bool) { return derefFloat(g.temperature) }

// TopP 返回 top-p 及是否设置
func (g GenerationConfig) TopP() (float64, bool) { return derefFloat(g.topP) }

// TopK 返回 top-k 及是否设置
func (g GenerationConfig) TopK() (int, bool) { return derefInt(g.topK) }

// IsZero 没有任何字段被设置
func (g GenerationConfig) IsZero() bool {
	return g.candidateCount == nil && g.stopSequences == nil && g.maxOutputTokens == nil &&
		g.temperature == nil && g.topP == nil && g.topK == nil
}

// MarshalJSON 按固定键顺序输出已设置的字段
func (g GenerationConfig) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(struct {
		CandidateCount  *int     `json:"candidateCount,omitempty"`
		StopSequences   []string `json:"stopSequences,omitempty"`
		MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
		Temperature     *float64 `json:"temperature,omitempty"`
		TopP            *float64 `json:"topP,omitempty"`
		TopK            *int     `json:"topK,omitempty"`
	}{
		CandidateCount:  g.candidateCount,
		StopSequences:   g.stopSequences,
		MaxOutputTokens: g.maxOutputTokens,
		Temperature:     g.temperature,
		TopP:            g.topP,
		TopK:            g.topK,
	})
}

func derefInt(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func derefFloat(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
