package gemini

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationConfig_WithTemperature(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"下界 0", 0.0, false},
		{"中间值", 0.5, false},
		{"上界 1", 1.0, false},
		{"负数", -0.1, true},
		{"大于 1", 1.1, true},
		{"NaN", math.NaN(), true},
		{"正无穷", math.Inf(1), true},
		{"负无穷", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := GenerationConfig{}.WithTemperature(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				assert.Contains(t, err.Error(), "Temperature is negative or more than 1")
				_, ok := cfg.Temperature()
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			got, ok := cfg.Temperature()
			assert.True(t, ok)
			assert.InDelta(t, tt.value, got, 1e-9)
		})
	}
}

func TestGenerationConfig_CopyOnWrite(t *testing.T) {
	base, err := GenerationConfig{}.WithTemperature(0.3)
	require.NoError(t, err)

	derived, err := base.WithTemperature(0.9)
	require.NoError(t, err)

	got, _ := base.Temperature()
	assert.InDelta(t, 0.3, got, 1e-9)
	got, _ = derived.Temperature()
	assert.InDelta(t, 0.9, got, 1e-9)

	// 失败的修改也不影响接收者
	_, err = base.WithTemperature(2)
	require.Error(t, err)
	got, _ = base.Temperature()
	assert.InDelta(t, 0.3, got, 1e-9)
}

func TestGenerationConfig_StopSequencesCopied(t *testing.T) {
	seqs := []string{"END"}
	cfg, err := GenerationConfig{}.WithStopSequences(seqs)
	require.NoError(t, err)

	seqs[0] = "changed"
	assert.Equal(t, []string{"END"}, cfg.StopSequences())
}

func TestGenerationConfig_NegativeValues(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		apply   func(GenerationConfig) (GenerationConfig, error)
		message string
	}{
		{"candidateCount", "candidateCount", func(g GenerationConfig) (GenerationConfig, error) { return g.WithCandidateCount(-1) }, "Candidate count is negative"},
		{"maxOutputTokens", "maxOutputTokens", func(g GenerationConfig) (GenerationConfig, error) { return g.WithMaxOutputTokens(-1) }, "Max output tokens is negative"},
		{"topP", "topP", func(g GenerationConfig) (GenerationConfig, error) { return g.WithTopP(-0.5) }, "Top-p is negative"},
		{"topP NaN", "topP", func(g GenerationConfig) (GenerationConfig, error) { return g.WithTopP(math.NaN()) }, "Top-p is not a finite number"},
		{"topP 正无穷", "topP", func(g GenerationConfig) (GenerationConfig, error) { return g.WithTopP(math.Inf(1)) }, "Top-p is not a finite number"},
		{"topP 负无穷", "topP", func(g GenerationConfig) (GenerationConfig, error) { return g.WithTopP(math.Inf(-1)) }, "Top-p is negative"},
		{"topK", "topK", func(g GenerationConfig) (GenerationConfig, error) { return g.WithTopK(-3) }, "Top-k is negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.apply(GenerationConfig{})
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

// 非有限值在设置时即被拒绝，不会拖到序列化阶段
func TestGenerationConfig_NonFiniteRejectedBeforeRequest(t *testing.T) {
	cfg, err := GenerationConfig{}.WithTemperature(math.NaN())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	cfg, err = cfg.WithTopP(math.Inf(1))
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	req, err := NewGenerateContentRequest(ModelGeminiPro,
		[]Content{NewTextContent("hi", RoleUser)}, WithGenerationConfig(cfg))
	require.NoError(t, err)
	_, err = req.Payload()
	require.NoError(t, err)
}

func TestGenerationConfig_MarshalJSON(t *testing.T) {
	t.Run("未设置字段省略", func(t *testing.T) {
		data, err := MarshalCanonical(GenerationConfig{})
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(data))
	})

	t.Run("固定键顺序", func(t *testing.T) {
		cfg, err := GenerationConfig{}.WithTopK(40)
		require.NoError(t, err)
		cfg, err = cfg.WithTemperature(0.5)
		require.NoError(t, err)
		cfg, err = cfg.WithCandidateCount(1)
		require.NoError(t, err)
		cfg, err = cfg.WithStopSequences([]string{"x"})
		require.NoError(t, err)
		cfg, err = cfg.WithMaxOutputTokens(256)
		require.NoError(t, err)
		cfg, err = cfg.WithTopP(0.9)
		require.NoError(t, err)

		data, err := MarshalCanonical(cfg)
		require.NoError(t, err)
		assert.Equal(t,
			`{"candidateCount":1,"stopSequences":["x"],"maxOutputTokens":256,"temperature":0.5,"topP":0.9,"topK":40}`,
			string(data))
	})

	t.Run("显式设置的零值保留", func(t *testing.T) {
		cfg, err := GenerationConfig{}.WithTemperature(0)
		require.NoError(t, err)
		assert.False(t, cfg.IsZero())

		data, err := MarshalCanonical(cfg)
		require.NoError(t, err)
		assert.Equal(t, `{"temperature":0}`, string(data))
	})
}
