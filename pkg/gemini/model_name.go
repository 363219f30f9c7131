package gemini

import "strings"

// ModelName 模型标识
//
// 可以是短名（"gemini-pro"）或完整资源名（"models/gemini-pro"、
// "tunedModels/my-model"）。短名在构建请求时自动补全 "models/" 前缀。
type ModelName string

// 模型常量
const (
	// 自然语言任务、多轮对话与代码生成
	ModelGeminiPro         ModelName = "gemini-pro"
	ModelGeminiProVision   ModelName = "gemini-pro-vision"
	ModelGemini10Pro       ModelName = "gemini-1.0-pro"
	ModelGemini10Pro001    ModelName = "gemini-1.0-pro-001"
	ModelGemini10ProLatest ModelName = "gemini-1.0-pro-latest"

	// 复杂推理
	ModelGemini15Pro       ModelName = "gemini-1.5-pro"
	ModelGemini15Pro001    ModelName = "gemini-1.5-pro-001"
	ModelGemini15Pro002    ModelName = "gemini-1.5-pro-002"
	ModelGemini15ProLatest ModelName = "gemini-1.5-pro-latest"

	// 快速通用
	ModelGemini15Flash       ModelName = "gemini-1.5-flash"
	ModelGemini15Flash001    ModelName = "gemini-1.5-flash-001"
	ModelGemini15Flash002    ModelName = "gemini-1.5-flash-002"
	ModelGemini15FlashLatest ModelName = "gemini-1.5-flash-latest"

	// 高吞吐低成本
	ModelGemini15Flash8B       ModelName = "gemini-1.5-flash-8b"
	ModelGemini15Flash8B001    ModelName = "gemini-1.5-flash-8b-001"
	ModelGemini15Flash8BLatest ModelName = "gemini-1.5-flash-8b-latest"

	// 文本相关度
	ModelTextEmbedding004 ModelName = "text-embedding-004"
	ModelEmbedding001     ModelName = "embedding-001"

	// 基于来源的问答
	ModelAQA ModelName = "aqa"
)

// String 返回原始字符串
func (m ModelName) String() string {
	return string(m)
}

// Path 返回用于请求的资源名
//
// 不含 "/" 的短名补全为 "models/<name>"，其余原样返回。
func (m ModelName) Path() string {
	if strings.Contains(string(m), "/") {
		return string(m)
	}
	return "models/" + string(m)
}
