package gemini

// ═══════════════════════════════════════════════════════════════════════════
// 角色
// ═══════════════════════════════════════════════════════════════════════════

// Role 对话轮次的产生方
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String 返回字符串表示
func (r Role) String() string {
	return string(r)
}

// IsValid 判断是否为已知角色
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleModel
}

// ═══════════════════════════════════════════════════════════════════════════
// MIME 类型
// ═══════════════════════════════════════════════════════════════════════════

// MimeType 内联数据的 MIME 类型
type MimeType string

const (
	MimeTypeApplicationPDF        MimeType = "application/pdf"
	MimeTypeApplicationJavaScript MimeType = "application/x-javascript"
	MimeTypeApplicationPython     MimeType = "application/x-python"

	MimeTypeTextPlain    MimeType = "text/plain"
	MimeTypeTextHTML     MimeType = "text/html"
	MimeTypeTextCSS      MimeType = "text/css"
	MimeTypeTextMarkdown MimeType = "text/md"
	MimeTypeTextCSV      MimeType = "text/csv"
	MimeTypeTextXML      MimeType = "text/xml"
	MimeTypeTextRTF      MimeType = "text/rtf"

	MimeTypeImagePNG  MimeType = "image/png"
	MimeTypeImageJPEG MimeType = "image/jpeg"
	MimeTypeImageHEIC MimeType = "image/heic"
	MimeTypeImageHEIF MimeType = "image/heif"
	MimeTypeImageWEBP MimeType = "image/webp"
)

// String 返回字符串表示
func (m MimeType) String() string {
	return string(m)
}

// IsImage 判断是否为图片类型
func (m MimeType) IsImage() bool {
	switch m {
	case MimeTypeImagePNG, MimeTypeImageJPEG, MimeTypeImageHEIC,
		MimeTypeImageHEIF, MimeTypeImageWEBP:
		return true
	default:
		return false
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 安全相关枚举
// ═══════════════════════════════════════════════════════════════════════════

// HarmCategory 有害内容类别
type HarmCategory string

const (
	HarmCategoryUnspecified      HarmCategory = "HARM_CATEGORY_UNSPECIFIED"
	HarmCategoryDerogatory       HarmCategory = "HARM_CATEGORY_DEROGATORY"
	HarmCategoryToxicity         HarmCategory = "HARM_CATEGORY_TOXICITY"
	HarmCategoryViolence         HarmCategory = "HARM_CATEGORY_VIOLENCE"
	HarmCategorySexual           HarmCategory = "HARM_CATEGORY_SEXUAL"
	HarmCategoryMedical          HarmCategory = "HARM_CATEGORY_MEDICAL"
	HarmCategoryDangerous        HarmCategory = "HARM_CATEGORY_DANGEROUS"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
)

// HarmBlockThreshold 拦截阈值
type HarmBlockThreshold string

const (
	HarmBlockThresholdUnspecified HarmBlockThreshold = "HARM_BLOCK_THRESHOLD_UNSPECIFIED"
	BlockLowAndAbove              HarmBlockThreshold = "BLOCK_LOW_AND_ABOVE"
	BlockMediumAndAbove           HarmBlockThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	BlockOnlyHigh                 HarmBlockThreshold = "BLOCK_ONLY_HIGH"
	BlockNone                     HarmBlockThreshold = "BLOCK_NONE"
)

// HarmProbability 有害概率
type HarmProbability string

const (
	HarmProbabilityUnspecified HarmProbability = "HARM_PROBABILITY_UNSPECIFIED"
	HarmProbabilityNegligible  HarmProbability = "NEGLIGIBLE"
	HarmProbabilityLow         HarmProbability = "LOW"
	HarmProbabilityMedium      HarmProbability = "MEDIUM"
	HarmProbabilityHigh        HarmProbability = "HIGH"
)

// ═══════════════════════════════════════════════════════════════════════════
// 结束原因 / 拦截原因
// ═══════════════════════════════════════════════════════════════════════════

// FinishReason 候选结果的结束原因
//
// 未知取值原样保留，不视为错误，API 新增枚举时客户端无需升级。
type FinishReason string

const (
	FinishReasonUnspecified FinishReason = "FINISH_REASON_UNSPECIFIED"
	FinishReasonStop        FinishReason = "STOP"
	FinishReasonMaxTokens   FinishReason = "MAX_TOKENS"
	FinishReasonSafety      FinishReason = "SAFETY"
	FinishReasonRecitation  FinishReason = "RECITATION"
	FinishReasonOther       FinishReason = "OTHER"
)

// BlockReason 提示词被拦截的原因
type BlockReason string

const (
	BlockReasonUnspecified BlockReason = "BLOCK_REASON_UNSPECIFIED"
	BlockReasonSafety      BlockReason = "SAFETY"
	BlockReasonOther       BlockReason = "OTHER"
)

// ═══════════════════════════════════════════════════════════════════════════
// Embedding 任务类型
// ═══════════════════════════════════════════════════════════════════════════

// TaskType Embedding 任务类型
type TaskType string

const (
	TaskTypeUnspecified        TaskType = "TASK_TYPE_UNSPECIFIED"
	TaskTypeRetrievalQuery     TaskType = "RETRIEVAL_QUERY"
	TaskTypeRetrievalDocument  TaskType = "RETRIEVAL_DOCUMENT"
	TaskTypeSemanticSimilarity TaskType = "SEMANTIC_SIMILARITY"
	TaskTypeClassification     TaskType = "CLASSIFICATION"
	TaskTypeClustering         TaskType = "CLUSTERING"
)
