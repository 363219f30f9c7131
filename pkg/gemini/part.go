package gemini

// ═══════════════════════════════════════════════════════════════════════════
// Part 内容片段
// ═══════════════════════════════════════════════════════════════════════════

// Part 消息内容的最小单元
//
// 封闭的和类型：只有 [TextPart] 和 [InlineDataPart] 两种实现。
// 序列化结果为以下两种形态之一：
//
//	{"text": "..."}
//	{"inlineData": {"mimeType": "...", "data": "..."}}
type Part interface {
	// PartType 返回判别标签："text" 或 "inlineData"
	PartType() string

	isPart()
}

// TextPart 文本片段
type TextPart struct {
	Text string `json:"text"`
}

// NewTextPart 创建文本片段
func NewTextPart(text string) TextPart {
	return TextPart{Text: text}
}

// PartType 实现 Part 接口
func (TextPart) PartType() string { return "text" }

func (TextPart) isPart() {}

// InlineDataPart 内联数据片段（图片、文档等）
//
// Data 为 base64 编码后的内容，按原样发送。
type InlineDataPart struct {
	MIMEType MimeType
	Data     string
}

// NewInlineDataPart 创建内联数据片段
func NewInlineDataPart(mimeType MimeType, data string) InlineDataPart {
	return InlineDataPart{MIMEType: mimeType, Data: data}
}

// NewImagePart 创建图片片段
func NewImagePart(mimeType MimeType, image string) InlineDataPart {
	return NewInlineDataPart(mimeType, image)
}

// NewFilePart 创建文件片段
//
// 与图片在线上格式完全一致，只是 MIME 类型表示文档。
func NewFilePart(mimeType MimeType, file string) InlineDataPart {
	return NewInlineDataPart(mimeType, file)
}

// PartType 实现 Part 接口
func (InlineDataPart) PartType() string { return "inlineData" }

func (InlineDataPart) isPart() {}

type inlineDataWire struct {
	MIMEType MimeType `json:"mimeType"`
	Data     string   `json:"data"`
}

// MarshalJSON 输出 {"inlineData": {...}}
func (p InlineDataPart) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(struct {
		InlineData inlineDataWire `json:"inlineData"`
	}{
		InlineData: inlineDataWire(p),
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 解码
// ═══════════════════════════════════════════════════════════════════════════

// PartsFromWire 解码单个 part 对象
//
// 非空 text 解码为 TextPart，非空 inlineData 解码为 InlineDataPart；
// 两者同时出现时各自独立解码并按此顺序追加。未知字段忽略。
func PartsFromWire(obj map[string]any) ([]Part, error) {
	var parts []Part

	if text := GetString(obj["text"]); text != "" {
		parts = append(parts, TextPart{Text: text})
	}

	inline, err := objectField(obj, "inlineData")
	if err != nil {
		return nil, err
	}
	if len(inline) > 0 {
		parts = append(parts, InlineDataPart{
			MIMEType: MimeType(GetString(inline["mimeType"])),
			Data:     GetString(inline["data"]),
		})
	}

	return parts, nil
}

// 确保实现了 Part 接口
var (
	_ Part = TextPart{}
	_ Part = InlineDataPart{}
)
