package gemini

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ═══════════════════════════════════════════════════════════════════════════
// Content 对话轮次
// ═══════════════════════════════════════════════════════════════════════════

// Content 对话中的一个轮次：有序 Parts 加角色
//
// 由持有它的 Request 或 ChatSession 独占；跨轮次共享需显式 [Content.Clone]。
// 线上格式（键顺序固定）：
//
//	{"parts": [{"text": "..."}], "role": "user"}
type Content struct {
	Parts []Part `json:"parts"`
	Role  Role   `json:"role"`
}

// NewContent 创建 Content，parts 中不允许出现 nil
func NewContent(role Role, parts ...Part) (Content, error) {
	c := Content{Parts: slices.Clone(parts), Role: role}
	if err := c.Validate(); err != nil {
		return Content{}, err
	}
	return c, nil
}

// NewTextContent 创建单文本 Content
func NewTextContent(text string, role Role) Content {
	return Content{Parts: []Part{NewTextPart(text)}, Role: role}
}

// NewImageContent 创建单图片 Content
func NewImageContent(mimeType MimeType, image string, role Role) Content {
	return Content{Parts: []Part{NewImagePart(mimeType, image)}, Role: role}
}

// NewFileContent 创建单文件 Content
func NewFileContent(mimeType MimeType, file string, role Role) Content {
	return Content{Parts: []Part{NewFilePart(mimeType, file)}, Role: role}
}

// NewTextAndImageContent 创建文本加图片 Content
func NewTextAndImageContent(text string, mimeType MimeType, image string, role Role) Content {
	return Content{
		Parts: []Part{NewTextPart(text), NewImagePart(mimeType, image)},
		Role:  role,
	}
}

// NewTextAndFileContent 创建文本加文件 Content
func NewTextAndFileContent(text string, mimeType MimeType, file string, role Role) Content {
	return Content{
		Parts: []Part{NewTextPart(text), NewFilePart(mimeType, file)},
		Role:  role,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 追加操作
// ═══════════════════════════════════════════════════════════════════════════

// AddText 追加文本片段
func (c *Content) AddText(text string) *Content {
	c.Parts = append(c.Parts, NewTextPart(text))
	return c
}

// AddImage 追加图片片段
func (c *Content) AddImage(mimeType MimeType, image string) *Content {
	c.Parts = append(c.Parts, NewImagePart(mimeType, image))
	return c
}

// AddFile 追加文件片段
func (c *Content) AddFile(mimeType MimeType, file string) *Content {
	c.Parts = append(c.Parts, NewFilePart(mimeType, file))
	return c
}

// AddParts 追加任意片段
//
// 任何一个为 nil 时整体拒绝，Content 保持不变。
func (c *Content) AddParts(parts ...Part) error {
	if err := ensureParts(parts); err != nil {
		return err
	}
	c.Parts = append(c.Parts, parts...)
	return nil
}

// Clone 返回独立副本
//
// Part 本身不可变，复制切片即可。
func (c Content) Clone() Content {
	return Content{Parts: slices.Clone(c.Parts), Role: c.Role}
}

// Validate 校验角色与 Parts
func (c Content) Validate() error {
	if !c.Role.IsValid() {
		return NewValidationError("role", fmt.Sprintf("unknown role %q", c.Role))
	}
	return ensureParts(c.Parts)
}

// MarshalJSON 输出 {"parts": [...], "role": "..."}
//
// Parts 为空时输出空数组而不是 null。
func (c Content) MarshalJSON() ([]byte, error) {
	parts := c.Parts
	if parts == nil {
		parts = []Part{}
	}
	return MarshalCanonical(struct {
		Parts []Part `json:"parts"`
		Role  Role   `json:"role"`
	}{Parts: parts, Role: c.Role})
}

// UnmarshalJSON 从线上格式解码
func (c *Content) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	decoded, err := ContentFromWire(obj, RoleUser)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 解码
// ═══════════════════════════════════════════════════════════════════════════

// ContentFromWire 从解码后的 JSON 对象构建 Content
//
// 缺少 role 时使用 defaultRole（响应中的候选内容默认为 model）。
// parts 中的每个元素必须是对象，否则返回 ValidationError。
func ContentFromWire(obj map[string]any, defaultRole Role) (Content, error) {
	rawParts, err := arrayField(obj, "parts")
	if err != nil {
		return Content{}, err
	}
	partObjs, err := EnsureObjects(rawParts)
	if err != nil {
		return Content{}, err
	}

	parts := make([]Part, 0, len(partObjs))
	for _, p := range partObjs {
		decoded, err := PartsFromWire(p)
		if err != nil {
			return Content{}, err
		}
		parts = append(parts, decoded...)
	}

	role := Role(GetString(obj["role"]))
	if role == "" {
		role = defaultRole
	}
	if !role.IsValid() {
		return Content{}, NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	return Content{Parts: parts, Role: role}, nil
}
