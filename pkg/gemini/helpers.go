package gemini

import (
	"bytes"
	"encoding/json"
)

// ═══════════════════════════════════════════════════════════════════════════
// 类型转换辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// GetInt64 将 any 类型安全转换为 int64
//
// 支持的输入类型：
//   - float64: JSON 数字的默认类型
//   - int: Go 原生整数
//   - int64: Go 64位整数
//
// 其他类型返回 0（零值）。
//
// 示例：
//
//	tokenCount := GetInt64(candidate["tokenCount"])  // 处理 float64
func GetInt64(val any) int64 {
	switch v := val.(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// GetFloat64 将 any 类型安全转换为 float64
//
// 其他类型返回 0.0（零值）。
func GetFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// GetString 将 any 类型安全转换为 string
//
// 其他类型返回 ""（空字符串）。
func GetString(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// optionalFloat 字段存在时返回指针
func optionalFloat(obj map[string]any, key string) *float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	f := GetFloat64(v)
	return &f
}

// optionalInt 字段存在时返回指针
func optionalInt(obj map[string]any, key string) *int64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	i := GetInt64(v)
	return &i
}

// objectField 读取对象字段，缺失返回 nil，类型不符返回 ValidationError
func objectField(obj map[string]any, key string) (map[string]any, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, NewTypeMismatchError("object", typeName(v))
	}
	return m, nil
}

// arrayField 读取数组字段，缺失返回 nil，类型不符返回 ValidationError
func arrayField(obj map[string]any, key string) ([]any, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	a, ok := v.([]any)
	if !ok {
		return nil, NewTypeMismatchError("array", typeName(v))
	}
	return a, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// JSON 编码
// ═══════════════════════════════════════════════════════════════════════════

// MarshalCanonical 生成请求使用的规范 JSON
//
// 与 json.Marshal 的区别：不转义 HTML 字符（<、>、&），不带结尾换行。
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
