package gemini

import (
	"fmt"
	"reflect"
)

// ═══════════════════════════════════════════════════════════════════════════
// 集合类型校验
// ═══════════════════════════════════════════════════════════════════════════
//
// 强类型集合（[]Content、[]SafetySetting）在编译期已经保证元素类型，
// 这里的运行时校验只用于不可信的反序列化边界（解码后的 []any）。

// EnsureSliceOf 断言 items 中每个元素都是 T，返回转换后的切片
//
// 遇到第一个不匹配的元素立即返回 ValidationError，错误信息包含期望与实际类型。
//
// 示例：
//
//	values, err := EnsureSliceOf[float64](raw["values"].([]any), "float")
func EnsureSliceOf[T any](items []any, expected string) ([]T, error) {
	result := make([]T, 0, len(items))
	for _, item := range items {
		v, ok := item.(T)
		if !ok {
			return nil, NewTypeMismatchError(expected, typeName(item))
		}
		result = append(result, v)
	}
	return result, nil
}

// EnsureObjects 断言 items 中每个元素都是 JSON 对象
func EnsureObjects(items []any) ([]map[string]any, error) {
	return EnsureSliceOf[map[string]any](items, "object")
}

// EnsureStrings 断言 items 中每个元素都是字符串
func EnsureStrings(items []any) ([]string, error) {
	return EnsureSliceOf[string](items, "string")
}

// EnsureFloats 断言 items 中每个元素都是数字
//
// encoding/json 把所有 JSON 数字解码为 float64。
func EnsureFloats(items []any) ([]float64, error) {
	return EnsureSliceOf[float64](items, "float")
}

// ensureParts 断言 parts 中没有 nil
func ensureParts(parts []Part) error {
	for _, p := range parts {
		if p == nil || reflect.ValueOf(p).Kind() == reflect.Pointer && reflect.ValueOf(p).IsNil() {
			return NewTypeMismatchError("Part", "nil")
		}
	}
	return nil
}

// ensureContents 断言每个 Content 的角色和 Parts 合法
func ensureContents(contents []Content) error {
	for _, c := range contents {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ensureSafetySettings 断言每个 SafetySetting 的类别和阈值非空
func ensureSafetySettings(settings []SafetySetting) error {
	for _, s := range settings {
		if s.Category == "" || s.Threshold == "" {
			return NewTypeMismatchError("SafetySetting", fmt.Sprintf("%+v", s))
		}
	}
	return nil
}

// typeName 返回 JSON 解码值的类型名
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
