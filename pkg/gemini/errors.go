package gemini

import (
	"errors"
	"fmt"
	"net/http"
)

// ═══════════════════════════════════════════════════════════════════════════
// 错误类型
// ═══════════════════════════════════════════════════════════════════════════

// ErrorType 错误类型
type ErrorType string

const (
	// ErrTypeConfig 配置错误
	ErrTypeConfig ErrorType = "config_error"

	// ErrTypeValidation 构造期校验错误（类型不匹配、数值越界、非法组合）
	ErrTypeValidation ErrorType = "validation_error"

	// ErrTypePrecondition 便捷访问器前置条件错误
	ErrTypePrecondition ErrorType = "precondition_error"

	// ErrTypeRequest 请求错误（序列化、构建等）
	ErrTypeRequest ErrorType = "request_error"

	// ErrTypeHTTP HTTP 层错误（网络、超时等）
	ErrTypeHTTP ErrorType = "http_error"

	// ErrTypeTransport API 返回非 2xx 状态
	ErrTypeTransport ErrorType = "transport_error"

	// ErrTypeResponse 响应解析错误
	ErrTypeResponse ErrorType = "response_error"

	// ErrTypeStreamDecode 流式对象解码错误
	ErrTypeStreamDecode ErrorType = "stream_decode_error"

	// ErrTypeMissingDependency 缺少必需能力（如流式传输）
	ErrTypeMissingDependency ErrorType = "missing_dependency"
)

// ═══════════════════════════════════════════════════════════════════════════
// 基础错误
// ═══════════════════════════════════════════════════════════════════════════

// BaseError 基础错误实现
type BaseError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *BaseError) Unwrap() error {
	return e.Err
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置错误
// ═══════════════════════════════════════════════════════════════════════════

// ConfigError 配置错误
type ConfigError struct {
	*BaseError
}

// NewConfigError 创建配置错误
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{
		BaseError: &BaseError{
			Type:    ErrTypeConfig,
			Message: message,
			Err:     err,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 校验错误
// ═══════════════════════════════════════════════════════════════════════════

// ValidationError 构造期校验错误
//
// 总是在构造函数或 WithX 方法中同步返回，不会延迟到发送请求时。
type ValidationError struct {
	*BaseError

	Field    string // 出错的字段（可选）
	Expected string // 期望的类型或取值（可选）
	Actual   string // 实际的类型或取值（可选）
}

// NewValidationError 创建校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			Type:    ErrTypeValidation,
			Message: message,
		},
		Field: field,
	}
}

// NewTypeMismatchError 创建类型不匹配错误
func NewTypeMismatchError(expected, actual string) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			Type:    ErrTypeValidation,
			Message: fmt.Sprintf("Expected type %s but found %s", expected, actual),
		},
		Expected: expected,
		Actual:   actual,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 前置条件错误
// ═══════════════════════════════════════════════════════════════════════════

// PreconditionError 访问器前置条件错误
type PreconditionError struct {
	*BaseError

	Accessor string // "parts", "text"
}

// NewPreconditionError 创建前置条件错误
func NewPreconditionError(accessor, message string) *PreconditionError {
	return &PreconditionError{
		BaseError: &BaseError{
			Type:    ErrTypePrecondition,
			Message: message,
		},
		Accessor: accessor,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 请求错误
// ═══════════════════════════════════════════════════════════════════════════

// RequestError 请求错误
type RequestError struct {
	*BaseError

	Stage string // "marshal", "build", etc.
}

// NewRequestError 创建请求错误
func NewRequestError(stage string, err error) *RequestError {
	return &RequestError{
		BaseError: &BaseError{
			Type:    ErrTypeRequest,
			Message: fmt.Sprintf("failed to %s request", stage),
			Err:     err,
		},
		Stage: stage,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// HTTP 错误
// ═══════════════════════════════════════════════════════════════════════════

// HTTPError HTTP 层错误
type HTTPError struct {
	*BaseError
}

// NewHTTPError 创建 HTTP 错误
func NewHTTPError(message string, err error) *HTTPError {
	return &HTTPError{
		BaseError: &BaseError{
			Type:    ErrTypeHTTP,
			Message: message,
			Err:     err,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 传输错误（非 2xx）
// ═══════════════════════════════════════════════════════════════════════════

// TransportError API 返回非 2xx 状态
//
// Response 保留原始响应体，便于排查配额、参数校验等远端错误。
type TransportError struct {
	*BaseError

	Operation  string
	StatusCode int
	Response   string
	RequestID  string
}

// NewTransportError 创建传输错误
func NewTransportError(operation string, statusCode int, response string) *TransportError {
	return &TransportError{
		BaseError: &BaseError{
			Type: ErrTypeTransport,
			Message: fmt.Sprintf("Gemini API operation failed: operation=%s, status_code=%d, response=%s",
				operation, statusCode, response),
		},
		Operation:  operation,
		StatusCode: statusCode,
		Response:   response,
	}
}

// WithRequestID 设置请求 ID
func (e *TransportError) WithRequestID(requestID string) *TransportError {
	e.RequestID = requestID
	return e
}

func (e *TransportError) Error() string {
	base := e.BaseError.Error()
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id: %s)", base, e.RequestID)
	}
	return base
}

// IsRetryable 检查错误是否可重试
//
// 本库不做重试，仅供调用方自行决策。
func (e *TransportError) IsRetryable() bool {
	// 429 (Rate Limit), 500, 502, 503, 504 可重试
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500 && e.StatusCode <= 504
}

// ═══════════════════════════════════════════════════════════════════════════
// 响应解析错误
// ═══════════════════════════════════════════════════════════════════════════

// ResponseError 响应解析错误
type ResponseError struct {
	*BaseError

	Field string // 出错的字段
}

// NewResponseError 创建响应错误
func NewResponseError(field string, err error) *ResponseError {
	return &ResponseError{
		BaseError: &BaseError{
			Type:    ErrTypeResponse,
			Message: fmt.Sprintf("failed to parse response field '%s'", field),
			Err:     err,
		},
		Field: field,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 流式解码错误
// ═══════════════════════════════════════════════════════════════════════════

// StreamDecodeError 流中某个完整顶层对象无法解码
//
// 对整个流是致命的：不会部分投递，也不会恢复。
type StreamDecodeError struct {
	*BaseError

	Fragment string // 解码失败的原始片段
}

// NewStreamDecodeError 创建流式解码错误
func NewStreamDecodeError(fragment string, err error) *StreamDecodeError {
	return &StreamDecodeError{
		BaseError: &BaseError{
			Type:    ErrTypeStreamDecode,
			Message: "could not decode the given message",
			Err:     err,
		},
		Fragment: fragment,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 缺少依赖错误
// ═══════════════════════════════════════════════════════════════════════════

// MissingDependencyError 当前环境缺少必需能力
type MissingDependencyError struct {
	*BaseError

	Capability string
}

// NewMissingDependencyError 创建缺少依赖错误
func NewMissingDependencyError(capability, message string) *MissingDependencyError {
	return &MissingDependencyError{
		BaseError: &BaseError{
			Type:    ErrTypeMissingDependency,
			Message: message,
		},
		Capability: capability,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误匹配函数（支持 errors.Is/As）
// ═══════════════════════════════════════════════════════════════════════════

// IsConfigError 检查是否为配置错误
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsValidationError 检查是否为校验错误
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsPreconditionError 检查是否为前置条件错误
func IsPreconditionError(err error) bool {
	var e *PreconditionError
	return errors.As(err, &e)
}

// IsRequestError 检查是否为请求错误
func IsRequestError(err error) bool {
	var e *RequestError
	return errors.As(err, &e)
}

// IsHTTPError 检查是否为 HTTP 错误
func IsHTTPError(err error) bool {
	var e *HTTPError
	return errors.As(err, &e)
}

// IsTransportError 检查是否为传输错误
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsResponseError 检查是否为响应解析错误
func IsResponseError(err error) bool {
	var e *ResponseError
	return errors.As(err, &e)
}

// IsStreamDecodeError 检查是否为流式解码错误
func IsStreamDecodeError(err error) bool {
	var e *StreamDecodeError
	return errors.As(err, &e)
}

// IsMissingDependencyError 检查是否为缺少依赖错误
func IsMissingDependencyError(err error) bool {
	var e *MissingDependencyError
	return errors.As(err, &e)
}

// IsRetryableError 检查错误是否可重试
func IsRetryableError(err error) bool {
	var e *TransportError
	if errors.As(err, &e) {
		return e.IsRetryable()
	}
	return false
}

// GetTransportError 提取 TransportError（如果存在）
func GetTransportError(err error) (*TransportError, bool) {
	var e *TransportError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetStatusCode 提取 HTTP 状态码（如果是传输错误）
func GetStatusCode(err error) int {
	if e, ok := GetTransportError(err); ok {
		return e.StatusCode
	}
	return 0
}
