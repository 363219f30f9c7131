//go:generate mockgen -destination=./coremock/transport.go -package=coremock -source=transport.go

package core

import (
	"context"
	"io"
	"net/http"
)

// ═══════════════════════════════════════════════════════════════════════════
// 传输层抽象
// ═══════════════════════════════════════════════════════════════════════════

// HTTPRequest 一次 HTTP 调用的全部输入
type HTTPRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte // GET 请求为 nil
}

// HTTPResponse 非流式响应，Body 已完整读取
type HTTPResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HTTPStreamResponse 流式响应，Body 由调用方负责关闭
type HTTPStreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Transport 发送请求并完整读取响应
//
// 连接管理、TLS、代理等全部由实现负责；实现不应做任何重试。
type Transport interface {
	Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error)
}

// StreamTransport 支持流式读取响应体的传输层
//
// 流式调用要求传输层实现此接口，否则返回 MissingDependencyError。
type StreamTransport interface {
	Transport

	// DoStream 发送请求，返回尚未读取的响应体
	DoStream(ctx context.Context, req *HTTPRequest) (*HTTPStreamResponse, error)
}
