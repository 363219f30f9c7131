package core

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
)

var (
	errUnbalanced = errors.New("unbalanced closing brace between objects")
	errTruncated  = errors.New("stream ended inside an object")
)

// ═══════════════════════════════════════════════════════════════════════════
// 接口定义
// ═══════════════════════════════════════════════════════════════════════════

// ServiceConfig 服务配置接口
//
// client.Config 实现此接口，BaseClient 只依赖这里定义的能力。
type ServiceConfig interface {
	// Validate 验证配置
	Validate() error

	// GetDefaults 返回 baseURL, apiVersion, timeout（已填充默认值）
	GetDefaults() (baseURL, apiVersion string, timeout time.Duration)

	// BuildHeaders 构建请求头（认证头与用户自定义头）
	BuildHeaders() map[string]string

	// BuildQuery 构建附加查询参数（使用 key 查询参数认证时非空）
	BuildQuery() url.Values
}

// ═══════════════════════════════════════════════════════════════════════════
// BaseClient 基础客户端
// ═══════════════════════════════════════════════════════════════════════════

// BaseClient 负责 URL 与请求头组装、非流式往返、流式泵送
//
// 不做任何重试，也不启动 goroutine：流式回调在读取响应体的调用栈上同步执行，
// 回调阻塞即形成背压。
//
// 使用示例：
//
//	base, err := core.NewBaseClient(cfg, nil, slog.Default())
//	obj, err := base.Do(ctx, req)
type BaseClient struct {
	config    ServiceConfig
	transport Transport
	logger    *slog.Logger

	baseURL    string
	apiVersion string
}

// NewBaseClient 创建基础客户端
//
// 参数：
//   - config: 服务配置
//   - transport: 传输层；为 nil 时使用 RestyTransport
//   - logger: 日志；为 nil 时丢弃
func NewBaseClient(config ServiceConfig, transport Transport, logger *slog.Logger) (*BaseClient, error) {
	if err := config.Validate(); err != nil {
		return nil, gemini.NewConfigError("config validation failed", err)
	}

	baseURL, apiVersion, timeout := config.GetDefaults()
	if transport == nil {
		transport = NewRestyTransport(timeout)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &BaseClient{
		config:     config,
		transport:  transport,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: strings.Trim(apiVersion, "/"),
	}, nil
}

// Transport 返回使用中的传输层
func (c *BaseClient) Transport() Transport { return c.transport }

// Logger 返回日志记录器
func (c *BaseClient) Logger() *slog.Logger { return c.logger }

// Endpoint 返回操作的完整 URL：<baseURL>/<apiVersion>/<operation>[?query]
func (c *BaseClient) Endpoint(operation string) string {
	endpoint := c.baseURL + "/" + c.apiVersion + "/" + operation
	if query := c.config.BuildQuery(); len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// Do 非流式往返
//
// 流程：
//  1. 序列化请求体
//  2. 组装 URL 与请求头，经 Transport 发送
//  3. 非 2xx 返回 TransportError（含操作名、状态码与原始响应体）
//  4. 将响应体一次性解码为 JSON 对象
func (c *BaseClient) Do(ctx context.Context, req gemini.Request) (map[string]any, error) {
	httpReq, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.transport.Do(ctx, httpReq)
	if err != nil {
		return nil, gemini.NewHTTPError("request failed", redactKey(err))
	}

	c.logger.DebugContext(ctx, "gemini request",
		"operation", req.Operation(),
		"method", httpReq.Method,
		"status", resp.StatusCode,
	)

	if !isSuccess(resp.StatusCode) {
		return nil, newTransportError(req.Operation(), resp.StatusCode, resp.Header, resp.Body)
	}

	var obj map[string]any
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		return nil, gemini.NewResponseError("body", err)
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

// Stream 流式往返
//
// 响应体的每次读取都交给 ObjectStreamParser，每个解码出的顶层对象按到达顺序
// 同步交给 handler。handler 返回错误时立即停止读取并关闭响应体。
//
// 传输层未实现 StreamTransport 时返回 MissingDependencyError。
func (c *BaseClient) Stream(ctx context.Context, req gemini.Request, handler ObjectHandler) error {
	streamer, ok := c.transport.(StreamTransport)
	if !ok {
		return gemini.NewMissingDependencyError("stream",
			"the configured transport does not support streaming responses; use a core.StreamTransport implementation")
	}

	httpReq, err := c.buildRequest(req)
	if err != nil {
		return err
	}

	resp, err := streamer.DoStream(ctx, httpReq)
	if err != nil {
		return gemini.NewHTTPError("request failed", redactKey(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return newTransportError(req.Operation(), resp.StatusCode, resp.Header, body)
	}

	delivered := 0
	parser := NewObjectStreamParser(func(obj map[string]any) error {
		delivered++
		return handler(obj)
	})

	err = pump(resp.Body, parser)
	c.logger.DebugContext(ctx, "gemini stream finished",
		"operation", req.Operation(),
		"status", resp.StatusCode,
		"objects", delivered,
		"error", err,
	)
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// 辅助方法
// ═══════════════════════════════════════════════════════════════════════════

// buildRequest 序列化请求并组装 HTTPRequest
func (c *BaseClient) buildRequest(req gemini.Request) (*HTTPRequest, error) {
	payload, err := req.Payload()
	if err != nil {
		return nil, gemini.NewRequestError("marshal", err)
	}

	header := make(http.Header)
	for k, v := range c.config.BuildHeaders() {
		header.Set(k, v)
	}

	return &HTTPRequest{
		Method: req.HTTPMethod(),
		URL:    c.Endpoint(req.Operation()),
		Header: header,
		Body:   payload,
	}, nil
}

// pump 逐块读取 body 交给解析器，直到 EOF 或出错
func pump(body io.Reader, parser *ObjectStreamParser) error {
	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := parser.Consume(buf[:n]); err != nil {
				return err
			}
		}
		if errors.Is(readErr, io.EOF) {
			return parser.Close()
		}
		if readErr != nil {
			return gemini.NewHTTPError("read stream", readErr)
		}
	}
}

// redactKey 抹去 *url.Error 中 URL 的 key 查询参数
//
// 查询参数认证时 API Key 位于 URL 中，不能随错误信息或日志泄露。
func redactKey(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		urlErr.URL = ""
		return err
	}
	query := u.Query()
	if !query.Has("key") {
		return err
	}
	query.Set("key", "REDACTED")
	u.RawQuery = query.Encode()
	urlErr.URL = u.String()
	return err
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func newTransportError(operation string, status int, header http.Header, body []byte) error {
	err := gemini.NewTransportError(operation, status, string(body))
	if requestID := header.Get("X-Request-ID"); requestID != "" {
		err = err.WithRequestID(requestID)
	}
	return err
}
