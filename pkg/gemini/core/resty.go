package core

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// ═══════════════════════════════════════════════════════════════════════════
// RestyTransport 基于 resty 的默认传输层
// ═══════════════════════════════════════════════════════════════════════════

// RestyTransport 默认传输层实现
//
// 同时实现 Transport 与 StreamTransport。重试次数固定为 0，
// 任何失败都直接返回给调用方。
//
// 使用示例：
//
//	transport := core.NewRestyTransport(60 * time.Second)
//	base, _ := core.NewBaseClient(cfg, transport, nil)
type RestyTransport struct {
	resty *resty.Client
}

// NewRestyTransport 创建默认传输层
//
// timeout 为 0 时使用 [GetDefaultTimeout] 的默认值。
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	r := resty.New()
	r.SetTimeout(GetDefaultTimeout(timeout))
	return NewRestyTransportWithClient(r)
}

// NewRestyTransportWithClient 包装已有的 resty 客户端（代理、TLS 等自行配置）
func NewRestyTransportWithClient(r *resty.Client) *RestyTransport {
	r.SetRetryCount(0)
	return &RestyTransport{resty: r}
}

// Do 实现 Transport 接口
func (t *RestyTransport) Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	resp, err := t.newRequest(ctx, req).Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return &HTTPResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// DoStream 实现 StreamTransport 接口
//
// 响应体不做解析，直接交给调用方逐块读取。
func (t *RestyTransport) DoStream(ctx context.Context, req *HTTPRequest) (*HTTPStreamResponse, error) {
	resp, err := t.newRequest(ctx, req).
		SetDoNotParseResponse(true).
		Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return &HTTPStreamResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.RawBody(),
	}, nil
}

func (t *RestyTransport) newRequest(ctx context.Context, req *HTTPRequest) *resty.Request {
	r := t.resty.R().
		SetContext(ctx).
		SetHeaderMultiValues(req.Header)
	if req.Body != nil {
		r.SetBody(req.Body)
	}
	return r
}

// GetDefaultTimeout 获取默认超时时间
//
// 如果 timeout 为 0，返回默认的 120 秒。
func GetDefaultTimeout(timeout time.Duration) time.Duration {
	if timeout == 0 {
		return 120 * time.Second
	}
	return timeout
}

// 确保实现了 StreamTransport 接口
var _ StreamTransport = (*RestyTransport)(nil)
