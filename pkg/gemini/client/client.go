package client

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini/core"
)

// errStopIteration 调用方提前结束 range 循环
var errStopIteration = errors.New("stream iteration stopped")

// ═══════════════════════════════════════════════════════════════════════════
// Client
// ═══════════════════════════════════════════════════════════════════════════

// Client Gemini API 客户端
//
// 架构设计：
//   - 嵌入 core.BaseClient 复用 URL/请求头组装与传输逻辑
//   - 每个 API 调用对应一个方法，输入为 gemini 包中的请求类型
//   - WithX 方法返回新实例，原实例不变
//
// 使用示例：
//
//	c, err := client.New(&client.Config{APIKey: "xxx"})
//	model := c.GenerativeModel(gemini.ModelGeminiPro)
//	resp, err := model.GenerateContent(ctx, gemini.NewTextPart("Hello"))
type Client struct {
	*core.BaseClient

	config *Config
}

// Option 客户端选项
type Option func(*options)

type options struct {
	transport core.Transport
}

// WithTransport 指定传输层（默认 core.RestyTransport）
func WithTransport(transport core.Transport) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// New 创建客户端
//
// config 必须包含 APIKey。
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, gemini.NewConfigError("config is required", nil)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return newClient(config.Clone(), o.transport)
}

func newClient(config *Config, transport core.Transport) (*Client, error) {
	baseClient, err := core.NewBaseClient(config, transport, config.Logger)
	if err != nil {
		return nil, err
	}
	return &Client{BaseClient: baseClient, config: config}, nil
}

// Config 返回配置副本
func (c *Client) Config() *Config {
	return c.config.Clone()
}

// ═══════════════════════════════════════════════════════════════════════════
// API 调用
// ═══════════════════════════════════════════════════════════════════════════

// GenerateContent 非流式生成
func (c *Client) GenerateContent(ctx context.Context, req *gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error) {
	obj, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return gemini.GenerateContentResponseFromWire(obj)
}

// StreamHandler 流式回调，返回错误会终止流
type StreamHandler func(resp *gemini.GenerateContentResponse) error

// GenerateContentStream 流式生成
//
// 每个解码出的响应按到达顺序同步交给 fn；fn 阻塞即阻塞读取。
func (c *Client) GenerateContentStream(ctx context.Context, req *gemini.StreamGenerateContentRequest, fn StreamHandler) error {
	return c.Stream(ctx, req, func(obj map[string]any) error {
		resp, err := gemini.GenerateContentResponseFromWire(obj)
		if err != nil {
			return err
		}
		return fn(resp)
	})
}

// GenerateContentStreamSeq 以迭代器形式返回流式响应
//
// 不启动 goroutine：range 循环体就是流式回调。出错时产出一次 (nil, err) 后结束；
// 提前 break 会关闭连接。
//
//	for resp, err := range c.GenerateContentStreamSeq(ctx, req) {
//	    if err != nil {
//	        return err
//	    }
//	    text, _ := resp.Text()
//	    fmt.Print(text)
//	}
func (c *Client) GenerateContentStreamSeq(ctx context.Context, req *gemini.StreamGenerateContentRequest) iter.Seq2[*gemini.GenerateContentResponse, error] {
	return func(yield func(*gemini.GenerateContentResponse, error) bool) {
		err := c.GenerateContentStream(ctx, req, func(resp *gemini.GenerateContentResponse) error {
			if !yield(resp, nil) {
				return errStopIteration
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			yield(nil, err)
		}
	}
}

// CountTokens 计算 token 数
func (c *Client) CountTokens(ctx context.Context, req *gemini.CountTokensRequest) (*gemini.CountTokensResponse, error) {
	obj, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return gemini.CountTokensResponseFromWire(obj)
}

// EmbedContent 生成向量
func (c *Client) EmbedContent(ctx context.Context, req *gemini.EmbedContentRequest) (*gemini.EmbedContentResponse, error) {
	obj, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return gemini.EmbedContentResponseFromWire(obj)
}

// ListModels 列出可用模型
func (c *Client) ListModels(ctx context.Context) (*gemini.ListModelsResponse, error) {
	obj, err := c.Do(ctx, gemini.NewListModelsRequest())
	if err != nil {
		return nil, err
	}
	return gemini.ListModelsResponseFromWire(obj)
}

// ═══════════════════════════════════════════════════════════════════════════
// 模型句柄
// ═══════════════════════════════════════════════════════════════════════════

// GenerativeModel 返回生成模型句柄，name 为空时使用配置中的默认模型
func (c *Client) GenerativeModel(name gemini.ModelName) *GenerativeModel {
	if name == "" {
		name = c.config.GetModel()
	}
	return &GenerativeModel{client: c, name: name}
}

// EmbeddingModel 返回 Embedding 模型句柄，name 为空时使用配置中的默认模型
func (c *Client) EmbeddingModel(name gemini.ModelName) *EmbeddingModel {
	if name == "" {
		name = c.config.GetEmbeddingModel()
	}
	return &EmbeddingModel{client: c, name: name}
}

// ═══════════════════════════════════════════════════════════════════════════
// 写时复制
// ═══════════════════════════════════════════════════════════════════════════

// WithBaseURL 返回使用新地址的客户端，传输层共享
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	cfg := c.config.Clone()
	cfg.BaseURL = baseURL
	return newClient(cfg, c.Transport())
}

// WithRequestHeaders 返回追加了请求头的客户端
//
// 名字不区分大小写，同名时新值覆盖旧值。
func (c *Client) WithRequestHeaders(headers map[string]string) (*Client, error) {
	cfg := c.config.Clone()
	merged := make(map[string]string, len(cfg.Headers)+len(headers))
	for k, v := range cfg.Headers {
		merged[strings.ToLower(k)] = v
	}
	for k, v := range headers {
		merged[strings.ToLower(k)] = v
	}
	cfg.Headers = merged
	return newClient(cfg, c.Transport())
}
