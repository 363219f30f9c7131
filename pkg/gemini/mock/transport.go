package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini/core"
)

// embeddingDimensions 模拟向量维度
const embeddingDimensions = 8

// Call 一次调用记录
type Call struct {
	Method    string
	Operation string // 如 "models/gemini-pro:generateContent"
	Header    http.Header
	Body      []byte
	Stream    bool
}

// ═══════════════════════════════════════════════════════════════════════════
// Transport 场景驱动的离线传输层
// ═══════════════════════════════════════════════════════════════════════════

// Transport 实现 core.StreamTransport，不访问网络
//
// 按操作类型生成响应：
//   - generateContent / streamGenerateContent: 当前场景的下一轮（或默认响应）
//   - countTokens: 请求中所有文本的词数
//   - embedContent: 由文本哈希得到的确定性向量
//   - models: 内置模型目录
//
// 并发安全。
type Transport struct {
	mu sync.Mutex

	response  string
	scenarios map[string]*scenarioState
	current   *scenarioState
	delay     time.Duration
	chunkSize int
	simErr    error
	simStatus int

	calls []Call
	err   error // 配置加载错误，在首次调用时返回
}

// Option 传输层选项
type Option func(*Transport)

// New 创建传输层，无参数时使用内嵌的示例配置
func New(opts ...Option) *Transport {
	t := &Transport{
		response:  "mock response",
		scenarios: make(map[string]*scenarioState),
	}
	if len(opts) == 0 {
		cfg, err := LoadExampleConfig()
		if err != nil {
			t.err = err
		} else {
			applyConfig(t, cfg)
		}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithConfig 从配置对象加载设置
func WithConfig(cfg *Config) Option {
	return func(t *Transport) {
		if cfg == nil {
			return
		}
		applyConfig(t, cfg)
	}
}

// WithConfigFile 从配置文件加载设置
func WithConfigFile(path string) Option {
	return func(t *Transport) {
		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.err = fmt.Errorf("load config file: %w", err)
			return
		}
		applyConfig(t, cfg)
	}
}

// WithResponse 设置默认响应文本
func WithResponse(text string) Option {
	return func(t *Transport) {
		t.response = text
	}
}

// applyConfig 应用配置
func applyConfig(t *Transport, cfg *Config) {
	if cfg.DefaultResponse != "" {
		t.response = cfg.DefaultResponse
	}
	for _, s := range cfg.Scenarios {
		if s.Name != "" {
			t.scenarios[s.Name] = &scenarioState{scenario: s}
		}
	}
	if cfg.Delay != "" {
		if d, err := time.ParseDuration(cfg.Delay); err == nil {
			t.delay = d
		}
	}
	t.chunkSize = cfg.ChunkSize
	if cfg.SimulateError != "" {
		t.simErr = errors.New(cfg.SimulateError)
	}
	t.simStatus = cfg.SimulateStatus
}

// UseScenario 切换到指定场景并从第一轮开始；name 为空时回到默认响应
func (t *Transport) UseScenario(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if name == "" {
		t.current = nil
		return nil
	}
	s, ok := t.scenarios[name]
	if !ok {
		return fmt.Errorf("scenario not found: %s", name)
	}
	s.turnIdx = 0
	t.current = s
	return nil
}

// Calls 返回调用记录副本
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// Reset 清空调用记录并把所有场景重置到第一轮
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
	for _, s := range t.scenarios {
		s.turnIdx = 0
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// core.StreamTransport 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// Do 实现 core.Transport 接口
func (t *Transport) Do(ctx context.Context, req *core.HTTPRequest) (*core.HTTPResponse, error) {
	status, body, err := t.handle(ctx, req, false)
	if err != nil {
		return nil, err
	}
	return &core.HTTPResponse{StatusCode: status, Header: jsonHeader(), Body: body}, nil
}

// DoStream 实现 core.StreamTransport 接口
//
// 响应体按 ChunkSize 切分，模拟网络分块到达。
func (t *Transport) DoStream(ctx context.Context, req *core.HTTPRequest) (*core.HTTPStreamResponse, error) {
	status, body, err := t.handle(ctx, req, true)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	size := t.chunkSize
	t.mu.Unlock()
	return &core.HTTPStreamResponse{
		StatusCode: status,
		Header:     jsonHeader(),
		Body:       io.NopCloser(&chunkReader{data: body, size: size}),
	}, nil
}

func (t *Transport) handle(ctx context.Context, req *core.HTTPRequest, stream bool) (int, []byte, error) {
	operation := operationOf(req.URL)

	t.mu.Lock()
	if t.err != nil {
		t.mu.Unlock()
		return 0, nil, t.err
	}
	t.calls = append(t.calls, Call{
		Method:    req.Method,
		Operation: operation,
		Header:    req.Header.Clone(),
		Body:      bytes.Clone(req.Body),
		Stream:    stream,
	})
	delay := t.delay
	t.mu.Unlock()

	// 等待期间不持锁，并发调用的延迟互不叠加
	if delay > 0 {
		select {
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.simErr != nil {
		return 0, nil, t.simErr
	}
	if t.simStatus != 0 && (t.simStatus < 200 || t.simStatus >= 300) {
		return t.simStatus, errorBody(t.simStatus), nil
	}

	var (
		body []byte
		err  error
	)
	switch {
	case strings.HasSuffix(operation, ":streamGenerateContent"):
		body, err = t.streamBody(req.Body)
	case strings.HasSuffix(operation, ":generateContent"):
		body, err = json.Marshal(t.generateObject(t.nextTurn(), req.Body))
	case strings.HasSuffix(operation, ":countTokens"):
		body, err = json.Marshal(map[string]any{"totalTokens": countWords(req.Body)})
	case strings.HasSuffix(operation, ":embedContent"):
		body, err = json.Marshal(map[string]any{
			"embedding": map[string]any{"values": embed(lastUserText(req.Body))},
		})
	case operation == "models":
		body, err = json.Marshal(catalog())
	default:
		return http.StatusNotFound, errorBody(http.StatusNotFound), nil
	}
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, body, nil
}

// nextTurn 返回当前场景的下一轮，没有场景时返回默认响应
func (t *Transport) nextTurn() Turn {
	if t.current == nil {
		return Turn{Model: t.response}
	}
	return t.current.next()
}

// streamBody 构建流式响应体：[obj,\r\nobj,...]
func (t *Transport) streamBody(reqBody []byte) ([]byte, error) {
	turn := t.nextTurn()
	chunks := turn.Chunks
	if len(chunks) == 0 {
		chunks = []string{turn.Model}
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, chunk := range chunks {
		if i > 0 {
			buf.WriteString(",\r\n")
		}
		piece := turn
		piece.Model = chunk
		data, err := json.Marshal(t.generateObject(piece, reqBody))
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// generateObject 构建单个 GenerateContentResponse 线上对象
func (t *Transport) generateObject(turn Turn, reqBody []byte) map[string]any {
	if turn.BlockReason != "" {
		return map[string]any{
			"promptFeedback": map[string]any{"blockReason": turn.BlockReason},
		}
	}

	text := renderTemplate(turn.Model, map[string]string{
		"LAST_USER_MESSAGE": lastUserText(reqBody),
	})
	finish := turn.FinishReason
	if finish == "" {
		finish = string(gemini.FinishReasonStop)
	}
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
					"role":  string(gemini.RoleModel),
				},
				"finishReason": finish,
				"index":        0,
			},
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// requestBody 请求体中与模拟相关的部分
type requestBody struct {
	Contents []gemini.Content `json:"contents"`
	Content  *gemini.Content  `json:"content"`
}

func decodeRequest(body []byte) requestBody {
	var rb requestBody
	_ = json.Unmarshal(body, &rb)
	if rb.Content != nil {
		rb.Contents = append(rb.Contents, *rb.Content)
	}
	return rb
}

// lastUserText 最后一个用户轮次中的全部文本
func lastUserText(body []byte) string {
	contents := decodeRequest(body).Contents
	for i := len(contents) - 1; i >= 0; i-- {
		if contents[i].Role == gemini.RoleUser {
			return joinText(contents[i])
		}
	}
	return ""
}

func countWords(body []byte) int {
	total := 0
	for _, c := range decodeRequest(body).Contents {
		total += len(strings.Fields(joinText(c)))
	}
	return total
}

func joinText(c gemini.Content) string {
	var texts []string
	for _, p := range c.Parts {
		if tp, ok := p.(gemini.TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return strings.Join(texts, " ")
}

// embed 由文本哈希得到 [-1, 1] 内的确定性向量
func embed(text string) []float64 {
	values := make([]float64, embeddingDimensions)
	for i := range values {
		h := fnv.New64a()
		_, _ = fmt.Fprintf(h, "%d:%s", i, text)
		values[i] = float64(h.Sum64()%2001)/1000 - 1
	}
	return values
}

func catalog() map[string]any {
	model := func(name gemini.ModelName, display string, methods ...string) map[string]any {
		return map[string]any{
			"name":                       name.Path(),
			"baseModelId":                name.String(),
			"version":                    "001",
			"displayName":                display,
			"description":                "offline mock of " + display,
			"inputTokenLimit":            30720,
			"outputTokenLimit":           2048,
			"supportedGenerationMethods": methods,
		}
	}
	return map[string]any{
		"models": []any{
			model(gemini.ModelGeminiPro, "Gemini Pro", "generateContent", "streamGenerateContent", "countTokens"),
			model(gemini.ModelEmbedding001, "Embedding 001", "embedContent"),
		},
	}
}

// operationOf 从 URL 中取出版本号之后的操作路径
func operationOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")
	// 去掉版本段（v1、v1beta 等）
	if _, rest, ok := strings.Cut(path, "/"); ok {
		return rest
	}
	return path
}

func errorBody(status int) []byte {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": "simulated error",
			"status":  http.StatusText(status),
		},
	})
	return body
}

func jsonHeader() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}

// chunkReader 每次 Read 最多返回 size 字节
type chunkReader struct {
	data []byte
	size int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := len(p)
	if r.size > 0 && n > r.size {
		n = r.size
	}
	n = copy(p[:n], r.data)
	r.data = r.data[n:]
	return n, nil
}

// 确保实现了 core.StreamTransport 接口
var _ core.StreamTransport = (*Transport)(nil)
