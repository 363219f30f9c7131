// Package testutil 提供测试用的 Gemini API 假服务器
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// 操作名（URL 中冒号后的部分，以及模型列表）
const (
	ActionGenerateContent       = "generateContent"
	ActionStreamGenerateContent = "streamGenerateContent"
	ActionCountTokens           = "countTokens"
	ActionEmbedContent          = "embedContent"
	ActionListModels            = "listModels"
)

// Reply 预设响应
type Reply struct {
	// Status 状态码，默认 200
	Status int

	// Body 完整响应体（Chunks 为空时使用）
	Body string

	// Chunks 逐块写出并 Flush，模拟分块到达的流式响应
	Chunks []string

	// Header 额外响应头
	Header map[string]string
}

// Recorded 服务器收到的请求
type Recorded struct {
	Method  string
	Version string
	Model   string // 如 "models/gemini-pro"
	Action  string
	Header  http.Header
	Query   url.Values
	Body    []byte
}

// Server 基于 gorilla/mux 的假 Gemini 服务器
//
// 路由：
//
//	GET  /{version}/models
//	POST /{version}/{model}:{action}
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests []Recorded
}

// NewServer 启动服务器，测试结束时自动关闭
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{replies: make(map[string]Reply)}

	r := mux.NewRouter()
	r.HandleFunc("/{version}/models", s.handleListModels).Methods(http.MethodGet)
	r.HandleFunc("/{version}/{model:.+}:{action}", s.handleAction).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// On 为操作设置预设响应
func (s *Server) On(action string, reply Reply) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[action] = reply
	return s
}

// Requests 返回收到的全部请求
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest 返回最后一个请求，没有请求时返回零值
func (s *Server) LastRequest() Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, ActionListModels, "")
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.serve(w, r, vars["action"], vars["model"])
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, action, model string) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method:  r.Method,
		Version: mux.Vars(r)["version"],
		Model:   model,
		Action:  action,
		Header:  r.Header.Clone(),
		Query:   r.URL.Query(),
		Body:    body,
	})
	reply, ok := s.replies[action]
	s.mu.Unlock()

	if !ok {
		http.Error(w, `{"error":{"code":404,"message":"no reply configured"}}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	for k, v := range reply.Header {
		w.Header().Set(k, v)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(reply.Chunks) == 0 {
		_, _ = io.WriteString(w, reply.Body)
		return
	}

	flusher, _ := w.(http.Flusher)
	for _, chunk := range reply.Chunks {
		_, _ = io.WriteString(w, chunk)
		if flusher != nil {
			flusher.Flush()
		}
	}
}
