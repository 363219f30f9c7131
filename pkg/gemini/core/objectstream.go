package core

import (
	"encoding/json"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// 增量对象流解析器
// ═══════════════════════════════════════════════════════════════════════════

// ObjectHandler 接收一个完整解码的顶层 JSON 对象
//
// 返回错误会终止整个流。
type ObjectHandler func(obj map[string]any) error

// ObjectStreamParser 从任意切分的字节流中切出顶层 {...} 对象
//
// 流的形态是若干顶层 JSON 对象的串联，对象之间可以有空白、逗号，
// 也可以被包在 [ ] 里（深度 0 处的非 { 字符全部忽略）。
// 一次 Consume 可能只收到半个对象，切分点可以落在字符串或转义序列中间。
//
// 状态：
//   - depth: 字符串之外未闭合的 { 数量，0 表示位于对象之间
//   - inString / inEscape: 是否在字符串内、下一个字符是否被转义
//   - pending: 当前未完成对象已收到的原始字节（depth 为 0 时为空）
//
// 非并发安全：一个解析器只能由一个流独占，按顺序调用 Consume。
//
// 使用示例：
//
//	parser := core.NewObjectStreamParser(func(obj map[string]any) error {
//	    fmt.Println(obj["candidates"])
//	    return nil
//	})
//	for chunk := range chunks {
//	    if _, err := parser.Consume(chunk); err != nil {
//	        return err
//	    }
//	}
//	return parser.Close()
type ObjectStreamParser struct {
	handler ObjectHandler

	depth    int
	inString bool
	inEscape bool
	pending  []byte

	err error // 一旦出错，后续调用都返回同一个错误
}

// NewObjectStreamParser 创建解析器
func NewObjectStreamParser(handler ObjectHandler) *ObjectStreamParser {
	return &ObjectStreamParser{handler: handler}
}

// Consume 消费一段字节
//
// 每遇到一个顶层对象闭合就同步解码并调用 handler。
// 返回值是已消费的字节数，成功时总是 len(chunk)。
//
// 闭合对象无法解码、出现不匹配的 }、或 handler 返回错误时，
// 返回错误且解析器不可再用；解码失败的对象不会交给 handler。
func (p *ObjectStreamParser) Consume(chunk []byte) (int, error) {
	if p.err != nil {
		return 0, p.err
	}

	start := 0
	for i, c := range chunk {
		switch {
		case p.inEscape:
			p.inEscape = false
		case p.inString:
			if c == '\\' {
				p.inEscape = true
			} else if c == '"' {
				p.inString = false
			}
		case c == '"':
			p.inString = true
		case c == '{':
			if p.depth == 0 {
				start = i
			}
			p.depth++
		case c == '}':
			if p.depth == 0 {
				p.err = gemini.NewStreamDecodeError(string(chunk[i:i+1]), errUnbalanced)
				return i, p.err
			}
			p.depth--
			if p.depth == 0 {
				p.pending = append(p.pending, chunk[start:i+1]...)
				if err := p.emit(); err != nil {
					p.err = err
					return i + 1, err
				}
				start = i + 1
			}
		}
	}

	// 仅保留未完成对象的字节，对象之间的分隔符直接丢弃
	if p.depth > 0 {
		p.pending = append(p.pending, chunk[start:]...)
	}
	return len(chunk), nil
}

// emit 解码 pending 中的完整对象并交给 handler
func (p *ObjectStreamParser) emit() error {
	raw := p.pending
	p.pending = p.pending[:0]

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return gemini.NewStreamDecodeError(string(raw), err)
	}
	return p.handler(obj)
}

// Close 结束流
//
// 流在对象中间结束（连接被截断）时返回 StreamDecodeError。
func (p *ObjectStreamParser) Close() error {
	if p.err != nil {
		return p.err
	}
	if p.depth > 0 || p.inString {
		p.err = gemini.NewStreamDecodeError(string(p.pending), errTruncated)
		return p.err
	}
	return nil
}

// Depth 当前未闭合的 { 数量
func (p *ObjectStreamParser) Depth() int { return p.depth }

// Pending 当前未完成对象的字节数
func (p *ObjectStreamParser) Pending() int { return len(p.pending) }

// Err 解析器进入的错误状态（正常时为 nil）
func (p *ObjectStreamParser) Err() error { return p.err }
