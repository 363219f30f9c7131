package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251220-go-pkg-gemini/pkg/gemini"
)

// collect 返回一个把对象追加到 out 的解析器
func collect(out *[]map[string]any) *ObjectStreamParser {
	return NewObjectStreamParser(func(obj map[string]any) error {
		*out = append(*out, obj)
		return nil
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 基本切分
// ═══════════════════════════════════════════════════════════════════════════

func TestObjectStreamParser_SingleChunk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []map[string]any
	}{
		{
			name:  "单个对象",
			input: `{"a":1}`,
			want:  []map[string]any{{"a": float64(1)}},
		},
		{
			name:  "相邻对象",
			input: `{"a":1}{"b":2}`,
			want:  []map[string]any{{"a": float64(1)}, {"b": float64(2)}},
		},
		{
			name:  "字符串内的花括号",
			input: `{"a":"}{"}{"b":1}`,
			want:  []map[string]any{{"a": "}{"}, {"b": float64(1)}},
		},
		{
			name:  "转义引号",
			input: `{"a":"x\"y"}`,
			want:  []map[string]any{{"a": `x"y`}},
		},
		{
			name:  "转义反斜杠后紧跟引号",
			input: `{"a":"x\\"}{"b":"}"}`,
			want:  []map[string]any{{"a": `x\`}, {"b": "}"}},
		},
		{
			name:  "嵌套对象",
			input: `{"a":{"b":{"c":[1,{"d":2}]}}}`,
			want: []map[string]any{{
				"a": map[string]any{"b": map[string]any{"c": []any{float64(1), map[string]any{"d": float64(2)}}}},
			}},
		},
		{
			name:  "数组包裹与分隔符",
			input: "[{\"a\":1}\r\n,\r\n{\"b\":2}\r\n]",
			want:  []map[string]any{{"a": float64(1)}, {"b": float64(2)}},
		},
		{
			name:  "只有空白",
			input: " \n\t ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []map[string]any
			p := collect(&got)

			n, err := p.Consume([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, len(tt.input), n)
			require.NoError(t, p.Close())

			assert.Equal(t, tt.want, got)
			assert.Equal(t, 0, p.Depth())
			assert.Equal(t, 0, p.Pending())
		})
	}
}

// 在每一个字节位置切成两段，结果必须与整体输入一致
func TestObjectStreamParser_SplitAtEveryBoundary(t *testing.T) {
	input := `[{"candidates":[{"content":{"parts":[{"text":"a \"quoted\" }{ brace \\ and 中文"}],"role":"model"}}]}` +
		"\r\n,\r\n" +
		`{"candidates":[{"content":{"parts":[{"text":"second"}]},"finishReason":"STOP"}]}]`

	var whole []map[string]any
	p := collect(&whole)
	_, err := p.Consume([]byte(input))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.Len(t, whole, 2)

	data := []byte(input)
	for i := 0; i <= len(data); i++ {
		var got []map[string]any
		p := collect(&got)

		_, err := p.Consume(data[:i])
		require.NoError(t, err, "split at %d", i)
		_, err = p.Consume(data[i:])
		require.NoError(t, err, "split at %d", i)
		require.NoError(t, p.Close(), "split at %d", i)

		assert.Equal(t, whole, got, "split at %d", i)
	}
}

func TestObjectStreamParser_ByteByByte(t *testing.T) {
	input := `{"a":"x\"y"}  {"b":[{"c":"}"}]}`

	var got []map[string]any
	p := collect(&got)
	for i := range len(input) {
		_, err := p.Consume([]byte{input[i]})
		require.NoError(t, err)
	}
	require.NoError(t, p.Close())

	assert.Equal(t, []map[string]any{
		{"a": `x"y`},
		{"b": []any{map[string]any{"c": "}"}}},
	}, got)
}

func TestObjectStreamParser_PendingState(t *testing.T) {
	var got []map[string]any
	p := collect(&got)

	_, err := p.Consume([]byte(`{"a":{"b":`))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Depth())
	assert.Equal(t, len(`{"a":{"b":`), p.Pending())
	assert.Empty(t, got)

	_, err = p.Consume([]byte(`1}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, 0, p.Pending())
	assert.Len(t, got, 1)
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误处理
// ═══════════════════════════════════════════════════════════════════════════

func TestObjectStreamParser_MalformedObject(t *testing.T) {
	var got []map[string]any
	p := collect(&got)

	_, err := p.Consume([]byte(`{"a":}`))
	require.Error(t, err)
	assert.True(t, gemini.IsStreamDecodeError(err))
	assert.Contains(t, err.Error(), "could not decode the given message")
	assert.Empty(t, got)

	var sde *gemini.StreamDecodeError
	require.ErrorAs(t, err, &sde)
	assert.Equal(t, `{"a":}`, sde.Fragment)

	// 错误是粘性的
	_, err2 := p.Consume([]byte(`{"b":1}`))
	assert.Equal(t, err, err2)
	assert.Equal(t, err, p.Close())
	assert.Equal(t, err, p.Err())
	assert.Empty(t, got)
}

func TestObjectStreamParser_MalformedAfterValid(t *testing.T) {
	var got []map[string]any
	p := collect(&got)

	_, err := p.Consume([]byte(`{"ok":true}{"bad":tru}`))
	require.Error(t, err)
	assert.True(t, gemini.IsStreamDecodeError(err))
	assert.Equal(t, []map[string]any{{"ok": true}}, got)
}

func TestObjectStreamParser_StrayClosingBrace(t *testing.T) {
	var got []map[string]any
	p := collect(&got)

	_, err := p.Consume([]byte(`{"a":1}}`))
	require.Error(t, err)
	assert.True(t, gemini.IsStreamDecodeError(err))
	require.ErrorIs(t, err, errUnbalanced)
	assert.Len(t, got, 1)
}

func TestObjectStreamParser_Truncated(t *testing.T) {
	var got []map[string]any
	p := collect(&got)

	_, err := p.Consume([]byte(`{"a":1}{"b":"unfinished`))
	require.NoError(t, err)
	assert.Len(t, got, 1)

	err = p.Close()
	require.Error(t, err)
	assert.True(t, gemini.IsStreamDecodeError(err))
	require.ErrorIs(t, err, errTruncated)
}

func TestObjectStreamParser_HandlerError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	p := NewObjectStreamParser(func(map[string]any) error {
		calls++
		return stop
	})

	n, err := p.Consume([]byte(`{"a":1}{"b":2}`))
	require.ErrorIs(t, err, stop)
	assert.Equal(t, len(`{"a":1}`), n)
	assert.Equal(t, 1, calls)

	_, err = p.Consume([]byte(`{"c":3}`))
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
