// Package mock 提供离线的 Gemini 传输层实现
//
// [Transport] 实现 core.StreamTransport，按 YAML/JSON 场景文件生成响应，
// 无需网络即可运行客户端、多轮会话与流式解析。
//
// # 快速开始
//
//	// 无参数时使用内嵌的示例配置 examples/scenarios.yaml
//	transport := mock.New()
//	c, _ := client.New(&client.Config{APIKey: "mock"}, client.WithTransport(transport))
//
//	_ = transport.UseScenario("greeting")
//	resp, _ := c.GenerativeModel("").GenerateContent(ctx, gemini.NewTextPart("你好"))
//
// # 场景
//
//	scenarios:
//	  - name: "streaming"
//	    turns:
//	      - user: "讲个故事"
//	        chunks: ["从前有座山，", "山里有座庙。"]
//	chunk_size: 7
//
// 每次生成请求推进一轮；chunks 中的每个片段作为一个独立对象流式返回，
// chunk_size 控制响应体每次 Read 返回的字节数。
//
// # 模板
//
// 响应文本支持 text/template 语法，可用变量 LAST_USER_MESSAGE，
// 可用函数 env、default：
//
//	default_response: "你刚才说：{{.LAST_USER_MESSAGE}}"
package mock
