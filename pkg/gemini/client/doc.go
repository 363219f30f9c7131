// Package client 提供 Gemini API 客户端
//
// [Client] 是入口，按模型派生两类句柄：
//   - [GenerativeModel]: 文本/图片生成、流式生成、token 计数、多轮会话
//   - [EmbeddingModel]: 向量生成
//
// [ChatSession] 维护只追加的对话历史，每次发送都携带完整历史。
//
// 完整使用示例请参考 example_test.go。
//
// # 配置
//
// [Config] 可以直接构造，也可以从 YAML/JSON 文件加载（[LoadConfigFile]），
// 未设置的字段从环境变量补齐：
//
// API Key（按优先级）:
//   - GEMINI_API_KEY
//   - GOOGLE_API_KEY
//
// Base URL:
//   - GEMINI_BASE_URL
//
// Model:
//   - GEMINI_MODEL
//
// # 流式
//
// 流式回调在读取响应体的调用栈上同步执行，回调阻塞即形成背压。
// [Client.GenerateContentStreamSeq] 提供 range-over-func 形式。
package client
