// Package gemini 提供 Gemini 生成式 API 的请求/响应模型
//
// 本包只包含纯数据类型与校验逻辑，不发起任何网络请求：
//   - [Part] / [Content]: 对话内容（文本、内联图片/文件）
//   - [GenerationConfig]: 不可变的生成参数
//   - [SafetySetting] / [SafetyRating]: 安全设置与评级
//   - [Request]: 五种 API 调用（生成、流式生成、计数、Embedding、模型列表）
//   - 响应模型：[GenerateContentResponse]、[CountTokensResponse]、
//     [EmbedContentResponse]、[ListModelsResponse]
//
// 完整使用示例请参考 example_test.go。
//
// # 序列化
//
// 请求体通过 [MarshalCanonical] 生成：键顺序固定、未设置的可选字段省略、
// 不转义 HTML 字符。响应从解码后的 map[string]any 构建（XxxFromWire），
// 在这一边界上进行类型与取值范围校验。
//
// # 模型名
//
// [ModelName] 是自由格式字符串，[ModelName.Path] 仅在名字不含 "/" 时补上
// "models/" 前缀，因此 "gemini-pro" 与 "models/gemini-pro" 等价，
// "tunedModels/xxx" 保持原样。
//
// # 错误类型
//
// 所有错误都嵌入 [BaseError]，可用 IsXxx 系列函数判断：
//   - [ValidationError]: 构造或解码时的类型/范围/组合校验失败
//   - [PreconditionError]: 快捷访问器的前置条件不满足
//   - [TransportError]: API 返回非 2xx
//   - [StreamDecodeError]: 流式响应中的对象无法解码
//   - [MissingDependencyError]: 传输层缺少流式能力
//
// # 子包
//
//   - [pkg/gemini/core]: 传输层抽象、增量对象流解析器、BaseClient
//   - [pkg/gemini/client]: Client、GenerativeModel、EmbeddingModel、ChatSession
//   - [pkg/gemini/mock]: YAML 场景驱动的离线传输层
package gemini
