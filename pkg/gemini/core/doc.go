// Package core 提供 Gemini 客户端的传输层与流式解析
//
// # 传输层
//
// [Transport] 与 [StreamTransport] 是发送 HTTP 请求的边界，默认实现为
// 基于 resty 的 [RestyTransport]。测试可使用 coremock 子包中的 gomock 实现，
// 离线演示可使用 pkg/gemini/mock。
//
// # 增量对象流解析器
//
// [ObjectStreamParser] 把任意切分的字节流还原为一个个顶层 JSON 对象，
// 字符串中的花括号与转义引号不会影响对象边界。
//
// # BaseClient
//
// [BaseClient] 负责 URL 与请求头组装（x-goog-api-key 或 key 查询参数）、
// 非流式往返与流式泵送。不做重试，不启动 goroutine。
package core
