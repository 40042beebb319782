// Package score 实现八个维度的打分函数与加权汇总。
//
// 每个维度函数都是纯函数：只依赖单个商品与只读配置，输出恒在 [0,100]。
// 缺失或无法解析的输入退化为中性分或最低非零档，不返回错误。
package score
