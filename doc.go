// Package wanderkit 是旅行社交场景的混合推荐引擎（Wander Kit）。
//
// 设计要点：
// - Snapshot-first: 互动矩阵、相似度、特征矩阵一次性构建为不可变快照，原子替换
// - 策略状态机: 协同过滤 / 内容相似 / 混合融合 / 热门兜底，按用户数据量一次性选定
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 融合后的过滤与重排通过 Node 串联，可由 YAML 配置装配
package wanderkit

import "github.com/wandergram/wanderkit/pipeline"

// 轻量 facade：便于直接 import 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
