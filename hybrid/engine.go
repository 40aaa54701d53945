// Package hybrid 实现混合推荐引擎：策略状态机选定协同过滤、内容相似、
// 混合融合或热门兜底，再经过滤与多样性重排产出最终列表。
// 引擎是互动数据的纯读者，推荐结果现算现返，不落库。
package hybrid

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/filter"
	"github.com/wandergram/wanderkit/pipeline"
	"github.com/wandergram/wanderkit/recall"
	"github.com/wandergram/wanderkit/rerank"
	"github.com/wandergram/wanderkit/snapshot"
)

// Config 是引擎配置。零值字段在 Validate 中落到默认值。
type Config struct {
	// MinInteractionsForCollaborative 协同过滤启用门槛，默认 3。
	MinInteractionsForCollaborative int

	// CollabWeight / ContentWeight 融合权重，默认 0.6 / 0.4。
	CollabWeight  float64
	ContentWeight float64

	// DefaultLimit 调用方未指定条数时的默认值，默认 20。
	DefaultLimit int

	// UserMergeCollabRatio 账号推荐中协同侧的占比，默认 0.7。
	UserMergeCollabRatio float64

	// DestinationBoostCap 目的地协同加成上限，默认 2.0。
	DestinationBoostCap float64

	// RequestTimeout 单次请求的总超时；超时退化为热门兜底。默认 2s。
	RequestTimeout time.Duration

	// SourceTimeout 单个召回源的超时，默认 800ms。
	SourceTimeout time.Duration
}

// Validate 校验配置并填充默认值。
func (c *Config) Validate() error {
	if c.MinInteractionsForCollaborative <= 0 {
		c.MinInteractionsForCollaborative = 3
	}
	if c.CollabWeight <= 0 {
		c.CollabWeight = 0.6
	}
	if c.ContentWeight <= 0 {
		c.ContentWeight = 0.4
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 20
	}
	if c.UserMergeCollabRatio <= 0 || c.UserMergeCollabRatio > 1 {
		c.UserMergeCollabRatio = 0.7
	}
	if c.DestinationBoostCap <= 0 {
		c.DestinationBoostCap = 2.0
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 2 * time.Second
	}
	if c.SourceTimeout <= 0 {
		c.SourceTimeout = 800 * time.Millisecond
	}
	return nil
}

// Engine 是混合推荐引擎。对调用方只暴露四个入口：
// RecommendPosts / RecommendUsers / RecommendDestinations / ExplainStrategy。
// 唯一会返回的业务错误是 ErrUserNotFound；引擎内部的计算失败一律
// 记日志并退化，绝不让一次坏的召回毁掉整个请求。
type Engine struct {
	store     core.InteractionStore
	snapshots recall.SnapshotProvider

	collab     *recall.Collaborative
	content    *recall.ContentBased
	popularity *recall.Popularity

	// post 融合后的修饰管道：过滤 → 多样性 → 截断。
	post *pipeline.Pipeline

	cfg Config
	log zerolog.Logger
}

// NewEngine 组装引擎；sources 与修饰管道按默认配置构建，
// 需要定制时用 Option 覆盖。
func NewEngine(store core.InteractionStore, snapshots *snapshot.Cache, cfg Config, log zerolog.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		store:     store,
		snapshots: snapshots,
		cfg:       cfg,
		log:       log.With().Str("component", "hybrid_engine").Logger(),
	}
	// 先应用 Option 再补默认组件，保证定制的快照来源能传到默认装配里。
	for _, opt := range opts {
		opt(e)
	}
	if e.collab == nil {
		e.collab = &recall.Collaborative{Snapshots: e.snapshots}
	}
	if e.content == nil {
		e.content = &recall.ContentBased{Snapshots: e.snapshots}
	}
	if e.popularity == nil {
		e.popularity = &recall.Popularity{Snapshots: e.snapshots}
	}
	if e.post == nil {
		e.post = &pipeline.Pipeline{
			Nodes: []pipeline.Node{
				&filter.FilterNode{Filters: []filter.Filter{
					&filter.SeenFilter{Snapshots: e.snapshots},
				}},
				&rerank.Diversity{Snapshots: e.snapshots},
				&rerank.TopNNode{},
			},
		}
	}
	return e, nil
}

// Option 定制引擎装配。
type Option func(*Engine)

// WithCollaborative 覆盖协同过滤召回源。
func WithCollaborative(s *recall.Collaborative) Option {
	return func(e *Engine) { e.collab = s }
}

// WithContentBased 覆盖内容相似召回源。
func WithContentBased(s *recall.ContentBased) Option {
	return func(e *Engine) { e.content = s }
}

// WithPopularity 覆盖热门兜底召回源。
func WithPopularity(s *recall.Popularity) Option {
	return func(e *Engine) { e.popularity = s }
}

// WithPostPipeline 覆盖融合后的修饰管道。
func WithPostPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) { e.post = p }
}

// WithSnapshotProvider 覆盖快照来源（测试注入固定快照用）。
func WithSnapshotProvider(p recall.SnapshotProvider) Option {
	return func(e *Engine) { e.snapshots = p }
}

// requireUser 做调用方可见的用户存在性检查。
func (e *Engine) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return core.ErrUserNotFound
	}
	exists, err := e.store.UserExists(ctx, userID)
	if err != nil {
		// 存在性都查不到时宁可报用户不存在，也不猜
		e.log.Error().Err(err).Str("user_id", userID).Msg("user existence check failed")
		return core.ErrUserNotFound
	}
	if !exists {
		return core.ErrUserNotFound
	}
	return nil
}

// currentSnapshot 拉取当前快照；失败返回 nil，由调用路径退化处理。
func (e *Engine) currentSnapshot(ctx context.Context) *snapshot.Snapshot {
	snap, err := e.snapshots.Get(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("snapshot unavailable")
		return nil
	}
	return snap
}

func (e *Engine) limitOrDefault(limit int) int {
	if limit > 0 {
		return limit
	}
	return e.cfg.DefaultLimit
}
