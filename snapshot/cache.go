package snapshot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/wandergram/wanderkit/core"
)

// CacheConfig 控制快照的过期策略。
type CacheConfig struct {
	// MaxAge 快照最大存活时间，超过即视为过期，默认 5 分钟。
	MaxAge time.Duration

	// MaxNewInteractions 自构建以来新增互动超过该数即视为过期，默认 100。
	// 外部通过 NoteInteractions 上报。
	MaxNewInteractions int

	// RefreshInterval 后台刷新检查周期；0 表示不启后台协程，
	// 过期快照在下一次读取时惰性重建。
	RefreshInterval time.Duration
}

func (c *CacheConfig) withDefaults() CacheConfig {
	out := *c
	if out.MaxAge <= 0 {
		out.MaxAge = 5 * time.Minute
	}
	if out.MaxNewInteractions <= 0 {
		out.MaxNewInteractions = 100
	}
	return out
}

// Cache 持有当前快照并负责重建：原子指针替换 + singleflight 合并并发重建。
// 除冷启动外读取永不阻塞：过期快照照常返回，重建在后台进行。
type Cache struct {
	store   core.InteractionStore
	builder Builder
	cfg     CacheConfig
	log     zerolog.Logger

	cur     atomic.Pointer[Snapshot]
	pending atomic.Int64 // 自当前快照构建以来上报的新互动数
	group   singleflight.Group

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewCache 创建快照缓存。RefreshInterval>0 时启动后台刷新协程，
// 用完需调用 Close。
func NewCache(store core.InteractionStore, builder Builder, cfg CacheConfig, log zerolog.Logger) *Cache {
	c := &Cache{
		store:   store,
		builder: builder,
		cfg:     cfg.withDefaults(),
		log:     log.With().Str("component", "snapshot_cache").Logger(),
		stopCh:  make(chan struct{}),
	}
	if c.cfg.RefreshInterval > 0 {
		go c.refreshLoop()
	}
	return c
}

// Get 返回当前快照。冷启动时同步构建；快照过期时触发一次后台重建，
// 同时返回手头的旧快照。
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	snap := c.cur.Load()
	if snap == nil {
		return c.rebuild(ctx)
	}
	if c.isStale(snap) {
		go func() {
			// 后台重建不受请求超时约束
			if _, err := c.rebuild(context.Background()); err != nil {
				c.log.Warn().Err(err).Msg("background rebuild failed, keeping stale snapshot")
			}
		}()
	}
	return snap, nil
}

// Current 返回当前快照（可能为 nil），不触发重建。
func (c *Cache) Current() *Snapshot {
	return c.cur.Load()
}

// NoteInteractions 上报新增互动数，驱动基于增量的过期判断。
func (c *Cache) NoteInteractions(n int) {
	if n > 0 {
		c.pending.Add(int64(n))
	}
}

// Invalidate 强制标记当前快照过期。
func (c *Cache) Invalidate() {
	c.pending.Store(int64(c.cfg.MaxNewInteractions) + 1)
}

func (c *Cache) isStale(snap *Snapshot) bool {
	if time.Since(snap.BuiltAt()) > c.cfg.MaxAge {
		return true
	}
	return c.pending.Load() > int64(c.cfg.MaxNewInteractions)
}

// rebuild 通过 singleflight 合并并发重建请求：同一时刻只有一次真实构建，
// 其余调用共享结果。
func (c *Cache) rebuild(ctx context.Context) (*Snapshot, error) {
	v, err, _ := c.group.Do("rebuild", func() (interface{}, error) {
		start := time.Now()
		snap, err := c.builder.Build(ctx, c.store)
		if err != nil {
			return nil, err
		}
		c.cur.Store(snap)
		c.pending.Store(0)
		c.log.Info().
			Int("interactions", snap.InteractionCount()).
			Int("posts", len(snap.Posts())).
			Dur("took", time.Since(start)).
			Msg("snapshot rebuilt")
		return snap, nil
	})
	if err != nil {
		// 构建失败时沿用旧快照，没有旧快照才把错误抛给调用方
		if old := c.cur.Load(); old != nil {
			c.log.Warn().Err(err).Msg("rebuild failed, serving previous snapshot")
			return old, nil
		}
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (c *Cache) refreshLoop() {
	ticker := time.NewTicker(c.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			snap := c.cur.Load()
			if snap == nil || c.isStale(snap) {
				if _, err := c.rebuild(context.Background()); err != nil {
					c.log.Warn().Err(err).Msg("scheduled rebuild failed")
				}
			}
		}
	}
}

// Close 停止后台刷新协程。
func (c *Cache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}
