package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/pkg/utils"
)

// Result 是单个召回源的执行结果。Err 不会中断其他召回源，
// 由调用方决定记日志还是忽略；融合阶段把出错的源当成空列表。
type Result struct {
	Source string
	Items  []*core.Item
	Err    error
}

// Collect 并发执行全部召回源，按传入顺序返回各自的结果列表。
// 融合需要各源独立的有序列表，因此这里不做合并去重。
// 单源出错或超时只记录在对应 Result 上，不影响其余源。
func Collect(
	ctx context.Context,
	rctx *core.RecommendContext,
	timeout time.Duration,
	sources ...Source,
) []Result {
	results := make([]Result, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range sources {
		i, s := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				results[i] = Result{Source: s.Name(), Err: err}
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
			}
			results[i] = Result{Source: s.Name(), Items: items}
			return nil
		})
	}

	// 所有分支都吞掉了错误，Wait 只等待收尾
	_ = eg.Wait()
	return results
}
