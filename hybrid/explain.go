package hybrid

import (
	"context"
	"fmt"

	"github.com/wandergram/wanderkit/core"
)

// ExplainStrategy 返回诊断信息：该用户当前会走哪条策略、为何。
// 不执行召回，只读快照统计。
func (e *Engine) ExplainStrategy(ctx context.Context, userID string) (*core.StrategyExplanation, error) {
	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	exp := &core.StrategyExplanation{
		UserID:              userID,
		KindBreakdown:       make(map[core.InteractionKind]int),
		MinForCollaborative: e.cfg.MinInteractionsForCollaborative,
	}

	snap := e.currentSnapshot(ctx)
	if snap == nil {
		exp.Description = "snapshot unavailable, requests fall back to popularity"
		return exp, nil
	}

	interactions := snap.UserInteractions(userID)
	exp.InteractionCount = len(interactions)
	for _, it := range interactions {
		exp.KindBreakdown[it.Kind]++
	}
	exp.AuthoredPostCount = len(snap.AuthoredPosts(userID))
	exp.CollaborativeEnabled = exp.InteractionCount >= exp.MinForCollaborative

	switch {
	case exp.InteractionCount == 0:
		exp.Description = "no interactions yet, requests serve popular content"
	case exp.CollaborativeEnabled:
		exp.Description = fmt.Sprintf(
			"%d interactions (min %d): collaborative filtering enabled, hybrid fusion when both signals fire",
			exp.InteractionCount, exp.MinForCollaborative)
	default:
		exp.Description = fmt.Sprintf(
			"%d interactions (min %d): below collaborative threshold, content-based only",
			exp.InteractionCount, exp.MinForCollaborative)
	}
	return exp, nil
}
