package recommender

import "context"

// WarmReport 是批量预热的执行汇总。
type WarmReport struct {
	Total  int      `json:"total"`
	Warmed int      `json:"warmed"`
	Failed []string `json:"failed,omitempty"`
}

// WarmUser 为单个用户预热各 limit 枚举的推荐缓存。
// 预热失败只返回 false，不向上传播错误（预热是尽力而为的后台任务）。
func (e *Engine) WarmUser(ctx context.Context, userID string) bool {
	for _, limit := range e.cfg.Limits.warm() {
		if _, err := e.Recommend(ctx, userID, limit); err != nil {
			return false
		}
	}
	return true
}

// WarmAll 顺序预热全部用户，返回执行汇总。
// 单个用户失败不中断批次；枚举用户失败时返回错误。
func (e *Engine) WarmAll(ctx context.Context) (WarmReport, error) {
	userIDs, err := e.extractor.Events.AllUserIDs(ctx)
	if err != nil {
		return WarmReport{}, err
	}

	report := WarmReport{Total: len(userIDs)}
	for _, userID := range userIDs {
		if e.WarmUser(ctx, userID) {
			report.Warmed++
		} else {
			report.Failed = append(report.Failed, userID)
		}
	}
	return report, nil
}
