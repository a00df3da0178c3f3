package recommender

import "context"

// Stats 是推荐数据面的统计快照（管理后台/运维巡检用）。
type Stats struct {
	Users     int `json:"users"`
	Products  int `json:"products"`
	Likes     int `json:"likes"`
	Purchases int `json:"purchases"` // 有效状态订单的商品行数
	Reviews   int `json:"reviews"`
	Follows   int `json:"follows"`

	// AvgInteractionsPerUser 人均交互事件数（点赞+购买行+评论）。
	AvgInteractionsPerUser float64 `json:"avg_interactions_per_user"`
}

// Stats 遍历事件存储汇总统计。全量扫描，只适合后台低频调用。
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	var s Stats

	userIDs, err := e.extractor.Events.AllUserIDs(ctx)
	if err != nil {
		return Stats{}, err
	}
	s.Users = len(userIDs)

	if e.vectors != nil && e.vectors.Catalog != nil {
		products, err := e.vectors.Catalog.ListProducts(ctx)
		if err != nil {
			return Stats{}, err
		}
		s.Products = len(products)
	}

	for _, userID := range userIDs {
		likes, err := e.extractor.Events.UserLikes(ctx, userID)
		if err != nil {
			return Stats{}, err
		}
		s.Likes += len(likes)

		orders, err := e.extractor.Events.UserOrders(ctx, userID)
		if err != nil {
			return Stats{}, err
		}
		for _, o := range orders {
			if !o.Status.Qualifies() {
				continue
			}
			s.Purchases += len(o.Lines)
		}

		reviews, err := e.extractor.Events.UserReviews(ctx, userID)
		if err != nil {
			return Stats{}, err
		}
		s.Reviews += len(reviews)

		if e.social != nil && e.social.Social != nil {
			friends, err := e.social.Social.Friends(ctx, userID)
			if err != nil {
				return Stats{}, err
			}
			s.Follows += len(friends)
		}
	}

	if s.Users > 0 {
		s.AvgInteractionsPerUser = float64(s.Likes+s.Purchases+s.Reviews) / float64(s.Users)
	}
	return s, nil
}
