// Package domain defines the access decision derived from subscription
// and quota state.
package domain

// AccessDecision is recomputed from the subscription record plus the count
// of distinct providers viewed today. It is cached transiently, never
// persisted.
type AccessDecision struct {
	HasActiveSubscription bool `json:"has_active_subscription"`
	DailyViewsCount       int  `json:"daily_views_count"`
	DailyViewsLimit       int  `json:"daily_views_limit"`
	CanViewMore           bool `json:"can_view_more"`
}
