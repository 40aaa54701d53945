package core

// Strategy 标记一次推荐请求最终采用的策略。
// 策略在请求内一次性选定：hybrid / collaborative_only / content_only /
// popularity_fallback，之后不再迁移。
type Strategy string

const (
	StrategyHybrid             Strategy = "hybrid"
	StrategyCollaborativeOnly  Strategy = "collaborative_only"
	StrategyContentOnly        Strategy = "content_only"
	StrategyPopularityFallback Strategy = "popularity_fallback"
)

// Recommendation 是帖子推荐的输出记录。每次请求现算现返，不落库。
// CollabScore / ContentScore 是各自列表内的 rank 归一分数（未加权），
// 未参与的一侧为 0。
type Recommendation struct {
	PostID       string
	Score        float64
	CollabScore  float64
	ContentScore float64
	Strategy     Strategy
	Reason       string
	Post         *Post
}

// UserRecommendation 是「可关注账号」推荐的输出记录。
type UserRecommendation struct {
	UserID        string
	Score         float64
	Strategy      Strategy
	Reason        string
	FollowerCount int
	PostCount     int
	User          *User
}

// DestinationRecommendation 是目的地推荐的输出记录。
// Reasons 按命中顺序给出人类可读的推荐理由。
type DestinationRecommendation struct {
	Location           Location
	Score              float64
	CollaborativeBoost float64
	Strategy           Strategy
	Reasons            []string
	PostCount          int
}

// StrategyExplanation 是 ExplainStrategy 的诊断输出：说明该用户当前会
// 走哪条策略、为何。
type StrategyExplanation struct {
	UserID               string
	InteractionCount     int
	KindBreakdown        map[InteractionKind]int
	AuthoredPostCount    int
	MinForCollaborative  int
	CollaborativeEnabled bool
	Description          string
}
