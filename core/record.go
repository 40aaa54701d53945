package core

import "time"

// InteractionKind 是互动行为类型：like / comment / share / save。
type InteractionKind string

const (
	KindLike    InteractionKind = "like"
	KindComment InteractionKind = "comment"
	KindShare   InteractionKind = "share"
	KindSave    InteractionKind = "save"
)

// Weight 返回行为权重。统一采用 like=1.0、comment=2.0、share=3.0、save=2.5
// 的口径；未知类型按 like 处理。
func (k InteractionKind) Weight() float64 {
	switch k {
	case KindLike:
		return 1.0
	case KindComment:
		return 2.0
	case KindShare:
		return 3.0
	case KindSave:
		return 2.5
	default:
		return 1.0
	}
}

// Interaction 是一条不可变的互动事实：用户在某个时刻对某个帖子做了某个行为。
// 引擎只读取互动，不产生、不修改。
type Interaction struct {
	UserID    string
	PostID    string
	Kind      InteractionKind
	Timestamp time.Time
}

// WeightedValue 返回该条互动的加权值。
func (i Interaction) WeightedValue() float64 {
	return i.Kind.Weight()
}

// Location 是帖子携带的结构化地点信息。
type Location struct {
	Name      string
	Country   string
	Continent string
	Category  string // beach / mountain / city / heritage ...
}

// Post 是内容条目：帖子本体、地点、标签与聚合互动计数。
// 计数由外部互动存储维护，引擎只读。
type Post struct {
	ID           string
	AuthorID     string
	Caption      string
	MediaType    string // image / video
	Location     *Location
	Tags         []string
	LikeCount    int
	CommentCount int
	ShareCount   int
	CreatedAt    time.Time
}

// EngagementScore 返回帖子的原始热度：各计数直接求和，用于兜底排序。
func (p *Post) EngagementScore() float64 {
	return float64(p.LikeCount + p.CommentCount + p.ShareCount)
}

// User 是用户画像的只读快照：注册时写入，引擎不修改。
type User struct {
	ID          string
	Name        string
	Bio         string
	Home        string // 自由文本居住地
	TravelStyle string // adventure / luxury / budget ...
}

// UserInterest 是用户显式声明的兴趣：(类别, 权重)，权重 ∈ (0,1]。
// 只作为次级信号使用，缺失时算法照常工作。
type UserInterest struct {
	Category string
	Weight   float64
}
