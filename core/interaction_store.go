package core

import "context"

// InteractionStore 是互动存储的领域接口：引擎与外围系统（注册、发帖、
// 点赞等 CRUD）之间唯一的数据边界。引擎是纯读者，所有方法都不产生副作用。
//
// 实现：
//   - store.SocialMemoryStore（内存，测试/原型）
//   - store.GormStore（Postgres，生产）
//   - store.KVInteractionStore（基于 core.Store 的序列化快照）
type InteractionStore interface {
	// UserExists 检查用户是否存在。推荐入口在任何计算前先做一次存在性
	// 检查，不存在即短路返回 USER_NOT_FOUND。
	UserExists(ctx context.Context, userID string) (bool, error)

	// GetUser 获取用户画像；不存在时返回 ErrStoreNotFound。
	GetUser(ctx context.Context, userID string) (*User, error)

	// GetUsers 获取全部用户（兜底的热门账号推荐需要）。
	GetUsers(ctx context.Context) ([]*User, error)

	// GetInteractions 获取某个用户的全部互动，按时间降序。
	GetInteractions(ctx context.Context, userID string) ([]Interaction, error)

	// GetAllInteractions 获取全量互动（矩阵构建用）。
	GetAllInteractions(ctx context.Context) ([]Interaction, error)

	// GetPosts 获取全部帖子及元数据。
	GetPosts(ctx context.Context) ([]*Post, error)

	// GetPostByID 获取单个帖子；不存在时返回 ErrStoreNotFound。
	GetPostByID(ctx context.Context, postID string) (*Post, error)

	// GetFollowing 获取某个用户关注的账号 ID 列表。
	GetFollowing(ctx context.Context, userID string) ([]string, error)
}
