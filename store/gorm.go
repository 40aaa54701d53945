package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wandergram/wanderkit/core"
)

// GORM 表模型。表由外围社交服务维护，引擎只读；
// AutoMigrate 仅供测试环境建表。

type userRecord struct {
	ID          string `gorm:"primaryKey;type:varchar(64)"`
	Name        string `gorm:"type:varchar(128)"`
	Bio         string `gorm:"type:text"`
	Home        string `gorm:"type:varchar(128)"`
	TravelStyle string `gorm:"type:varchar(32)"`
}

func (userRecord) TableName() string { return "users" }

type postRecord struct {
	ID           string `gorm:"primaryKey;type:varchar(64)"`
	AuthorID     string `gorm:"index;type:varchar(64);not null"`
	Caption      string `gorm:"type:text"`
	MediaType    string `gorm:"type:varchar(16)"`
	LocationName string `gorm:"index;type:varchar(128)"`
	Country      string `gorm:"type:varchar(64)"`
	Continent    string `gorm:"type:varchar(32)"`
	Category     string `gorm:"type:varchar(32)"`
	Tags         string `gorm:"type:text"` // 逗号分隔
	LikeCount    int
	CommentCount int
	ShareCount   int
	CreatedAt    time.Time
}

func (postRecord) TableName() string { return "posts" }

type interactionRecord struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"index;type:varchar(64);not null"`
	PostID    string    `gorm:"index;type:varchar(64);not null"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (interactionRecord) TableName() string { return "interactions" }

type followRecord struct {
	ID         uint   `gorm:"primaryKey"`
	FollowerID string `gorm:"index;type:varchar(64);not null"`
	FollowedID string `gorm:"index;type:varchar(64);not null"`
}

func (followRecord) TableName() string { return "follows" }

// GormStore 是 Postgres 实现的互动存储。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 连接 Postgres。
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm store: open: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewGormStoreWithDB 复用已有连接（测试注入用）。
func NewGormStoreWithDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate 建表，仅测试环境使用。
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&userRecord{}, &postRecord{}, &interactionRecord{}, &followRecord{})
}

func (s *GormStore) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm store: user exists %q: %w", userID, err)
	}
	return count > 0, nil
}

func (s *GormStore) GetUser(ctx context.Context, userID string) (*core.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrStoreNotFound
		}
		return nil, fmt.Errorf("gorm store: get user %q: %w", userID, err)
	}
	return rec.toUser(), nil
}

func (s *GormStore) GetUsers(ctx context.Context) ([]*core.User, error) {
	var recs []userRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("gorm store: list users: %w", err)
	}
	out := make([]*core.User, len(recs))
	for i, r := range recs {
		out[i] = r.toUser()
	}
	return out, nil
}

func (s *GormStore) GetInteractions(ctx context.Context, userID string) ([]core.Interaction, error) {
	var recs []interactionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm store: interactions of %q: %w", userID, err)
	}
	return toInteractions(recs), nil
}

func (s *GormStore) GetAllInteractions(ctx context.Context) ([]core.Interaction, error) {
	var recs []interactionRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("gorm store: list interactions: %w", err)
	}
	return toInteractions(recs), nil
}

func (s *GormStore) GetPosts(ctx context.Context) ([]*core.Post, error) {
	var recs []postRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("gorm store: list posts: %w", err)
	}
	out := make([]*core.Post, len(recs))
	for i, r := range recs {
		out[i] = r.toPost()
	}
	return out, nil
}

func (s *GormStore) GetPostByID(ctx context.Context, postID string) (*core.Post, error) {
	var rec postRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrStoreNotFound
		}
		return nil, fmt.Errorf("gorm store: get post %q: %w", postID, err)
	}
	return rec.toPost(), nil
}

func (s *GormStore) GetFollowing(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&followRecord{}).
		Where("follower_id = ?", userID).
		Order("followed_id").
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("gorm store: following of %q: %w", userID, err)
	}
	return ids, nil
}

// SaveUser 写入或覆盖用户，供种子数据与测试环境使用。
func (s *GormStore) SaveUser(ctx context.Context, u *core.User) error {
	rec := userRecord{
		ID:          u.ID,
		Name:        u.Name,
		Bio:         u.Bio,
		Home:        u.Home,
		TravelStyle: u.TravelStyle,
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}

// SavePost 写入或覆盖帖子，供种子数据与测试环境使用。
func (s *GormStore) SavePost(ctx context.Context, p *core.Post) error {
	rec := postRecord{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		Caption:      p.Caption,
		MediaType:    p.MediaType,
		Tags:         strings.Join(p.Tags, ","),
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		CreatedAt:    p.CreatedAt,
	}
	if p.Location != nil {
		rec.LocationName = p.Location.Name
		rec.Country = p.Location.Country
		rec.Continent = p.Location.Continent
		rec.Category = p.Location.Category
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}

// SaveInteraction 追加一条互动，供种子数据与测试环境使用。
func (s *GormStore) SaveInteraction(ctx context.Context, it core.Interaction) error {
	rec := interactionRecord{
		UserID:    it.UserID,
		PostID:    it.PostID,
		Kind:      string(it.Kind),
		CreatedAt: it.Timestamp,
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

// SaveFollow 追加一条关注关系，供种子数据与测试环境使用。
func (s *GormStore) SaveFollow(ctx context.Context, follower, followed string) error {
	rec := followRecord{FollowerID: follower, FollowedID: followed}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (r userRecord) toUser() *core.User {
	return &core.User{
		ID:          r.ID,
		Name:        r.Name,
		Bio:         r.Bio,
		Home:        r.Home,
		TravelStyle: r.TravelStyle,
	}
}

func (r postRecord) toPost() *core.Post {
	post := &core.Post{
		ID:           r.ID,
		AuthorID:     r.AuthorID,
		Caption:      r.Caption,
		MediaType:    r.MediaType,
		Tags:         splitTags(r.Tags),
		LikeCount:    r.LikeCount,
		CommentCount: r.CommentCount,
		ShareCount:   r.ShareCount,
		CreatedAt:    r.CreatedAt,
	}
	if r.LocationName != "" {
		post.Location = &core.Location{
			Name:      r.LocationName,
			Country:   r.Country,
			Continent: r.Continent,
			Category:  r.Category,
		}
	}
	return post
}

func toInteractions(recs []interactionRecord) []core.Interaction {
	out := make([]core.Interaction, len(recs))
	for i, r := range recs {
		out[i] = core.Interaction{
			UserID:    r.UserID,
			PostID:    r.PostID,
			Kind:      core.InteractionKind(r.Kind),
			Timestamp: r.CreatedAt,
		}
	}
	return out
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

var _ core.InteractionStore = (*GormStore)(nil)
