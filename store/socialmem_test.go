package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wandergram/wanderkit/core"
)

func seedSocial() *SocialMemoryStore {
	s := NewSocialMemoryStore()
	now := time.Now()

	s.AddUser(&core.User{ID: "alice", Name: "Alice"})
	s.AddUser(&core.User{ID: "eva", Name: "Eva"})
	s.AddPost(&core.Post{ID: "p-1", AuthorID: "eva", Caption: "beach", CreatedAt: now})
	s.AddPost(&core.Post{ID: "p-2", AuthorID: "eva", Caption: "mountain", CreatedAt: now})
	s.AddInteraction(core.Interaction{UserID: "alice", PostID: "p-1", Kind: core.KindLike, Timestamp: now.Add(-2 * time.Hour)})
	s.AddInteraction(core.Interaction{UserID: "alice", PostID: "p-2", Kind: core.KindShare, Timestamp: now.Add(-1 * time.Hour)})
	s.AddFollow("alice", "eva")
	return s
}

func TestSocialMemoryStore_Users(t *testing.T) {
	s := seedSocial()
	ctx := context.Background()

	ok, err := s.UserExists(ctx, "alice")
	if err != nil || !ok {
		t.Errorf("UserExists(alice) = %v, %v", ok, err)
	}
	ok, _ = s.UserExists(ctx, "ghost")
	if ok {
		t.Errorf("ghost 不应存在")
	}

	u, err := s.GetUser(ctx, "alice")
	if err != nil || u.Name != "Alice" {
		t.Errorf("GetUser() = %v, %v", u, err)
	}
	if _, err := s.GetUser(ctx, "ghost"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("不存在的用户应返回 ErrStoreNotFound，得到 %v", err)
	}

	users, _ := s.GetUsers(ctx)
	if len(users) != 2 {
		t.Errorf("GetUsers() 应返回 2 个用户，得到 %d", len(users))
	}
}

func TestSocialMemoryStore_Interactions(t *testing.T) {
	s := seedSocial()
	ctx := context.Background()

	// 按时间倒序
	its, err := s.GetInteractions(ctx, "alice")
	if err != nil {
		t.Fatalf("GetInteractions() error = %v", err)
	}
	if len(its) != 2 || its[0].PostID != "p-2" {
		t.Errorf("互动应按时间倒序：%v", its)
	}

	all, _ := s.GetAllInteractions(ctx)
	if len(all) != 2 {
		t.Errorf("GetAllInteractions() = %d 条，期望 2", len(all))
	}
}

func TestSocialMemoryStore_EngagementCounters(t *testing.T) {
	s := seedSocial()
	ctx := context.Background()

	// AddInteraction 同步维护帖子的互动计数
	p, err := s.GetPostByID(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetPostByID() error = %v", err)
	}
	if p.LikeCount != 1 {
		t.Errorf("p-1 点赞数 = %d，期望 1", p.LikeCount)
	}
	p, _ = s.GetPostByID(ctx, "p-2")
	if p.ShareCount != 1 {
		t.Errorf("p-2 分享数 = %d，期望 1", p.ShareCount)
	}
}

func TestSocialMemoryStore_Follows(t *testing.T) {
	s := seedSocial()
	following, err := s.GetFollowing(context.Background(), "alice")
	if err != nil || len(following) != 1 || following[0] != "eva" {
		t.Errorf("GetFollowing() = %v, %v", following, err)
	}
	none, _ := s.GetFollowing(context.Background(), "eva")
	if len(none) != 0 {
		t.Errorf("eva 未关注任何人，得到 %v", none)
	}
}

func TestKVInteractionStore_Roundtrip(t *testing.T) {
	src := seedSocial()
	kv := NewMemoryStore()
	defer kv.Close()
	ctx := context.Background()

	if err := SeedKV(ctx, kv, src); err != nil {
		t.Fatalf("SeedKV() error = %v", err)
	}
	s := &KVInteractionStore{Store: kv}

	ok, err := s.UserExists(ctx, "alice")
	if err != nil || !ok {
		t.Errorf("UserExists(alice) = %v, %v", ok, err)
	}

	posts, err := s.GetPosts(ctx)
	if err != nil || len(posts) != 2 {
		t.Errorf("GetPosts() = %d 条, %v，期望 2", len(posts), err)
	}

	its, err := s.GetInteractions(ctx, "alice")
	if err != nil {
		t.Fatalf("GetInteractions() error = %v", err)
	}
	if len(its) != 2 || its[0].PostID != "p-2" {
		t.Errorf("KV 读出的互动也应按时间倒序：%v", its)
	}

	following, err := s.GetFollowing(ctx, "alice")
	if err != nil || len(following) != 1 || following[0] != "eva" {
		t.Errorf("GetFollowing() = %v, %v", following, err)
	}

	p, err := s.GetPostByID(ctx, "p-1")
	if err != nil || p.AuthorID != "eva" {
		t.Errorf("GetPostByID() = %v, %v", p, err)
	}
}

func TestKVInteractionStore_EmptyKeys(t *testing.T) {
	kv := NewMemoryStore()
	defer kv.Close()
	s := &KVInteractionStore{Store: kv}
	ctx := context.Background()

	// 键不存在按空数据处理，不报错
	users, err := s.GetUsers(ctx)
	if err != nil || len(users) != 0 {
		t.Errorf("空 KV 应返回空用户列表，得到 %v, %v", users, err)
	}
	ok, err := s.UserExists(ctx, "anyone")
	if err != nil || ok {
		t.Errorf("空 KV 中不应有用户，得到 %v, %v", ok, err)
	}
	if _, err := s.GetPostByID(ctx, "p-1"); !errors.Is(err, core.ErrStoreNotFound) {
		t.Errorf("不存在的帖子应返回 ErrStoreNotFound，得到 %v", err)
	}
}
