package store

import (
	"context"
	"testing"
	"time"

	"github.com/wandergram/wanderkit/core"
)

// 注意：需要本地 Postgres 才能运行，CI 默认跳过
func TestGormStore(t *testing.T) {
	dsn := "host=localhost user=wanderkit password=wanderkit dbname=wanderkit_test port=5432 sslmode=disable"
	s, err := NewGormStore(dsn)
	if err != nil {
		t.Skip("需要连接真实的 Postgres 才能运行")
	}
	ctx := context.Background()

	if err := s.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	if err := s.SaveUser(ctx, &core.User{ID: "alice", Name: "Alice", TravelStyle: "budget"}); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}
	if err := s.SavePost(ctx, &core.Post{
		ID: "p-1", AuthorID: "alice", Caption: "beach sunset",
		Location:  &core.Location{Name: "Bali", Country: "Indonesia", Continent: "Asia", Category: "beach"},
		Tags:      []string{"beach", "sunset"},
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("SavePost() error = %v", err)
	}
	if err := s.SaveInteraction(ctx, core.Interaction{
		UserID: "alice", PostID: "p-1", Kind: core.KindLike, Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("SaveInteraction() error = %v", err)
	}

	ok, err := s.UserExists(ctx, "alice")
	if err != nil || !ok {
		t.Errorf("UserExists(alice) = %v, %v", ok, err)
	}

	p, err := s.GetPostByID(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetPostByID() error = %v", err)
	}
	if p.Location == nil || p.Location.Name != "Bali" {
		t.Errorf("地点字段应完整还原：%+v", p.Location)
	}
	if len(p.Tags) != 2 {
		t.Errorf("标签应完整还原：%v", p.Tags)
	}

	its, err := s.GetInteractions(ctx, "alice")
	if err != nil || len(its) == 0 {
		t.Errorf("GetInteractions() = %v, %v", its, err)
	}
}
