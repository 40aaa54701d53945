package recall

import (
	"context"
	"testing"
	"time"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/snapshot"
	"github.com/wandergram/wanderkit/store"
)

// 测试数据：alice 与 bob 重度互动海滩内容（有重叠），carol 只看山地，
// dave 零互动，frank 只赞过一篇海滩帖（内容召回的种子场景），eva 是作者。
func fixtureStore() *store.SocialMemoryStore {
	s := store.NewSocialMemoryStore()
	now := time.Now()

	for _, u := range []*core.User{
		{ID: "alice", Name: "Alice", TravelStyle: "budget"},
		{ID: "bob", Name: "Bob", TravelStyle: "budget"},
		{ID: "carol", Name: "Carol", TravelStyle: "adventure"},
		{ID: "dave", Name: "Dave"},
		{ID: "eva", Name: "Eva", TravelStyle: "luxury"},
		{ID: "frank", Name: "Frank", TravelStyle: "budget"},
	} {
		s.AddUser(u)
	}

	posts := []*core.Post{
		{ID: "p-bali", AuthorID: "eva", Caption: "beautiful beach sunset paradise",
			MediaType: "image", Location: &core.Location{Name: "Bali", Country: "Indonesia", Continent: "Asia", Category: "beach"},
			Tags: []string{"beach", "sunset"}, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "p-goa", AuthorID: "eva", Caption: "beautiful beach sunset waves",
			MediaType: "image", Location: &core.Location{Name: "Goa", Country: "India", Continent: "Asia", Category: "beach"},
			Tags: []string{"beach", "sunset"}, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "p-alps", AuthorID: "eva", Caption: "snow mountain hiking trail",
			MediaType: "video", Location: &core.Location{Name: "Alps", Country: "Switzerland", Continent: "Europe", Category: "mountain"},
			Tags: []string{"mountain", "hiking"}, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "p-rockies", AuthorID: "carol", Caption: "snow mountain hiking peak",
			MediaType: "video", Location: &core.Location{Name: "Rockies", Country: "Canada", Continent: "North America", Category: "mountain"},
			Tags: []string{"mountain", "hiking"}, CreatedAt: now.Add(-96 * time.Hour)},
	}
	for _, p := range posts {
		s.AddPost(p)
	}

	for _, it := range []core.Interaction{
		{UserID: "alice", PostID: "p-bali", Kind: core.KindLike, Timestamp: now.Add(-3 * time.Hour)},
		{UserID: "alice", PostID: "p-goa", Kind: core.KindComment, Timestamp: now.Add(-2 * time.Hour)},
		{UserID: "bob", PostID: "p-bali", Kind: core.KindShare, Timestamp: now.Add(-5 * time.Hour)},
		{UserID: "bob", PostID: "p-goa", Kind: core.KindLike, Timestamp: now.Add(-4 * time.Hour)},
		{UserID: "bob", PostID: "p-alps", Kind: core.KindSave, Timestamp: now.Add(-1 * time.Hour)},
		{UserID: "carol", PostID: "p-alps", Kind: core.KindLike, Timestamp: now.Add(-6 * time.Hour)},
		{UserID: "carol", PostID: "p-rockies", Kind: core.KindComment, Timestamp: now.Add(-7 * time.Hour)},
		{UserID: "frank", PostID: "p-bali", Kind: core.KindLike, Timestamp: now.Add(-8 * time.Hour)},
	} {
		s.AddInteraction(it)
	}

	s.AddFollow("alice", "eva")
	s.AddFollow("bob", "eva")
	s.AddFollow("bob", "carol")
	return s
}

func buildSnap(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	b := &snapshot.Builder{}
	snap, err := b.Build(context.Background(), fixtureStore())
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}
	return snap
}

// fixedProvider 把固定快照当成提供者，测试 Recall 接口路径用。
type fixedProvider struct {
	snap *snapshot.Snapshot
}

func (p *fixedProvider) Get(ctx context.Context) (*snapshot.Snapshot, error) {
	return p.snap, nil
}
