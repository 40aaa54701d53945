package store

import (
	"context"
	"sort"
	"sync"

	"github.com/wandergram/wanderkit/core"
)

// SocialMemoryStore 是内存实现的互动存储，用于测试、原型和示例数据。
// 写入方法只为填充数据，引擎侧仍通过 core.InteractionStore 只读访问。
type SocialMemoryStore struct {
	mu           sync.RWMutex
	users        map[string]*core.User
	posts        map[string]*core.Post
	interactions []core.Interaction
	follows      map[string]map[string]struct{}
}

func NewSocialMemoryStore() *SocialMemoryStore {
	return &SocialMemoryStore{
		users:   make(map[string]*core.User),
		posts:   make(map[string]*core.Post),
		follows: make(map[string]map[string]struct{}),
	}
}

// AddUser 写入用户。
func (s *SocialMemoryStore) AddUser(u *core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AddPost 写入帖子。
func (s *SocialMemoryStore) AddPost(p *core.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.ID] = p
}

// AddInteraction 追加一条互动并同步帖子计数。
func (s *SocialMemoryStore) AddInteraction(it core.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, it)
	if post, ok := s.posts[it.PostID]; ok {
		switch it.Kind {
		case core.KindLike:
			post.LikeCount++
		case core.KindComment:
			post.CommentCount++
		case core.KindShare:
			post.ShareCount++
		}
	}
}

// AddFollow 记录关注关系。
func (s *SocialMemoryStore) AddFollow(follower, followed string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.follows[follower] == nil {
		s.follows[follower] = make(map[string]struct{})
	}
	s.follows[follower][followed] = struct{}{}
}

func (s *SocialMemoryStore) UserExists(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}

func (s *SocialMemoryStore) GetUser(ctx context.Context, userID string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return u, nil
}

func (s *SocialMemoryStore) GetUsers(ctx context.Context) ([]*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *SocialMemoryStore) GetInteractions(ctx context.Context, userID string) ([]core.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Interaction
	for _, it := range s.interactions {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *SocialMemoryStore) GetAllInteractions(ctx context.Context) ([]core.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Interaction, len(s.interactions))
	copy(out, s.interactions)
	return out, nil
}

func (s *SocialMemoryStore) GetPosts(ctx context.Context) ([]*core.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *SocialMemoryStore) GetPostByID(ctx context.Context, postID string) (*core.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return p, nil
}

func (s *SocialMemoryStore) GetFollowing(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.follows[userID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

var _ core.InteractionStore = (*SocialMemoryStore)(nil)
