package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wandergram/wanderkit/core"
)

// KV 键约定：离线任务把社交数据整体序列化进 KV，
// 引擎侧按键读出。适合没有直连数据库权限的部署形态。
const (
	kvKeyUsers        = "social:users"
	kvKeyPosts        = "social:posts"
	kvKeyInteractions = "social:interactions"
	kvKeyFollowPrefix = "social:follows:"
)

// KVInteractionStore 是基于通用 KV（core.Store）的互动存储：
// 读 Redis/内存里的 JSON 快照。键不存在按空数据处理。
type KVInteractionStore struct {
	Store core.Store
}

func (s *KVInteractionStore) getJSON(ctx context.Context, key string, out any) error {
	data, err := s.Store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return fmt.Errorf("kv interaction store: get %q: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("kv interaction store: decode %q: %w", key, err)
	}
	return nil
}

func (s *KVInteractionStore) UserExists(ctx context.Context, userID string) (bool, error) {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *KVInteractionStore) GetUser(ctx context.Context, userID string) (*core.User, error) {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, core.ErrStoreNotFound
}

func (s *KVInteractionStore) GetUsers(ctx context.Context) ([]*core.User, error) {
	var users []*core.User
	if err := s.getJSON(ctx, kvKeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *KVInteractionStore) GetInteractions(ctx context.Context, userID string) ([]core.Interaction, error) {
	all, err := s.GetAllInteractions(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Interaction
	for _, it := range all {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *KVInteractionStore) GetAllInteractions(ctx context.Context) ([]core.Interaction, error) {
	var all []core.Interaction
	if err := s.getJSON(ctx, kvKeyInteractions, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *KVInteractionStore) GetPosts(ctx context.Context) ([]*core.Post, error) {
	var posts []*core.Post
	if err := s.getJSON(ctx, kvKeyPosts, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *KVInteractionStore) GetPostByID(ctx context.Context, postID string) (*core.Post, error) {
	posts, err := s.GetPosts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, core.ErrStoreNotFound
}

func (s *KVInteractionStore) GetFollowing(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := s.getJSON(ctx, kvKeyFollowPrefix+userID, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SeedKV 把另一个互动存储的全量数据序列化写入 KV，
// 供离线任务与测试构造数据使用。
func SeedKV(ctx context.Context, kv core.Store, src core.InteractionStore) error {
	users, err := src.GetUsers(ctx)
	if err != nil {
		return err
	}
	posts, err := src.GetPosts(ctx)
	if err != nil {
		return err
	}
	interactions, err := src.GetAllInteractions(ctx)
	if err != nil {
		return err
	}

	kvs := make(map[string][]byte, 3+len(users))
	if kvs[kvKeyUsers], err = json.Marshal(users); err != nil {
		return err
	}
	if kvs[kvKeyPosts], err = json.Marshal(posts); err != nil {
		return err
	}
	if kvs[kvKeyInteractions], err = json.Marshal(interactions); err != nil {
		return err
	}
	for _, u := range users {
		following, err := src.GetFollowing(ctx, u.ID)
		if err != nil {
			return err
		}
		if len(following) == 0 {
			continue
		}
		data, err := json.Marshal(following)
		if err != nil {
			return err
		}
		kvs[kvKeyFollowPrefix+u.ID] = data
	}
	return kv.BatchSet(ctx, kvs)
}

var _ core.InteractionStore = (*KVInteractionStore)(nil)
