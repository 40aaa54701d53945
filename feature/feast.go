package feature

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/wandergram/wanderkit/core"
)

// FeastInterestProvider 从 Feast 在线特征库读取用户声明式兴趣，
// 每个兴趣品类对应一个 double 特征（如 interest_beach、interest_culture）。
type FeastInterestProvider struct {
	client  *feastsdk.GrpcClient
	project string

	// EntityKey 实体列名，默认 "user_id"
	EntityKey string

	// Features 特征名 → 兴趣品类，如 "interest_beach" → "beach"
	Features map[string]string
}

// NewFeastInterestProvider 连接 Feast gRPC 在线服务。
func NewFeastInterestProvider(host string, port int, project string, features map[string]string) (*FeastInterestProvider, error) {
	if port == 0 {
		port = 6565
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("feast interest provider: features are required")
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast interest provider: connect %s:%d: %w", host, port, err)
	}
	return &FeastInterestProvider{
		client:   client,
		project:  project,
		Features: features,
	}, nil
}

func (p *FeastInterestProvider) entityKey() string {
	if p.EntityKey != "" {
		return p.EntityKey
	}
	return "user_id"
}

// GetUserInterests 拉取该用户的全部兴趣特征，权重 <=0 的品类不返回。
// 返回结果按品类名排序，保证确定性。
func (p *FeastInterestProvider) GetUserInterests(ctx context.Context, userID string) ([]core.UserInterest, error) {
	featureNames := make([]string, 0, len(p.Features))
	for name := range p.Features {
		featureNames = append(featureNames, name)
	}
	sort.Strings(featureNames)

	req := &feastsdk.OnlineFeaturesRequest{
		Features: featureNames,
		Entities: []feastsdk.Row{
			{p.entityKey(): feastsdk.StrVal(userID)},
		},
		Project: p.project,
	}
	resp, err := p.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast interest provider: get online features for %q: %w", userID, err)
	}
	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, nil
	}

	interests := make([]core.UserInterest, 0, len(featureNames))
	for _, name := range featureNames {
		val, ok := rows[0][name]
		if !ok {
			continue
		}
		weight := toWeight(val)
		if weight <= 0 {
			continue
		}
		interests = append(interests, core.UserInterest{
			Category: p.Features[name],
			Weight:   weight,
		})
	}
	return interests, nil
}

// Close 释放客户端连接。
func (p *FeastInterestProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// toWeight 把 Feast 的 Value 转成 float64 权重，无法识别的类型按 0 处理。
func toWeight(val *feasttypes.Value) float64 {
	if val == nil {
		return 0
	}
	switch v := val.GetVal().(type) {
	case *feasttypes.Value_DoubleVal:
		return v.DoubleVal
	case *feasttypes.Value_FloatVal:
		return float64(v.FloatVal)
	case *feasttypes.Value_Int64Val:
		return float64(v.Int64Val)
	case *feasttypes.Value_Int32Val:
		return float64(v.Int32Val)
	case *feasttypes.Value_StringVal:
		if f, err := strconv.ParseFloat(v.StringVal, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

var _ InterestProvider = (*FeastInterestProvider)(nil)
var _ InterestProvider = (*StoreInterestProvider)(nil)
