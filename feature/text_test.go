package feature

import (
	"reflect"
	"testing"
	"time"

	"github.com/wandergram/wanderkit/core"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and strip punctuation", "Amazing SUNSET at Goa!!!", "amazing sunset at goa"},
		{"collapse whitespace", "beach   \t\n paradise", "beach paradise"},
		{"keep digits", "Top 10 beaches", "top 10 beaches"},
		{"empty input", "", ""},
		{"punctuation only", "!!! ...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Sunset at the BEACH, #paradise!")
	want := []string{"sunset", "at", "the", "beach", "paradise"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
	if Tokenize("") != nil {
		t.Errorf("空串应返回 nil")
	}
}

func TestBuildTermBag(t *testing.T) {
	post := &core.Post{
		ID:        "p1",
		Caption:   "sunset vibes",
		MediaType: "image",
		Location: &core.Location{
			Name:      "Goa",
			Country:   "India",
			Continent: "Asia",
			Category:  "beach",
		},
		Tags:      []string{"travel"},
		CreatedAt: time.Now(),
	}
	bag := BuildTermBag(post, "budget", DefaultBagWeights())

	counts := make(map[string]int)
	for _, term := range bag {
		counts[term]++
	}

	// 各字段按倍数重复：地点 ×5、国家 ×3、大洲 ×2、类别 ×4、标签 ×2、风格 ×1、媒体 ×1
	wantCounts := map[string]int{
		"goa": 5, "india": 3, "asia": 2, "beach": 4,
		"travel": 2, "budget": 1, "image": 1,
		"sunset": 1, "vibes": 1,
	}
	for term, want := range wantCounts {
		if counts[term] != want {
			t.Errorf("term %q 出现 %d 次，期望 %d 次", term, counts[term], want)
		}
	}

	if got := BuildTermBag(nil, "", DefaultBagWeights()); got != nil {
		t.Errorf("nil post 应返回 nil")
	}
}
