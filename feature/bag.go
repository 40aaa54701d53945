package feature

import "github.com/wandergram/wanderkit/core"

// BagWeights 是词袋构建时各字段的重复倍数。向量器只认词频，
// 字段重要性通过重复次数编码：地点名 ×5、国家 ×3、大洲 ×2、类别 ×4、
// 标签 ×2、旅行风格 ×1、内容类型 ×1。
type BagWeights struct {
	LocationName int
	Country      int
	Continent    int
	Category     int
	Tags         int
	TravelStyle  int
	MediaType    int
}

// DefaultBagWeights 返回默认的字段倍数。
func DefaultBagWeights() BagWeights {
	return BagWeights{
		LocationName: 5,
		Country:      3,
		Continent:    2,
		Category:     4,
		Tags:         2,
		TravelStyle:  1,
		MediaType:    1,
	}
}

// BuildTermBag 把一条帖子展开成带重复加权的词袋：
// 正文分词一遍，结构化字段按各自倍数重复追加。travelStyle 来自作者画像，
// 取不到时传空串即可。
func BuildTermBag(post *core.Post, travelStyle string, w BagWeights) []string {
	if post == nil {
		return nil
	}

	bag := Tokenize(post.Caption)

	appendRepeated := func(text string, times int) {
		if text == "" || times <= 0 {
			return
		}
		terms := Tokenize(text)
		for i := 0; i < times; i++ {
			bag = append(bag, terms...)
		}
	}

	if loc := post.Location; loc != nil {
		appendRepeated(loc.Name, w.LocationName)
		appendRepeated(loc.Country, w.Country)
		appendRepeated(loc.Continent, w.Continent)
		appendRepeated(loc.Category, w.Category)
	}
	for _, tag := range post.Tags {
		appendRepeated(tag, w.Tags)
	}
	appendRepeated(travelStyle, w.TravelStyle)
	appendRepeated(post.MediaType, w.MediaType)

	return bag
}
