package conv

import "testing"

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 3, 3.0, true},
		{"int64", int64(7), 7.0, true},
		{"bool true", true, 1.0, true},
		{"bool false", false, 0.0, true},
		{"string", "1.5", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ToFloat64(%v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	if got, ok := ToInt(float64(5)); !ok || got != 5 {
		t.Errorf("ToInt(5.0) = %v, %v", got, ok)
	}
	if _, ok := ToInt("5"); ok {
		t.Errorf("字符串不应转换成功")
	}
}

func TestSliceAnyToString(t *testing.T) {
	got := SliceAnyToString([]any{"a", 1, 2.0, true, struct{}{}})
	want := []string{"a", "1", "2", "1"}
	if len(got) != len(want) {
		t.Fatalf("SliceAnyToString() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("第 %d 个元素 = %s, want %s", i, got[i], want[i])
		}
	}
	if SliceAnyToString("not a slice") != nil {
		t.Errorf("非 slice 输入应返回 nil")
	}
}

func TestConfigGetters(t *testing.T) {
	// YAML 解析数字时可能得到 int 也可能得到 float64
	m := map[string]any{"limit": 10, "weight": 0.6, "ratio": 1, "name": "feed"}

	if got := ConfigGetInt(m, "limit", 0); got != 10 {
		t.Errorf("ConfigGetInt(limit) = %d", got)
	}
	if got := ConfigGetFloat(m, "weight", 0); got != 0.6 {
		t.Errorf("ConfigGetFloat(weight) = %v", got)
	}
	if got := ConfigGetFloat(m, "ratio", 0); got != 1.0 {
		t.Errorf("ConfigGetFloat(ratio) = %v，int 也应兼容", got)
	}
	if got := ConfigGet(m, "name", ""); got != "feed" {
		t.Errorf("ConfigGet(name) = %s", got)
	}
	if got := ConfigGetInt(m, "missing", 42); got != 42 {
		t.Errorf("缺失 key 应返回默认值，得到 %d", got)
	}
	if got := ConfigGetInt(nil, "limit", 7); got != 7 {
		t.Errorf("nil map 应返回默认值，得到 %d", got)
	}
}
