package service

import "testing"

// ── 等级计算测试 ──

func TestTier_Boundaries(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 0},
		{49, 0},
		{50, 1},
		{99, 1},
		{100, 2},
		{449, 8},
		{450, 9},
		{451, 9},
		{100000, 9}, // 封顶后积分继续累加但等级不变
		{-5, 0},
	}
	for _, c := range cases {
		if got := Tier(c.points); got != c.want {
			t.Errorf("Tier(%d)：期望 %d，实际 %d", c.points, c.want, got)
		}
	}
}

func TestTier_Monotonic(t *testing.T) {
	prev := Tier(0)
	for points := 1; points <= 500; points++ {
		cur := Tier(points)
		if cur < prev {
			t.Fatalf("等级不应随积分增加而下降：Tier(%d)=%d < Tier(%d)=%d",
				points, cur, points-1, prev)
		}
		prev = cur
	}
}

func TestPointsToNextTier(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 50},
		{1, 49},
		{49, 1},
		{50, 50}, // 刚跨过等级线，新等级需要再攒 50
		{449, 1},
		{450, 0}, // 封顶
		{9999, 0},
	}
	for _, c := range cases {
		if got := PointsToNextTier(c.points); got != c.want {
			t.Errorf("PointsToNextTier(%d)：期望 %d，实际 %d", c.points, c.want, got)
		}
	}
}

func TestCollectableForTier(t *testing.T) {
	image, name := CollectableForTier(0)
	if image == "" || name == "" {
		t.Error("0 级也应有收藏品")
	}

	topImage, _ := CollectableForTier(MaxTier)
	overImage, _ := CollectableForTier(MaxTier + 5)
	if topImage != overImage {
		t.Error("超出上限的等级应返回最高级收藏品")
	}
}

func TestCollectablesBelowTier(t *testing.T) {
	if got := CollectablesBelowTier(0); len(got) != 0 {
		t.Errorf("0 级不应有历史收藏品，实际 %d 个", len(got))
	}
	if got := CollectablesBelowTier(3); len(got) != 3 {
		t.Errorf("3 级应有 3 个历史收藏品，实际 %d 个", len(got))
	}
	if got := CollectablesBelowTier(MaxTier + 1); len(got) != MaxTier {
		t.Errorf("超出上限时应返回 %d 个，实际 %d 个", MaxTier, len(got))
	}
}

func TestCollectablesUpToTier(t *testing.T) {
	if got := CollectablesUpToTier(0); len(got) != 1 {
		t.Errorf("0 级应解锁 1 个收藏品，实际 %d 个", len(got))
	}
	if got := CollectablesUpToTier(MaxTier); len(got) != MaxTier+1 {
		t.Errorf("满级应解锁全部 %d 个收藏品，实际 %d 个", MaxTier+1, len(got))
	}
}
