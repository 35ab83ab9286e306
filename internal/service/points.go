package service

// ── 积分等级与收藏品 ──
//
// 每 50 积分升一级，最高 9 级；达到 450 分后等级封顶，
// 之后积分继续累加但不再区分等级。
// 等级统一以整数表示，余数 = points - tier*50。

const (
	// PointsPerTier 每个等级所需积分
	PointsPerTier = 50
	// MaxTier 等级上限
	MaxTier = 9
)

// 收藏品目录：索引即等级，顺序即解锁顺序
var collectableImages = []string{
	"images/espresso.png",
	"images/americano.png",
	"images/cappuccino.png",
	"images/hot_chocolate.png",
	"images/latte.png",
	"images/mocha.png",
	"images/matcha.png",
	"images/frappuccino.png",
	"images/ice_tea.png",
	"images/bubble_tea.png",
}

var collectableNames = []string{
	"Espresso",
	"Americano",
	"Cappuccino",
	"Hot Chocolate",
	"Latte",
	"Mocha",
	"Matcha Latte",
	"Frappuccino",
	"Iced Tea",
	"Bubble Tea",
}

// Tier 根据累计积分计算等级，范围 [0, 9]
func Tier(totalPoints int) int {
	if totalPoints < 0 {
		return 0
	}
	tier := totalPoints / PointsPerTier
	if tier > MaxTier {
		return MaxTier
	}
	return tier
}

// PointsToNextTier 距离下一等级还需的积分
// 刚好跨过等级线时返回 50（新等级刚进入）；封顶等级返回 0
func PointsToNextTier(totalPoints int) int {
	tier := Tier(totalPoints)
	if tier >= MaxTier {
		return 0
	}
	return PointsPerTier - totalPoints%PointsPerTier
}

// CollectableForTier 返回指定等级对应的收藏品图片与名称
func CollectableForTier(tier int) (image, name string) {
	if tier < 0 {
		tier = 0
	}
	if tier > MaxTier {
		tier = MaxTier
	}
	return collectableImages[tier], collectableNames[tier]
}

// CollectablesBelowTier 返回低于指定等级的全部收藏品图片（已解锁的历史收藏品）
func CollectablesBelowTier(tier int) []string {
	if tier <= 0 {
		return nil
	}
	if tier > MaxTier {
		tier = MaxTier
	}
	out := make([]string, tier)
	copy(out, collectableImages[:tier])
	return out
}

// CollectablesUpToTier 返回不高于指定等级的全部收藏品图片（含当前等级）
func CollectablesUpToTier(tier int) []string {
	if tier < 0 {
		return nil
	}
	if tier > MaxTier {
		tier = MaxTier
	}
	out := make([]string, tier+1)
	copy(out, collectableImages[:tier+1])
	return out
}
