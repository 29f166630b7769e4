package points

import (
	"fmt"
	"strconv"
)

// PointsAmount 積分數量值對象
// 值對象不可變、自我驗證；不存在負數積分
type PointsAmount struct {
	value int
}

// NewPointsAmount 建構函數（checked 版本）
func NewPointsAmount(value int) (PointsAmount, error) {
	if value < 0 {
		return PointsAmount{}, fmt.Errorf(
			"%w: attempted to create PointsAmount with value %d",
			ErrNegativePointsAmount,
			value,
		)
	}
	return PointsAmount{value: value}, nil
}

// newPointsAmountUnchecked 內部建構函數
// 前提條件：呼叫者保證 value >= 0
func newPointsAmountUnchecked(value int) PointsAmount {
	return PointsAmount{value: value}
}

// Zero 零積分
func Zero() PointsAmount {
	return newPointsAmountUnchecked(0)
}

// Value 獲取積分數量
func (p PointsAmount) Value() int {
	return p.value
}

// Add 相加（返回新的 PointsAmount）
//
// 單場活動獎勵上限由 RewardCeiling 限制，累積總數不會接近 int 上限
func (p PointsAmount) Add(other PointsAmount) PointsAmount {
	return newPointsAmountUnchecked(p.value + other.value)
}

// Equals 比較兩個 PointsAmount 是否相等
func (p PointsAmount) Equals(other PointsAmount) bool {
	return p.value == other.value
}

// GreaterThan 判斷是否大於另一個 PointsAmount
func (p PointsAmount) GreaterThan(other PointsAmount) bool {
	return p.value > other.value
}

// LessThan 判斷是否小於另一個 PointsAmount
func (p PointsAmount) LessThan(other PointsAmount) bool {
	return p.value < other.value
}

// GreaterThanOrEqual 判斷是否大於等於另一個 PointsAmount
func (p PointsAmount) GreaterThanOrEqual(other PointsAmount) bool {
	return p.value >= other.value
}

// String 十進位表示
func (p PointsAmount) String() string {
	return strconv.Itoa(p.value)
}

// ===========================
// RewardCeiling 活動獎勵上限
// ===========================

// RewardCeiling 單場活動可發放的最高積分（EventRecord.reward_points）
//
// 與 PointsAmount 分開建模：上限是活動屬性，PointsAmount 是實際發放值
type RewardCeiling struct {
	max PointsAmount
}

// NewRewardCeiling 建構獎勵上限（必須 >= 0）
func NewRewardCeiling(value int) (RewardCeiling, error) {
	amount, err := NewPointsAmount(value)
	if err != nil {
		return RewardCeiling{}, ErrInvalidRewardCeiling.WithContext(
			"value", value,
		)
	}
	return RewardCeiling{max: amount}, nil
}

// Max 返回上限值
func (c RewardCeiling) Max() PointsAmount {
	return c.max
}

// Allows 判斷發放值是否在 [0, max] 範圍內
func (c RewardCeiling) Allows(amount PointsAmount) bool {
	return !amount.GreaterThan(c.max)
}
