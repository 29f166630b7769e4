package points_test

import (
	"testing"

	"github.com/jackyeh168/green_events/src/internal/domain/points"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// PointsAmount 測試
// ===========================

// Test 1: 建構有效的 PointsAmount
func TestNewPointsAmount_ValidValue_ReturnsPointsAmount(t *testing.T) {
	// Act
	amount, err := points.NewPointsAmount(100)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 100, amount.Value())
	assert.Equal(t, "100", amount.String())
}

// Test 2: 建構負數 PointsAmount 失敗
func TestNewPointsAmount_NegativeValue_ReturnsError(t *testing.T) {
	// Act
	amount, err := points.NewPointsAmount(-10)

	// Assert
	assert.ErrorIs(t, err, points.ErrNegativePointsAmount)
	assert.Equal(t, 0, amount.Value())
	assert.Contains(t, err.Error(), "value -10")
}

// Test 3: 零值
func TestZero_ReturnsZeroAmount(t *testing.T) {
	assert.Equal(t, 0, points.Zero().Value())
}

// Test 4: Add 返回新值且不修改原值
func TestPointsAmount_Add_ReturnsNewPointsAmount(t *testing.T) {
	// Arrange
	a, _ := points.NewPointsAmount(100)
	b, _ := points.NewPointsAmount(30)

	// Act
	sum := a.Add(b)

	// Assert
	assert.Equal(t, 130, sum.Value())
	assert.Equal(t, 100, a.Value())
}

// Test 5: 比較方法
func TestPointsAmount_Comparisons(t *testing.T) {
	small, _ := points.NewPointsAmount(10)
	large, _ := points.NewPointsAmount(50)
	same, _ := points.NewPointsAmount(10)

	assert.True(t, large.GreaterThan(small))
	assert.True(t, small.LessThan(large))
	assert.True(t, small.GreaterThanOrEqual(same))
	assert.True(t, small.Equals(same))
	assert.False(t, small.Equals(large))
}

// ===========================
// RewardCeiling 測試
// ===========================

// Test 6: RewardCeiling 範圍判斷
func TestRewardCeiling_Allows(t *testing.T) {
	// Arrange
	ceiling, err := points.NewRewardCeiling(50)
	require.NoError(t, err)

	zero := points.Zero()
	exact, _ := points.NewPointsAmount(50)
	over, _ := points.NewPointsAmount(51)

	// Assert
	assert.True(t, ceiling.Allows(zero))
	assert.True(t, ceiling.Allows(exact))
	assert.False(t, ceiling.Allows(over))
	assert.Equal(t, 50, ceiling.Max().Value())
}

// Test 7: 負數上限失敗
func TestNewRewardCeiling_Negative_ReturnsError(t *testing.T) {
	_, err := points.NewRewardCeiling(-1)
	assert.ErrorIs(t, err, points.ErrInvalidRewardCeiling)
}
