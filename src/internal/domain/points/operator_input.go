package points

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ===========================
// 操作員輸入驗證
// ===========================

// ParseOperatorPoints 驗證操作員在簽退時輸入的獎勵積分
//
// 規則：
// - 必須是十進位整數（"30" 與 "30.0" 皆為 30，"12.5" 拒絕）
// - 0 <= 值 <= ceiling.Max()
//
// 任何違反都返回 ErrInvalidPoints，呼叫者不得進行任何寫入。
// 使用 decimal 解析，避免超大數字在轉型 int 時溢位。
func ParseOperatorPoints(raw string, ceiling RewardCeiling) (PointsAmount, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PointsAmount{}, ErrInvalidPoints.WithContext(
			"input", raw,
			"reason", "empty input",
		)
	}

	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return PointsAmount{}, ErrInvalidPoints.WithContext(
			"input", raw,
			"reason", "not a number",
		)
	}

	if !value.IsInteger() {
		return PointsAmount{}, ErrInvalidPoints.WithContext(
			"input", raw,
			"reason", "must be an integer",
		)
	}

	if value.IsNegative() {
		return PointsAmount{}, ErrInvalidPoints.WithContext(
			"input", raw,
			"reason", "must not be negative",
		)
	}

	max := decimal.NewFromInt(int64(ceiling.Max().Value()))
	if value.GreaterThan(max) {
		return PointsAmount{}, ErrInvalidPoints.WithContext(
			"input", raw,
			"reason", "exceeds reward ceiling",
			"max", ceiling.Max().Value(),
		)
	}

	return newPointsAmountUnchecked(int(value.IntPart())), nil
}
