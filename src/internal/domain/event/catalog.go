package event

import (
	"sort"
	"strings"
	"time"
)

// SortOrder 活動列表排序方式
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortPointsHigh SortOrder = "points_high"
	SortPointsLow  SortOrder = "points_low"
	SortDateNew    SortOrder = "date_new"
	SortDateOld    SortOrder = "date_old"
)

// ParseSortOrder 解析排序參數
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.TrimSpace(s)); o {
	case SortNone, SortPointsHigh, SortPointsLow, SortDateNew, SortDateOld:
		return o, nil
	default:
		return SortNone, ErrInvalidSortOrder.WithContext("sort", s)
	}
}

// Browse 篩選即將舉行的活動
//
// query 不分大小寫比對標題與地址；空字串不篩選
func Browse(events []*Event, now time.Time, query string, order SortOrder) []*Event {
	q := strings.ToLower(strings.TrimSpace(query))

	result := make([]*Event, 0, len(events))
	for _, e := range events {
		if !e.IsUpcoming(now) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Title()), q) &&
			!strings.Contains(strings.ToLower(e.Address()), q) {
			continue
		}
		result = append(result, e)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch order {
		case SortPointsHigh:
			return a.RewardCeiling().Max().GreaterThan(b.RewardCeiling().Max())
		case SortPointsLow:
			return a.RewardCeiling().Max().LessThan(b.RewardCeiling().Max())
		case SortDateNew:
			return a.StartsAt().After(b.StartsAt())
		case SortDateOld:
			return a.StartsAt().Before(b.StartsAt())
		default:
			return false
		}
	})
	return result
}
