package event

import (
	"math"
	"sort"
)

// earthRadiusKm 平均地球半徑
const earthRadiusKm = 6371.0

// GeoPoint 經緯度值對象
type GeoPoint struct {
	lat float64
	lng float64
}

// NewGeoPoint 建立經緯度（lat ∈ [-90, 90]，lng ∈ [-180, 180]）
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return GeoPoint{}, ErrInvalidLocation.WithContext(
			"lat", lat,
			"lng", lng,
		)
	}
	return GeoPoint{lat: lat, lng: lng}, nil
}

func (g GeoPoint) Lat() float64 { return g.lat }
func (g GeoPoint) Lng() float64 { return g.lng }

// DistanceKm Haversine 大圓距離
func (g GeoPoint) DistanceKm(other GeoPoint) float64 {
	lat1 := g.lat * math.Pi / 180
	lat2 := other.lat * math.Pi / 180
	dLat := (other.lat - g.lat) * math.Pi / 180
	dLng := (other.lng - g.lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// NearbyEvent 活動與其距離
type NearbyEvent struct {
	Event      *Event
	DistanceKm float64
}

// FilterNearby 篩選 radiusKm 內的活動，依距離由近到遠排序
func FilterNearby(events []*Event, origin GeoPoint, radiusKm float64) []NearbyEvent {
	result := make([]NearbyEvent, 0, len(events))
	for _, e := range events {
		d := origin.DistanceKm(e.Location())
		if d <= radiusKm {
			result = append(result, NearbyEvent{Event: e, DistanceKm: d})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})
	return result
}
