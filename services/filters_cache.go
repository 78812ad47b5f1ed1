package services

import (
	"context"
	"encoding/json"
	"time"

	"platform/dto"

	"github.com/redis/go-redis/v9"
)

func SaveLastFilters(ctx context.Context, rdb *redis.Client, key string, filters *dto.SearchFilters) error {
	b, _ := json.Marshal(filters)
	return rdb.Set(ctx, "last_filters:"+key, b, 30*time.Minute).Err()
}

func GetLastFilters(ctx context.Context, rdb *redis.Client, key string) (*dto.SearchFilters, error) {
	val, err := rdb.Get(ctx, "last_filters:"+key).Result()
	if err != nil {
		return nil, err
	}
	var filters dto.SearchFilters
	json.Unmarshal([]byte(val), &filters)
	return &filters, nil
}

func ClearLastFilters(ctx context.Context, rdb *redis.Client, key string) error {
	return DeleteFromRedis(ctx, rdb, "last_filters:"+key)
}

// MergeFilters folds a session's previous filters into the new request.
// Fields the new request supplies win; amenity lists are unioned.
func MergeFilters(old *dto.SearchFilters, new *dto.SearchFilters) *dto.SearchFilters {
	new.MinGuests = orIntPointer(new.MinGuests, old.MinGuests)
	new.Zipcode = orString(new.Zipcode, old.Zipcode)
	new.Query = orString(new.Query, old.Query)
	new.Sort = orString(new.Sort, old.Sort)
	new.Lat = orFloatPointer(new.Lat, old.Lat)
	new.Lng = orFloatPointer(new.Lng, old.Lng)
	new.Radius = orFloatPointer(new.Radius, old.Radius)

	new.Amenities = mergeUniqueStrings(old.Amenities, new.Amenities)

	// When the user re-enters one price bound, drop the remembered opposite
	// bound if the pair would be contradictory.
	if new.MinPrice != nil && old.MaxPrice != nil && *new.MinPrice > *old.MaxPrice {
		new.MaxPrice = nil
	} else {
		new.MaxPrice = orFloatPointer(new.MaxPrice, old.MaxPrice)
	}

	if new.MaxPrice != nil && old.MinPrice != nil && *new.MaxPrice < *old.MinPrice {
		new.MinPrice = nil
	} else {
		new.MinPrice = orFloatPointer(new.MinPrice, old.MinPrice)
	}
	return new
}

func orString(newVal, oldVal string) string {
	if newVal != "" {
		return newVal
	}
	return oldVal
}

func orIntPointer(newVal, oldVal *int) *int {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func orFloatPointer(newVal, oldVal *float64) *float64 {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func mergeUniqueStrings(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, val := range a {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	for _, val := range b {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
