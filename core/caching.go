package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/internal/tabular"
	"github.com/huangsam/caudal/schema"
	"github.com/vmihailenco/msgpack/v5"
)

// currentCacheVersion defines the version of the cache payload
const currentCacheVersion = 1

// cacheTTL is how long a cached series stays fresh.
const cacheTTL = 7 * 24 * time.Hour

// cachedSeries is the columnar payload stored in the cache.
// Timestamps keep their UTC offset so calendar dates survive a round trip.
type cachedSeries struct {
	Nanos   []int64   `msgpack:"n"`
	Offsets []int32   `msgpack:"o"`
	Flows   []float64 `msgpack:"f"`
	Total   int       `msgpack:"t"`
	Dropped int       `msgpack:"d"`
}

// cachedNormalize loads and normalizes the input file, going through the series cache when one is configured.
func cachedNormalize(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.NormalizeResult, error) {
	if err := ctx.Err(); err != nil {
		return schema.NormalizeResult{}, err
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetSeriesStore()
	}
	if store == nil {
		// Fallback to direct computation
		return loadAndNormalize(cfg)
	}

	content, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		return schema.NormalizeResult{}, fmt.Errorf("%w: %v", schema.ErrUnreadableInput, err)
	}
	key := generateCacheKey(content, cfg.Sheet)

	// Check for cache hit
	if result, ok := checkCacheHit(store, key); ok {
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(cfg, store, key)
}

// loadAndNormalize reads the input table and normalizes it into a series.
func loadAndNormalize(cfg *contract.Config) (schema.NormalizeResult, error) {
	table, err := tabular.ReadFile(cfg.InputFile, cfg.Sheet)
	if err != nil {
		return schema.NormalizeResult{}, err
	}
	return Normalize(table)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) (schema.NormalizeResult, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return schema.NormalizeResult{}, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return schema.NormalizeResult{}, false
	}

	result, err := decodeSeries(data)
	if err != nil {
		return schema.NormalizeResult{}, false
	}
	return result, true // Cache hit
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(cfg *contract.Config, store contract.CacheStore, key string) (schema.NormalizeResult, error) {
	result, err := loadAndNormalize(cfg)
	if err != nil {
		return schema.NormalizeResult{}, err
	}

	if data, err := encodeSeries(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to store series in cache", err)
		}
	}
	return result, nil
}

// generateCacheKey creates a unique key from the file content and the selected sheet.
// Keying on content means an edited file never hits a stale entry.
func generateCacheKey(content []byte, sheet string) string {
	key := fmt.Sprintf("%x:%s:%d", sha256.Sum256(content), sheet, currentCacheVersion)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

func encodeSeries(result schema.NormalizeResult) ([]byte, error) {
	payload := cachedSeries{
		Nanos:   make([]int64, len(result.Series)),
		Offsets: make([]int32, len(result.Series)),
		Flows:   make([]float64, len(result.Series)),
		Total:   result.TotalRows,
		Dropped: result.DroppedRows,
	}
	for i, r := range result.Series {
		_, offset := r.Timestamp.Zone()
		payload.Nanos[i] = r.Timestamp.UnixNano()
		payload.Offsets[i] = int32(offset)
		payload.Flows[i] = r.FlowRate
	}
	return msgpack.Marshal(&payload)
}

func decodeSeries(data []byte) (schema.NormalizeResult, error) {
	var payload cachedSeries
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return schema.NormalizeResult{}, err
	}
	if len(payload.Offsets) != len(payload.Nanos) || len(payload.Flows) != len(payload.Nanos) {
		return schema.NormalizeResult{}, fmt.Errorf("corrupt cached series: column lengths differ")
	}

	series := make(schema.Series, len(payload.Nanos))
	for i, ns := range payload.Nanos {
		loc := time.UTC
		if off := int(payload.Offsets[i]); off != 0 {
			loc = time.FixedZone("", off)
		}
		series[i] = schema.Reading{
			Timestamp: time.Unix(0, ns).In(loc),
			FlowRate:  payload.Flows[i],
		}
	}
	return schema.NormalizeResult{
		Series:      series,
		TotalRows:   payload.Total,
		DroppedRows: payload.Dropped,
	}, nil
}
