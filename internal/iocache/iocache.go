// Package iocache is for caching I/O calls.
package iocache

import (
	"sync"

	"github.com/huangsam/caudal/internal/contract"
)

// CacheStoreManager manages the CacheStore instances of the process.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	series       contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSeriesStore returns the store of normalized series.
func (mgr *CacheStoreManager) GetSeriesStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.series
}
