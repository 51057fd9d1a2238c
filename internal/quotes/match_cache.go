package quotes

import (
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const minMatchCacheSize = 512 * 1024

// MatchCache memoizes the deterministic filter step: normalized needle ->
// positions of matching quotes in one Store. Random samples are never cached.
// A MatchCache must not be shared between stores.
type MatchCache struct {
	cache         *freecache.Cache
	expireSeconds int
}

func NewMatchCache(sizeBytes int, expire time.Duration) *MatchCache {
	if sizeBytes < minMatchCacheSize {
		sizeBytes = minMatchCacheSize
	}
	return &MatchCache{
		cache:         freecache.NewCache(sizeBytes),
		expireSeconds: int(expire.Seconds()),
	}
}

func (c *MatchCache) Get(needle string) ([]int, bool) {
	positionsBytes, err := c.cache.Get([]byte(needle))
	if err != nil {
		return nil, false
	}

	var positions []int
	if err := json.Unmarshal(positionsBytes, &positions); err != nil {
		log.Errorf("unmarshal cached matches for [%s]: %s", needle, err)
		return nil, false
	}

	return positions, true
}

func (c *MatchCache) Set(needle string, positions []int) {
	positionsBytes, err := json.Marshal(positions)
	if err != nil {
		log.Errorf("marshal matches for [%s]: %s", needle, err)
		return
	}

	if err := c.cache.Set([]byte(needle), positionsBytes, c.expireSeconds); err != nil {
		log.Errorf("set matches cache for [%s]: %s", needle, err)
	}
}

func (c *MatchCache) EntryCount() int64 {
	return c.cache.EntryCount()
}
