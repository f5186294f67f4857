package annotation

import (
	"github.com/patrickmn/go-cache"
)

// LabelCache maps image filenames to label text for the lifetime of the
// session. Entries never expire; a write through the workflow always
// overwrites the entry, so staleness only occurs when label files are
// edited outside the tool.
type LabelCache struct {
	c *cache.Cache
}

func NewLabelCache() *LabelCache {
	return &LabelCache{c: cache.New(cache.NoExpiration, 0)}
}

func (lc *LabelCache) Get(imageName string) (string, bool) {
	v, ok := lc.c.Get(imageName)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (lc *LabelCache) Set(imageName, label string) {
	lc.c.Set(imageName, label, cache.NoExpiration)
}

func (lc *LabelCache) Delete(imageName string) {
	lc.c.Delete(imageName)
}
