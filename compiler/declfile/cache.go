package declfile

import (
	"context"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/arc/v2"
	"go.uber.org/zap"
)

// Cache holds recently loaded units by path.  A cached unit is loaded again
// when the size or modification time of its file changes.
type Cache struct {
	logger *zap.Logger
	units  *arc.ARCCache[string, cacheEntry]
}

type cacheEntry struct {
	unit    *Unit
	modTime time.Time
	size    int64
}

func NewCache(size int, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	units, err := arc.NewARC[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{logger: logger, units: units}, nil
}

func (c *Cache) Load(ctx context.Context, path string) (*Unit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if e, ok := c.units.Get(path); ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		c.logger.Debug("cache hit", zap.String("path", path), zap.Stringer("session", e.unit.ID))
		return e.unit, nil
	}
	u, err := LoadFile(ctx, c.logger, path)
	if err != nil {
		return nil, err
	}
	c.units.Add(path, cacheEntry{u, info.ModTime(), info.Size()})
	return u, nil
}

func (c *Cache) Len() int {
	return c.units.Len()
}
