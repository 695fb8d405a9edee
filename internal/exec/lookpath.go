package exec

import (
	"os/exec"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	lookPathTTL     = 30 * time.Second
	lookPathCleanup = time.Minute
)

type lookPathEntry struct {
	path string
	err  error
}

// pathCache memoizes exec.LookPath. Every tick spawns the same couple of
// binaries, so PATH is walked at most once per TTL per program. Misses are
// cached too; installing a tool while the dashboard runs is picked up on expiry.
type pathCache struct {
	c    *cache.Cache
	look func(string) (string, error)
}

func newPathCache() *pathCache {
	return &pathCache{
		c:    cache.New(lookPathTTL, lookPathCleanup),
		look: exec.LookPath,
	}
}

func (p *pathCache) LookPath(program string) (string, error) {
	if v, ok := p.c.Get(program); ok {
		e := v.(lookPathEntry)
		return e.path, e.err
	}
	path, err := p.look(program)
	p.c.Set(program, lookPathEntry{path: path, err: err}, cache.DefaultExpiration)
	return path, err
}

// Forget drops a cached lookup so the next call walks PATH again.
func (p *pathCache) Forget(program string) {
	p.c.Delete(program)
}
