package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ChizhovVadim/perftdebug/internal/perft"
)

// Cache stores divide results of a trusted engine. Get reports found=false on
// a miss; an error means the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string) (perft.MoveCountMap, bool, error)
	Put(ctx context.Context, key string, counts perft.MoveCountMap) error
	Close() error
}

func Key(executablePath string, pos perft.Position, depth int) string {
	return fmt.Sprintf("perftdebug:%v:%v:%v", executablePath, depth, pos.String())
}

// Runner answers from the cache and asks Next on a miss. Cache failures are
// logged and never fail the query.
type Runner struct {
	Next   perft.Runner
	Cache  Cache
	Logger *zap.SugaredLogger
}

func (r *Runner) Run(ctx context.Context, executablePath string, pos perft.Position, depth int) (perft.MoveCountMap, error) {
	var key = Key(executablePath, pos, depth)
	var counts, found, err = r.Cache.Get(ctx, key)
	if err != nil {
		r.logger().Warnw("cache read failed", "key", key, "error", err)
	} else if found {
		r.logger().Debugw("cache hit", "key", key)
		return counts, nil
	}

	counts, err = r.Next.Run(ctx, executablePath, pos, depth)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Put(ctx, key, counts); err != nil {
		r.logger().Warnw("cache write failed", "key", key, "error", err)
	}
	return counts, nil
}

func (r *Runner) logger() *zap.SugaredLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop().Sugar()
}
