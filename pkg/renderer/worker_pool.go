package renderer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool renders tiles in parallel with a fixed number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run renders tiles and sends each result on results, closing it once every worker has
// returned. A panic while rendering a tile (such as a material that breaks energy
// conservation) stops the remaining tiles from being scheduled and is returned as an error,
// as is cancellation of ctx.
func (wp *WorkerPool) Run(ctx context.Context, rc *RenderContext, tiles []*Tile, results chan<- TileResult) error {
	defer close(results)

	parent := ctx
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(wp.numWorkers)

	for _, tile := range tiles {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("renderer: tile %d: %v", tile.ID, r)
				}
			}()

			if err := ctx.Err(); err != nil {
				return err
			}
			results <- rc.RenderTile(tile)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}
