/*
Package workers sizes and bounds concurrent work in containerized
environments.

Counts are derived from runtime.GOMAXPROCS(0), which Go sets from the
container CPU limit, rather than runtime.NumCPU(), which reports host CPUs.
A configured override always wins:

	n := workers.ForIO(cfg.ThumbnailWorkers, 16) // override, or 2 per CPU capped at 16

Pool is a counting semaphore used to cap how many external frame-extraction
processes run at once. Work for unrelated keys still proceeds in parallel up
to the pool size.

	pool := workers.NewPool(n)
	if err := pool.Acquire(ctx); err != nil {
	    return err
	}
	defer pool.Release()
*/
package workers
