package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum agent count to use parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workerPool runs kernels over index ranges on persistent goroutines.
// A forEach or run call returns only after every dispatched task has
// finished, so each call is a barrier between pipeline stages.
type workerPool struct {
	numWorkers int

	workChan chan func() // sends work to workers
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: workers}
}

// start launches the persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan func(), p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case task, ok := <-p.workChan:
			if !ok {
				return
			}
			task()
			p.doneChan <- struct{}{}
		}
	}
}

// run executes the given tasks on the pool and waits for all of them.
func (p *workerPool) run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if len(tasks) == 1 || !p.running {
		for _, task := range tasks {
			task()
		}
		return
	}

	// Drain completions while dispatching so task lists longer than the
	// channel buffers cannot wedge the pool.
	dispatched, completed := 0, 0
	for dispatched < len(tasks) {
		select {
		case p.workChan <- tasks[dispatched]:
			dispatched++
		case <-p.doneChan:
			completed++
		}
	}
	for completed < dispatched {
		<-p.doneChan
		completed++
	}
}

// forEach partitions [0, n) into one chunk per worker and runs the kernel
// over each chunk. Small ranges run inline on the calling goroutine.
func (p *workerPool) forEach(n int, kernel func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold || !p.running {
		kernel(0, n)
		return
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	tasks := make([]func(), 0, p.numWorkers)
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		tasks = append(tasks, func() { kernel(start, end) })
	}
	p.run(tasks)
}
