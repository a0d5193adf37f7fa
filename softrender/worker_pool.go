package softrender

import (
	"image"
	"runtime"
	"sync"
)

// tileTask is one tile of one frame.
type tileTask struct {
	Bounds image.Rectangle
	Shade  func(bounds image.Rectangle)
}

// WorkerPool shades tiles in parallel. It lives for the whole run; each
// frame submits its tiles and waits for all of them before returning.
type WorkerPool struct {
	taskQueue   chan tileTask
	resultQueue chan struct{}
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool starts numWorkers goroutines, or one per CPU when
// numWorkers is not positive.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	wp := &WorkerPool{
		taskQueue:   make(chan tileTask, numWorkers*2),
		resultQueue: make(chan struct{}, numWorkers*2),
		numWorkers:  numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
	return wp
}

// Do runs shade over every tile and returns once all have finished.
// Tiles must not overlap.
func (wp *WorkerPool) Do(tiles []image.Rectangle, shade func(bounds image.Rectangle)) {
	go func() {
		for _, t := range tiles {
			wp.taskQueue <- tileTask{Bounds: t, Shade: shade}
		}
	}()
	for range tiles {
		<-wp.resultQueue
	}
}

// Stop shuts the workers down. The pool cannot be used afterwards.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		task.Shade(task.Bounds)
		wp.resultQueue <- struct{}{}
	}
}
