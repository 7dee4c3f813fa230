package concurrent

import (
	"sync"
)

type JobFunc[T any, G any] func(job T) G

type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker has drained the job queue, then closes the results channel.
// Close must be called first.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

type indexedJob[T any] struct {
	idx int
	job T
}

type indexedResult[G any] struct {
	idx int
	res G
}

// MapOrdered runs jobFunc over jobs on numWorkers goroutines and returns the results in the order of jobs.
func MapOrdered[T any, G any](numWorkers int, jobs []T, jobFunc JobFunc[T, G]) []G {
	results := make([]G, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	wp := NewWorkerPool[indexedJob[T], indexedResult[G]](min(numWorkers, len(jobs)), len(jobs))
	wp.Start(func(j indexedJob[T]) indexedResult[G] {
		return indexedResult[G]{idx: j.idx, res: jobFunc(j.job)}
	})
	for i, job := range jobs {
		wp.AddJob(indexedJob[T]{idx: i, job: job})
	}
	wp.Close()
	wp.Wait()

	for r := range wp.CollectResults() {
		results[r.idx] = r.res
	}
	return results
}
