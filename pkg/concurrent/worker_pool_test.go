package concurrent

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](4, 100)
	wp.Start(func(job int) int { return job * job })
	for i := 1; i <= 100; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	sum := 0
	count := 0
	for r := range wp.CollectResults() {
		sum += r
		count++
	}
	assert.Equal(t, 100, count)
	assert.Equal(t, 338350, sum)
}

func TestMapOrdered(t *testing.T) {
	testCases := []struct {
		name       string
		numWorkers int
		jobs       []string
		expected   []int
	}{
		{name: "empty", numWorkers: 4, jobs: nil, expected: []int{}},
		{name: "single worker", numWorkers: 1, jobs: []string{"a", "bb", "ccc"}, expected: []int{1, 2, 3}},
		{name: "more workers than jobs", numWorkers: 16, jobs: []string{"dddd", "", "ee"}, expected: []int{4, 0, 2}},
		{name: "non positive workers", numWorkers: 0, jobs: []string{"x"}, expected: []int{1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			got := MapOrdered(tc.numWorkers, tc.jobs, func(s string) int {
				calls.Add(1)
				return len(s)
			})
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, int32(len(tc.jobs)), calls.Load())
		})
	}
}
