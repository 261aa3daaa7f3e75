package aggregate

import (
	"sort"

	"github.com/Anton2181/partykajson/internal/domain"
)

type dayKey struct {
	week int
	day  string
}

type bucketKey struct {
	week int
	day  string
	name string
}

// taskQueue is the FIFO of raw tasks sharing (week, day, name), ordered by
// repeat index.
type taskQueue struct {
	items []domain.Task
}

func (q *taskQueue) peek(i int) (domain.Task, bool) {
	if q == nil || i < 0 || i >= len(q.items) {
		return domain.Task{}, false
	}
	return q.items[i], true
}

func (q *taskQueue) pop() (domain.Task, bool) {
	if q == nil || len(q.items) == 0 {
		return domain.Task{}, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

func (q *taskQueue) pushFront(t domain.Task) {
	q.items = append([]domain.Task{t}, q.items...)
}

// buildQueues buckets tasks and orders each bucket by repeat index, keeping
// input order for ties.
func buildQueues(tasks []domain.Task) map[bucketKey]*taskQueue {
	queues := make(map[bucketKey]*taskQueue)
	for _, t := range tasks {
		k := bucketKey{week: t.Week, day: t.Day, name: t.Name}
		q, ok := queues[k]
		if !ok {
			q = &taskQueue{}
			queues[k] = q
		}
		q.items = append(q.items, t)
	}
	for _, q := range queues {
		sort.SliceStable(q.items, func(i, j int) bool {
			return q.items[i].RepeatIndex < q.items[j].RepeatIndex
		})
	}
	return queues
}

// sortedContexts returns the distinct (week, day) pairs in ascending order.
// Tasks without a week never form a context.
func sortedContexts(tasks []domain.Task) []dayKey {
	seen := make(map[dayKey]bool)
	var out []dayKey
	for _, t := range tasks {
		if t.Week <= 0 {
			continue
		}
		k := dayKey{week: t.Week, day: t.Day}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessDay(out[i], out[j])
	})
	return out
}

func lessDay(a, b dayKey) bool {
	if a.week != b.week {
		return a.week < b.week
	}
	da, db := domain.DayNumber(a.day), domain.DayNumber(b.day)
	if da != db {
		return da < db
	}
	return a.day < b.day
}
