package analytics

import "time"

// Partition splits one entity's rows into the two comparison windows while
// keeping the full set for cumulative metrics.
type Partition[T any] struct {
	Current  []T
	Previous []T
	All      []T
}

// PartitionBy buckets records by the timestamp returned from at.
//
// A record is current when its timestamp is at or after the current window's
// start, and previous when it falls in [previous.Start, current.Start). The
// input slice is shared as All and must not be mutated afterwards.
func PartitionBy[T any](records []T, period Period, at func(T) time.Time) Partition[T] {
	p := Partition[T]{All: records}
	for _, rec := range records {
		ts := at(rec)
		switch {
		case !ts.Before(period.Current.Start):
			p.Current = append(p.Current, rec)
		case !ts.Before(period.Previous.Start):
			p.Previous = append(p.Previous, rec)
		}
	}
	return p
}
