// Package series provides the immutable, date-ordered Day-Series used by every
// stage of the snapshot computation.
package series

import (
	"time"

	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// DateLayout is the calendar-date layout used for display and file names.
const DateLayout = "2006-01-02"

// Point is one dated observation.
type Point[T any] struct {
	Date  time.Time
	Value T
}

// Series is a day-indexed sequence ordered strictly by date.
// A Series is never mutated after construction.
type Series[T any] struct {
	points []Point[T]
}

// Numeric is a Day-Series of plain float observations.
type Numeric = Series[float64]

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// New creates a Series from points that must already be strictly increasing by date.
// Dates are reduced to calendar dates before the ordering check.
func New[T any](points []Point[T]) (Series[T], error) {
	copied := make([]Point[T], len(points))

	for i, point := range points {
		copied[i] = Point[T]{Date: Day(point.Date), Value: point.Value}

		if i > 0 && !copied[i].Date.After(copied[i-1].Date) {
			return Series[T]{}, errors.Newf(errors.ErrCodeInvalidParameter,
				"series dates must be strictly increasing: %s follows %s",
				copied[i].Date.Format(DateLayout), copied[i-1].Date.Format(DateLayout))
		}
	}

	return Series[T]{points: copied}, nil
}

// Len returns the number of observations.
func (s Series[T]) Len() int {
	return len(s.points)
}

// IsEmpty reports whether the series has no observations.
func (s Series[T]) IsEmpty() bool {
	return len(s.points) == 0
}

// At returns the i-th observation. It panics when i is out of range.
func (s Series[T]) At(i int) Point[T] {
	return s.points[i]
}

// First returns the earliest observation.
func (s Series[T]) First() (Point[T], bool) {
	if len(s.points) == 0 {
		return Point[T]{}, false
	}

	return s.points[0], true
}

// Last returns the most recent observation.
func (s Series[T]) Last() (Point[T], bool) {
	if len(s.points) == 0 {
		return Point[T]{}, false
	}

	return s.points[len(s.points)-1], true
}

// Points returns a copy of the observations.
func (s Series[T]) Points() []Point[T] {
	return append([]Point[T](nil), s.points...)
}

// Values returns the observation values in date order.
func (s Series[T]) Values() []T {
	values := make([]T, len(s.points))
	for i, point := range s.points {
		values[i] = point.Value
	}

	return values
}

// Dates returns the observation dates in order.
func (s Series[T]) Dates() []time.Time {
	dates := make([]time.Time, len(s.points))
	for i, point := range s.points {
		dates[i] = point.Date
	}

	return dates
}

// Map projects every value of s through fn, keeping the dates.
func Map[T, U any](s Series[T], fn func(T) U) Series[U] {
	points := make([]Point[U], len(s.points))
	for i, point := range s.points {
		points[i] = Point[U]{Date: point.Date, Value: fn(point.Value)}
	}

	return Series[U]{points: points}
}

// Pair holds the values of two series observed on the same date.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Align inner-joins two series on date. Dates present in only one side are dropped.
func Align[A, B any](left Series[A], right Series[B]) Series[Pair[A, B]] {
	points := make([]Point[Pair[A, B]], 0, min(len(left.points), len(right.points)))

	i, j := 0, 0
	for i < len(left.points) && j < len(right.points) {
		l, r := left.points[i], right.points[j]

		switch {
		case l.Date.Equal(r.Date):
			points = append(points, Point[Pair[A, B]]{Date: l.Date, Value: Pair[A, B]{Left: l.Value, Right: r.Value}})
			i++
			j++
		case l.Date.Before(r.Date):
			i++
		default:
			j++
		}
	}

	return Series[Pair[A, B]]{points: points}
}

// Builder accumulates points for a series whose order is guaranteed by the caller,
// such as an indicator walking an existing series.
type Builder[T any] struct {
	points []Point[T]
}

// NewBuilder creates a builder with the given capacity.
func NewBuilder[T any](capacity int) *Builder[T] {
	return &Builder[T]{points: make([]Point[T], 0, capacity)}
}

// Add appends one observation.
func (b *Builder[T]) Add(date time.Time, value T) {
	b.points = append(b.points, Point[T]{Date: date, Value: value})
}

// Build validates ordering and returns the series.
func (b *Builder[T]) Build() (Series[T], error) {
	return New(b.points)
}
