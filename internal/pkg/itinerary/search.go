// Package itinerary enumerates chains of connecting flights over a catalog.
//
// A chain may be extended by a flight that leaves from the airport the chain
// currently stands at, lands at an airport the chain has not visited yet, and
// departs strictly more than MinLayover and strictly less than MaxLayover after
// the previous arrival.
package itinerary

import (
	"iter"
	"slices"
	"time"

	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
)

// Transfer window bounds, both exclusive.
const (
	MinLayover = time.Hour
	MaxLayover = 4 * time.Hour
)

// Itinerary is one chain of flights in travel order. Indices refer to the
// catalog the itinerary was found in.
type Itinerary struct {
	Indices []int
	Flights []catalog.Flight
}

// branch is the state of one path of the search. It is mutated in place and
// rolled back when the search backtracks.
type branch struct {
	indices     []int
	visited     map[string]struct{}
	location    string
	lastArrival time.Time
}

func newBranch(start int, f catalog.Flight) *branch {
	return &branch{
		indices: []int{start},
		visited: map[string]struct{}{
			f.Origin:      {},
			f.Destination: {},
		},
		location:    f.Destination,
		lastArrival: f.Arrival.Time,
	}
}

// connects reports whether f may be appended to the branch.
func (b *branch) connects(f catalog.Flight) bool {
	if f.Origin != b.location {
		return false
	}

	if _, ok := b.visited[f.Destination]; ok {
		return false
	}

	layover := f.Departure.Sub(b.lastArrival)

	return layover > MinLayover && layover < MaxLayover
}

func (b *branch) push(i int, f catalog.Flight) {
	b.indices = append(b.indices, i)
	b.visited[f.Destination] = struct{}{}
	b.location = f.Destination
	b.lastArrival = f.Arrival.Time
}

func (b *branch) pop(f catalog.Flight, location string, lastArrival time.Time) {
	b.indices = b.indices[:len(b.indices)-1]
	delete(b.visited, f.Destination)
	b.location = location
	b.lastArrival = lastArrival
}

// Engine searches itineraries over one catalog. The catalog is only read, so
// an Engine may be shared.
type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// SearchFrom returns every complete chain starting with the flight at start,
// in depth-first order. A chain is complete when no flight can extend it, so
// a start without connections yields a single chain of length one.
func (e *Engine) SearchFrom(start int) []Itinerary {
	var results []Itinerary

	e.searchFrom(start, func(it Itinerary) bool {
		results = append(results, it)
		return true
	})

	return results
}

// Search yields itineraries of at least two flights, grouped by starting
// flight in catalog order.
func (e *Engine) Search() iter.Seq[Itinerary] {
	return func(yield func(Itinerary) bool) {
		for start := range e.catalog.Len() {
			ok := e.searchFrom(start, func(it Itinerary) bool {
				if len(it.Indices) < 2 {
					return true
				}

				return yield(it)
			})
			if !ok {
				return
			}
		}
	}
}

// All collects Search into a slice.
func (e *Engine) All() []Itinerary {
	return slices.Collect(e.Search())
}

func (e *Engine) searchFrom(start int, yield func(Itinerary) bool) bool {
	if start < 0 || start >= e.catalog.Len() {
		return true
	}

	return e.extend(newBranch(start, e.catalog.At(start)), yield)
}

// extend explores every flight that connects to b. It returns false once
// yield asks to stop.
func (e *Engine) extend(b *branch, yield func(Itinerary) bool) bool {
	extended := false

	for i := range e.catalog.Len() {
		next := e.catalog.At(i)
		if !b.connects(next) {
			continue
		}

		extended = true
		location, lastArrival := b.location, b.lastArrival

		b.push(i, next)
		if !e.extend(b, yield) {
			return false
		}
		b.pop(next, location, lastArrival)
	}

	if extended {
		return true
	}

	return yield(e.snapshot(b.indices))
}

func (e *Engine) snapshot(indices []int) Itinerary {
	it := Itinerary{
		Indices: slices.Clone(indices),
		Flights: make([]catalog.Flight, len(indices)),
	}

	for i, idx := range indices {
		it.Flights[i] = e.catalog.At(idx)
	}

	return it
}
