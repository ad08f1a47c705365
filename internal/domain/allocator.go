package domain

import (
	"fmt"
	"slices"
)

// Allocator issues unique form ids within a closed range [start, end].
//
// Allocation is deterministic: Next and Range always pick the lowest free ids,
// so the same sequence of calls yields the same ids on every run.
// An Allocator is not safe for concurrent use.
type Allocator struct {
	start FormID
	end   FormID
	used  map[FormID]struct{}
}

// NewAllocator creates an allocator over [start, end]
func NewAllocator(start, end FormID) (*Allocator, error) {
	if start > end {
		return nil, fmt.Errorf("invalid allocator range: start %s is after end %s", start.Hex(), end.Hex())
	}
	return &Allocator{
		start: start,
		end:   end,
		used:  make(map[FormID]struct{}),
	}, nil
}

// NewESLAllocator creates an allocator over the light plugin range 0x800-0xFFF
func NewESLAllocator() *Allocator {
	a, _ := NewAllocator(ESLStart, ESLEnd)
	return a
}

// Start returns the lowest id the allocator may issue
func (a *Allocator) Start() FormID { return a.start }

// End returns the highest id the allocator may issue
func (a *Allocator) End() FormID { return a.end }

// Reserve marks a specific id as issued
func (a *Allocator) Reserve(id FormID) (FormID, error) {
	if !a.InRange(id) {
		return 0, &RangeError{ID: id, Start: a.start, End: a.end}
	}
	if a.IsUsed(id) {
		return 0, &ConflictError{Identifier: id.Hex(), Kind: "form id"}
	}
	a.used[id] = struct{}{}
	return id, nil
}

// ReserveString reserves an id given as hex text, with or without a 0x prefix
func (a *Allocator) ReserveString(s string) (FormID, error) {
	id, err := ParseFormID(s)
	if err != nil {
		return 0, err
	}
	return a.Reserve(id)
}

// Next issues the lowest free id
func (a *Allocator) Next() (FormID, error) {
	id, err := a.Peek()
	if err != nil {
		return 0, err
	}
	a.used[id] = struct{}{}
	return id, nil
}

// Peek returns the id Next would issue without issuing it
func (a *Allocator) Peek() (FormID, error) {
	for id := uint64(a.start); id <= uint64(a.end); id++ {
		if _, ok := a.used[FormID(id)]; !ok {
			return FormID(id), nil
		}
	}
	return 0, &ExhaustedError{Requested: 1, Available: 0, Start: a.start, End: a.end}
}

// Range issues the lowest run of count consecutive free ids, in ascending order.
// Either all ids are issued or none are.
func (a *Allocator) Range(count int) ([]FormID, error) {
	if count < 1 {
		return nil, fmt.Errorf("allocate range of %d: %w", count, ErrInvalidCount)
	}

	end := uint64(a.end)
	n := uint64(count)
	start := uint64(a.start)

	for start+n-1 <= end {
		free := true
		for i := uint64(0); i < n; i++ {
			if _, ok := a.used[FormID(start+i)]; ok {
				free = false
				// resume after the blocking id
				start = start + i + 1
				break
			}
		}
		if !free {
			continue
		}

		ids := make([]FormID, count)
		for i := range ids {
			id := FormID(start + uint64(i))
			a.used[id] = struct{}{}
			ids[i] = id
		}
		return ids, nil
	}

	return nil, &ExhaustedError{Requested: count, Available: a.longestFreeRun(), Start: a.start, End: a.end}
}

// Release returns an issued id to the free pool. It reports whether the id was issued.
func (a *Allocator) Release(id FormID) bool {
	if _, ok := a.used[id]; !ok {
		return false
	}
	delete(a.used, id)
	return true
}

// IsUsed reports whether id has been issued
func (a *Allocator) IsUsed(id FormID) bool {
	_, ok := a.used[id]
	return ok
}

// UsedCount returns the number of issued ids
func (a *Allocator) UsedCount() int {
	return len(a.used)
}

// InRange reports whether id lies within the allocator bounds
func (a *Allocator) InRange(id FormID) bool {
	return id >= a.start && id <= a.end
}

// Capacity returns the total number of ids in the range
func (a *Allocator) Capacity() int {
	return int(uint64(a.end)-uint64(a.start)) + 1
}

// Remaining returns the number of ids still free
func (a *Allocator) Remaining() int {
	return a.Capacity() - a.UsedCount()
}

// Used returns a sorted snapshot of issued ids
func (a *Allocator) Used() []FormID {
	ids := make([]FormID, 0, len(a.used))
	for id := range a.used {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (a *Allocator) longestFreeRun() int {
	best, run := 0, 0
	for id := uint64(a.start); id <= uint64(a.end); id++ {
		if _, ok := a.used[FormID(id)]; ok {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}
