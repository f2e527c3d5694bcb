package repository

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/arena/internal/domain/ranking"
	"github.com/okian/arena/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: better weight first in the store's direction, then the source
// that reached the weight first, then source name. "less" means ranks
// earlier, so in-order traversal yields the standings from best to worst.
// Node priorities are a hash of the source name, which keeps the tree
// balanced in expectation without a random source.

type record struct {
	weight   uint64
	seq      uint64
	outcomes int
}

type node struct {
	source string
	weight uint64
	seq    uint64
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

// TreapStore is a Store safe for concurrent use.
type TreapStore struct {
	mu         sync.RWMutex
	root       *node
	bySource   map[string]record
	direction  ranking.Direction
	seq        uint64
	reportSize func(int)
}

var _ Store = (*TreapStore)(nil)

// NewTreapStore constructs a standings store ranking weights in dir.
func NewTreapStore(dir ranking.Direction, opts ...Option) *TreapStore {
	s := &TreapStore{
		bySource:   make(map[string]record),
		direction:  dir,
		reportSize: metrics.UpdateStandingsSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// less reports whether a ranks before b.
func (s *TreapStore) less(aWeight, aSeq uint64, aSource string, bWeight, bSeq uint64, bSource string) bool {
	if aWeight != bWeight {
		return s.direction.Better(aWeight, bWeight)
	}
	if aSeq != bSeq {
		return aSeq < bSeq
	}
	return aSource < bSource
}

func (s *TreapStore) insert(n *node, source string, r record) *node {
	if n == nil {
		return &node{source: source, weight: r.weight, seq: r.seq, prio: xxhash.Sum64String(source), size: 1}
	}
	if s.less(r.weight, r.seq, source, n.weight, n.seq, n.source) {
		n.left = s.insert(n.left, source, r)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = s.insert(n.right, source, r)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func (s *TreapStore) remove(n *node, source string, r record) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.source == source:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = s.remove(n.right, source, r)
		} else {
			n = rotateLeft(n)
			n.left = s.remove(n.left, source, r)
		}
	case s.less(r.weight, r.seq, source, n.weight, n.seq, n.source):
		n.left = s.remove(n.left, source, r)
	default:
		n.right = s.remove(n.right, source, r)
	}
	fix(n)
	return n
}

// countBetter returns how many sources hold a weight strictly better than w.
func (s *TreapStore) countBetter(n *node, w uint64) int {
	count := 0
	for n != nil {
		if s.direction.Better(n.weight, w) {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// UpdateBest implements Store.UpdateBest with O(log n) expected time.
func (s *TreapStore) UpdateBest(ctx context.Context, source string, weight uint64) (bool, error) {
	if source == "" {
		return false, ErrEmptySource
	}

	s.mu.Lock()
	old, known := s.bySource[source]
	if known {
		old.outcomes++
		if !s.direction.Better(weight, old.weight) {
			s.bySource[source] = old
			s.mu.Unlock()
			return false, nil
		}
		s.root = s.remove(s.root, source, old)
	}
	s.seq++
	r := record{weight: weight, seq: s.seq, outcomes: old.outcomes}
	if !known {
		r.outcomes = 1
	}
	s.bySource[source] = r
	s.root = s.insert(s.root, source, r)
	count := len(s.bySource)
	s.mu.Unlock()

	if !known {
		s.reportSize(count)
	}
	return true, nil
}

// Rank returns the rank of source in O(log n). Sources sharing a weight
// share a rank; the next rank skips past them.
func (s *TreapStore) Rank(ctx context.Context, source string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.bySource[source]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return Entry{
		Rank:     s.countBetter(s.root, r.weight) + 1,
		Source:   source,
		Weight:   r.weight,
		Outcomes: r.outcomes,
	}, nil
}

// TopN returns the best n entries.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.bySource)))
	s.collect(s.root, n, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of sources.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySource)
}

// collect appends up to limit entries in rank order.
func (s *TreapStore) collect(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	s.collect(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Source: n.source, Weight: n.weight, Outcomes: s.bySource[n.source].outcomes})
	}
	s.collect(n.right, limit, out)
}

// assignRanksWithTies numbers a best-first prefix of the standings.
func assignRanksWithTies(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Weight == entries[i-1].Weight {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
