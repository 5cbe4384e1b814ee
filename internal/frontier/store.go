// Package frontier implements the FrontierStore of spec §4.5: a
// per-(station, line, transfers) bag of mutually non-dominated labels,
// with dominance-based insertion and optional ε-similarity deduplication.
//
// The teacher repo has no direct analogue for this: its rounds[k]/labels[k]
// arrays collapse to one scalar earliest-arrival time per stop because it
// optimizes a single criterion. This package is the structure spec §4.5
// requires once five criteria must coexist in one bucket.
package frontier

import "github.com/antigravity/transit-mc-router/internal/mclabel"

// BucketKey identifies a frontier bucket.
type BucketKey struct {
	Station   string
	Line      string
	Transfers int
}

func keyOf(l mclabel.Label) BucketKey {
	st, ln, tr := l.BucketKey()
	return BucketKey{Station: string(st), Line: string(ln), Transfers: tr}
}

type entry struct {
	handle mclabel.Handle
	label  mclabel.Label
	seq    int // insertion sequence, for deterministic tie-breaking
}

// Store is one query's frontier: every (station, line, transfers) bucket
// currently holding non-dominated labels.
type Store struct {
	buckets map[BucketKey][]entry
	// Epsilon enables ε-similarity thinning when > 0 (disabled by default,
	// per spec §4.5/§9).
	Epsilon float64
	Weights map[string]float64
	// MaxBucketSize caps a bucket's size; 0 means unbounded (spec §4.5
	// "Bucket size is not bounded ... may cap bucket size").
	MaxBucketSize int

	seqCounter int
}

// NewStore returns an empty frontier store. weights is used only for
// ε-similarity distance, never for dominance.
func NewStore(epsilon float64, weights map[string]float64, maxBucketSize int) *Store {
	return &Store{
		buckets:       make(map[BucketKey][]entry),
		Epsilon:       epsilon,
		Weights:       weights,
		MaxBucketSize: maxBucketSize,
	}
}

// InsertResult reports what Insert did, so callers (RoundEngine) can tell
// whether a station was newly "marked" in this round.
type InsertResult struct {
	Admitted bool
	Evicted  int
}

// Insert runs the spec §4.5 four-step admission test for candidate c
// (identified by handle h) into its bucket.
func (s *Store) Insert(h mclabel.Handle, c mclabel.Label) InsertResult {
	key := keyOf(c)
	bucket := s.buckets[key]

	// Step 1: reject if dominated or cost-identical to an existing label.
	for _, e := range bucket {
		if e.label.Dominates(c) || e.label.EqualCost(c) {
			return InsertResult{Admitted: false}
		}
	}

	// Step 2: evict every existing label c dominates.
	survivors := bucket[:0:0]
	evicted := 0
	for _, e := range bucket {
		if c.Dominates(e.label) {
			evicted++
			continue
		}
		survivors = append(survivors, e)
	}
	bucket = survivors

	// Step 3: optional ε-similarity tie-break against surviving entries.
	if s.Epsilon > 0 {
		for i, e := range bucket {
			if !c.EpsilonSimilar(e.label, s.Epsilon, s.Weights) {
				continue
			}
			if lexicographicallySmaller(c, e.label) {
				bucket = append(bucket[:i], bucket[i+1:]...)
				evicted++
				break
			}
			return InsertResult{Admitted: false, Evicted: evicted}
		}
	}

	// Step 4: admit.
	s.seqCounter++
	bucket = append(bucket, entry{handle: h, label: c, seq: s.seqCounter})

	if s.MaxBucketSize > 0 && len(bucket) > s.MaxBucketSize {
		trimmed := len(bucket) - s.MaxBucketSize
		bucket = evictWeakest(bucket, trimmed)
		evicted += trimmed
	}

	s.buckets[key] = bucket
	return InsertResult{Admitted: true, Evicted: evicted}
}

// lexicographicallySmaller implements spec §4.5 step 3's tie-break order:
// (arrival_time, max_difficulty, transfers, congestion_mean, -convenience_mean).
func lexicographicallySmaller(a, b mclabel.Label) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	if a.MaxTransferDifficulty != b.MaxTransferDifficulty {
		return a.MaxTransferDifficulty < b.MaxTransferDifficulty
	}
	if a.Transfers != b.Transfers {
		return a.Transfers < b.Transfers
	}
	aCong, bCong := a.MeanCongestion(), b.MeanCongestion()
	if aCong != bCong {
		return aCong < bCong
	}
	aConv, bConv := a.MeanConvenience(), b.MeanConvenience()
	return aConv > bConv // "-convenience_mean" smaller means higher convenience
}

func evictWeakest(bucket []entry, n int) []entry {
	for i := 0; i < n && len(bucket) > 0; i++ {
		worst := 0
		for j := 1; j < len(bucket); j++ {
			if lexicographicallySmaller(bucket[worst].label, bucket[j].label) {
				worst = j
			}
		}
		bucket = append(bucket[:worst], bucket[worst+1:]...)
	}
	return bucket
}

// Bucket returns the labels currently surviving at key, in insertion
// order, per spec §4.4's determinism requirement ("frontier buckets
// return labels in insertion order").
func (s *Store) Bucket(key BucketKey) []mclabel.Handle {
	entries := s.buckets[key]
	out := make([]mclabel.Handle, len(entries))
	for i, e := range entries {
		out[i] = e.handle
	}
	return out
}

// Labels returns the labels (not just handles) currently in key's bucket,
// in insertion order.
func (s *Store) Labels(key BucketKey) []mclabel.Label {
	entries := s.buckets[key]
	out := make([]mclabel.Label, len(entries))
	for i, e := range entries {
		out[i] = e.label
	}
	return out
}

// Keys returns every bucket key that currently has at least one surviving
// label, in a stable order derived from first-insertion sequence so
// repeated runs over identical input iterate buckets identically.
func (s *Store) Keys() []BucketKey {
	type keyed struct {
		key BucketKey
		seq int
	}
	ks := make([]keyed, 0, len(s.buckets))
	for k, entries := range s.buckets {
		if len(entries) == 0 {
			continue
		}
		minSeq := entries[0].seq
		for _, e := range entries[1:] {
			if e.seq < minSeq {
				minSeq = e.seq
			}
		}
		ks = append(ks, keyed{key: k, seq: minSeq})
	}
	for i := 1; i < len(ks); i++ {
		for j := i; j > 0 && ks[j-1].seq > ks[j].seq; j-- {
			ks[j-1], ks[j] = ks[j], ks[j-1]
		}
	}
	out := make([]BucketKey, len(ks))
	for i, k := range ks {
		out[i] = k.key
	}
	return out
}

// NonDominated reports whether no two labels among entries dominate each
// other — used by tests to assert the bucket invariant (spec §8 property 3).
func NonDominated(labels []mclabel.Label) bool {
	for i := range labels {
		for j := range labels {
			if i == j {
				continue
			}
			if labels[i].Dominates(labels[j]) {
				return false
			}
		}
	}
	return true
}
