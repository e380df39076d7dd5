// Package knowledge holds a tiny offline fact shard.
package knowledge

import "strings"

// Fact is a canned answer keyed by a lower-case phrase.
type Fact struct {
	Key    string
	Answer string
}

// DefaultFacts is the built-in shard, in lookup order.
var DefaultFacts = []Fact{
	{Key: "best metal conductor of heat", Answer: "Silver has the highest thermal conductivity among common metals; copper is close."},
	{Key: "diamond thermal conductivity", Answer: "Diamond (not a metal) has extremely high thermal conductivity."},
	{Key: "ohm law", Answer: "Ohm’s law: V = I × R."},
	{Key: "newton second law", Answer: "Newton’s second law: F = m × a."},
	{Key: "python list", Answer: "A Python list is an ordered, mutable collection supporting indexing and slicing."},
}

type Shard struct {
	facts []Fact
}

// NewShard copies facts; keys are lower-cased so lookups stay case-insensitive.
func NewShard(facts []Fact) *Shard {
	s := &Shard{facts: make([]Fact, len(facts))}
	for i, f := range facts {
		s.facts[i] = Fact{Key: strings.ToLower(f.Key), Answer: f.Answer}
	}
	return s
}

// Lookup returns the answer of the first fact whose key occurs in query.
func (s *Shard) Lookup(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, f := range s.facts {
		if strings.Contains(q, f.Key) {
			return f.Answer, true
		}
	}
	return "", false
}

func (s *Shard) Len() int {
	return len(s.facts)
}
