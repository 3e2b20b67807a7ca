package domain

import "strings"

// DefaultNamespace prefixes every pair name unless configured otherwise.
const DefaultNamespace = "EPTIC"

// GroupKey identifies an alignable cohort of documents within one event.
type GroupKey struct {
	Language string
	Side     Side
	Register Register
}

// Less orders keys lexicographically on (language, side, register).
// Only pairs with first.Less(second) are enumerated, so every unordered pair
// is visited once and no key is paired with itself.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Language != other.Language {
		return k.Language < other.Language
	}
	if k.Side != other.Side {
		return k.Side < other.Side
	}
	return k.Register < other.Register
}

// Slug renders the key as used in pair names: lang_register_side, lower-cased.
func (k GroupKey) Slug() string {
	return strings.ToLower(k.Language + "_" + string(k.Register) + "_" + string(k.Side))
}

// String returns a readable form for logs.
func (k GroupKey) String() string {
	return k.Language + "/" + string(k.Side) + "/" + string(k.Register)
}

// PairName is the derived identifier of a GroupPair and the base name of its
// alignment file.
type PairName string

// NewPairName derives {namespace}.{first}.{second}.
// The namespace keeps its case; key components are lower-cased.
func NewPairName(namespace string, first, second GroupKey) PairName {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return PairName(namespace + "." + first.Slug() + "." + second.Slug())
}

// String returns the string representation.
func (n PairName) String() string {
	return string(n)
}

// IsValid reports whether the name is usable as a file base name.
func (n PairName) IsValid() bool {
	s := string(n)
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "\x00")
}

// GroupPair is an unordered pair of distinct keys within one event, stored in
// canonical order (First.Less(Second)).
type GroupPair struct {
	EventID string
	First   GroupKey
	Second  GroupKey
	Name    PairName
}

// PairPlan is a group pair together with the documents of both cohorts.
type PairPlan struct {
	Pair   GroupPair
	First  []Document
	Second []Document
}

// Attempts returns the number of document pairs in the cross product.
func (p PairPlan) Attempts() int {
	return len(p.First) * len(p.Second)
}
