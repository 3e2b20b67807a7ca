package services

import (
	"sort"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

// EnumeratePairs groups documents by event and cohort key and returns one
// plan per unordered pair of distinct keys within each event.
//
// Events are visited in ascending id order and keys in GroupKey order, so the
// result is deterministic. Documents inside a cohort keep their load order.
// An event with N distinct keys yields N(N-1)/2 plans.
func EnumeratePairs(docs []domain.Document, namespace string) []domain.PairPlan {
	type cohorts map[domain.GroupKey][]domain.Document

	events := make(map[string]cohorts)
	for _, doc := range docs {
		groups, ok := events[doc.EventID]
		if !ok {
			groups = make(cohorts)
			events[doc.EventID] = groups
		}
		groups[doc.Key()] = append(groups[doc.Key()], doc)
	}

	eventIDs := make([]string, 0, len(events))
	for id := range events {
		eventIDs = append(eventIDs, id)
	}
	sort.Strings(eventIDs)

	var plans []domain.PairPlan
	for _, eventID := range eventIDs {
		groups := events[eventID]

		keys := make([]domain.GroupKey, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				first, second := keys[i], keys[j]
				plans = append(plans, domain.PairPlan{
					Pair: domain.GroupPair{
						EventID: eventID,
						First:   first,
						Second:  second,
						Name:    domain.NewPairName(namespace, first, second),
					},
					First:  groups[first],
					Second: groups[second],
				})
			}
		}
	}
	return plans
}
