package state

import (
	"strings"

	"github.com/atomicstack/reportlens/internal/section"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// JumpMatches returns the indexes of sections whose title or id match query,
// in document order. An empty query matches everything.
func JumpMatches(sections []section.Resolved, query string) []int {
	trimmed := strings.TrimSpace(query)
	all := make([]int, len(sections))
	for i := range sections {
		all[i] = i
	}
	if trimmed == "" {
		return all
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, jumpLabels(sections))
	if len(ranks) > 0 {
		matched := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matched[rank.OriginalIndex] = struct{}{}
		}
		out := make([]int, 0, len(matched))
		for _, i := range all {
			if _, ok := matched[i]; ok {
				out = append(out, i)
			}
		}
		return out
	}
	lower := strings.ToLower(trimmed)
	out := make([]int, 0, len(sections))
	for i, s := range sections {
		if strings.Contains(strings.ToLower(s.Title), lower) || strings.Contains(strings.ToLower(s.ID), lower) {
			out = append(out, i)
		}
	}
	return out
}

// BestJump returns the section index that best matches query, or -1.
func BestJump(sections []section.Resolved, query string) int {
	trimmed := strings.TrimSpace(query)
	if len(sections) == 0 {
		return -1
	}
	if trimmed == "" {
		return -1
	}
	lower := strings.ToLower(trimmed)
	for i, s := range sections {
		if strings.EqualFold(s.Title, trimmed) || strings.EqualFold(s.ID, trimmed) {
			return i
		}
	}
	for i, s := range sections {
		if strings.HasPrefix(strings.ToLower(s.Title), lower) {
			return i
		}
	}
	for i, s := range sections {
		if strings.HasPrefix(strings.ToLower(s.ID), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, jumpLabels(sections))
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}

func jumpLabels(sections []section.Resolved) []string {
	labels := make([]string, len(sections))
	for i, s := range sections {
		labels[i] = s.Title
	}
	return labels
}
