// Package pairing orders the segment pairs returned by the similarity
// scorer into the comparison view shown next to a report.
package pairing

import "sort"

// SortKey selects the display order of the paired segments.
type SortKey string

const (
	SortSourceOrder SortKey = "source_order"
	SortTargetOrder SortKey = "target_order"
	SortScoreDesc   SortKey = "score_desc"
)

// ValidSortKey reports whether key is one of the supported orders.
func ValidSortKey(key SortKey) bool {
	switch key {
	case SortSourceOrder, SortTargetOrder, SortScoreDesc:
		return true
	}
	return false
}

// Pair is one scored correspondence between a source and a target segment.
type Pair struct {
	SourceIndex int
	TargetIndex int
	Score       float64
}

// Window is a segment with its immediate neighbors. Prev and Next are nil
// when the segment sits at a document edge, which is distinct from a
// neighbor whose content happens to be empty.
type Window struct {
	Prev *string
	Text string
	Next *string
}

// PairedSegment is one row of the comparison view.
type PairedSegment struct {
	Pair
	Source Window
	Target Window
}

// Order filters pairs to score >= threshold, sorts them by key and attaches
// the context windows. Pairs pointing outside either segment list are
// dropped. The transform is pure: identical inputs yield identical output.
func Order(source, target []string, pairs []Pair, threshold float64, key SortKey) []PairedSegment {
	kept := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Score < threshold {
			continue
		}
		if p.SourceIndex < 0 || p.SourceIndex >= len(source) {
			continue
		}
		if p.TargetIndex < 0 || p.TargetIndex >= len(target) {
			continue
		}
		kept = append(kept, p)
	}

	switch key {
	case SortTargetOrder:
		sort.SliceStable(kept, func(i, j int) bool {
			if kept[i].TargetIndex != kept[j].TargetIndex {
				return kept[i].TargetIndex < kept[j].TargetIndex
			}
			return kept[i].SourceIndex < kept[j].SourceIndex
		})
	case SortScoreDesc:
		// Stable sort keeps input order for equal scores.
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Score > kept[j].Score
		})
	default:
		sort.SliceStable(kept, func(i, j int) bool {
			if kept[i].SourceIndex != kept[j].SourceIndex {
				return kept[i].SourceIndex < kept[j].SourceIndex
			}
			return kept[i].TargetIndex < kept[j].TargetIndex
		})
	}

	result := make([]PairedSegment, 0, len(kept))
	for _, p := range kept {
		result = append(result, PairedSegment{
			Pair:   p,
			Source: window(source, p.SourceIndex),
			Target: window(target, p.TargetIndex),
		})
	}
	return result
}

func window(segments []string, idx int) Window {
	w := Window{Text: segments[idx]}
	if idx > 0 {
		prev := segments[idx-1]
		w.Prev = &prev
	}
	if idx < len(segments)-1 {
		next := segments[idx+1]
		w.Next = &next
	}
	return w
}
