// Package aggregate rolls reconciled course records up into per-student
// pathway participation counts and assembles the final denormalized
// pathway-identification view.
package aggregate

import (
	"strconv"

	"cp-etl/internal/domain"
	"cp-etl/internal/table"
)

// countAgg turns the collected rows for a (student, pathway) pair into a
// count cell; absent combinations count as zero.
func countAgg(values []string) string {
	return strconv.Itoa(len(values))
}

// PathwayCounts groups course records by (student key, pathway code), counts
// qualifying rows, and pivots the pathway codes into columns. Per-student
// roster attributes are re-attached from the course records via a
// drop-duplicated projection. Returns the dynamic pathway column names in
// sorted order.
func PathwayCounts(courseRecords table.Table, infoCols []string) (table.Table, []string, error) {
	counts, pathwayCols, err := courseRecords.Pivot(
		[]string{domain.ColStudentKey},
		domain.ColPathwayCode,
		domain.ColStudentKey,
		countAgg,
	)
	if err != nil {
		return table.Table{}, nil, err
	}

	info, err := courseRecords.Select(infoCols...)
	if err != nil {
		return table.Table{}, nil, err
	}
	info = info.Distinct()

	out, err := info.LeftJoin(counts, domain.ColStudentKey, domain.ColStudentKey)
	if err != nil {
		return table.Table{}, nil, err
	}
	return out, pathwayCols, nil
}

// CountOccurrences tallies how many times each id appears in an event log
// (work-based-learning sessions, internships). Output: one row per id with
// the count column.
func CountOccurrences(t table.Table, idCol, countCol string) (table.Table, error) {
	return t.GroupCount([]string{idCol}, countCol)
}

// BlankZeroScope decides which columns the final zero→blank replacement
// touches. The observed behavior blanks every zero in the view, which also
// hits legitimate numeric zeros outside the count columns; ScopeCounts is
// the conservative alternative pending product clarification.
type BlankZeroScope int

const (
	ScopeAll BlankZeroScope = iota
	ScopeCounts
)

// FinalViewInputs are the pre-normalized tables merged into the view. All of
// them are keyed by the canonical student key before they arrive here.
type FinalViewInputs struct {
	Roster           table.Table
	PathwayCounts    table.Table
	Agreements       table.Table
	WBLCounts        table.Table
	InternshipCounts table.Table
	PartnerRoster    table.Table
}

// FinalViewOptions tune the post-merge cleanup.
type FinalViewOptions struct {
	BlankZeroScope BlankZeroScope
	// CountCols are the columns the scoped replacement applies to
	// (pathway count columns + event counts).
	CountCols []string
}

// FinalView is the assembled result plus the rows flagged for manual review.
type FinalView struct {
	View table.Table
	// Duplicates are the rows still duplicated after the dedupe pass. They
	// are reported, never removed, and never block delivery.
	Duplicates table.Table
}

// BuildFinalView chains the merges: roster left-joined against pathway
// counts, agreements, WBL counts and internship counts, then outer-joined
// against the partner roster. The outer join is deliberate: the partner
// program enrolls students outside the district roster, and those must
// surface in the view.
func BuildFinalView(in FinalViewInputs, opts FinalViewOptions) (FinalView, error) {
	view := in.Roster
	var err error
	for _, step := range []table.Table{in.PathwayCounts, in.Agreements, in.WBLCounts, in.InternshipCounts} {
		view, err = view.LeftJoin(step, domain.ColStudentKey, domain.ColStudentKey)
		if err != nil {
			return FinalView{}, err
		}
	}
	view, err = view.OuterJoin(in.PartnerRoster, domain.ColStudentKey)
	if err != nil {
		return FinalView{}, err
	}

	// Zeros read as noise in the published sheet; blank them out.
	switch opts.BlankZeroScope {
	case ScopeCounts:
		view, err = view.ReplaceValueIn(opts.CountCols, "0", "")
		if err != nil {
			return FinalView{}, err
		}
	default:
		view = view.ReplaceValue("0", "")
	}

	view = view.Distinct()
	return FinalView{View: view, Duplicates: duplicateKeys(view)}, nil
}

// duplicateKeys returns rows whose student key still occurs more than once
// after the full-row dedupe: the same student surfacing with conflicting
// data, which needs a human decision.
func duplicateKeys(t table.Table) table.Table {
	counts := map[string]int{}
	for _, r := range t.Rows {
		if v, ok := r[domain.ColStudentKey]; ok {
			counts[v]++
		}
	}
	return t.Filter(func(r table.Row) bool {
		v, ok := r[domain.ColStudentKey]
		return ok && counts[v] > 1
	})
}
