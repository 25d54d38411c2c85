package coursework

import (
	"cp-etl/internal/domain"
	"cp-etl/internal/table"
)

// DecisionTable maps a school name to the ordered list of pathway flag
// columns that school runs. The label rule is uniform: exactly one flag set
// yields that flag's label, two or more yield Dual, none (or a school not in
// the table) yields No Pathway. New schools and flags are additive entries.
type DecisionTable map[string][]string

// DefaultDecisionTable carries the district's current school/flag pairs.
func DefaultDecisionTable() DecisionTable {
	return DecisionTable{
		"Hartford Public High School":               {"STEM", "HC"},
		"Weaver High School":                        {"IF", "JM"},
		"Pathways Academy of Technology and Design": {"STEM"},
		"Bulkeley High School":                      {"STEM", "PS"},
	}
}

// Determine derives the pathway label for one student row.
func (d DecisionTable) Determine(r table.Row) string {
	flags, ok := d[r[domain.ColSchoolName]]
	if !ok {
		return domain.PathwayNone
	}
	var set []string
	for _, f := range flags {
		if r[f] == domain.FlagYes {
			set = append(set, f)
		}
	}
	switch len(set) {
	case 0:
		return domain.PathwayNone
	case 1:
		return set[0]
	default:
		return domain.PathwayDual
	}
}

// AppendPathwayLabel adds the derived pathway column to a per-student table
// that already carries the school name and the flag columns.
func AppendPathwayLabel(t table.Table, d DecisionTable) table.Table {
	out := table.New(append(append([]string(nil), t.Cols...), domain.ColPathway)...)
	for _, r := range t.Rows {
		row := make(table.Row, len(r)+1)
		for k, v := range r {
			row[k] = v
		}
		row[domain.ColPathway] = d.Determine(r)
		out.Rows = append(out.Rows, row)
	}
	return out
}

// PathwayFlagPivot marks each course record's pathway code as present, pivots
// the codes into per-student Yes columns, and merges the result back onto the
// roster so every roster student gets a row. This is the per-student flag
// table the decision table reads.
func PathwayFlagPivot(courseRecords, roster table.Table) (table.Table, error) {
	marked := courseRecords.WithConstant("pathway_present", domain.FlagYes)
	pivoted, _, err := marked.Pivot(
		[]string{domain.ColStudentKey},
		domain.ColPathwayCode,
		"pathway_present",
		func(values []string) string {
			if len(values) > 0 {
				return domain.FlagYes
			}
			return ""
		},
	)
	if err != nil {
		return table.Table{}, err
	}
	// Pivot fills absent combinations with "", but the decision table treats
	// anything but Yes as unset, so nulls and blanks read the same.
	return roster.LeftJoin(pivoted, domain.ColStudentKey, domain.ColStudentKey)
}
