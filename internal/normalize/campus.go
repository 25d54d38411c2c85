package normalize

import (
	"cp-etl/internal/table"
)

// CampusExport is one campus's roster export plus the label stamped onto its
// rows when districts deliver per-campus files instead of one roster.
type CampusExport struct {
	School string
	Table  table.Table
}

// MergeCampuses stacks per-campus exports into one roster, writing each
// campus's label into schoolCol. All exports must share a column set; rows are
// never deduplicated across campuses.
func MergeCampuses(parts []CampusExport, schoolCol string) (table.Table, error) {
	var out table.Table
	for i, p := range parts {
		stamped := p.Table.WithConstant(schoolCol, p.School)
		if i == 0 {
			out = stamped
			continue
		}
		var err error
		out, err = out.Concat(stamped)
		if err != nil {
			return table.Table{}, err
		}
	}
	return out, nil
}
