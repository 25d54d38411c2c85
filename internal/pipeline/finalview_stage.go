package pipeline

import (
	"context"
	"fmt"

	"cp-etl/internal/aggregate"
	"cp-etl/internal/domain"
	"cp-etl/internal/export"
	"cp-etl/internal/normalize"
	"cp-etl/internal/table"
)

// Raw intake column labels for the agreement form and partner roster.
const (
	ColAgreementID       = "Student ID Number"
	ColAgreementDistrict = "district code"
	ColAgreementPathway  = "Please select your Career Pathway"
	ColPartnerID         = "Student ID"
)

// RunFinalView assembles the pathway-identification view: roster attributes,
// pathway counts, agreement fields, work-based-learning and internship
// counts, and the partner roster.
func (c *Context) RunFinalView(ctx context.Context, cw CourseworkResult) (aggregate.FinalView, error) {
	fail := func(err error) (aggregate.FinalView, error) {
		return aggregate.FinalView{}, fmt.Errorf("final view stage: %w", err)
	}

	roster, err := c.loadRoster(ctx)
	if err != nil {
		return fail(err)
	}

	countsOnly, err := cw.PathwayCounts.Select(
		append([]string{domain.ColStudentKey}, cw.PathwayCols...)...)
	if err != nil {
		return fail(err)
	}

	excluded := 0

	agreements, err := c.loadAgreements(ctx, &excluded)
	if err != nil {
		return fail(err)
	}
	wbl, err := c.loadEventCounts(ctx, SrcWBL, domain.ColWBLCount, &excluded)
	if err != nil {
		return fail(err)
	}
	internships, err := c.loadEventCounts(ctx, SrcInternships, domain.ColInternshipCount, &excluded)
	if err != nil {
		return fail(err)
	}
	partner, err := c.loadPartnerRoster(ctx, &excluded)
	if err != nil {
		return fail(err)
	}

	countCols := append(append([]string(nil), cw.PathwayCols...),
		domain.ColWBLCount, domain.ColInternshipCount)
	view, err := aggregate.BuildFinalView(aggregate.FinalViewInputs{
		Roster:           roster,
		PathwayCounts:    countsOnly,
		Agreements:       agreements,
		WBLCounts:        wbl,
		InternshipCounts: internships,
		PartnerRoster:    partner,
	}, aggregate.FinalViewOptions{
		BlankZeroScope: c.Cfg.BlankZeroScope,
		CountCols:      countCols,
	})
	if err != nil {
		return fail(err)
	}

	if _, err := export.SaveInterim(c.Cfg.ProcessedDir, "pathway_identification.csv", view.View); err != nil {
		return aggregate.FinalView{}, err
	}

	c.Report.Add(StageStat{
		Stage:    "final view",
		RowsIn:   roster.Len(),
		RowsOut:  view.View.Len(),
		Excluded: excluded,
		Note:     fmt.Sprintf("%d duplicate rows flagged", view.Duplicates.Len()),
	})
	c.Report.SetDuplicates(view.Duplicates)
	if view.Duplicates.Len() > 0 {
		c.Log.Warnw("duplicate rows after dedupe, review needed", "rows", view.Duplicates.Len())
	}
	c.Log.Infow("final view built", "rows", view.View.Len(), "excluded_ids", excluded)
	return view, nil
}

// loadAgreements restricts the agreement form to this district and maps its
// id column onto the canonical key.
func (c *Context) loadAgreements(ctx context.Context, excluded *int) (table.Table, error) {
	t, err := c.Load(ctx, SrcAgreement,
		[]string{ColAgreementID, ColAgreementDistrict, ColAgreementPathway},
		map[string]table.ColType{ColAgreementID: table.Text})
	if err != nil {
		return table.Table{}, err
	}
	t = t.Filter(func(r table.Row) bool {
		return r[ColAgreementDistrict] == c.Cfg.DistrictCode
	}).Drop(ColAgreementDistrict)
	t, err = t.Rename(map[string]string{ColAgreementID: domain.ColStudentKey})
	if err != nil {
		return table.Table{}, err
	}
	return c.cleanKeys(t, SrcAgreement, excluded)
}

// loadEventCounts counts occurrences per linked id in an event log and
// standardizes the composite id onto the canonical key.
func (c *Context) loadEventCounts(ctx context.Context, src, countCol string, excluded *int) (table.Table, error) {
	t, err := c.Load(ctx, src, []string{ColLinkedID},
		map[string]table.ColType{ColLinkedID: table.Text})
	if err != nil {
		return table.Table{}, err
	}
	counts, err := aggregate.CountOccurrences(t, ColLinkedID, countCol)
	if err != nil {
		return table.Table{}, err
	}
	counts, err = normalize.StandardizeKey(counts, ColLinkedID, c.Cfg.DistrictCode, c.Cfg.KeyPolicy)
	if err != nil {
		return table.Table{}, err
	}
	return c.cleanKeys(counts, src, excluded)
}

// loadPartnerRoster maps the partner program's roster onto the canonical key.
func (c *Context) loadPartnerRoster(ctx context.Context, excluded *int) (table.Table, error) {
	t, err := c.Load(ctx, SrcPartner,
		[]string{ColPartnerID, "First Name", "Last Name", "Academies", "Active"},
		map[string]table.ColType{ColPartnerID: table.Text})
	if err != nil {
		return table.Table{}, err
	}
	t, err = t.Rename(map[string]string{ColPartnerID: domain.ColStudentKey})
	if err != nil {
		return table.Table{}, err
	}
	return c.cleanKeys(t, SrcPartner, excluded)
}

func (c *Context) cleanKeys(t table.Table, src string, excluded *int) (table.Table, error) {
	cleaned, bad, err := normalize.CleanKeys(t, domain.ColStudentKey)
	if err != nil {
		return table.Table{}, err
	}
	if len(bad) > 0 {
		*excluded += len(bad)
		c.Log.Warnw("rows excluded for malformed identifiers",
			"source", src, "rows", len(bad), "sample", bad[0].Error())
	}
	return cleaned, nil
}
