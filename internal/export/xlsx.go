// Package export renders a compiled graph as an XLSX workbook for people
// who want the citation data in a spreadsheet rather than the viewer.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/competitor-graph/internal/model"
)

// WriteXLSX writes the graph to path with one sheet each for entities,
// relationships, and industries. Row order follows the artifact's own
// ordering so the workbook matches the viewer.
func WriteXLSX(g *model.CompiledGraph, path string) error {
	f := xlsx.NewFile()

	if err := addEntitySheet(f, g); err != nil {
		return err
	}
	if err := addRelationshipSheet(f, g); err != nil {
		return err
	}
	if err := addIndustrySheet(f, g); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addEntitySheet(f *xlsx.File, g *model.CompiledGraph) error {
	sheet, err := f.AddSheet("Entities")
	if err != nil {
		return eris.Wrap(err, "export: add entities sheet")
	}

	header(sheet, "Slug", "Name", "Ticker", "Public", "Type", "Ownership", "Parent", "Mentions", "Competitors", "Revenue", "Market Cap")
	for _, e := range g.Entities {
		row := sheet.AddRow()
		row.AddCell().Value = e.Slug
		row.AddCell().Value = e.Name
		row.AddCell().Value = e.Ticker
		row.AddCell().SetBool(e.IsPublic)
		row.AddCell().Value = string(e.EntityType)
		row.AddCell().Value = string(e.Ownership)
		row.AddCell().Value = e.ParentSlug
		row.AddCell().SetInt(len(e.MentionedBy))
		row.AddCell().SetInt(len(e.Competitors))
		if e.Financials != nil {
			row.AddCell().SetFloat(e.Financials.Revenue)
			row.AddCell().SetFloat(e.Financials.MarketCap)
		}
	}
	return nil
}

func addRelationshipSheet(f *xlsx.File, g *model.CompiledGraph) error {
	sheet, err := f.AddSheet("Relationships")
	if err != nil {
		return eris.Wrap(err, "export: add relationships sheet")
	}

	header(sheet, "Source", "Target", "Year", "Notes")
	for _, rel := range g.Relationships {
		row := sheet.AddRow()
		row.AddCell().Value = rel.Source
		row.AddCell().Value = rel.Target
		row.AddCell().SetInt(rel.Year)
		row.AddCell().Value = rel.Notes
	}
	return nil
}

func addIndustrySheet(f *xlsx.File, g *model.CompiledGraph) error {
	sheet, err := f.AddSheet("Industries")
	if err != nil {
		return eris.Wrap(err, "export: add industries sheet")
	}

	header(sheet, "Slug", "Industries")
	// Entity order keeps the sheet aligned with the artifact instead of
	// map iteration order.
	for _, e := range g.Entities {
		tags, ok := g.Industries[e.Slug]
		if !ok {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().Value = e.Slug
		row.AddCell().Value = strings.Join(tags, ", ")
	}
	return nil
}

func header(sheet *xlsx.Sheet, cols ...string) {
	row := sheet.AddRow()
	for _, col := range cols {
		row.AddCell().Value = col
	}
}
