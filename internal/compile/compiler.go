// Package compile turns a set of survey records plus optional financial
// metadata into one canonical competitor graph. It is the only component
// holding cross-record state, and a run is strictly single-threaded: one
// pass of subject ingestion, one pass of edge extraction, then
// classification and serialization.
package compile

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/competitor-graph/internal/financial"
	"github.com/sells-group/competitor-graph/internal/model"
	"github.com/sells-group/competitor-graph/internal/resolve"
	"github.com/sells-group/competitor-graph/internal/slug"
)

// Compile builds the graph. Records must already be structurally valid
// (the survey loader enforces that); the checks here are a second line of
// defense because identity logic downstream assumes non-empty tickers.
// Deterministic: the same records and table always produce the same
// entities, relationships, and industries, timestamp aside.
func Compile(records []model.SurveyRecord, fin *financial.Table, taxonomy []Category) (*model.CompiledGraph, error) {
	if fin == nil {
		fin = financial.Empty()
	}
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy
	}
	log := zap.L().With(zap.String("component", "compile"))

	r := resolve.New(fin)
	subjects := map[string]*model.Entity{}
	var tickerOrder []string

	// Pass 1: subject ingestion, grouped by ticker in discovery order.
	for _, rec := range records {
		if rec.Company == "" || rec.Ticker == "" || rec.Year <= 0 {
			return nil, eris.Errorf("compile: malformed record for company %q ticker %q year %d", rec.Company, rec.Ticker, rec.Year)
		}

		e, ok := subjects[rec.Ticker]
		if !ok {
			e = newSubject(rec, fin)
			subjects[rec.Ticker] = e
			tickerOrder = append(tickerOrder, rec.Ticker)
			r.RegisterPublic(e)
		}

		if _, dup := e.Years[rec.Year]; dup {
			// Source data is assumed unique per (ticker, year); if it is
			// not, the later record wins and the drift is made visible.
			log.Warn("duplicate survey record, last write wins",
				zap.String("ticker", rec.Ticker),
				zap.Int("year", rec.Year),
			)
		}
		e.Years[rec.Year] = model.YearRecord{
			Query:       rec.SearchQuery,
			Date:        rec.SearchDate,
			Context:     rec.Context,
			Sources:     orEmpty(rec.Sources),
			Competitors: orEmptyMentions(rec.Competitors),
		}
	}
	log.Info("subjects ingested", zap.Int("publicCompanies", len(tickerOrder)))

	// Pass 2: edge extraction. Subjects in discovery order, years
	// ascending within a subject, mentions in input order. The
	// relationship list keeps every claim; only mentionedBy and
	// competitors deduplicate.
	relationships := []model.Relationship{}
	for _, ticker := range tickerOrder {
		subject := subjects[ticker]
		for _, year := range sortedYears(subject.Years) {
			for _, mention := range subject.Years[year].Competitors {
				target := r.Resolve(mention.Name)

				relationships = append(relationships, model.Relationship{
					Source: subject.Slug,
					Target: target.Slug,
					Year:   year,
					Notes:  mention.Notes,
				})

				if !hasMention(target.MentionedBy, subject.Slug, year) {
					target.MentionedBy = append(target.MentionedBy, model.Mention{
						Slug:   subject.Slug,
						Name:   subject.Name,
						Ticker: subject.Ticker,
						Year:   year,
						Notes:  mention.Notes,
					})
				}

				if !target.IsPublic {
					target.Notes[year] = append(target.Notes[year], model.Note{
						From: subject.Name,
						Note: mention.Notes,
					})
				}

				if !hasCompetitor(subject.Competitors, target.Slug) {
					subject.Competitors = append(subject.Competitors, model.CompetitorRef{
						Slug:             target.Slug,
						Name:             target.Name,
						Ticker:           target.Ticker,
						IsPublic:         target.IsPublic,
						EntityType:       target.EntityType,
						ParentSlug:       target.ParentSlug,
						Financials:       target.Financials,
						FinancialsByYear: target.FinancialsByYear,
					})
				}
			}
		}
	}

	entities := r.Entities()

	industries := map[string][]string{}
	for _, ticker := range tickerOrder {
		subject := subjects[ticker]
		if tags := Classify(subject, taxonomy); len(tags) > 0 {
			industries[subject.Slug] = tags
		}
	}

	// Sort: public first, then by citation count; stable so encounter
	// order breaks ties.
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].IsPublic != entities[j].IsPublic {
			return entities[i].IsPublic
		}
		return len(entities[i].MentionedBy) > len(entities[j].MentionedBy)
	})

	graph := &model.CompiledGraph{
		Meta:          buildMeta(entities, relationships),
		Entities:      entities,
		Relationships: relationships,
		Industries:    industries,
	}
	log.Info("graph compiled",
		zap.Int("entities", graph.Meta.TotalEntities),
		zap.Int("relationships", graph.Meta.TotalRelationships),
		zap.Int("classified", len(industries)),
	)
	return graph, nil
}

// newSubject creates the public entity for a survey subject and attaches
// any financial metadata found for it. Identity comes from the survey;
// metadata only enriches.
func newSubject(rec model.SurveyRecord, fin *financial.Table) *model.Entity {
	e := model.NewEntity(slug.Make(rec.Company), rec.Company)
	e.Ticker = rec.Ticker
	e.IsPublic = true
	e.Ownership = model.OwnershipPublic
	e.EntityType = model.EntityTypeCompany
	e.Years = map[int]model.YearRecord{}

	if meta := fin.Lookup(rec.Company, e.Slug); meta != nil {
		e.ParentCompany = meta.ParentCompany
		e.ParentSlug = meta.ParentSlug
		e.FinancialsByYear = meta.Years()
		e.Financials = meta.LatestSnapshot()
	}
	return e
}

// buildMeta derives every count from the final entity slice so the meta
// block can never drift from the data it describes.
func buildMeta(entities []*model.Entity, relationships []model.Relationship) model.Meta {
	m := model.Meta{
		Generated:          time.Now().UTC().Format(time.RFC3339),
		TotalEntities:      len(entities),
		TotalRelationships: len(relationships),
	}
	for _, e := range entities {
		if e.IsPublic {
			m.PublicCompanies++
		} else {
			m.PrivateEntities++
		}
		switch e.EntityType {
		case model.EntityTypeProduct, model.EntityTypeDivision:
			m.Products++
		case model.EntityTypeUnknown:
			m.Unknown++
		default:
			m.Companies++
		}
		if e.Financials != nil {
			m.WithFinancials++
		}
	}
	return m
}

func sortedYears(years map[int]model.YearRecord) []int {
	out := make([]int, 0, len(years))
	for year := range years {
		out = append(out, year)
	}
	sort.Ints(out)
	return out
}

func hasMention(mentions []model.Mention, slug string, year int) bool {
	for _, m := range mentions {
		if m.Slug == slug && m.Year == year {
			return true
		}
	}
	return false
}

func hasCompetitor(refs []model.CompetitorRef, slug string) bool {
	for _, ref := range refs {
		if ref.Slug == slug {
			return true
		}
	}
	return false
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyMentions(s []model.CompetitorMention) []model.CompetitorMention {
	if s == nil {
		return []model.CompetitorMention{}
	}
	return s
}
