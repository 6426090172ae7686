// Package resolve owns entity identity: mapping raw competitor names onto
// canonical graph nodes, creating and enriching nodes when no known entity
// matches. The Resolver is the single mutable accumulator of one
// compilation run, owned by the compiler; nothing else writes to it.
package resolve

import (
	"go.uber.org/zap"

	"github.com/sells-group/competitor-graph/internal/financial"
	"github.com/sells-group/competitor-graph/internal/model"
	"github.com/sells-group/competitor-graph/internal/slug"
)

// Resolver resolves names against the known public-company set and the
// entities already created during this run.
type Resolver struct {
	financials *financial.Table

	entities map[string]*model.Entity
	order    []string // slug insertion order, for deterministic output

	// publicKeys maps a public subject's normalized display name to its
	// slug, catching spelling drift that still slugifies differently.
	// First registration wins.
	publicKeys map[string]string

	log *zap.Logger
}

// New returns a resolver backed by the given financial metadata table.
func New(fin *financial.Table) *Resolver {
	return &Resolver{
		financials: fin,
		entities:   map[string]*model.Entity{},
		publicKeys: map[string]string{},
		log:        zap.L().With(zap.String("component", "resolve")),
	}
}

// RegisterPublic adds a public survey subject to the known set. Called by
// the compiler during subject ingestion, before any mention is resolved.
func (r *Resolver) RegisterPublic(e *model.Entity) {
	if _, exists := r.entities[e.Slug]; !exists {
		r.entities[e.Slug] = e
		r.order = append(r.order, e.Slug)
	}
	key := slug.Normalize(e.Name)
	if _, exists := r.publicKeys[key]; !exists {
		r.publicKeys[key] = e.Slug
	}
}

// Lookup returns the entity for a slug, or nil.
func (r *Resolver) Lookup(s string) *model.Entity {
	return r.entities[s]
}

// Entities returns all entities in encounter order: subjects in discovery
// order, then created entities in creation order.
func (r *Resolver) Entities() []*model.Entity {
	out := make([]*model.Entity, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, r.entities[s])
	}
	return out
}

// Resolve maps a raw competitor name to its canonical entity, creating one
// if necessary. Resolution order, first match wins:
//
//  1. exact slug match against an existing public entity
//  2. normalized-name equality against a public subject's display name
//  3. exact slug match against any already-created entity
//  4. create a new entity, seeded from financial metadata when present
//
// No entity is ever created twice for the same slug, and identity fields
// of existing entities are never touched here.
func (r *Resolver) Resolve(name string) *model.Entity {
	s := slug.Make(name)

	if e, ok := r.entities[s]; ok && e.IsPublic {
		return e
	}
	if target, ok := r.publicKeys[slug.Normalize(name)]; ok {
		return r.entities[target]
	}
	if e, ok := r.entities[s]; ok {
		return e
	}

	return r.create(name, s)
}

func (r *Resolver) create(name, s string) *model.Entity {
	if s == "" {
		// A name that is entirely punctuation still gets a node so the
		// mention is not lost, but it is worth a data-quality follow-up.
		r.log.Warn("degenerate slug for competitor name", zap.String("name", name))
	}

	e := model.NewEntity(s, name)

	if meta := r.financials.Lookup(name, s); meta != nil {
		seedFromMetadata(e, meta)
	} else {
		e.Ownership = model.OwnershipPrivate
		e.EntityType = model.EntityTypeUnknown
	}

	if !e.IsPublic {
		e.Notes = map[int][]model.Note{}
	}

	r.entities[s] = e
	r.order = append(r.order, s)
	return e
}

// seedFromMetadata fills identity and financial fields from the metadata
// record. An entity marked public here is treated as public thereafter
// even though it never appears as a survey subject.
func seedFromMetadata(e *model.Entity, meta *financial.Metadata) {
	switch meta.Type {
	case string(model.EntityTypeDivision):
		e.EntityType = model.EntityTypeDivision
	case string(model.EntityTypeProduct):
		e.EntityType = model.EntityTypeProduct
	case string(model.EntityTypeUnknown):
		e.EntityType = model.EntityTypeUnknown
	default:
		e.EntityType = model.EntityTypeCompany
	}

	e.Ticker = meta.Ticker
	e.ParentCompany = meta.ParentCompany
	e.ParentSlug = meta.ParentSlug

	if meta.Ownership == string(model.OwnershipPublic) {
		e.Ownership = model.OwnershipPublic
		// Public standing requires a ticker; metadata without one stays
		// a non-public node.
		e.IsPublic = meta.Ticker != ""
	} else {
		e.Ownership = model.OwnershipPrivate
	}

	e.FinancialsByYear = meta.Years()
	e.Financials = meta.LatestSnapshot()
}
