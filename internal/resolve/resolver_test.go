package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/competitor-graph/internal/financial"
	"github.com/sells-group/competitor-graph/internal/model"
)

func loadTable(t *testing.T, body string) *financial.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "financials.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	table, err := financial.Load(path)
	require.NoError(t, err)
	return table
}

func publicSubject(slug, name, ticker string) *model.Entity {
	e := model.NewEntity(slug, name)
	e.Ticker = ticker
	e.IsPublic = true
	e.Ownership = model.OwnershipPublic
	e.Years = map[int]model.YearRecord{}
	return e
}

func TestResolve_PublicSlugMatch(t *testing.T) {
	r := New(financial.Empty())
	acme := publicSubject("acme", "Acme Inc", "ACME")
	r.RegisterPublic(acme)

	assert.Same(t, acme, r.Resolve("Acme, Inc."))
	assert.Same(t, acme, r.Resolve("ACME INC"))
}

func TestResolve_PublicNormalizedNameMatch(t *testing.T) {
	r := New(financial.Empty())
	// Registered under a slug that does not derive from the display
	// name, so only the comparison key can match.
	e := publicSubject("intl-widgets", "International Widgets", "IW")
	r.RegisterPublic(e)

	assert.Same(t, e, r.Resolve("International Widgets, Inc."))
}

func TestResolve_MemoizesCreatedEntities(t *testing.T) {
	r := New(financial.Empty())

	first := r.Resolve("Gamma Widgets LLC")
	second := r.Resolve("GAMMA WIDGETS")
	assert.Same(t, first, second)
	assert.Len(t, r.Entities(), 1)
}

func TestResolve_CreatesPrivateUnknownByDefault(t *testing.T) {
	r := New(financial.Empty())

	e := r.Resolve("Totally Unknown LLC")
	assert.Equal(t, "totally-unknown", e.Slug)
	assert.False(t, e.IsPublic)
	assert.Equal(t, model.EntityTypeUnknown, e.EntityType)
	assert.Equal(t, model.OwnershipPrivate, e.Ownership)
	assert.NotNil(t, e.Notes)
	assert.Nil(t, e.Financials)
}

func TestResolve_SeedsFromFinancialMetadata(t *testing.T) {
	table := loadTable(t, `{"entities":{"delta":{
		"type":"product","ownership":"private",
		"parent_company":"Delta Holdings","parent_slug":"delta-holdings",
		"financials_by_year":{"2023":{"revenue":5,"market_cap":50},"2024":{"revenue":7,"market_cap":70}}
	}}}`)
	r := New(table)

	e := r.Resolve("Delta Inc")
	assert.Equal(t, model.EntityTypeProduct, e.EntityType)
	assert.Equal(t, "Delta Holdings", e.ParentCompany)
	assert.Equal(t, "delta-holdings", e.ParentSlug)
	require.NotNil(t, e.Financials)
	assert.Equal(t, 7.0, e.Financials.Revenue)
	assert.Len(t, e.FinancialsByYear, 2)
}

func TestResolve_MetadataPublicWithTicker(t *testing.T) {
	table := loadTable(t, `{"entities":{"epsilon":{"type":"company","ownership":"public","ticker":"EPS"}}}`)
	r := New(table)

	e := r.Resolve("Epsilon")
	assert.True(t, e.IsPublic)
	assert.Equal(t, "EPS", e.Ticker)
	assert.Equal(t, model.OwnershipPublic, e.Ownership)
	assert.Nil(t, e.Notes)
}

func TestResolve_MetadataPublicWithoutTickerStaysNonPublic(t *testing.T) {
	table := loadTable(t, `{"entities":{"zeta":{"ownership":"public"}}}`)
	r := New(table)

	e := r.Resolve("Zeta")
	assert.False(t, e.IsPublic)
}

func TestResolve_EmptySlugDoesNotCrash(t *testing.T) {
	r := New(financial.Empty())

	e := r.Resolve("...")
	assert.Equal(t, "", e.Slug)
	// Memoized like any other slug.
	assert.Same(t, e, r.Resolve("---"))
}

func TestResolve_NeverMutatesExistingIdentity(t *testing.T) {
	r := New(financial.Empty())
	acme := publicSubject("acme", "Acme Inc", "ACME")
	r.RegisterPublic(acme)

	got := r.Resolve("Acme Inc")
	assert.Equal(t, "acme", got.Slug)
	assert.Equal(t, "ACME", got.Ticker)
	assert.True(t, got.IsPublic)
}

func TestEntities_EncounterOrder(t *testing.T) {
	r := New(financial.Empty())
	r.RegisterPublic(publicSubject("acme", "Acme", "ACME"))
	r.RegisterPublic(publicSubject("beta", "Beta", "BETA"))
	r.Resolve("Gamma")

	var slugs []string
	for _, e := range r.Entities() {
		slugs = append(slugs, e.Slug)
	}
	assert.Equal(t, []string{"acme", "beta", "gamma"}, slugs)
}
