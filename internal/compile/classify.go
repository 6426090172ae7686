package compile

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/competitor-graph/internal/model"
)

// Category is one industry bucket: a display name plus the ordered
// substring keywords that place a company in it.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultTaxonomy is the built-in industry table. Matching is pure
// substring containment over concatenated context text, so the trailing
// spaces in keywords like "ai " and "bi " are deliberate precision
// controls and must not be trimmed.
var DefaultTaxonomy = []Category{
	{Name: "Cloud & Infrastructure", Keywords: []string{"cloud", "infrastructure", "iaas", "paas", "hosting", "cdn", "edge"}},
	{Name: "Cybersecurity", Keywords: []string{"security", "cybersecurity", "endpoint", "firewall", "threat", "malware", "antivirus"}},
	{Name: "Enterprise Software", Keywords: []string{"erp", "enterprise", "business software", "sap", "oracle"}},
	{Name: "Data & Analytics", Keywords: []string{"data", "analytics", "warehouse", "database", "bi ", "business intelligence"}},
	{Name: "DevOps & Development", Keywords: []string{"devops", "developer", "git", "ci/cd", "code", "software development"}},
	{Name: "HR & Payroll", Keywords: []string{"payroll", "hr ", "human resources", "hcm", "workforce"}},
	{Name: "CRM & Marketing", Keywords: []string{"crm", "marketing", "customer", "salesforce", "hubspot"}},
	{Name: "Financial Software", Keywords: []string{"financial", "accounting", "fintech", "payment", "billing"}},
	{Name: "Design & Engineering", Keywords: []string{"cad", "plm", "simulation", "design", "engineering"}},
	{Name: "Collaboration", Keywords: []string{"collaboration", "communication", "video", "meeting", "document"}},
	{Name: "AI & Machine Learning", Keywords: []string{"ai ", "artificial intelligence", "machine learning", "ml "}},
	{Name: "Healthcare & Life Sciences", Keywords: []string{"healthcare", "life sciences", "pharma", "medical", "clinical"}},
}

// LoadTaxonomy reads a category table from a YAML file, replacing the
// built-in one. Category order in the file defines tag emission order.
func LoadTaxonomy(path string) ([]Category, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "classify: read taxonomy file")
	}

	var cats []Category
	if err := yaml.Unmarshal(raw, &cats); err != nil {
		return nil, eris.Wrap(err, "classify: parse taxonomy file")
	}
	if len(cats) == 0 {
		return nil, eris.New("classify: taxonomy file defines no categories")
	}
	return cats, nil
}

// Classify infers industry tags for a survey subject from its aggregated
// per-year context text. Tags come out in taxonomy order, not match order.
// Non-subjects have no context and classify to nothing.
func Classify(e *model.Entity, taxonomy []Category) []string {
	if len(e.Years) == 0 {
		return nil
	}

	years := make([]int, 0, len(e.Years))
	for year := range e.Years {
		years = append(years, year)
	}
	sort.Ints(years)

	var parts []string
	for _, year := range years {
		parts = append(parts, strings.ToLower(e.Years[year].Context))
	}
	text := strings.Join(parts, " ")

	var tags []string
	for _, cat := range taxonomy {
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				tags = append(tags, cat.Name)
				break
			}
		}
	}
	return tags
}
