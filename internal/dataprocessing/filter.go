package dataprocessing

import (
	"sort"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// Subset is an ordered selection of dataset records, in dataset order
type Subset []domain.ProductRecord

// Dates returns the record dates in order
func (s Subset) Dates() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Date.Format("2006-01-02")
	}
	return out
}

// ListCompanies returns the distinct companies of product type t, sorted.
// An unknown or unset type yields an empty list.
func ListCompanies(ds *Dataset, t domain.ProductType) []string {
	if t == "" {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, r := range ds.all() {
		if r.Type == t {
			seen[r.Company] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// ListVersions returns the distinct product names of company, sorted. An
// unset company yields an empty list. Records without a product name are
// ignored.
func ListVersions(ds *Dataset, company string) []string {
	if company == "" {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, r := range ds.all() {
		if r.Company == company && r.ProductName != "" {
			seen[r.ProductName] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// FilterByVersion returns the records whose product name equals version.
// An unset or unmatched version yields an empty subset.
func FilterByVersion(ds *Dataset, version string) Subset {
	out := Subset{}
	if version == "" {
		return out
	}
	for _, r := range ds.all() {
		if r.ProductName == version {
			out = append(out, r)
		}
	}
	return out
}

// Resolution is a selection checked against the dataset together with the
// choices available at every stage.
type Resolution struct {
	Selection domain.Selection     `json:"selection"`
	Types     []domain.ProductType `json:"types"`
	Companies []string             `json:"companies"`
	Versions  []string             `json:"versions"`
	Subset    Subset               `json:"-"`
}

// Resolve walks the cascade type → company → version. An empty type becomes
// defaultType; a company outside the type's companies or a version outside
// the company's versions is cleared, together with every later stage.
func Resolve(ds *Dataset, sel domain.Selection, defaultType domain.ProductType) Resolution {
	res := Resolution{
		Types:     domain.ProductTypes(),
		Companies: []string{},
		Versions:  []string{},
		Subset:    Subset{},
	}

	t := sel.Type
	if t == "" {
		t = defaultType
	}
	if !t.Valid() {
		return res
	}
	current := domain.Selection{}.WithType(t)
	res.Companies = ListCompanies(ds, t)

	if !contains(res.Companies, sel.Company) {
		res.Selection = current
		return res
	}
	current = current.WithCompany(sel.Company)
	res.Versions = ListVersions(ds, sel.Company)

	if !contains(res.Versions, sel.Version) {
		res.Selection = current
		return res
	}
	res.Selection = current.WithVersion(sel.Version)
	res.Subset = FilterByVersion(ds, sel.Version)
	return res
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	i := sort.SearchStrings(list, v)
	return i < len(list) && list[i] == v
}
