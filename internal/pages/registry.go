// Package pages describes the dashboard's pages: their order in the menu,
// whether they show the type/company/version cascade and which panels
// they render.
package pages

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// Kind selects how a page view is built
type Kind string

const (
	KindIntroduction       Kind = "introduction"
	KindDataset            Kind = "dataset"
	KindPriceComparison    Kind = "price_comparison"
	KindDiscountComparison Kind = "discount_comparison"
	KindPlatformAnalytics  Kind = "platform_analytics"
)

// Panel identifiers
const (
	PanelLine         = "line"
	PanelHistogram    = "histogram"
	PanelBox          = "box"
	PanelRolling      = "rolling"
	PanelComparison   = "comparison"
	PanelDistribution = "distribution"
	PanelBar          = "bar"
)

// Page is one entry in the dashboard menu
type Page struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Order    int             `json:"order"`
	Kind     Kind            `json:"kind"`
	Heading  string          `json:"heading"`
	Platform domain.Platform `json:"platform,omitempty"`
	Filters  bool            `json:"filters"`
	Panels   []string        `json:"panels"`
}

// Registry holds pages by ID
type Registry struct {
	mu    sync.RWMutex
	pages map[string]Page
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string]Page)}
}

// Register adds a page. IDs and paths must be unique.
func (r *Registry) Register(p Page) error {
	if p.ID == "" {
		return fmt.Errorf("page ID cannot be empty")
	}
	if p.Kind == KindPlatformAnalytics && p.Platform == "" {
		return fmt.Errorf("page %s needs a platform", p.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pages[p.ID]; exists {
		return fmt.Errorf("page with ID %s already registered", p.ID)
	}
	for _, existing := range r.pages {
		if existing.Path == p.Path {
			return fmt.Errorf("path %s already used by page %s", p.Path, existing.ID)
		}
	}

	r.pages[p.ID] = p
	return nil
}

// Get returns the page with the given ID
func (r *Registry) Get(id string) (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pages[id]
	return p, ok
}

// List returns the pages in menu order
func (r *Registry) List() []Page {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Page, 0, len(r.pages))
	for _, p := range r.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of registered pages
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

// Default returns the registry with the seven dashboard pages
func Default() *Registry {
	r := NewRegistry()
	for _, p := range defaultPages() {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

func defaultPages() []Page {
	pages := []Page{
		{
			ID:      "introduction",
			Name:    "Introduction",
			Path:    "/",
			Order:   1,
			Kind:    KindIntroduction,
			Heading: "Project Introduction",
			Panels:  []string{},
		},
		{
			ID:      "dataset",
			Name:    "Dataset",
			Path:    "/dataset",
			Order:   2,
			Kind:    KindDataset,
			Heading: "Dataset Preview",
			Panels:  []string{},
		},
		{
			ID:      "price-comparison",
			Name:    "Price Comparison",
			Path:    "/price-comparison",
			Order:   3,
			Kind:    KindPriceComparison,
			Heading: "Price Comparison Across Different Platforms",
			Filters: true,
			Panels:  []string{PanelComparison, PanelDistribution},
		},
		{
			ID:      "discount-comparison",
			Name:    "Discount Comparison",
			Path:    "/discount-comparison",
			Order:   4,
			Kind:    KindDiscountComparison,
			Heading: "Discount Comparison Across Different Platforms",
			Filters: true,
			Panels:  []string{PanelDistribution, PanelBar},
		},
	}

	for i, p := range domain.Platforms() {
		id := string(p)
		pages = append(pages, Page{
			ID:       strings.ToLower(id),
			Name:     id,
			Path:     "/analytics/" + strings.ToLower(id),
			Order:    5 + i,
			Kind:     KindPlatformAnalytics,
			Heading:  fmt.Sprintf("%s Product Price & Discount Analysis", p),
			Platform: p,
			Filters:  true,
			Panels:   []string{PanelLine, PanelHistogram, PanelBox, PanelRolling},
		})
	}
	return pages
}
