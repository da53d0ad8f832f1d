package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/config"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// Source is one catalog entry: where a product's rows live and which
// type and company they belong to.
type Source struct {
	Name    string             `json:"name"`
	File    string             `json:"file,omitempty"`
	Range   string             `json:"range,omitempty"`
	Type    domain.ProductType `json:"type"`
	Company string             `json:"company"`
}

// DefaultCatalog returns the built-in product sources in dataset order
func DefaultCatalog() []Source {
	return []Source{
		newSource("vivo.xlsx", domain.TypeMobile, "Vivo"),
		newSource("moto.xlsx", domain.TypeMobile, "Motorola"),
		newSource("redmi.xlsx", domain.TypeMobile, "Redmi"),
		newSource("iphone13.xlsx", domain.TypeMobile, "iPhone"),
		newSource("iphone14.xlsx", domain.TypeMobile, "iPhone"),
		newSource("iphone15.xlsx", domain.TypeMobile, "iPhone"),
		newSource("boat.xlsx", domain.TypeHeadphones, "boAt"),
		newSource("redmi_buds.xlsx", domain.TypeHeadphones, "Redmi Buds"),
		newSource("realme_buds.xlsx", domain.TypeHeadphones, "Realme Buds"),
		newSource("boat_watch.xlsx", domain.TypeWatch, "boAt Watch"),
	}
}

func newSource(file string, t domain.ProductType, company string) Source {
	return Source{
		Name:    strings.TrimSuffix(file, filepath.Ext(file)),
		File:    file,
		Range:   strings.TrimSuffix(file, filepath.Ext(file)) + "!A:H",
		Type:    t,
		Company: company,
	}
}

// CatalogFromEntries converts catalog file entries into sources
func CatalogFromEntries(entries []config.CatalogEntry) ([]Source, error) {
	sources := make([]Source, 0, len(entries))
	for i, e := range entries {
		t, ok := domain.ParseProductType(e.Type)
		if !ok {
			return nil, fmt.Errorf("catalog entry %d: unknown product type %q", i, e.Type)
		}

		name := e.Name
		if name == "" {
			name = strings.TrimSuffix(e.File, filepath.Ext(e.File))
		}
		if name == "" {
			name = e.Range
		}

		sources = append(sources, Source{
			Name:    name,
			File:    e.File,
			Range:   e.Range,
			Type:    t,
			Company: e.Company,
		})
	}
	return sources, nil
}

// TableReader reads the rows of one source
type TableReader interface {
	ReadTable(ctx context.Context, src Source) (RawTable, error)
}

// LoadAll reads every source concurrently, at most parallelism at a time.
// The result is in source order regardless of completion order. The first
// failure cancels the remaining reads.
func LoadAll(ctx context.Context, reader TableReader, sources []Source, parallelism int, logger *slog.Logger) ([]TaggedTable, error) {
	if parallelism <= 0 {
		parallelism = 1
	}

	tables := make([]TaggedTable, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, src := range sources {
		g.Go(func() error {
			table, err := reader.ReadTable(gctx, src)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name, err)
			}

			logger.DebugContext(gctx, "source loaded",
				slog.String("source", src.Name),
				slog.Int("records", len(table.Records)),
				slog.Int("skipped", table.Skipped))

			tables[i] = TaggedTable{Table: table, Type: src.Type, Company: src.Company}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
