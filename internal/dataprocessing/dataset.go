package dataprocessing

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
)

// Dataset is the unified, read-only table of product records. A Dataset is
// never modified after construction; reloading builds a new one.
type Dataset struct {
	records     []domain.ProductRecord
	sources     int
	fingerprint string
	builtAt     time.Time
}

func newDataset(records []domain.ProductRecord, sources int, builtAt time.Time) *Dataset {
	return &Dataset{
		records:     records,
		sources:     sources,
		fingerprint: fingerprint(records),
		builtAt:     builtAt,
	}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in dataset order
func (d *Dataset) Records() []domain.ProductRecord {
	if d == nil {
		return nil
	}
	out := make([]domain.ProductRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Page returns up to limit records starting at offset
func (d *Dataset) Page(offset, limit int) []domain.ProductRecord {
	n := d.Len()
	if offset < 0 || offset >= n || limit <= 0 {
		return []domain.ProductRecord{}
	}
	end := min(offset+limit, n)
	out := make([]domain.ProductRecord, end-offset)
	copy(out, d.records[offset:end])
	return out
}

// Sources returns how many source tables were unified
func (d *Dataset) Sources() int {
	if d == nil {
		return 0
	}
	return d.sources
}

// Fingerprint identifies the dataset content. Two datasets with equal
// records in equal order share a fingerprint.
func (d *Dataset) Fingerprint() string {
	if d == nil {
		return ""
	}
	return d.fingerprint
}

// BuiltAt returns when the dataset was unified
func (d *Dataset) BuiltAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.builtAt
}

// Types returns the product types present in the dataset, in menu order
func (d *Dataset) Types() []domain.ProductType {
	seen := make(map[domain.ProductType]bool)
	for _, r := range d.all() {
		seen[r.Type] = true
	}
	out := make([]domain.ProductType, 0, len(seen))
	for _, t := range domain.ProductTypes() {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}

func (d *Dataset) all() []domain.ProductRecord {
	if d == nil {
		return nil
	}
	return d.records
}

// Build loads every source and unifies them into a dataset
func Build(ctx context.Context, reader TableReader, sources []Source, parallelism int, logger *slog.Logger) (*Dataset, error) {
	tables, err := LoadAll(ctx, reader, sources, parallelism, logger)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}

	ds, err := Unify(tables)
	if err != nil {
		return nil, fmt.Errorf("unify: %w", err)
	}
	return ds, nil
}

func fingerprint(records []domain.ProductRecord) string {
	h, _ := blake2b.New256(nil)
	var buf [8]byte

	putFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	putOptional := func(v *float64) {
		if v == nil {
			h.Write([]byte{0})
			return
		}
		h.Write([]byte{1})
		putFloat(*v)
	}
	putString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}

	for _, r := range records {
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Date.Unix()))
		h.Write(buf[:])
		putString(r.ProductName)
		putOptional(r.PriceAmazon)
		putOptional(r.PriceFlipkart)
		putOptional(r.PriceJiomart)
		putFloat(r.DiscountAmazon)
		putFloat(r.DiscountFlipkart)
		putFloat(r.DiscountJiomart)
		putString(string(r.Type))
		putString(r.Company)
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
