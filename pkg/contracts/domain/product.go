package domain

import (
	"strings"
	"time"
)

// ProductType is the product category a catalog source belongs to
type ProductType string

const (
	TypeMobile     ProductType = "Mobile"
	TypeHeadphones ProductType = "Headphones"
	TypeWatch      ProductType = "Watch"
)

// ProductTypes returns the supported product types in menu order
func ProductTypes() []ProductType {
	return []ProductType{TypeMobile, TypeHeadphones, TypeWatch}
}

// Valid reports whether t is one of the supported product types
func (t ProductType) Valid() bool {
	switch t {
	case TypeMobile, TypeHeadphones, TypeWatch:
		return true
	}
	return false
}

// ParseProductType matches s against the supported types, ignoring case
func ParseProductType(s string) (ProductType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range ProductTypes() {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return ProductType(s), false
}

// Platform is a retail platform tracked by the dataset
type Platform string

const (
	PlatformAmazon   Platform = "Amazon"
	PlatformFlipkart Platform = "Flipkart"
	PlatformJiomart  Platform = "Jiomart"
)

// Platforms returns the tracked platforms in display order
func Platforms() []Platform {
	return []Platform{PlatformAmazon, PlatformFlipkart, PlatformJiomart}
}

// ParsePlatform matches s case-insensitively against the tracked platforms
func ParsePlatform(s string) (Platform, bool) {
	for _, p := range Platforms() {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return "", false
}

// ProductRecord is one observation of a product's price and discount on all
// three platforms for a single date. Prices may be missing; discounts never
// are once the record belongs to a unified dataset.
type ProductRecord struct {
	Date             time.Time   `json:"date"`
	ProductName      string      `json:"product_name"`
	PriceAmazon      *float64    `json:"price_amazon"`
	PriceFlipkart    *float64    `json:"price_flipkart"`
	PriceJiomart     *float64    `json:"price_jiomart"`
	DiscountAmazon   float64     `json:"discount_amazon"`
	DiscountFlipkart float64     `json:"discount_flipkart"`
	DiscountJiomart  float64     `json:"discount_jiomart"`
	Type             ProductType `json:"type"`
	Company          string      `json:"company"`
}

// Price returns the price on platform p, if present
func (r ProductRecord) Price(p Platform) *float64 {
	switch p {
	case PlatformAmazon:
		return r.PriceAmazon
	case PlatformFlipkart:
		return r.PriceFlipkart
	case PlatformJiomart:
		return r.PriceJiomart
	}
	return nil
}

// Discount returns the discount percentage on platform p
func (r ProductRecord) Discount(p Platform) float64 {
	switch p {
	case PlatformAmazon:
		return r.DiscountAmazon
	case PlatformFlipkart:
		return r.DiscountFlipkart
	case PlatformJiomart:
		return r.DiscountJiomart
	}
	return 0
}

// Value returns the value of a numeric field. ok is false when the field is
// unknown or the value is missing.
func (r ProductRecord) Value(f Field) (v float64, ok bool) {
	platform, metric, known := f.split()
	if !known {
		return 0, false
	}
	if metric == MetricDiscount {
		return r.Discount(platform), true
	}
	if p := r.Price(platform); p != nil {
		return *p, true
	}
	return 0, false
}

// Float is a helper for building nullable numeric values
func Float(v float64) *float64 {
	return &v
}
