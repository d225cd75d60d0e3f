package mapper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"ProductImporter/internal/domain"
	"ProductImporter/internal/normalize"
)

type field int

const (
	fieldName field = iota
	fieldSKU
	fieldPrice
	fieldStock
	fieldDescription
	fieldCategory
	fieldImage
	fieldBrand
)

// columnRule assigns a column to a field when its folded header matches.
type columnRule struct {
	field field
	match func(header string) bool
}

// rules are evaluated in order for every column; the first match wins.
var rules = []columnRule{
	{fieldName, func(h string) bool {
		return (strings.Contains(h, fold("ürün")) && containsAny(h, "ad", "isim")) ||
			containsAny(h, "name", "title") ||
			h == fold("ürün") || h == "product"
	}},
	{fieldSKU, keywords("kod", "sku", "barkod")},
	{fieldPrice, keywords("fiyat", "price")},
	{fieldStock, keywords("stok", "stock", "quantity")},
	{fieldDescription, keywords("açıklama", "description", "desc")},
	{fieldCategory, keywords("kategori", "category")},
	{fieldImage, keywords("resim", "image", "foto")},
	{fieldBrand, keywords("marka", "brand")},
}

// FallbackNameFormat names rows that carry no product name at all.
const FallbackNameFormat = "Ürün %d"

// MapColumns converts spreadsheet rows into canonical products, preserving
// row order. Every returned product has a non-empty Name and SKU.
func MapColumns(table domain.Table) []domain.Product {
	if len(table.Rows) == 0 {
		return nil
	}

	headers := table.Headers
	if len(headers) == 0 {
		headers = sortedKeys(table.Rows[0])
	}

	columns := classify(headers)
	products := make([]domain.Product, 0, len(table.Rows))
	for i, row := range table.Rows {
		products = append(products, mapRow(headers, columns, row, i))
	}
	return products
}

// sortedKeys gives header-less tables a deterministic column order.
func sortedKeys(row domain.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// classify resolves each header to a field once per table.
func classify(headers []string) map[string]field {
	columns := make(map[string]field, len(headers))
	for _, header := range headers {
		folded := fold(header)
		for _, rule := range rules {
			if rule.match(folded) {
				columns[header] = rule.field
				break
			}
		}
	}
	return columns
}

func mapRow(headers []string, columns map[string]field, row domain.Row, index int) domain.Product {
	var (
		product  domain.Product
		assigned = map[field]bool{}
	)

	for _, header := range headers {
		f, ok := columns[header]
		if !ok {
			continue
		}
		value := row[header]
		if isBlank(value) || assigned[f] {
			continue
		}
		assigned[f] = true

		switch f {
		case fieldName:
			product.Name = cellText(value)
		case fieldSKU:
			product.SKU = cellText(value)
		case fieldPrice:
			price := normalize.ParsePrice(value)
			if price.IsNegative() {
				price = decimal.Zero
			}
			product.Price = price
		case fieldStock:
			product.Stock = normalize.ParseStock(value)
		case fieldDescription:
			product.Description = cellText(value)
		case fieldCategory:
			product.Category = cellText(value)
		case fieldImage:
			product.Image = cellText(value)
		case fieldBrand:
			product.Brand = cellText(value)
		}
	}

	if product.Name == "" {
		if len(headers) > 0 {
			product.Name = cellText(row[headers[0]])
		}
		if product.Name == "" {
			product.Name = fmt.Sprintf(FallbackNameFormat, index+1)
		}
	}

	if product.SKU == "" {
		product.SKU = normalize.Slugify(product.Name)
		if product.SKU == "" {
			product.SKU = fmt.Sprintf("product-%d", index+1)
		}
	}

	return product
}

// fold lowercases a header and folds the Turkish dotted and dotless i so that
// "AÇIKLAMA", "Açıklama" and "açiklama" compare equal.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "\u0307", "")
	return strings.ReplaceAll(s, "ı", "i")
}

func keywords(words ...string) func(string) bool {
	folded := make([]string, len(words))
	for i, w := range words {
		folded[i] = fold(w)
	}
	return func(h string) bool {
		return containsAny(h, folded...)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func cellText(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}
