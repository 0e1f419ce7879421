package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"acaihouse/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads a catalog CSV export and inserts/updates products.
// Expected headers: key, name, description, category, price_cents, currency,
// image_url.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Key, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	key := pick(record, index, "key")
	if key == "" {
		return nil, nil
	}
	name := pick(record, index, "name")
	centStr := pick(record, index, "price_cents")
	if name == "" || centStr == "" {
		return nil, fmt.Errorf("invalid product row (missing required fields) for key %q", key)
	}
	cents, err := strconv.ParseInt(centStr, 10, 64)
	if err != nil || cents <= 0 {
		return nil, fmt.Errorf("invalid price for key %q: %s", key, centStr)
	}

	currency := pick(record, index, "currency")
	if currency == "" {
		currency = "BRL"
	}

	return &domain.Product{
		Key:         key,
		Name:        name,
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		PriceCents:  cents,
		Currency:    currency,
		ImageURL:    pick(record, index, "image_url"),
		Active:      true,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
