package importer

import (
	"context"
	"strings"
	"testing"

	"acaihouse/internal/domain"
)

type stubWriter struct {
	upserts []domain.Product
	err     error
}

func (s *stubWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.upserts = append(s.upserts, p)
	return &p, nil
}

func TestRunImportsRows(t *testing.T) {
	csv := `key,name,description,category,price_cents,currency,image_url
acai-300,Açaí 300ml,Small cup,acai,1500,BRL,https://cdn.example/acai300.png
agua,Água mineral,,drinks,400,,
`
	repo := &stubWriter{}
	imp := NewCSVImporter(strings.NewReader(csv), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(repo.upserts) != 2 {
		t.Fatalf("expected 2 imports, got %d", count)
	}

	first := repo.upserts[0]
	if first.Key != "acai-300" || first.PriceCents != 1500 || first.Currency != "BRL" || !first.Active {
		t.Fatalf("unexpected product: %+v", first)
	}
	// Missing currency defaults to BRL.
	if repo.upserts[1].Currency != "BRL" {
		t.Fatalf("currency default not applied: %+v", repo.upserts[1])
	}
}

func TestRunSkipsRowsWithoutKey(t *testing.T) {
	csv := `key,name,price_cents
,Nameless,100
acai-300,Açaí 300ml,1500
`
	repo := &stubWriter{}
	imp := NewCSVImporter(strings.NewReader(csv), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 import, got %d", count)
	}
}

func TestRunRejectsInvalidPrice(t *testing.T) {
	csv := `key,name,price_cents
acai-300,Açaí 300ml,free
`
	imp := NewCSVImporter(strings.NewReader(csv), &stubWriter{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected price error")
	}
}

func TestRunRejectsMissingName(t *testing.T) {
	csv := `key,name,price_cents
acai-300,,1500
`
	imp := NewCSVImporter(strings.NewReader(csv), &stubWriter{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected missing-field error")
	}
}
