package catalog_test

import (
	"context"
	"testing"

	"github.com/MIGUELNINOSILVA/makers/internal/model/catalog"
)

func TestMemoryStoreSearchByQuery(t *testing.T) {
	store := catalog.NewMemoryStore(catalog.Seed())
	ctx := context.Background()

	results, err := store.Search(ctx, catalog.SearchFilter{Query: "monitor"})
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Monitor Dell UltraSharp 27" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestMemoryStoreSearchCombinesFilters(t *testing.T) {
	store := catalog.NewMemoryStore(catalog.Seed())
	ctx := context.Background()

	results, err := store.Search(ctx, catalog.SearchFilter{Brand: "dell", Category: "portátiles"})
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Dell XPS 15" {
		t.Fatalf("expected only the Dell laptop, got %+v", results)
	}
}

func TestMemoryStoreSearchByAttributes(t *testing.T) {
	store := catalog.NewMemoryStore(catalog.Seed())
	ctx := context.Background()

	results, err := store.Search(ctx, catalog.SearchFilter{
		Attributes: []catalog.AttributePair{{Name: "RAM", Value: "16GB"}},
	})
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 products with 16GB RAM, got %d", len(results))
	}
}

func TestMemoryStoreSearchNoMatches(t *testing.T) {
	store := catalog.NewMemoryStore(catalog.Seed())
	results, err := store.Search(context.Background(), catalog.SearchFilter{Query: "impresora"})
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}

func TestMemoryStoreFindByBrandCaseInsensitive(t *testing.T) {
	store := catalog.NewMemoryStore(catalog.Seed())
	results, err := store.FindByBrand(context.Background(), "DELL", 10)
	if err != nil {
		t.Fatalf("FindByBrand err: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 Dell products, got %d", len(results))
	}
}

func TestMemoryStoreCountByBrand(t *testing.T) {
	store := catalog.NewMemoryStore(catalog.Seed())
	total, counts, err := store.CountByBrand(context.Background())
	if err != nil {
		t.Fatalf("CountByBrand err: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 products, got %d", total)
	}
	if counts["dell"] != 2 || counts["hp"] != 1 || counts["apple"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestMemoryStoreListPagination(t *testing.T) {
	store := catalog.NewMemoryStore(catalog.Seed())
	page, err := store.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(page) != 2 || page[0].ID != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}

	empty, err := store.List(context.Background(), 10, 99)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty page, got %+v (%v)", empty, err)
	}
}
