//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)
	if len(list.Products) != 6 {
		t.Fatalf("expected 6 products, got %d", len(list.Products))
	}
}

func TestListProducts_Fields(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)

	var headset *productResponse
	for i := range list.Products {
		if list.Products[i].ID == 1 {
			headset = &list.Products[i]
			break
		}
	}

	if headset == nil {
		t.Fatal("product with ID 1 not found")
	}
	if headset.Name != "Neon Gaming Headset" {
		t.Errorf("name: got %q, want %q", headset.Name, "Neon Gaming Headset")
	}
	if headset.Price != 8990 {
		t.Errorf("price: got %d, want 8990", headset.Price)
	}
	if headset.Category != "audio" {
		t.Errorf("category: got %q, want %q", headset.Category, "audio")
	}
	if headset.Image == "" {
		t.Error("image URL is empty")
	}
	if !headset.Featured {
		t.Error("expected product 1 to be featured")
	}
}

func TestListProducts_ByCategory(t *testing.T) {
	resp := doGet(t, "/api/products?category=peripherals")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)
	if len(list.Products) == 0 {
		t.Fatal("expected peripherals products, got none")
	}
	for _, p := range list.Products {
		if p.Category != "peripherals" {
			t.Errorf("product %d: category %q, want peripherals", p.ID, p.Category)
		}
	}
}

func TestListProducts_UnknownCategory(t *testing.T) {
	resp := doGet(t, "/api/products?category=nonexistent")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[productListResponse](t, resp)
	if len(list.Products) != 0 {
		t.Errorf("expected no products, got %d", len(list.Products))
	}
}

func TestListCategories(t *testing.T) {
	resp := doGet(t, "/api/categories")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	list := decodeJSON[categoryListResponse](t, resp)
	if len(list.Categories) == 0 {
		t.Fatal("expected categories, got none")
	}

	want := map[string]bool{"audio": true, "peripherals": true, "displays": true, "furniture": true}
	for _, c := range list.Categories {
		if !want[c] {
			t.Errorf("unexpected category %q", c)
		}
	}
}
