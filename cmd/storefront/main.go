// Command storefront is a demo client that walks the full purchase flow
// against a running API server: list the catalog, fill a cart, and submit a
// checkout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/cybershop/internal/domain/cart"
	"github.com/xenking/cybershop/internal/domain/checkout"
	"github.com/xenking/cybershop/internal/domain/product"
	"github.com/xenking/cybershop/internal/orderclient"
)

func main() {
	var (
		apiURL   string
		name     string
		email    string
		phone    string
		address  string
		quantity int
	)

	flag.StringVar(&apiURL, "api-url", "http://localhost:8080", "base URL of the API server")
	flag.StringVar(&name, "name", "Demo Customer", "customer name")
	flag.StringVar(&email, "email", "demo@example.com", "customer email")
	flag.StringVar(&phone, "phone", "+7 900 000-00-00", "customer phone")
	flag.StringVar(&address, "address", "Demo street 1", "delivery address")
	flag.IntVar(&quantity, "quantity", 1, "quantity of each featured product to order")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, apiURL, checkout.Form{
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerPhone:   phone,
		DeliveryAddress: address,
	}, quantity); err != nil {
		slog.Error("storefront failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, apiURL string, form checkout.Form, quantity int) error {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	products, err := fetchProducts(ctx, httpClient, apiURL)
	if err != nil {
		return errors.Wrap(err, "fetch products")
	}
	slog.Info("catalog loaded", slog.Int("products", len(products)))

	store := cart.New()
	for _, p := range products {
		if !p.Featured {
			continue
		}
		store.AddItem(p)
		store.SetQuantity(p.ID, quantity-1)
		slog.Info("added to cart",
			slog.Int64("id", p.ID),
			slog.String("name", p.Name),
			slog.Int("quantity", quantity))
	}
	if store.Len() == 0 {
		return errors.New("no featured products in catalog")
	}

	totals := store.Totals()
	slog.Info("cart ready",
		slog.Int("items", totals.Items),
		slog.String("total", formatPrice(totals.Price)))

	flow := checkout.NewFlow(orderclient.New(apiURL+"/api/orders", httpClient), store)
	flow.SetForm(form)

	if err := flow.Submit(ctx); err != nil {
		return errors.Wrapf(err, "checkout failed: %s", flow.FailureMessage())
	}

	slog.Info("order placed", slog.Int64("order_id", flow.OrderID()))
	if url := flow.PaymentURL(); url != "" {
		slog.Info("complete payment at", slog.String("url", url))
	}
	return nil
}

func fetchProducts(ctx context.Context, client *http.Client, apiURL string) ([]product.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api/products", nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	var products []product.Product
	d := jx.Decode(resp.Body, 4096)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "products" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			products = append(products, *p)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (*product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			p.ID = v
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Name = v
		case "price":
			v, err := d.Int64()
			if err != nil {
				return err
			}
			p.Price = v
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Category = v
		case "image":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Image = v
		case "featured":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			p.Featured = v
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// formatPrice renders minor units as a decimal amount.
func formatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
