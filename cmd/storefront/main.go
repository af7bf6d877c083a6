// cmd/storefront/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/events"
	"github.com/your-org/storefront-client/internal/pkg/logger"
	"github.com/your-org/storefront-client/internal/session"
	"github.com/your-org/storefront-client/internal/storage"
	"github.com/your-org/storefront-client/internal/token"
)

// Demo session against a running storefront API: browse the catalog,
// authenticate, exercise the cart, and print the resulting state.
func main() {
	baseURL := flag.String("base-url", "", "override the API base URL")
	email := flag.String("email", "demo@example.com", "login email")
	password := flag.String("password", "DemoPass123!", "login password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}

	logg := logger.New(cfg)

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open local storage: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	bus := events.NewBus()
	tokens := token.NewStore(store)

	client := api.New(cfg, tokens, store, logg, api.WithAuthFailureHandler(func() {
		logg.Warn("Session expired, please log in again")
	}))

	sessions := session.NewStore(ctx, store, tokens, bus, logg)
	carts := cart.NewStore(client, store, bus, logg)

	if err := run(ctx, client, sessions, carts, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "error:", api.MessageFor(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, client *api.Client, sessions *session.Store, carts *cart.Store, email, password string) error {
	products, err := client.ListProducts(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Catalog: %d products\n", len(products))
	for _, p := range products {
		fmt.Printf("  %-24s $%.2f  (%s, %d in stock)\n", p.Name, p.EffectivePrice(), p.Category, p.InStock)
	}

	if _, _, ok := sessions.Current(); !ok {
		result, err := client.Login(ctx, api.LoginRequest{Email: email, Password: password})
		if err != nil {
			return err
		}
		if err := sessions.Login(ctx, result.User, result.Token, result.RefreshToken); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", result.User.Name, result.User.Role)
	}

	if err := carts.Fetch(ctx); err != nil {
		return err
	}

	if len(products) > 0 {
		first := products[0]
		if err := carts.AddItem(ctx, cart.Item{ID: first.ID, Name: first.Name, Price: first.EffectivePrice(), Quantity: 2}); err != nil {
			return err
		}
	}

	state := carts.State()
	fmt.Printf("Cart: %d line(s)\n", len(state.Items))
	for _, item := range state.Items {
		fmt.Printf("  %dx %-24s $%.2f\n", item.Quantity, item.Name, item.Price)
	}

	return nil
}
