// Command storefront is a terminal client for the açaí shop API. It keeps a
// guest cart on disk while signed out and merges it into the account cart on
// login.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"acaihouse/internal/apiclient"
	"acaihouse/internal/cartstore"
	"acaihouse/internal/config"
	"acaihouse/internal/domain"
	"acaihouse/internal/session"
	"acaihouse/internal/storage"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: storefront <command> [flags]

Commands:
  login     -email -password
  logout
  show
  add       -product <id> [-qty N] [-complements id1,id2]
  add-acai  -price <cents> [-qty N] [-complements "Granola,Condensed milk"]
  add-custom -name <name> -price <cents> [-qty N]
  update    -item <id> -qty N
  remove    -item <id>
  clear`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[storefront] ", log.LstdFlags)

	kv := storage.NewFile(cfg.StateFile)

	// The client and the session reference each other: the client asks the
	// session for the current token on every request.
	var sess *session.Session
	api := apiclient.New(cfg.APIBaseURL, func() string { return sess.Token() })
	sess = session.New(api, kv, logger)

	store := cartstore.New(api, sess, kv, logger)
	rec := cartstore.NewReconciler(api, store, kv, logger)
	sess.OnChange(rec.OnSessionChange)

	ctx := context.Background()
	if err := sess.Init(ctx); err != nil {
		logger.Printf("session restore: %v", err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "login":
		runLogin(ctx, sess, args)
	case "logout":
		sess.Logout(ctx)
		fmt.Println("signed out")
	case "show":
		store.Load(ctx)
		printCart(sess, store)
	case "add":
		runAdd(ctx, store, args)
	case "add-acai":
		runAddAcai(ctx, store, args)
	case "add-custom":
		runAddCustom(ctx, store, args)
	case "update":
		runUpdate(ctx, store, args)
	case "remove":
		runRemove(ctx, store, args)
	case "clear":
		if err := store.Clear(ctx); err != nil {
			logger.Fatalf("clear cart: %v", err)
		}
		fmt.Println("cart cleared")
	default:
		usage()
	}
}

func runLogin(ctx context.Context, sess *session.Session, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fs.Usage()
		os.Exit(2)
	}

	user, err := sess.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	fmt.Printf("signed in as %s\n", user.Email)
}

func runAdd(ctx context.Context, store *cartstore.Store, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	product := fs.String("product", "", "Product id")
	qty := fs.Int("qty", 1, "Quantity")
	complements := fs.String("complements", "", "Comma-separated complement ids")
	fs.Parse(args)

	if *product == "" {
		fs.Usage()
		os.Exit(2)
	}

	if err := store.AddItem(ctx, *product, *qty, splitList(*complements)); err != nil {
		log.Fatalf("add item: %v", err)
	}
	fmt.Printf("added, cart total %s\n", formatCents(store.TotalCents()))
}

func runAddAcai(ctx context.Context, store *cartstore.Store, args []string) {
	fs := flag.NewFlagSet("add-acai", flag.ExitOnError)
	price := fs.Int64("price", 0, "Price in cents")
	qty := fs.Int("qty", 1, "Quantity")
	complements := fs.String("complements", "", "Comma-separated complement names")
	fs.Parse(args)

	if *price <= 0 {
		fs.Usage()
		os.Exit(2)
	}

	payload := domain.CustomPayload{ValueCents: *price, ComplementNames: splitList(*complements)}
	if err := store.AddCustomAcai(ctx, payload, *qty); err != nil {
		log.Fatalf("add custom acai: %v", err)
	}
	fmt.Printf("added, cart total %s\n", formatCents(store.TotalCents()))
}

func runAddCustom(ctx context.Context, store *cartstore.Store, args []string) {
	fs := flag.NewFlagSet("add-custom", flag.ExitOnError)
	name := fs.String("name", "", "Item name")
	price := fs.Int64("price", 0, "Price in cents")
	qty := fs.Int("qty", 1, "Quantity")
	fs.Parse(args)

	if *name == "" || *price <= 0 {
		fs.Usage()
		os.Exit(2)
	}

	if err := store.AddCustomProduct(ctx, *name, domain.CustomPayload{ValueCents: *price}, *qty); err != nil {
		log.Fatalf("add custom item: %v", err)
	}
	fmt.Printf("added, cart total %s\n", formatCents(store.TotalCents()))
}

func runUpdate(ctx context.Context, store *cartstore.Store, args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	item := fs.String("item", "", "Cart item id")
	qty := fs.Int("qty", 0, "New quantity")
	fs.Parse(args)

	if *item == "" {
		fs.Usage()
		os.Exit(2)
	}

	if err := store.UpdateItem(ctx, *item, *qty); err != nil {
		log.Fatalf("update item: %v", err)
	}
	fmt.Printf("updated, cart total %s\n", formatCents(store.TotalCents()))
}

func runRemove(ctx context.Context, store *cartstore.Store, args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	item := fs.String("item", "", "Cart item id")
	fs.Parse(args)

	if *item == "" {
		fs.Usage()
		os.Exit(2)
	}

	if err := store.RemoveItem(ctx, *item); err != nil {
		log.Fatalf("remove item: %v", err)
	}
	fmt.Printf("removed, cart total %s\n", formatCents(store.TotalCents()))
}

func printCart(sess *session.Session, store *cartstore.Store) {
	if u := sess.User(); u != nil {
		fmt.Printf("cart for %s\n", u.Email)
	} else {
		fmt.Println("guest cart")
	}

	items := store.Items()
	if len(items) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for _, it := range items {
		fmt.Printf("  %s  %dx %-30s %s\n", it.ID, it.Quantity, it.Name, formatCents(it.TotalCents))
	}
	fmt.Printf("total: %s\n", formatCents(store.TotalCents()))
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatCents(cents int64) string {
	return fmt.Sprintf("R$ %d.%02d", cents/100, cents%100)
}
