package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/config"
	"lunchtime-bot/internal/database"
	"lunchtime-bot/internal/metrics"
	"lunchtime-bot/internal/order"
	"lunchtime-bot/internal/persist"
)

func main() {
	menuCmd := flag.NewFlagSet("menu", flag.ExitOnError)
	menuCategory := menuCmd.String("category", "", "limit to one category (soup, salad, main, drink, dessert)")

	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
	checkQuery := checkCmd.String("query", "", "order query, e.g. soup=gazpacho&main=lasagna&drink=green-tea")

	signCmd := flag.NewFlagSet("sign", flag.ExitOnError)
	signQuery := signCmd.String("query", "", "order query to wrap in a share token")

	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	verifyToken := verifyCmd.String("token", "", "share token to check")

	cleanupCmd := flag.NewFlagSet("cleanup", flag.ExitOnError)
	cleanupDays := cleanupCmd.Int("days", 90, "delete order events older than this many days")

	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch os.Args[1] {
	case "menu":
		menuCmd.Parse(os.Args[2:])
		runMenu(cfg, *menuCategory)
	case "check":
		checkCmd.Parse(os.Args[2:])
		runCheck(cfg, *checkQuery)
	case "sign":
		signCmd.Parse(os.Args[2:])
		runSign(cfg, *signQuery)
	case "verify":
		verifyCmd.Parse(os.Args[2:])
		runVerify(cfg, *verifyToken)
	case "cleanup":
		cleanupCmd.Parse(os.Args[2:])
		runCleanup(cfg, *cleanupDays)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lunchtime-cli <menu|check|sign|verify|cleanup> [flags]")
	os.Exit(2)
}

func loadProvider(cfg *config.Config) *catalog.Provider {
	cache, err := catalog.NewCache(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize catalog cache: %v", err)
	}
	apiClient := catalog.NewAPIClient(cfg.CatalogURL, cfg.CatalogMirrors, cfg.CatalogAPIKey)
	provider := catalog.NewProvider(apiClient, cfg.MenuPageURL, cache)
	provider.Load(context.Background())
	return provider
}

func runMenu(cfg *config.Config, rawCategory string) {
	provider := loadProvider(cfg)
	if provider.Empty() {
		log.Fatal("The catalog is empty")
	}

	categories := catalog.Categories()
	if rawCategory != "" {
		c, ok := catalog.ParseCategory(rawCategory)
		if !ok {
			log.Fatalf("Unknown category %q", rawCategory)
		}
		categories = []catalog.Category{c}
	}

	for _, c := range categories {
		fmt.Printf("%s\n", c.Title())
		for _, d := range provider.ByCategory(c) {
			fmt.Printf("  %-24s %-36s %5d rub  %s\n", d.Keyword, d.Name, d.Price, d.Count)
		}
		fmt.Println()
	}
	fmt.Printf("Source: %s\n", provider.Source())
}

func runCheck(cfg *config.Config, query string) {
	if query == "" {
		log.Fatal("check requires -query")
	}
	provider := loadProvider(cfg)

	sel, err := persist.ApplyQuery(order.NewSelection(), query, provider)
	if err != nil {
		log.Fatalf("Bad query: %v", err)
	}

	for _, c := range catalog.Categories() {
		if d := sel.Get(c); d != nil {
			fmt.Printf("%-10s %s (%d rub)\n", c.Label()+":", d.Name, d.Price)
		}
	}

	verdict := order.Evaluate(sel)
	fmt.Printf("Total: %d rub\n", verdict.Total)
	fmt.Printf("Combo: %v\n", verdict.Eligible)
	if err := order.CheckSubmittable(sel); err != nil {
		fmt.Printf("Submittable: no (%v)\n", err)
	} else {
		fmt.Println("Submittable: yes")
	}
}

func runSign(cfg *config.Config, query string) {
	if query == "" {
		log.Fatal("sign requires -query")
	}
	if cfg.LinkSigningSecret == "" {
		log.Fatal("sign requires LINK_SIGNING_SECRET to be set")
	}
	signer := persist.NewSigner(cfg.LinkSigningSecret, 7*24*time.Hour)
	token, err := signer.Sign(query)
	if err != nil {
		log.Fatalf("Failed to sign: %v", err)
	}
	fmt.Println(token)
}

func runVerify(cfg *config.Config, token string) {
	if token == "" {
		log.Fatal("verify requires -token")
	}
	if cfg.LinkSigningSecret == "" {
		log.Fatal("verify requires LINK_SIGNING_SECRET to be set")
	}
	signer := persist.NewSigner(cfg.LinkSigningSecret, 7*24*time.Hour)
	query, err := signer.Verify(token)
	if err != nil {
		log.Fatalf("Invalid token: %v", err)
	}
	fmt.Println(query)
}

func runCleanup(cfg *config.Config, days int) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	deleted, err := metrics.NewStore(db.SQL).Cleanup(days)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	fmt.Printf("Deleted %d events older than %d days\n", deleted, days)
}
