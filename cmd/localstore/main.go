// Command localstore runs maintenance on the SQL-backed local store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"careerhub/internal/config"
	"careerhub/internal/localstore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/localstore <migrate|purge>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.LocalStoreDriver != "sqlite" && cfg.LocalStoreDriver != "postgres" {
		return fmt.Errorf("LOCAL_STORE_DRIVER is %q; maintenance only applies to sqlite or postgres", cfg.LocalStoreDriver)
	}

	// Opening runs AutoMigrate.
	store, err := localstore.OpenSQLStore(cfg.LocalStoreDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "migrate":
		log.Printf("local store schema up to date (%s)", cfg.LocalStoreDriver)
	case "purge":
		n, err := store.PurgeExpired(context.Background())
		if err != nil {
			return fmt.Errorf("purge failed: %w", err)
		}
		log.Printf("purged %d expired entries", n)
	default:
		return usage()
	}
	return nil
}
