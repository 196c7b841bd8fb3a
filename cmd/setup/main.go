// Command setup performs the one-time initial table creation for the
// profile store: load config, open the SQLite file, create the tables.
package main

import (
	"flag"
	"log"

	"github.com/mattmenger/emdc-guide/internal/config"
	"github.com/mattmenger/emdc-guide/internal/db"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: discovery order)")
	flag.Parse()

	var (
		cfg  *config.Config
		used string
		err  error
	)
	if *configPath != "" {
		cfg, used, err = config.LoadFromPath(*configPath)
	} else {
		cfg, used, err = config.Load()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if used == "" {
		used = "(defaults)"
	}

	sqlDB, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("warning: failed to close sqlite db: %v", cerr)
		}
	}()

	if err := db.RunMigrations(sqlDB, cfg.Database.TablePrefix); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	log.Printf("profile tables ready in %s (prefix %q, config %s)",
		cfg.Database.Path, cfg.Database.TablePrefix, used)
}
