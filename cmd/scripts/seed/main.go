package main

import (
	"context"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/config"
	"github.com/shishobooks/circulation/pkg/database"
	"github.com/shishobooks/circulation/pkg/migrations"
	"github.com/shishobooks/circulation/pkg/seed"
)

func main() {
	log := logger.New()

	var opts struct {
		Database string `short:"d" long:"database" description:"Path to a SQLite database file, overriding the configured one"`
		Verbose  bool   `short:"v" long:"verbose" description:"Log every query"`
	}

	if _, err := flags.Parse(&opts); err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	if opts.Database != "" {
		cfg.DatabaseDriver = config.DatabaseDriverSQLite
		cfg.DatabaseFilePath = opts.Database
	}
	cfg.DatabaseDebug = cfg.DatabaseDebug || opts.Verbose

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	ctx := log.WithContext(context.Background())

	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		log.Err(err).Fatal("migrations error")
	}

	result, err := seed.Load(ctx, db, nil)
	if err != nil {
		log.Err(err).Fatal("seed error")
	}

	if result.Skipped {
		fmt.Println("Database already has borrowers, nothing was loaded")
		return
	}
	fmt.Printf("Loaded %d borrowers, %d books and %d loans\n", result.Borrowers, result.Books, result.Loans)
}
