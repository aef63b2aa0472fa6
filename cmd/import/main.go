package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/residently/registry-backend/internal/regimport"
	"github.com/residently/registry-backend/internal/registry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		csvPath = flag.String("csv", "", "path to the residents CSV file")
		dbURL   = flag.String("db", os.Getenv("DATABASE_URL"), "database URL (defaults to DATABASE_URL)")
	)
	flag.Parse()

	if *csvPath == "" || *dbURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	db, err := gorm.Open(postgres.Open(*dbURL), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	summary, runErr := regimport.New(registry.NewStore(db)).Run(f)

	fmt.Printf("run %s: %d inserted, %d skipped\n", summary.RunID, summary.Inserted, summary.Skipped)
	for _, o := range summary.Outcomes {
		if o.Status != regimport.StatusInserted {
			fmt.Printf("  record %d: %s (%s)\n", o.Record, o.Status, o.Reason)
		}
	}

	if runErr != nil {
		// Entities created before the abort are committed; rerunning the
		// same file will not duplicate houses or apartments, but it will
		// duplicate residents already inserted.
		log.Fatal("import aborted: ", runErr)
	}
}
