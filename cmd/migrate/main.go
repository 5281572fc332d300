package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-mouli/pkg/app"
	pkgMigrations "go-mouli/pkg/migrations"

	// Import all migration files to register them
	localMigrations "go-mouli/migrations"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status")
		steps   = flag.Int("steps", 0, "Number of migrations to rollback (for down command)")
		dryRun  = flag.Bool("dry-run", false, "Show what would be done without executing")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	appCtx, err := app.InitializeApp("migrate")
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer appCtx.Shutdown(ctx)

	runner := pkgMigrations.NewRunner(appCtx.MongoDB.Database)
	localMigrations.RegisterAll(runner)

	switch *command {
	case "up":
		if *dryRun {
			fmt.Println("Dry run; no changes will be made")
			if err := runner.Status(ctx); err != nil {
				log.Fatalf("Failed to show status: %v", err)
			}
			return
		}
		if err := runner.Run(ctx); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("All migrations completed")

	case "down":
		if *steps == 0 {
			*steps = 1
		}
		if *dryRun {
			fmt.Println("Dry run; no changes will be made")
			if err := runner.Status(ctx); err != nil {
				log.Fatalf("Failed to show status: %v", err)
			}
			return
		}
		if err := runner.Rollback(ctx, *steps); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		fmt.Println("Rollback completed")

	case "status":
		if err := runner.Status(ctx); err != nil {
			log.Fatalf("Failed to show status: %v", err)
		}

	default:
		fmt.Printf("Unknown command %q\n", *command)
		flag.Usage()
		os.Exit(1)
	}
}
