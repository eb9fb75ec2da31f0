// Command smoketest verifies database connectivity end to end: it resolves
// credentials through the documented precedence chain, connects, pings, and
// counts stored activity rows. Exit code 0 means the deployment can reach
// its data.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/joho/godotenv"

	"github.com/tracefit/activity-metrics-api/internal/config"
	"github.com/tracefit/activity-metrics-api/internal/constants"
)

func main() {
	timeout := flag.Duration("timeout", 15*time.Second, "overall deadline for the smoke test")
	flag.Parse()

	// A .env file, when present, feeds the PG* credential variables.
	_ = godotenv.Load()

	if err := run(*timeout); err != nil {
		fmt.Fprintf(os.Stderr, "smoke test failed: %v\n", err)
		os.Exit(1)
	}
}

func run(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	creds, err := config.ResolveCredentials()
	if err != nil {
		return err
	}
	if err := creds.Validate(); err != nil {
		return err
	}
	fmt.Printf("credentials resolved from %s\n", creds.Source)

	db, err := sql.Open("postgres", creds.DSN())
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	fmt.Println("database reachable")

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		constants.TableWebhooks, constants.ColumnType)
	if err := db.QueryRowContext(ctx, query, constants.ActivityDetailsType).Scan(&count); err != nil {
		return fmt.Errorf("count activities: %w", err)
	}

	fmt.Printf("found %d activity rows\n", count)
	fmt.Println("smoke test passed")
	return nil
}
