// Command migrate manages the users, categories and posts schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"inkwell/internal/config"
	"inkwell/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|auto|status|down [version]|check>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}
	command := strings.ToLower(strings.TrimSpace(flag.Arg(0)))

	// check compares the embedded scripts with the models and needs no database.
	if command == "check" {
		if err := database.CheckMigrationCoverage(database.Migrations()); err != nil {
			return err
		}
		for _, m := range database.Migrations() {
			log.Printf("%s creates %s", m, strings.Join(m.Tables, ", "))
		}
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch command {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("users, categories and posts auto-migrated")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		return printStatus(os.Stdout, status)
	case "down":
		version := 0
		if flag.NArg() > 1 {
			if version, err = strconv.Atoi(flag.Arg(1)); err != nil {
				return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
			}
		}
		m, err := database.RollbackMigration(ctx, db, version)
		if err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back %s (dropped %s)", m, strings.Join(m.Tables, ", "))
	default:
		return usage()
	}

	return nil
}

func printStatus(w io.Writer, status *database.SchemaStatus) error {
	fmt.Fprintf(w, "mode=%s env=%s run_sql=%t run_auto=%t\n",
		status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATE\tTABLES")
	applied := make(map[int]bool, len(status.AppliedVersions))
	for _, v := range status.AppliedVersions {
		applied[v] = true
	}
	for _, m := range database.Migrations() {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m, state, strings.Join(m.Tables, ", "))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "TABLE\tEXISTS\tROWS")
	for _, t := range status.Tables {
		rows := "-"
		if t.Exists {
			rows = strconv.FormatInt(t.Rows, 10)
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\n", t.Name, t.Exists, rows)
	}
	return tw.Flush()
}
