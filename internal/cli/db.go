package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dbDSNFlag string

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the sitetrack database directly",
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the database connection and schema",
	Long: `Connects with the given DSN, reports the server version, the applied
migrations and the number of stored projects and tasks.`,
	RunE: runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbCheckCmd)

	dbCheckCmd.Flags().StringVar(&dbDSNFlag, "dsn", "", "PostgreSQL DSN (default from database.dsn)")
	viper.BindPFlag("database.dsn", dbCheckCmd.Flags().Lookup("dsn"))
}

// dbStatus is the outcome of a database check
type dbStatus struct {
	Version    string
	Migrations []string
	Projects   int
	Tasks      int
	Latency    time.Duration
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	dsn := viper.GetString("database.dsn")
	if dsn == "" {
		return fmt.Errorf("no DSN: pass --dsn or set SITETRACK_DATABASE_DSN")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	status, err := checkDatabase(ctx, dsn)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s connected in %s\n", okStyle.Render("OK"), status.Latency.Round(time.Millisecond))
	fmt.Fprintf(out, "  %s %s\n", labelStyle.Render("Server:    "), status.Version)
	fmt.Fprintf(out, "  %s %v\n", labelStyle.Render("Migrations:"), status.Migrations)
	fmt.Fprintf(out, "  %s %d\n", labelStyle.Render("Projects:  "), status.Projects)
	fmt.Fprintf(out, "  %s %d\n", labelStyle.Render("Tasks:     "), status.Tasks)
	return nil
}

func checkDatabase(ctx context.Context, dsn string) (*dbStatus, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	start := time.Now()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	status := &dbStatus{Latency: time.Since(start)}

	if err := db.QueryRowContext(ctx, "SHOW server_version").Scan(&status.Version); err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT name FROM schema_migrations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations (has the server run?): %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		status.Migrations = append(status.Migrations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&status.Projects); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&status.Tasks); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return status, nil
}
