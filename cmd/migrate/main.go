package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/infrastructure/config"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/pulosarok/desa/internal/infrastructure/migration"
	"github.com/pulosarok/desa/internal/infrastructure/persistence"
	"github.com/pulosarok/desa/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if err := run(args, migrationsPath, log); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
}

func run(args []string, migrationsPath string, log *zap.Logger) error {
	command := args[0]
	log.Info("Migration CLI started", zap.String("command", command), zap.String("path", migrationsPath))

	switch command {
	case "create":
		if len(args) < 2 {
			return errors.New("usage: migrate create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = "migrations"
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	case "list":
		names, err := migration.ListMigrations(source(migrationsPath))
		if err != nil {
			return err
		}
		log.Info("Available migrations", zap.Int("count", len(names)))
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if command == "bootstrap" {
		return bootstrap(cfg, args[1:], log)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.New(db, migrationsPath, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, ".", log)
	}
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		if len(args) < 2 {
			return errors.New("usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.GoTo(uint(version))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		version, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(version)
	case "drop":
		if len(args) < 2 || (args[1] != "-confirm" && args[1] != "--confirm") {
			return errors.New("drop cancelled, run 'migrate drop -confirm' to confirm")
		}
		return m.Drop()
	}

	printUsage()
	return fmt.Errorf("unknown command %q", command)
}

func source(path string) fs.FS {
	if path == "" {
		return migrations.FS
	}
	return os.DirFS(path)
}

func intArg(args []string, what string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s <%s>", args[0], what)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[1])
	}
	return n, nil
}

// bootstrap creates a village with its first admin account and default letter settings
func bootstrap(cfg *config.Config, args []string, log *zap.Logger) error {
	if len(args) < 4 {
		return errors.New("usage: migrate bootstrap <tenant-code> <village-name> <admin-username> <admin-password>")
	}
	code, name, username, password := args[0], args[1], args[2], args[3]

	database, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tenant, err := identity.NewTenant(code, name)
	if err != nil {
		return err
	}
	admin, err := identity.NewStaff(tenant.ID, username, password, identity.RoleAdmin)
	if err != nil {
		return err
	}
	admin.DisplayName = "Administrator"
	settings := letter.NewDefaultSettings(tenant.ID, name, cfg.Letter.VerificationBaseURL)

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := persistence.NewGormTenantRepository(tx).ExistsByCode(ctx, tenant.Code)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("tenant %s already exists", tenant.Code)
		}
		if err := persistence.NewGormTenantRepository(tx).Save(ctx, tenant); err != nil {
			return err
		}
		if err := persistence.NewGormStaffRepository(tx).Save(ctx, admin); err != nil {
			return err
		}
		return persistence.NewGormSettingsRepository(tx).Save(ctx, settings)
	})
	if err != nil {
		return fmt.Errorf("bootstrap tenant: %w", err)
	}

	log.Info("Tenant bootstrapped",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code),
		zap.String("admin", admin.Username),
	)
	return nil
}

func printUsage() {
	fmt.Println(`Desa database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version after a failed run
  drop -confirm         Drop all database objects
  create <name> [desc]  Create a new migration file pair under -path
  list                  List available migrations
  bootstrap <code> <village-name> <admin-username> <admin-password>
                        Create a village, its first admin and default letter settings

Flags:
  -path string          Read migrations from a directory instead of the embedded set
  -log-level string     Log level: debug, info, warn, error (default: info)

Database settings come from config.toml or DESA_DATABASE_* environment variables.`)
}
