// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/wms-ledger/internal/adapters/db"
	"github.com/ammerola/wms-ledger/internal/core/capacity"
	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/core/services"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
	"github.com/ammerola/wms-ledger/internal/pkg/logger"
)

const demoDocument = "DEMO-0001"

// seedNamespace derives stable IDs so reruns update rows instead of duplicating them
var seedNamespace = uuid.MustParse("6f1f4a52-9a4e-4c1b-8d0e-3f6f1c2b7a10")

func seedID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+name))
}

var seedUsers = []string{"Seed Operator", "Dana Operator", "Night Shift"}

func main() {
	var (
		layoutFile  = flag.String("layout", "", "Excel workbook describing shelf types and racks (default: built-in layout)")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun      = flag.Bool("dry-run", false, "Print the layout without modifying the database")
		demo        = flag.Bool("demo-load", true, "Receive a demo load onto the seeded shelves")
		migrateDown = flag.Bool("migrate-down", false, "Roll back the last migration and exit")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text").Logger

	layout := defaultLayout()
	if *layoutFile != "" {
		var err error
		if layout, err = loadLayout(*layoutFile); err != nil {
			slogger.Error("failed to load layout", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if *dryRun {
		printLayout(layout)
		fmt.Println("\n[DRY RUN] No changes were made to the database")
		return
	}

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		ApplicationName:    cfg.App.Name + "-seeder",
		MaxConnections:     4,
		MinConnections:     1,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		LockTimeout:        cfg.Database.LockTimeout,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	status, err := migrateSchema(ctx, cfg, *migrateDown, slogger)
	if err != nil {
		slogger.Error("failed to migrate schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("schema ready",
		slog.Uint64("version", uint64(status.CurrentVersion)),
		slog.Int("applied", len(status.Applied)))
	if *migrateDown {
		return
	}

	var shelves map[string]uuid.UUID
	err = database.Transaction(ctx, func(tx pgx.Tx) error {
		if err := seedUserRows(ctx, tx); err != nil {
			return err
		}
		shelves, err = seedLayout(ctx, tx, layout)
		return err
	})
	if err != nil {
		slogger.Error("failed to seed warehouse", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("warehouse seeded",
		slog.Int("users", len(seedUsers)),
		slog.Int("shelf_types", len(layout.ShelfTypes)),
		slog.Int("racks", len(layout.Racks)),
		slog.Int("shelves", len(shelves)))

	if *demo {
		if err := seedDemoLoad(ctx, database, layout, shelves, slogger); err != nil {
			slogger.Error("failed to receive demo load", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	printLayout(layout)
}

// migrateSchema applies pending migrations, or rolls back the last one when
// down is set, and reports the resulting schema state.
func migrateSchema(ctx context.Context, cfg *config.Config, down bool, log *slog.Logger) (*db.MigrationStatus, error) {
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}
	if !down {
		if err := db.RunMigrationsWithRetry(ctx, migrationConfig, log, 3); err != nil {
			return nil, err
		}
	}

	migrator, err := db.NewMigrator(migrationConfig, log)
	if err != nil {
		return nil, err
	}
	defer migrator.Close()

	if down {
		if err := migrator.Down(ctx); err != nil {
			return nil, err
		}
	}
	return migrator.Status(ctx)
}

func seedUserRows(ctx context.Context, tx pgx.Tx) error {
	for _, name := range seedUsers {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, name) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			seedID("user", name), name)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", name, err)
		}
	}
	return nil
}

// seedLayout upserts shelf types, racks and shelves and returns shelf IDs
// keyed by "rack/position".
func seedLayout(ctx context.Context, tx pgx.Tx, layout *Layout) (map[string]uuid.UUID, error) {
	typeIDs := make(map[string]uuid.UUID, len(layout.ShelfTypes))
	for _, st := range layout.ShelfTypes {
		var id uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO shelf_types (id, name, max_weight, stackable, width, height, depth)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (name) DO UPDATE SET
			     max_weight = EXCLUDED.max_weight, stackable = EXCLUDED.stackable,
			     width = EXCLUDED.width, height = EXCLUDED.height, depth = EXCLUDED.depth
			 RETURNING id`,
			seedID("shelf_type", st.Name), st.Name, st.MaxWeight, st.Stackable, st.Width, st.Height, st.Depth,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to seed shelf type %s: %w", st.Name, err)
		}
		typeIDs[st.Name] = id
	}

	shelves := make(map[string]uuid.UUID)
	for _, rack := range layout.Racks {
		var rackID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO racks (id, name, shelf_type_id) VALUES ($1, $2, $3)
			 ON CONFLICT (name) DO UPDATE SET shelf_type_id = EXCLUDED.shelf_type_id
			 RETURNING id`,
			seedID("rack", rack.Name), rack.Name, typeIDs[rack.ShelfType],
		).Scan(&rackID)
		if err != nil {
			return nil, fmt.Errorf("failed to seed rack %s: %w", rack.Name, err)
		}

		for _, pos := range rack.Positions() {
			var shelfID uuid.UUID
			err := tx.QueryRow(ctx,
				`INSERT INTO shelves (id, rack_id, position) VALUES ($1, $2, $3)
				 ON CONFLICT (rack_id, position) DO UPDATE SET position = EXCLUDED.position
				 RETURNING id`,
				seedID("shelf", rack.Name+"/"+pos), rackID, pos,
			).Scan(&shelfID)
			if err != nil {
				return nil, fmt.Errorf("failed to seed shelf %s/%s: %w", rack.Name, pos, err)
			}
			shelves[rack.Name+"/"+pos] = shelfID
		}
	}
	return shelves, nil
}

// seedDemoLoad receives one load through the intake service so the demo data
// carries the same invariants as real traffic. It is skipped when present.
func seedDemoLoad(ctx context.Context, database *db.Database, layout *Layout, shelves map[string]uuid.UUID, log *slog.Logger) error {
	var exists bool
	if err := database.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loads WHERE document_number = $1)`, demoDocument,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up demo load: %w", err)
	}
	if exists {
		log.Info("demo load already present", slog.String("document_number", demoDocument))
		return nil
	}

	req := demoLoadRequest(layout, shelves)
	if len(req.Packages) == 0 {
		log.Warn("layout has no shelves for the demo load")
		return nil
	}

	intake := services.NewLoadIntake(services.IntakeDeps{
		Tx:         database,
		Loads:      db.NewLoadRepository(database, log),
		Packages:   db.NewPackageRepository(database, log),
		Placements: db.NewPlacementStore(database, log),
		Shelves:    db.NewShelfRepository(database, log),
		Checker:    capacity.NewChecker(),
	}, services.IntakeConfig{ValidateCapacity: true}, log)

	receipt, err := intake.ReceiveLoad(ctx, req)
	if err != nil {
		return err
	}
	log.Info("demo load received",
		slog.String("load_id", receipt.LoadID.String()),
		slog.Int("packages", len(receipt.PackageIDs)))
	return nil
}

func demoLoadRequest(layout *Layout, shelves map[string]uuid.UUID) domain.LoadRequest {
	req := domain.LoadRequest{
		SupplierID:     seedID("supplier", "demo"),
		DocumentNumber: demoDocument,
		DeclaredValue:  decimal.RequireFromString("1250.00"),
		ActingUserID:   seedID("user", seedUsers[0]),
	}

	products := []struct {
		name     string
		quantity int
		weight   string
		kind     domain.PackageType
	}{
		{"widget", 10, "0.5", domain.PackageTypeBox},
		{"gadget", 24, "1.2", domain.PackageTypeCarton},
		{"sprocket", 40, "0.1", domain.PackageTypePack},
	}

	// one package per product on the first shelves of the first rack
	if len(layout.Racks) == 0 {
		return req
	}
	rack := layout.Racks[0]
	for i, p := range products {
		positions := rack.Positions()
		if i >= len(positions) {
			break
		}
		shelfID, ok := shelves[rack.Name+"/"+positions[i]]
		if !ok {
			continue
		}
		req.Packages = append(req.Packages, domain.PackageSpec{
			ProductID:     seedID("product", p.name),
			Quantity:      p.quantity,
			Weight:        decimal.RequireFromString(p.weight),
			Stackable:     true,
			PackQuantity:  1,
			Type:          p.kind,
			TargetShelfID: shelfID,
		})
	}
	return req
}

func printLayout(layout *Layout) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("WAREHOUSE LAYOUT")
	fmt.Println(strings.Repeat("=", 60))
	for _, st := range layout.ShelfTypes {
		fmt.Printf("shelf type %-16s max_weight=%-8s stackable=%t\n", st.Name, st.MaxWeight, st.Stackable)
	}
	for _, r := range layout.Racks {
		fmt.Printf("rack %-4s %-16s shelves %s\n", r.Name, r.ShelfType, strings.Join(r.Positions(), ","))
	}
}
