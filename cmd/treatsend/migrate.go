package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tna-cash/treatsend/pkg/config"
	"github.com/tna-cash/treatsend/pkg/storage"
)

// migrateDataCommand moves batch history between file storage and PostgreSQL.
// Direction is inferred from the configured storage type: when postgres is
// configured the file workspace is the source, otherwise postgres is exported
// back to files.
func migrateDataCommand() {
	fmt.Println("🔄 TreatSend Data Migration Tool")
	fmt.Println("================================")
	fmt.Println()

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	var sourceType, destType string
	var sourceConfig, destConfig storage.Config

	if cfg.Storage.Type == "postgres" {
		sourceType = "file"
		destType = "postgres"

		sourceConfig = storage.Config{
			Type:     "file",
			FilePath: cfg.WorkspacePath(),
		}
		destConfig = storage.Config{
			Type:        "postgres",
			DatabaseURL: cfg.Storage.DatabaseURL,
		}
	} else {
		sourceType = "postgres"
		destType = "file"

		sourceConfig = storage.Config{
			Type:        "postgres",
			DatabaseURL: cfg.Storage.DatabaseURL,
		}
		destConfig = storage.Config{
			Type:     "file",
			FilePath: cfg.WorkspacePath(),
		}
	}

	fmt.Printf("📁 Source: %s\n", sourceType)
	fmt.Printf("📁 Destination: %s\n", destType)
	fmt.Println()

	fmt.Print("⚠️  This will migrate all batch history. Continue? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" {
		fmt.Println("❌ Migration cancelled")
		return
	}

	fmt.Printf("🔌 Connecting to source (%s)...\n", sourceType)
	sourceStore, err := storage.NewStorage(sourceConfig)
	if err != nil {
		fmt.Printf("❌ Error creating source storage: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := sourceStore.Connect(ctx); err != nil {
		fmt.Printf("❌ Error connecting to source: %v\n", err)
		os.Exit(1)
	}
	defer sourceStore.Close()

	fmt.Printf("🔌 Connecting to destination (%s)...\n", destType)
	destStore, err := storage.NewStorage(destConfig)
	if err != nil {
		fmt.Printf("❌ Error creating destination storage: %v\n", err)
		os.Exit(1)
	}

	if err := destStore.Connect(ctx); err != nil {
		fmt.Printf("❌ Error connecting to destination: %v\n", err)
		os.Exit(1)
	}
	defer destStore.Close()

	fmt.Println()
	fmt.Println("📦 Migrating batches...")
	if err := migrateBatches(ctx, sourceStore, destStore); err != nil {
		fmt.Printf("❌ Error migrating batches: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("✅ Migration completed successfully!")
	fmt.Println()
	fmt.Println("⚠️  Remember to:")
	fmt.Printf("   1. Update storage.type to '%s' in the config\n", destType)
	fmt.Println("   2. Restart treatsend for changes to take effect")
}

func migrateBatches(ctx context.Context, source, dest storage.Storage) error {
	infos, err := source.Batches().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}

	fmt.Printf("   Found %d batches\n", len(infos))

	for i, info := range infos {
		fmt.Printf("   [%d/%d] Migrating batch: %s\n", i+1, len(infos), info.ID)

		record, err := source.Batches().Get(ctx, info.ID)
		if err != nil {
			return fmt.Errorf("failed to get batch %s: %w", info.ID, err)
		}
		if err := dest.Batches().Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save batch %s: %w", info.ID, err)
		}
	}
	return nil
}
