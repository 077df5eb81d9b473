package main

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/campusvoice/issue-service/internal/config"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, cmd, err)
		}
	}
	if root.RunE == nil {
		t.Fatal("root command should serve by default")
	}
}

func TestOpenStorageMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}}
	store, err := openStorage(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close(context.Background())

	if store.Issues == nil || store.History == nil || store.Sessions == nil {
		t.Fatalf("memory storage should wire every repository: %+v", store)
	}
	for name, dep := range store.Dependencies() {
		if dep.Enabled() {
			t.Fatalf("%s should be disabled without configuration", name)
		}
	}
}

func TestOpenStorageRejectsUnconfiguredBackends(t *testing.T) {
	for _, driver := range []string{config.StoragePostgres, config.StorageRedis, config.StorageMongo} {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: driver}}
		if _, err := openStorage(context.Background(), cfg, zap.NewNop()); err == nil {
			t.Errorf("%s without connection settings should fail", driver)
		}
	}
}
