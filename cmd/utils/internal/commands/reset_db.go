package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"

	"github.com/appetiteclub/comandas/internal/mongo"
)

// ResetDB drops the comandas database, seed tracking included.
func ResetDB(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Infof("DANGER: this drops the %s database and cannot be undone",
		config.GetStringOrDef("db.mongo.name", mongo.DefaultDatabase))

	baseRepo := mongo.NewBaseRepo(config, logger)
	if err := baseRepo.Start(ctx); err != nil {
		return err
	}
	defer baseRepo.Stop(context.Background())

	db := baseRepo.GetDatabase()
	if err := db.Drop(ctx); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}

	logger.Info("Database dropped", "database", db.Name())
	return nil
}
