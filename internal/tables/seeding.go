package tables

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

const tableSeedApplication = "comandas-tables"

type seedDocument struct {
	Restaurants []restaurantSeed `json:"restaurants"`
}

type restaurantSeed struct {
	RestaurantID string      `json:"restaurantId"`
	Tables       []tableSeed `json:"tables"`
}

type tableSeed struct {
	Number string   `json:"number"`
	Zone   string   `json:"zone"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

func loadTableSeeds(seedFS fs.FS) ([]restaurantSeed, error) {
	seedBytes, err := fs.ReadFile(seedFS, "seed.json")
	if err != nil {
		return nil, fmt.Errorf("read seed.json: %w", err)
	}

	if len(seedBytes) == 0 {
		return nil, errors.New("table seed file is empty")
	}

	var doc seedDocument
	if err := json.Unmarshal(seedBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode table seed file: %w", err)
	}

	if len(doc.Restaurants) == 0 {
		return nil, errors.New("table seed file does not contain restaurants")
	}

	return doc.Restaurants, nil
}

// ApplyTableSeeds ensures the floor plan of every seeded restaurant exists.
// Applied seeds are tracked in MongoDB so reruns skip them.
func ApplyTableSeeds(ctx context.Context, repo TableRepo, db *mongo.Database, seedFS fs.FS, logger apt.Logger) error {
	if repo == nil {
		return errors.New("table repository is required")
	}
	if db == nil {
		return errors.New("table seeding requires a database")
	}

	restaurants, err := loadTableSeeds(seedFS)
	if err != nil {
		return err
	}

	defs := buildTableSeedDefinitions(restaurants, repo, logger)
	if len(defs) == 0 {
		logger.Info("No table seeds to apply")
		return nil
	}

	logger.Info("Applying table seeds", "count", len(defs))
	if err := seed.Apply(ctx, seed.NewMongoTracker(db), defs, tableSeedApplication); err != nil {
		return err
	}
	logger.Info("Table seeds applied")
	return nil
}

func buildTableSeedDefinitions(restaurants []restaurantSeed, repo TableRepo, logger apt.Logger) []seed.Seed {
	var defs []seed.Seed

	for _, restaurant := range restaurants {
		restaurantID := strings.TrimSpace(restaurant.RestaurantID)
		if restaurantID == "" {
			logger.Info("Skipping seed restaurant without id")
			continue
		}

		for _, s := range restaurant.Tables {
			seedData := s
			if strings.TrimSpace(seedData.Number) == "" {
				logger.Info("Skipping seed table with empty number", "restaurant_id", restaurantID)
				continue
			}

			defs = append(defs, seed.Seed{
				ID:          fmt.Sprintf("2026-10-01_table_%s_%s", seedIdentifier(restaurantID), seedIdentifier(seedData.Number)),
				Description: fmt.Sprintf("Ensure table %s exists for %s", seedData.Number, restaurantID),
				Run: func(ctx context.Context) error {
					return seedData.ensureTable(ctx, repo, restaurantID, logger)
				},
			})
		}
	}

	return defs
}

func seedIdentifier(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}

	var builder strings.Builder
	for _, r := range value {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			builder.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '/':
			builder.WriteRune('_')
		}
	}

	if builder.Len() == 0 {
		return "seed"
	}
	return builder.String()
}

func (s tableSeed) ensureTable(ctx context.Context, repo TableRepo, restaurantID string, logger apt.Logger) error {
	number := strings.TrimSpace(s.Number)

	existing, err := repo.GetByNumber(ctx, restaurantID, number)
	if err != nil {
		return fmt.Errorf("look up seed table %s: %w", number, err)
	}
	if existing != nil {
		logger.Debug("Seed table already exists", "restaurant_id", restaurantID, "number", number)
		return nil
	}

	table := NewTable()
	table.RestaurantID = restaurantID
	table.Number = number
	if s.Zone == ZoneOutdoor {
		table.Zone = ZoneOutdoor
	}
	if s.X != nil && s.Y != nil {
		table.LayoutPosition = &Position{X: *s.X, Y: *s.Y}
	}
	table.CreatedBy = "seed:bootstrap"
	table.UpdatedBy = "seed:bootstrap"
	table.BeforeCreate()

	if err := repo.Create(ctx, table); err != nil {
		return fmt.Errorf("create seed table %s: %w", number, err)
	}

	logger.Info("Seed table created", "restaurant_id", restaurantID, "number", number, "id", table.ID.String())
	return nil
}

// SeedingFunc returns a lifecycle OnStart function that applies table seeds
// in the background.
func SeedingFunc(seedCtx context.Context, repo TableRepo, db *mongo.Database, seedFS fs.FS, logger apt.Logger) func(ctx context.Context) error {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}

	return func(ctx context.Context) error {
		go func() {
			if err := ApplyTableSeeds(seedCtx, repo, db, seedFS, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("Table seeds failed: %v", err)
			}
		}()
		return nil
	}
}

// StopFunc returns a lifecycle OnStop function that cancels background
// seeding.
func StopFunc(cancelFunc context.CancelFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if cancelFunc != nil {
			cancelFunc()
		}
		return nil
	}
}
