package db

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"gorm.io/gorm"
)

type table struct {
	name  string
	model interface{}
}

// tables lists every model in dependency order: parents before children.
func tables() []table {
	return []table{
		{"users", &models.User{}},
		{"friendships", &models.Friendship{}},
		{"workouts", &models.Workout{}},
		{"likes", &models.Like{}},
		{"comments", &models.Comment{}},
	}
}

// TableNames returns the names accepted by Clear.
func TableNames() []string {
	var names []string
	for _, t := range tables() {
		names = append(names, t.name)
	}
	return names
}

func Migrate(db *gorm.DB, log *slog.Logger) error {
	log.Info("starting database migrations")
	for _, t := range tables() {
		if err := db.AutoMigrate(t.model); err != nil {
			return fmt.Errorf("migrating %s: %w", t.name, err)
		}
		log.Info("table migrated", "table", t.name)
	}
	return nil
}

// Clear drops the named tables, or every table when names is empty.
// Children are dropped before parents.
func Clear(db *gorm.DB, log *slog.Logger, names []string) error {
	all := tables()
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	selected := make([]table, 0, len(all))
	for _, t := range all {
		if len(wanted) == 0 || wanted[t.name] {
			selected = append(selected, t)
			delete(wanted, t.name)
		}
	}
	for name := range wanted {
		return fmt.Errorf("unknown table %q (known: %s)", name, strings.Join(TableNames(), ", "))
	}

	for i := len(selected) - 1; i >= 0; i-- {
		t := selected[i]
		if err := db.Migrator().DropTable(t.model); err != nil {
			log.Warn("dropping table failed", "table", t.name, "err", err)
			continue
		}
		log.Info("table dropped", "table", t.name)
	}
	return nil
}
