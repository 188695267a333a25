// Package migration applies the schema at startup.
package migration

import (
	authdomain "github.com/qline-io/qline/internal/auth/domain"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
	journaldomain "github.com/qline-io/qline/internal/journal/domain"
	organizationdomain "github.com/qline-io/qline/internal/organization/domain"
	queuedomain "github.com/qline-io/qline/internal/queue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Run auto-migrates every persisted model. Ordering follows foreign-key
// direction so fresh databases come up without constraint errors.
func Run(db *gorm.DB, log *zap.Logger) error {
	models := []any{
		&authdomain.User{},
		&authdomain.PasswordResetToken{},
		&organizationdomain.Organization{},
		&queuedomain.Queue{},
		&queuedomain.Administrator{},
		&entrydomain.Entry{},
		&journaldomain.Record{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}

	// NULL organization_id values never collide in ux_queues_org_name, so
	// queues outside any organization need their own name uniqueness.
	// Partial index syntax is shared by postgres and sqlite.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_queues_name_no_org ON queues(name) WHERE organization_id IS NULL",
	).Error; err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}

	log.Info("migration complete", zap.Int("models", len(models)))
	return nil
}
