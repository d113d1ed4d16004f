package model

import (
	"fmt"

	"gorm.io/gorm"
)

// NoOverlapConstraint backs the time_slot non-overlap invariant on PostgreSQL.
const NoOverlapConstraint = "reservations_no_overlap"

// AutoMigrate migrates all reservation core entities.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Resource{},
		&Reservation{},
		&ReservationEvent{},
	); err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		return migratePostgres(db)
	}
	return nil
}

func migratePostgres(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}

	var exists bool
	if err := db.Raw(
		"SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)", NoOverlapConstraint,
	).Scan(&exists).Error; err != nil {
		return fmt.Errorf("lookup %s: %w", NoOverlapConstraint, err)
	}
	if exists {
		return nil
	}

	// Only time_slot rows carry an interval; fixed_session capacity is enforced under the row lock.
	stmt := fmt.Sprintf(`ALTER TABLE reservations ADD CONSTRAINT %s EXCLUDE USING gist (
		resource_id WITH =,
		tstzrange(starts_at, ends_at, '[)') WITH &&
	) WHERE (status IN ('pending', 'confirmed') AND starts_at IS NOT NULL)`, NoOverlapConstraint)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("add %s: %w", NoOverlapConstraint, err)
	}
	return nil
}
