package db

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Global (user_id NULL) lookup rows every diary starts with
var defaultCaseTypes = []string{
	"Civil Suit",
	"Criminal Case",
	"Bail Application",
	"Writ Petition",
	"Family / Matrimonial",
	"Motor Accident Claim",
	"Cheque Bounce (NI Act 138)",
	"Consumer Complaint",
	"Arbitration",
	"Revenue",
}

var defaultCourts = []string{
	"Supreme Court of India",
	"High Court",
	"District and Sessions Court",
	"Civil Court (Senior Division)",
	"Civil Court (Junior Division)",
	"Judicial Magistrate First Class",
	"Family Court",
	"Consumer Disputes Redressal Commission",
	"Motor Accident Claims Tribunal",
}

var defaultDistricts = []struct {
	Name  string
	State string
}{
	{"Pune", "Maharashtra"},
	{"Mumbai City", "Maharashtra"},
	{"Nagpur", "Maharashtra"},
	{"Bengaluru Urban", "Karnataka"},
	{"Chennai", "Tamil Nadu"},
	{"New Delhi", "Delhi"},
	{"Lucknow", "Uttar Pradesh"},
	{"Jaipur", "Rajasthan"},
}

var defaultPoliceStations = []struct {
	Name     string
	District string
	State    string
}{
	{"Shivajinagar", "Pune", "Maharashtra"},
	{"Kothrud", "Pune", "Maharashtra"},
	{"Colaba", "Mumbai City", "Maharashtra"},
	{"Sitabuldi", "Nagpur", "Maharashtra"},
	{"Cubbon Park", "Bengaluru Urban", "Karnataka"},
	{"Connaught Place", "New Delhi", "Delhi"},
	{"Hazratganj", "Lucknow", "Uttar Pradesh"},
}

// SeedDefaults inserts the global lookup rows. Rows that already exist as
// global are left alone, so seeding an initialized store is a no-op.
func SeedDefaults(ctx context.Context, tx *gorm.DB) error {
	tx = tx.WithContext(ctx)
	var inserted int64

	for _, name := range defaultCaseTypes {
		n, err := seedNamed(tx, "CaseTypes", name)
		if err != nil {
			return err
		}
		inserted += n
	}

	for _, name := range defaultCourts {
		n, err := seedNamed(tx, "Courts", name)
		if err != nil {
			return err
		}
		inserted += n
	}

	for _, d := range defaultDistricts {
		res := tx.Exec(`
			INSERT INTO Districts (name, state)
			SELECT ?, ?
			WHERE NOT EXISTS (
				SELECT 1 FROM Districts WHERE name = ? AND state = ? AND user_id IS NULL
			)`, d.Name, d.State, d.Name, d.State)
		if res.Error != nil {
			return fmt.Errorf("failed to seed district %s: %w", d.Name, res.Error)
		}
		inserted += res.RowsAffected
	}

	for _, ps := range defaultPoliceStations {
		res := tx.Exec(`
			INSERT INTO PoliceStations (name, district_id)
			SELECT ?, (SELECT id FROM Districts WHERE name = ? AND state = ? AND user_id IS NULL)
			WHERE NOT EXISTS (
				SELECT 1 FROM PoliceStations WHERE name = ? AND user_id IS NULL
			)`, ps.Name, ps.District, ps.State, ps.Name)
		if res.Error != nil {
			return fmt.Errorf("failed to seed police station %s: %w", ps.Name, res.Error)
		}
		inserted += res.RowsAffected
	}

	if inserted > 0 {
		log.Printf("[SEED] Inserted %d global lookup rows", inserted)
	} else {
		log.Println("[SEED] Global lookups already present, skipping seed")
	}
	return nil
}

// table is one of our own constant names, never user input
func seedNamed(tx *gorm.DB, table, name string) (int64, error) {
	res := tx.Exec(fmt.Sprintf(`
		INSERT INTO %s (name)
		SELECT ?
		WHERE NOT EXISTS (SELECT 1 FROM %s WHERE name = ? AND user_id IS NULL)`, table, table),
		name, name)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed %s %q: %w", table, name, res.Error)
	}
	return res.RowsAffected, nil
}
