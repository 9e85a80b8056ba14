// Package seed fills a development database with a small Lahore-centered
// data set: a handful of accounts, one verified organization, and listings
// across every category. Inserts use fixed IDs with ON CONFLICT DO NOTHING
// so reruns are safe.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sharehub-app/sharehub-backend/pkg/config"
	"github.com/sharehub-app/sharehub-backend/pkg/db/models"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	"github.com/sharehub-app/sharehub-backend/pkg/logger"
	"github.com/sharehub-app/sharehub-backend/pkg/security"
)

// DemoPassword is the password every seeded account logs in with.
const DemoPassword = "sharehub-demo"

var (
	memberAyeshaID = uuid.MustParse("11111111-0000-0000-0000-000000000001")
	memberBilalID  = uuid.MustParse("11111111-0000-0000-0000-000000000002")
	ngoOwnerID     = uuid.MustParse("11111111-0000-0000-0000-000000000003")
	adminID        = uuid.MustParse("11111111-0000-0000-0000-000000000004")
	reliefNGOID    = uuid.MustParse("22222222-0000-0000-0000-000000000001")
)

// Run inserts the demo data set. Existing rows with the same IDs are
// left untouched.
func Run(ctx context.Context, db *gorm.DB, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	hash, err := security.HashPassword(DemoPassword, passwordCfg)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	if err := seedUsers(ctx, db, hash); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedNGO(ctx, db); err != nil {
		return fmt.Errorf("seed ngos: %w", err)
	}
	if err := seedItems(ctx, db); err != nil {
		return fmt.Errorf("seed items: %w", err)
	}

	logg.Info(ctx, "demo data seeded")
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB, hash string) error {
	city := "Lahore"
	users := []models.User{
		{
			ID:        memberAyeshaID,
			Email:     "ayesha@sharehub.pk",
			FirstName: "Ayesha",
			LastName:  "Khan",
			Role:      enums.UserRoleMember,
			City:      &city,
		},
		{
			ID:        memberBilalID,
			Email:     "bilal@sharehub.pk",
			FirstName: "Bilal",
			LastName:  "Ahmed",
			Role:      enums.UserRoleMember,
			City:      &city,
		},
		{
			ID:        ngoOwnerID,
			Email:     "relief@sharehub.pk",
			FirstName: "Sana",
			LastName:  "Malik",
			Role:      enums.UserRoleNGO,
			City:      &city,
		},
		{
			ID:        adminID,
			Email:     "admin@sharehub.pk",
			FirstName: "Site",
			LastName:  "Admin",
			Role:      enums.UserRoleAdmin,
		},
	}
	for i := range users {
		users[i].PasswordHash = hash
		users[i].IsActive = true
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&users).
		Error
}

func seedNGO(ctx context.Context, db *gorm.DB) error {
	city := "Lahore"
	mission := "Winter clothing and dry ration drives for shelters across Punjab."
	row := models.NGO{
		ID:            reliefNGOID,
		OwnerID:       ngoOwnerID,
		Name:          "Lahore Relief Works",
		Description:   "Community organization collecting donations for low-income neighborhoods.",
		Mission:       &mission,
		ContactEmail:  "contact@lahorerelief.pk",
		City:          &city,
		Latitude:      ptr(31.5497),
		Longitude:     ptr(74.3436),
		AcceptedKinds: []string{"clothes", "ration", "books"},
		Verified:      true,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).
		Error
}

func seedItems(ctx context.Context, db *gorm.DB) error {
	items := []models.Item{
		{
			ID:          uuid.MustParse("33333333-0000-0000-0000-000000000001"),
			OwnerID:     memberAyeshaID,
			Title:       "Winter jackets bundle",
			Description: "Five lightly used jackets, sizes M to XL. Pickup from Gulberg.",
			Category:    enums.ItemCategoryClothes,
			ListingType: enums.ListingTypeDonate,
			Condition:   enums.ItemConditionGood,
			Latitude:    ptr(31.5204),
			Longitude:   ptr(74.3587),
		},
		{
			ID:          uuid.MustParse("33333333-0000-0000-0000-000000000002"),
			OwnerID:     memberAyeshaID,
			Title:       "O-level past papers",
			Description: "Complete past paper set for sciences, 2018 to 2024.",
			Category:    enums.ItemCategoryBooks,
			ListingType: enums.ListingTypeSell,
			Condition:   enums.ItemConditionLikeNew,
			Price:       decimalPtr("1500"),
			Latitude:    ptr(31.5204),
			Longitude:   ptr(74.3587),
		},
		{
			ID:          uuid.MustParse("33333333-0000-0000-0000-000000000003"),
			OwnerID:     memberBilalID,
			Title:       "Rice and lentils pack",
			Description: "Sealed 10kg ration pack, bought extra during a sale.",
			Category:    enums.ItemCategoryRation,
			ListingType: enums.ListingTypeDonate,
			Condition:   enums.ItemConditionNew,
			Latitude:    ptr(31.4697),
			Longitude:   ptr(74.2728),
		},
		{
			ID:          uuid.MustParse("33333333-0000-0000-0000-000000000004"),
			OwnerID:     memberBilalID,
			Title:       "Electric kettle for swap",
			Description: "Working kettle, looking to swap for a toaster.",
			Category:    enums.ItemCategoryElectronics,
			ListingType: enums.ListingTypeExchange,
			Condition:   enums.ItemConditionFair,
			Latitude:    ptr(31.4697),
			Longitude:   ptr(74.2728),
		},
		{
			ID:          uuid.MustParse("33333333-0000-0000-0000-000000000005"),
			OwnerID:     memberBilalID,
			Title:       "Study desk",
			Description: "Solid wood desk with one drawer, minor scratches.",
			Category:    enums.ItemCategoryFurniture,
			ListingType: enums.ListingTypeSell,
			Condition:   enums.ItemConditionGood,
			Price:       decimalPtr("4000"),
		},
	}
	for i := range items {
		items[i].Status = enums.ItemStatusActive
		items[i].Images = []string{}
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&items).
		Error
}

func ptr(v float64) *float64 { return &v }

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
