package database

import (
	"fmt"
	"log"

	config "github.com/studyspacehq/studyspace/configs"
	"github.com/studyspacehq/studyspace/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Library{},
		&models.User{},
		&models.Branch{},
		&models.Seat{},
		&models.Locker{},
		&models.Plan{},
		&models.AdditionalFee{},
		&models.Promotion{},
		&models.Subscription{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedOwner bootstraps the first library tenant and its owner account from
// the environment so a fresh deployment is usable.
func SeedOwner() {
	ownerEmail := config.Config("OWNER_EMAIL")
	ownerPassword := config.Config("OWNER_PASSWORD")
	librarySlug := config.Config("LIBRARY_SLUG")

	if ownerEmail == "" || librarySlug == "" {
		log.Println("Owner seed skipped: OWNER_EMAIL or LIBRARY_SLUG not set.")
		return
	}

	var library models.Library
	err := DB.Where("slug = ?", librarySlug).First(&library).Error
	if err == gorm.ErrRecordNotFound {
		library = models.Library{
			Name:         config.Config("LIBRARY_NAME"),
			Slug:         librarySlug,
			ContactEmail: ownerEmail,
		}
		if err := DB.Create(&library).Error; err != nil {
			log.Fatalf("🔥 Failed to seed library: %v", err)
			return
		}
	} else if err != nil {
		log.Fatalf("🔥 Failed to check for library: %v", err)
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("library_id = ? AND email = ?", library.ID, ownerEmail).
		Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for owner user: %v", err)
		return
	}
	if count > 0 {
		log.Println("Owner user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash owner password: %v", err)
		return
	}

	owner := models.User{
		LibraryID: library.ID,
		FullName:  config.Config("OWNER_FULL_NAME"),
		Email:     ownerEmail,
		Password:  string(hashedPassword),
		Role:      "owner",
	}
	if err := DB.Create(&owner).Error; err != nil {
		log.Fatalf("🔥 Failed to seed owner user: %v", err)
		return
	}

	log.Println("✅ Owner user seeded successfully")
}
