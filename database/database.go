package database

import (
	"anwaar/config"
	"anwaar/models"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	// Build the PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the access-code collision retry matches.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// Run database migrations
	RunMigrations(db)

	seedDefaultAdmin(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations. Exported so handler tests can
// migrate an in-memory SQLite database with the same schema.
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.AccessKey{},
		&models.Admin{},
		&models.StudentProgress{},
		&models.SurahAccess{},
		&models.LoginTracking{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}

// seedDefaultAdmin creates the bootstrap admin account when the admins table
// is empty and ADMIN_USERNAME/ADMIN_PASSWORD are configured.
func seedDefaultAdmin(db *gorm.DB) {
	if config.AppConfig.AdminUsername == "" || config.AppConfig.AdminPassword == "" {
		return
	}

	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(config.AppConfig.AdminPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing bootstrap admin password: %v", err)
		return
	}

	admin := models.Admin{
		Username: config.AppConfig.AdminUsername,
		Password: string(hashed),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Error seeding bootstrap admin: %v", err)
		return
	}
	log.Printf("Seeded bootstrap admin account: %s", admin.Username)
}
