package database

import (
	"fmt"
	"log"

	"api/config"
	"api/models"
	"api/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// DefaultAdminEmail is the account created on first startup
var DefaultAdminEmail = "admin@gallery.local"

// DefaultPassword is used when DEFAULT_ADMIN_PASSWORD is not configured
var DefaultPassword = "admin"

// InitDB initializes the database connection, migrates the models and
// populates the database with a default admin account if needed
func InitDB() {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	Populate()
}

// Migrate runs the schema migration for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Competition{},
		&models.Submission{},
		&models.Exhibition{},
	)
}

// Populate creates the default admin account when the users table is empty
func Populate() {
	var countUser int64
	DB.Model(&models.User{}).Count(&countUser)
	if countUser > 0 {
		return
	}

	password := DefaultPassword
	if config.DefaultPassword != "" {
		password = config.DefaultPassword
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}

	admin := models.User{
		Email:    DefaultAdminEmail,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatal("failed to create default admin: ", err)
	}
	log.Println("Default admin account created:", DefaultAdminEmail)
}
