package main

import (
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"caseiq/models"
)

var db *gorm.DB

// allModels is the migration set; sub-resource tables carry a CASCADE FK to
// clients so deleting a client destroys its rows.
var allModels = []any{
	&models.User{},
	&models.ResetToken{},
	&models.Client{},
	&models.ClientEmail{},
	&models.ClientPhoneNumber{},
	&models.ClientUsername{},
	&models.ClientAddress{},
	&models.ClientRelativeAssociate{},
	&models.ClientSocialAccount{},
	&models.ClientGovRecord{},
	&models.ClientVoterRecord{},
	&models.ClientDVMRecord{},
	&models.ClientDonorRecord{},
	&models.ClientBusinessInfo{},
	&models.ClientBrokerScreenRecord{},
	&models.ClientResidentialHeatmapImage{},
	&models.ClientFrontHouseRecord{},
	&models.ClientInsideHouseRecord{},
	&models.ClientFacialRecognitionURL{},
	&models.ClientFacialRecognitionSite{},
	&models.ClientGeneratedDocument{},
}

func initDB() {
	if cfg.DBDSN == "" {
		logger.Fatal("DB_DSN is not set; a Postgres DSN is required")
	}
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect postgres database", zap.Error(err))
	}
	migrateAndSeed()
}

// migrateAndSeed is shared with the test setup, which opens its own DB first.
func migrateAndSeed() {
	// Migrate models individually so a failure on one doesn't block others
	for _, m := range allModels {
		if err := db.AutoMigrate(m); err != nil {
			logger.Warn("migration warning", zap.Error(err))
		}
	}
	seedSuperAdmin()
}

// seedSuperAdmin provisions the undeletable super admin account once.
func seedSuperAdmin() {
	var count int64
	db.Model(&models.User{}).Where("email = ?", cfg.SuperAdminEmail).Count(&count)
	if count > 0 {
		return
	}
	hash, err := hashPassword(cfg.SuperAdminPassword)
	if err != nil {
		logger.Error("failed to hash super admin password", zap.Error(err))
		return
	}
	admin := models.User{
		FullName:     "Super Admin",
		Email:        cfg.SuperAdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		logger.Error("failed to seed super admin", zap.Error(err))
		return
	}
	logger.Info("seeded super admin", zap.String("email", cfg.SuperAdminEmail))
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
