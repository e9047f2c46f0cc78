package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/credfacil/backoffice-api/internal/config"
	"github.com/credfacil/backoffice-api/internal/domain/entity"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Store entities
		&entity.Store{},
		&entity.StoreMembership{},

		// Catalog and stock entities
		&entity.Product{},
		&entity.StockRecord{},
		&entity.SerialUnit{},

		// Customer entities
		&entity.Customer{},
		&entity.CreditApplication{},

		// Sale and payment entities
		&entity.Sale{},
		&entity.SaleLine{},
		&entity.PaymentMethod{},
		&entity.Payment{},
		&entity.Installment{},

		// Cash register entities
		&entity.CashRegister{},
		&entity.CashMovement{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions,
// payment methods, admin user)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default permissions
	permissions := []entity.Permission{
		{Name: "view-dashboard", GuardName: "web"},
		{Name: "manage-products", GuardName: "web"},
		{Name: "manage-stock", GuardName: "web"},
		{Name: "manage-sales", GuardName: "web"},
		{Name: "manage-payments", GuardName: "web"},
		{Name: "confirm-installments", GuardName: "web"},
		{Name: "settle-payments", GuardName: "web"},
		{Name: "manage-registers", GuardName: "web"},
		{Name: "manage-customers", GuardName: "web"},
		{Name: "review-credit", GuardName: "web"},
		{Name: "manage-stores", GuardName: "web"},
		{Name: "manage-users", GuardName: "web"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	pickPermissions := func(names []string) []entity.Permission {
		var picked []entity.Permission
		for _, name := range names {
			for _, p := range allPermissions {
				if p.Name == name {
					picked = append(picked, p)
					break
				}
			}
		}
		return picked
	}

	ensureRole := func(name string, perms []entity.Permission) {
		var existing entity.Role
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			role := entity.Role{
				Name:        name,
				GuardName:   "web",
				Permissions: perms,
			}
			if err := db.Create(&role).Error; err != nil {
				log.Printf("Warning: failed to create %s role: %v", name, err)
			}
		}
	}

	ensureRole("super-admin", allPermissions)
	ensureRole("admin", allPermissions)
	ensureRole("manager", pickPermissions([]string{
		"view-dashboard",
		"manage-products",
		"manage-stock",
		"manage-sales",
		"manage-payments",
		"confirm-installments",
		"settle-payments",
		"manage-registers",
		"manage-customers",
		"review-credit",
	}))
	ensureRole("seller", pickPermissions([]string{
		"view-dashboard",
		"manage-sales",
		"manage-customers",
	}))
	ensureRole("user", pickPermissions([]string{
		"view-dashboard",
	}))

	seedPaymentMethods(db)

	// Create super admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			// Hash the password
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				// Get super-admin role
				var saRole entity.Role
				if err := db.Where("name = ?", "super-admin").First(&saRole).Error; err == nil {
					if adminName == "" {
						adminName = "Super Admin"
					}
					// Split admin name into first and last name
					firstName := adminName
					lastName := ""
					for i, c := range adminName {
						if c == ' ' {
							firstName = adminName[:i]
							lastName = adminName[i+1:]
							break
						}
					}
					adminUser := entity.User{
						ID:        uuid.New(),
						FirstName: firstName,
						LastName:  lastName,
						Email:     adminEmail,
						Password:  string(hashedPassword),
						Roles:     []entity.Role{saRole},
					}
					if err := db.Create(&adminUser).Error; err != nil {
						log.Printf("Warning: failed to create super admin user: %v", err)
					} else {
						log.Printf("Super admin user created: %s", adminEmail)
					}
				}
			}
		} else {
			log.Printf("Super admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}

// seedPaymentMethods creates the built-in payment methods. The financing
// method is the one that produces installment books; the notebook method
// stays off the register and off revenue reports.
func seedPaymentMethods(db *gorm.DB) {
	methods := []entity.PaymentMethod{
		{Name: "Dinheiro", CountsInRegister: true},
		{Name: "PIX", CountsInRegister: true},
		{Name: "Cartão de Débito", CountsInRegister: true},
		{Name: "Cartão de Crédito", CountsInRegister: true},
		{Name: "CredFácil", CountsInRegister: true, SupportsInstallments: true, Financing: true},
		{Name: "Caderneta", SupportsInstallments: true, OffBooks: true},
	}

	for i := range methods {
		var existing entity.PaymentMethod
		if err := db.Where("name = ?", methods[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&methods[i]).Error; err != nil {
				log.Printf("Warning: failed to create payment method %s: %v", methods[i].Name, err)
			}
		}
	}
}
