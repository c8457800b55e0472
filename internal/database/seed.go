package database

import (
	"errors"
	"fmt"

	"github.com/Entelsac/ENTEL-SAC/internal/config"
	"github.com/Entelsac/ENTEL-SAC/internal/models"
	"github.com/Entelsac/ENTEL-SAC/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bootstrapCredits is the balance granted to the seeded superadmins. They
// are exempt from debiting anyway; the number only keeps dashboards sane.
const bootstrapCredits = 999999

// EnsureBootstrapUsers creates the protected superadmin accounts when they
// are missing. The routine is idempotent and safe to run on every boot; no
// other startup step depends on its ordering beyond Migrate having run.
func EnsureBootstrapUsers(db *gorm.DB, cfg *config.Config) error {
	seeds := []struct {
		username string
		password string
	}{
		{"root", cfg.RootPassword},
		{"airbone", cfg.AirbonePassword},
	}

	for _, seed := range seeds {
		if seed.password == "" {
			continue
		}

		var existing models.User
		err := db.Where("username = ?", seed.username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check bootstrap user %s: %w", seed.username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash bootstrap password: %w", err)
		}

		user := models.User{
			Username:     seed.username,
			PasswordHash: string(hash),
			Role:         models.RoleSuperadmin,
			Credits:      bootstrapCredits,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create bootstrap user %s: %w", seed.username, err)
		}

		logger.Get().Info().Str("username", seed.username).Msg("bootstrap superadmin created")
	}

	return nil
}
