package auth

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the administrator account, or promotes an existing
// account with the same email. It does nothing when email or password is
// empty.
func EnsureAdmin(ctx context.Context, repo *Repo, username, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil
	}

	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if existing != nil {
		if existing.Role == RoleAdmin {
			return nil
		}
		if err := repo.SetRole(ctx, existing.ID, RoleAdmin); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		log.Printf("[auth] promoted %s to admin", existing.Username)
		return nil
	}

	if strings.TrimSpace(username) == "" {
		username = "admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ensure admin: hash: %w", err)
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	log.Printf("[auth] created admin account %s", u.Username)
	return nil
}
