package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/noah-isme/notify-admin-api/internal/models"
	"github.com/noah-isme/notify-admin-api/internal/service"
	"github.com/noah-isme/notify-admin-api/pkg/config"
)

// devtoken prints a bearer token signed with the configured JWT secret so the
// announcement endpoints can be exercised locally without the identity module.
func main() {
	var (
		userID      string
		username    string
		role        string
		permissions string
		ttl         time.Duration
	)

	flag.StringVar(&userID, "user", "local-admin", "User ID placed in the token")
	flag.StringVar(&username, "name", "local-admin", "Username placed in the token")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "Role (SUPERADMIN, ADMIN, OPERATOR)")
	flag.StringVar(&permissions, "perms", "notify:announcement:read,notify:announcement:add,notify:announcement:edit,notify:announcement:del", "Comma separated permissions")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if ttl <= 0 {
		ttl = cfg.JWT.Expiration
	}

	tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, Expiry: ttl})
	token, expiresAt, err := tokens.IssueToken(userID, username, models.UserRole(strings.ToUpper(role)), splitPermissions(permissions))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Printf("Bearer %s\n", token)
	fmt.Printf("expires: %s\n", expiresAt.Format(time.RFC3339))
}

func splitPermissions(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
