package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jacantwell/kairos-backend/internal/shared/auth"
	"github.com/jacantwell/kairos-backend/internal/shared/config"
)

// Утилита для отладки JWT: генерация и проверка токенов с тем же
// секретом, что используют сервисы
func main() {
	mode := flag.String("mode", "verify", "generate|verify")
	token := flag.String("token", "", "JWT token to verify")
	userID := flag.String("user", "", "user ID for generated token")
	email := flag.String("email", "dev@example.com", "email for generated token")
	role := flag.String("role", "TRAVELER", "role for generated token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to load config:", err)
		os.Exit(1)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	switch *mode {
	case "generate":
		if *userID == "" {
			fmt.Fprintln(os.Stderr, "Error: -user flag is required for generate")
			os.Exit(1)
		}
		t, err := jwtService.GenerateToken(*userID, *email, *role)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: failed to generate token:", err)
			os.Exit(1)
		}
		fmt.Println(t)

	case "verify":
		if *token == "" {
			fmt.Fprintln(os.Stderr, "Error: -token flag is required for verify")
			os.Exit(1)
		}
		claims, err := jwtService.ValidateToken(*token)
		if err != nil {
			fmt.Printf("❌ Token validation FAILED: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Token is VALID!\n\n")
		fmt.Printf("  User ID: %s\n", claims.UserID)
		fmt.Printf("  Email:   %s\n", claims.Email)
		fmt.Printf("  Role:    %s\n", claims.Role)
		fmt.Printf("  Issuer:  %s\n", claims.Issuer)
		fmt.Printf("  Expires At: %s\n", claims.ExpiresAt.Time)

	default:
		fmt.Fprintln(os.Stderr, "Error: -mode must be generate or verify")
		os.Exit(1)
	}
}
