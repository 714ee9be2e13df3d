// Command osd-authstub is a minimal stand-in for the remote authentication
// service. It answers POST /user/login with the contract the login flow
// expects: 200 with a userId body and a Bearer token header, 400 on bad
// credentials, and a JSON message on other rejections.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	userID       string
	passwordHash []byte
	authorities  []string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func main() {
	var (
		addr     = flag.String("addr", ":8080", "listen address")
		signKey  = flag.String("sign-key", "", "HS256 signing key; defaults to OSD_STUB_SIGN_KEY env or a dev key")
		tokenTTL = flag.Duration("token-ttl", time.Hour, "issued token lifetime")
	)
	flag.Parse()

	_ = godotenv.Load()

	if *signKey == "" {
		*signKey = os.Getenv("OSD_STUB_SIGN_KEY")
	}
	if *signKey == "" {
		*signKey = "osd-dev-signing-key"
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	accounts, err := seedAccounts()
	if err != nil {
		logger.Fatal("failed to seed accounts", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Post("/user/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "request body must be JSON with username and password",
			})
		}

		acct, ok := accounts[strings.ToLower(strings.TrimSpace(req.Username))]
		if !ok || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
			logger.Info("login rejected", zap.String("username", req.Username))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "invalid credentials",
			})
		}

		token, err := issueToken([]byte(*signKey), acct, *tokenTTL)
		if err != nil {
			logger.Error("token issuance failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "could not issue session token",
			})
		}

		logger.Info("login accepted",
			zap.String("username", req.Username),
			zap.String("user_id", acct.userID),
		)

		c.Set("Authorization", "Bearer "+token)
		return c.JSON(fiber.Map{"userId": acct.userID})
	})

	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		if err := app.Listen(*addr); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func issueToken(key []byte, acct account, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         acct.userID,
		"authorities": acct.authorities,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// seedAccounts builds the fixed demo directory. Passwords are hashed even
// here so the stub exercises the same verification path a real service would.
func seedAccounts() (map[string]account, error) {
	seeds := []struct {
		username    string
		password    string
		userID      string
		authorities []string
	}{
		{"guest1", "guestpass", "G-0001", []string{"ROLE_GUEST"}},
		{"employee1", "employeepass", "EMP-1001", []string{"ROLE_EMPLOYEE"}},
		{"bob", "secret123", "2021001234", []string{"ROLE_STUDENT"}},
		{"shadow", "shadowpass", "EMP-2002", []string{"ROLE_EMPLOYEE", "ROLE_ADMIN_SHADOW"}},
	}

	out := make(map[string]account, len(seeds))
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash for %s: %w", seed.username, err)
		}
		out[seed.username] = account{
			userID:       seed.userID,
			passwordHash: hash,
			authorities:  seed.authorities,
		}
	}
	return out, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
