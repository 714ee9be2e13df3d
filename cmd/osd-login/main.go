// Command osd-login runs one login attempt against a remote authentication
// service from the terminal and reports the routed destination. It exists to
// exercise the flow end to end against a real or stubbed backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	osdlogin "github.com/RoCS2024/osdlogin"
	"github.com/RoCS2024/osdlogin/session"
)

type printNavigator struct{}

func (printNavigator) Navigate(dest osdlogin.Destination) {
	fmt.Printf("navigate: area=%s params=%v\n", dest.Area, dest.Params)
}

func main() {
	var (
		endpoint    = flag.String("endpoint", "", "login endpoint URL; defaults to OSD_LOGIN_ENDPOINT env")
		tokenHeader = flag.String("token-header", "", "response header carrying the session token")
		timeout     = flag.Duration("timeout", 0, "login request timeout")
		redisAddr   = flag.String("redis-addr", "", "redis address for session storage; if empty, a local file is used")
		sessionFile = flag.String("session-file", "", "session file path; defaults to ~/.osd-login/session.json")
		verifyKey   = flag.String("verify-key", "", "HS256 key for token verification; decode-only when empty")
		username    = flag.String("username", "", "username to submit")
		password    = flag.String("password", "", "password to submit")
		envFile     = flag.String("env-file", "", "optional .env file to load before reading env vars")
		logout      = flag.Bool("logout", false, "clear the stored session and exit")
		show        = flag.Bool("show", false, "print the stored session and exit")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *envFile, err)
			os.Exit(2)
		}
	} else {
		_ = godotenv.Load()
	}

	if *endpoint == "" {
		*endpoint = os.Getenv("OSD_LOGIN_ENDPOINT")
	}
	if *verifyKey == "" {
		*verifyKey = os.Getenv("OSD_LOGIN_VERIFY_KEY")
	}
	if *redisAddr == "" {
		*redisAddr = os.Getenv("OSD_LOGIN_REDIS_ADDR")
	}

	logger, err := buildLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := osdlogin.DefaultConfig()
	cfg.Client.Endpoint = *endpoint
	if *tokenHeader != "" {
		cfg.Client.TokenHeader = *tokenHeader
	}
	if *timeout > 0 {
		cfg.Client.Timeout = *timeout
	}
	if *verifyKey != "" {
		cfg.Token.VerifyKey = []byte(*verifyKey)
	}

	builder := osdlogin.New().
		WithConfig(cfg).
		WithNavigator(printNavigator{}).
		WithAuditSink(osdlogin.NewJSONWriterSink(os.Stderr)).
		WithLogger(logger)

	var redisClient redis.UniversalClient
	if *redisAddr != "" {
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{*redisAddr},
		})
		defer func() { _ = redisClient.Close() }()
		builder = builder.WithRedis(redisClient)
	} else {
		path := *sessionFile
		if path == "" {
			path, err = defaultSessionPath()
			if err != nil {
				fmt.Fprintf(os.Stderr, "cannot determine session file path: %v\n", err)
				os.Exit(1)
			}
		}
		store, err := session.NewFileStore(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open session file: %v\n", err)
			os.Exit(1)
		}
		builder = builder.WithSessionStore(store)
	}

	// Logout and show do not hit the network but Build still wants an
	// endpoint; a placeholder keeps the same wiring path.
	if cfg.Client.Endpoint == "" && (*logout || *show) {
		builder = builder.WithEndpoint("http://localhost/login")
	}

	flow, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer flow.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch {
	case *logout:
		if err := flow.Logout(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "logout failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("session cleared")
	case *show:
		sess, err := flow.Session(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "no session: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("authority=%s subject=%s identifier_slot=%s\n", sess.Authority, sess.SubjectID, sess.IdentifierKey)
	default:
		if *username == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "username and password are required")
			os.Exit(2)
		}
		outcome, err := flow.Submit(ctx, osdlogin.Credentials{
			Username: *username,
			Password: *password,
		})
		if err != nil {
			if msg := flow.LastMessage(); msg != nil {
				fmt.Fprintln(os.Stderr, msg.Text)
			}
			fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("logged in as %s (%s), routed to %s\n",
			outcome.SubjectID, outcome.Role, outcome.Destination.Area)
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func defaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".osd-login", "session.json"), nil
}
