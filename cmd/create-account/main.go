// Command create-account provisions a credentials-mode account, typically a
// staff member, directly in MongoDB.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
	"github.com/spabook/portal/internal/infrastructure/db/mongo"
	"github.com/spabook/portal/internal/pkg/config"
	"github.com/spabook/portal/pkg/logger"
)

const minPasswordLength = 6

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx := context.Background()

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "create-account"})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	accounts := mongo.NewAccountRepository(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure account indexes")
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Create SpaBook Account ===")

	email := strings.ToLower(prompt(reader, "Email: "))
	first := prompt(reader, "First name: ")
	last := prompt(reader, "Last name: ")
	if email == "" || first == "" || last == "" {
		fail("email, first name and last name are required")
	}

	role, ok := domain.ParseRole(prompt(reader, "Role (super_admin, manager, receptionist, therapist, customer): "))
	if !ok {
		fail("unknown role")
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fail("could not read password")
	}
	password := string(raw)
	if len(password) < minPasswordLength {
		fail(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	identity := &domain.Identity{
		ID:          uuid.NewString(),
		Email:       email,
		FirstName:   first,
		LastName:    last,
		Avatar:      service.AvatarURL(first, last),
		Role:        role,
		Permissions: service.DefaultPermissions(role),
	}

	account, err := service.NewAccount(identity, password, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	created, err := accounts.Create(ctx, account)
	if err != nil {
		log.Fatal().Err(err).Str("email", email).Msg("failed to create account")
	}

	fmt.Printf("\nCreated %s %s (%s) as %s with id %s\n",
		created.FirstName, created.LastName, created.Email, created.Role.Label(), created.ID)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}
