package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/auth"
	"github.com/spec-kit/token-service/internal/config"
	"github.com/spec-kit/token-service/internal/domain"
	"github.com/spec-kit/token-service/internal/observability"
	"github.com/spec-kit/token-service/internal/persistence"
	"github.com/spec-kit/token-service/internal/repository"
)

type credentialCreator interface {
	Create(ctx context.Context, rec *domain.CredentialRecord) error
}

type options struct {
	identifier string
	email      string
	role       string
	password   string
	disabled   bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseFlags(os.Args[1:], os.Getenv("CREDCTL_PASSWORD"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if err := run(ctx, repository.NewCredentialRepository(pg.PoolHandle()), opts, cfg.Auth.BcryptCost, os.Stdout); err != nil {
		logger.Fatal("create credential", zap.Error(err))
	}
}

func parseFlags(args []string, envPassword string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("credctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.identifier, "identifier", "", "login username")
	fs.StringVar(&opts.email, "email", "", "email address, also accepted as login identifier")
	fs.StringVar(&opts.role, "role", string(domain.RoleUser), "role: user or admin")
	fs.StringVar(&opts.password, "password", "", "secret to hash; defaults to CREDCTL_PASSWORD")
	fs.BoolVar(&opts.disabled, "disabled", false, "create the credential disabled")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.password == "" {
		opts.password = envPassword
	}
	opts.identifier = strings.TrimSpace(opts.identifier)
	opts.email = strings.TrimSpace(opts.email)

	switch {
	case opts.identifier == "":
		return options{}, errors.New("-identifier is required")
	case opts.email == "":
		return options{}, errors.New("-email is required")
	case opts.password == "":
		return options{}, errors.New("-password or CREDCTL_PASSWORD is required")
	}
	if r := domain.Role(opts.role); r != domain.RoleUser && r != domain.RoleAdmin {
		return options{}, fmt.Errorf("unknown role %q", opts.role)
	}
	return opts, nil
}

func run(ctx context.Context, repo credentialCreator, opts options, cost int, out io.Writer) error {
	hash, err := auth.HashPassword(opts.password, cost)
	if err != nil {
		return fmt.Errorf("hash secret: %w", err)
	}

	rec := &domain.CredentialRecord{
		Username:     opts.identifier,
		Email:        opts.email,
		PasswordHash: hash,
		Role:         domain.Role(opts.role),
		Status:       domain.CredentialStatusActive,
	}
	if opts.disabled {
		rec.Status = domain.CredentialStatusDisabled
	}

	if err := repo.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("credential %q already exists", opts.identifier)
		}
		return err
	}

	fmt.Fprintf(out, "created credential %s (%s, %s)\n", rec.ID, rec.Username, rec.Role)
	return nil
}
