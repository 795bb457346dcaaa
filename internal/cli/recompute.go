package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/nutriapp/internal/db"
	"github.com/terraincognita07/nutriapp/internal/security"
	"github.com/terraincognita07/nutriapp/internal/services"
)

// RunRecomputeTargetsCommand rewrites the stored targets of every profile,
// e.g. after the formula changed.
func RunRecomputeTargetsCommand(ctx context.Context, cfg db.Config, out io.Writer) error {
	database, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	repositories := db.NewRepositories(database)
	report, err := services.NewProfileService(repositories.Users).RecomputeAllTargets(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Targets recomputed for %d profile(s)\n", report.Updated)
	if len(report.Invalid) > 0 {
		fmt.Fprintf(out, "Skipped %d invalid profile(s): %s\n", len(report.Invalid), strings.Join(report.Invalid, ", "))
	}
	return nil
}

// RunIssueTokenCommand prints a bearer token for local testing against a
// server that shares the same secret.
func RunIssueTokenCommand(secret []byte, audience string, subject string, ttl time.Duration, out io.Writer) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return errors.New("user id is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	token, err := security.IssueToken(secret, subject, audience, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(out, token)
	return nil
}
