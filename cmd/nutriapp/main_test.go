package main

import (
	"context"
	"testing"

	"github.com/terraincognita07/nutriapp/internal/db"
)

func TestResolveJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	if _, err := resolveJWTSecret(); err == nil {
		t.Fatal("expected error when AUTH_JWT_SECRET is empty")
	}

	t.Setenv("AUTH_JWT_SECRET", "change_me_in_production")
	if _, err := resolveJWTSecret(); err == nil {
		t.Fatal("expected error when AUTH_JWT_SECRET uses insecure placeholder")
	}

	t.Setenv("AUTH_JWT_SECRET", "too-short-secret")
	if _, err := resolveJWTSecret(); err == nil {
		t.Fatal("expected error when AUTH_JWT_SECRET is too short")
	}

	valid := "0123456789abcdef0123456789abcdef"
	t.Setenv("AUTH_JWT_SECRET", valid)
	secret, err := resolveJWTSecret()
	if err != nil {
		t.Fatalf("expected valid secret, got error: %v", err)
	}
	if secret != valid {
		t.Fatalf("expected %q, got %q", valid, secret)
	}
}

func TestResolvePort(t *testing.T) {
	t.Setenv("PORT", "")
	port, err := resolvePort()
	if err != nil || port != "8080" {
		t.Fatalf("expected default port 8080, got %q (%v)", port, err)
	}

	t.Setenv("PORT", "9090")
	port, err = resolvePort()
	if err != nil || port != "9090" {
		t.Fatalf("expected port 9090, got %q (%v)", port, err)
	}

	for _, raw := range []string{"0", "70000", "not-a-number"} {
		t.Setenv("PORT", raw)
		if _, err := resolvePort(); err == nil {
			t.Fatalf("expected invalid port %q to fail", raw)
		}
	}
}

func TestDatabaseConfigDefaultsToSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "")
	cfg := databaseConfig()
	if cfg.Driver != db.DriverSQLite || cfg.SQLitePath == "" {
		t.Fatalf("unexpected default config %+v", cfg)
	}

	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://nutri@localhost/nutri")
	cfg = databaseConfig()
	if cfg.Driver != "postgres" || cfg.DSN != "postgres://nutri@localhost/nutri" {
		t.Fatalf("unexpected postgres config %+v", cfg)
	}
	if describeDatabase(cfg) != "postgres" {
		t.Fatalf("expected driver name in description, got %q", describeDatabase(cfg))
	}
}

func TestRunCommandRejectsUnknownAndMissingArgs(t *testing.T) {
	if err := runCommand("serve-forever", nil); err == nil {
		t.Fatal("expected unknown command to fail")
	}
	if err := runCommand("issue-token", nil); err == nil {
		t.Fatal("expected issue-token without user id to fail")
	}
}

func TestOpenImageStoreLocal(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("STORAGE_DIR", dir)
	t.Setenv("STORAGE_PUBLIC_URL", "")

	store, mediaDir, err := openImageStore(context.Background(), "8080")
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	if store == nil || mediaDir != dir {
		t.Fatalf("expected local store served from %q, got %q", dir, mediaDir)
	}

	t.Setenv("STORAGE_DRIVER", "ftp")
	if _, _, err := openImageStore(context.Background(), "8080"); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}
