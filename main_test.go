package main

import (
	"context"
	"errors"
	"testing"

	"github.com/dmhcommunity/beanbot/internal/config"
	"github.com/dmhcommunity/beanbot/internal/models"
)

func setLambdaEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_ID", "123456789")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	t.Setenv("DEFAULT_SHEET", "Benji")
}

func stubRunSync(t *testing.T, fn func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error)) {
	t.Helper()
	original := runSync
	runSync = fn
	t.Cleanup(func() { runSync = original })
}

func TestHandleRequestHappyPath(t *testing.T) {
	setLambdaEnv(t)

	var syncedSheet string
	stubRunSync(t, func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error) {
		syncedSheet = sheetName
		return &models.SyncResult{MembersSynced: 10, RoleColumns: 3, SheetName: sheetName}, nil
	})

	resp, err := HandleRequest(context.Background(), models.LambdaEvent{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if syncedSheet != "Benji" {
		t.Fatalf("expected default sheet, got %q", syncedSheet)
	}
}

func TestHandleRequestExplicitSheet(t *testing.T) {
	setLambdaEnv(t)

	var syncedSheet string
	stubRunSync(t, func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error) {
		syncedSheet = sheetName
		return &models.SyncResult{SheetName: sheetName}, nil
	})

	if _, err := HandleRequest(context.Background(), models.LambdaEvent{SheetName: "Archive"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if syncedSheet != "Archive" {
		t.Fatalf("expected explicit sheet, got %q", syncedSheet)
	}
}

func TestHandleRequestScheduledEvent(t *testing.T) {
	setLambdaEnv(t)

	called := false
	stubRunSync(t, func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error) {
		called = true
		return &models.SyncResult{SheetName: sheetName}, nil
	})

	event := models.LambdaEvent{Source: "aws.events", DetailType: "Scheduled Event"}
	resp, err := HandleRequest(context.Background(), event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.StatusCode != 200 || !called {
		t.Fatalf("expected scheduled event to run a sync, got status %d, called %v", resp.StatusCode, called)
	}
}

func TestHandleRequestUnsupportedSource(t *testing.T) {
	setLambdaEnv(t)

	stubRunSync(t, func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error) {
		t.Fatal("no sync may run for unsupported events")
		return nil, nil
	})

	event := models.LambdaEvent{Source: "aws.s3", DetailType: "Object Created"}
	resp, err := HandleRequest(context.Background(), event)
	if err != nil {
		t.Fatalf("handler must not surface the error, got %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
}

func TestHandleRequestSyncFailure(t *testing.T) {
	setLambdaEnv(t)

	stubRunSync(t, func(ctx context.Context, cfg *config.Config, sheetName string) (*models.SyncResult, error) {
		return nil, errors.New("sheet unavailable")
	})

	resp, err := HandleRequest(context.Background(), models.LambdaEvent{})
	if err != nil {
		t.Fatalf("handler must not surface the error, got %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
}
