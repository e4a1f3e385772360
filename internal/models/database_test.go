package models

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestSettingRoundTrip(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if _, found, err := db.GetSetting(ctx, "default", SettingSelectedCinema); err != nil || found {
		t.Fatalf("expected missing setting, got found=%v err=%v", found, err)
	}

	if err := db.PutSetting(ctx, "default", SettingSelectedCinema, "Iulius Mall"); err != nil {
		t.Fatalf("PutSetting() error = %v", err)
	}
	if err := db.PutSetting(ctx, "default", SettingSelectedCinema, "VIVO Cluj"); err != nil {
		t.Fatalf("PutSetting() overwrite error = %v", err)
	}

	value, found, err := db.GetSetting(ctx, "default", SettingSelectedCinema)
	if err != nil || !found {
		t.Fatalf("expected stored setting, got found=%v err=%v", found, err)
	}
	if value != "VIVO Cluj" {
		t.Errorf("expected overwritten value, got %q", value)
	}

	settings, err := db.GetSessionSettings(ctx, "default")
	if err != nil {
		t.Fatalf("GetSessionSettings() error = %v", err)
	}
	if len(settings) != 1 {
		t.Errorf("expected a single row after upsert, got %d", len(settings))
	}
}

func TestSettingsAreScopedBySession(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	if err := db.PutSetting(ctx, "alice", SettingHiddenMovies, "[1]"); err != nil {
		t.Fatalf("PutSetting() error = %v", err)
	}

	if _, found, _ := db.GetSetting(ctx, "bob", SettingHiddenMovies); found {
		t.Errorf("settings leaked across sessions")
	}

	if err := db.DeleteSetting(ctx, "alice", SettingHiddenMovies); err != nil {
		t.Fatalf("DeleteSetting() error = %v", err)
	}
	if _, found, _ := db.GetSetting(ctx, "alice", SettingHiddenMovies); found {
		t.Errorf("expected setting to be deleted")
	}
	if err := db.DeleteSetting(ctx, "alice", SettingHiddenMovies); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestSettingsHonorCancelledContext(t *testing.T) {
	db := newTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := db.PutSetting(ctx, "default", SettingSelectedCinema, "VIVO Cluj"); err == nil {
		t.Errorf("expected PutSetting to fail on a cancelled context")
	}
	if _, _, err := db.GetSetting(ctx, "default", SettingSelectedCinema); err == nil {
		t.Errorf("expected GetSetting to fail on a cancelled context")
	}

	if _, found, err := db.GetSetting(context.Background(), "default", SettingSelectedCinema); err != nil || found {
		t.Errorf("cancelled write must not be stored, got found=%v err=%v", found, err)
	}
}
