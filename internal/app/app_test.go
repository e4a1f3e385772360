package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/amaumene/cinemahome/internal/config"
)

func TestInitializeApp(t *testing.T) {
	cfg := &config.Config{
		APIURL:          "http://127.0.0.1:1",
		RequestTimeout:  time.Second,
		DefaultLocation: "Iulius Mall",
		Locations:       []string{"Iulius Mall"},
		Locale:          language.Romanian,
		Timezone:        time.UTC,
		StoreBackend:    config.StoreSQLite,
		SessionID:       "test",
		DatabaseFile:    filepath.Join(t.TempDir(), "app.db"),
		ServerPort:      "0",
		LogLevel:        "error",
		LogFormat:       "json",
	}

	application, cleanup, err := InitializeApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitializeApp() error = %v", err)
	}
	defer cleanup()

	if application.Session.Location != "Iulius Mall" {
		t.Errorf("unexpected session location %q", application.Session.Location)
	}
	if application.Server == nil || application.Scheduler == nil || application.Browse == nil || application.Checkout == nil {
		t.Errorf("application graph is incomplete: %+v", application)
	}
}

func TestInitializeAppRejectsUnknownStore(t *testing.T) {
	cfg := &config.Config{
		APIURL:       "http://127.0.0.1:1",
		StoreBackend: "etcd",
		LogLevel:     "error",
	}

	if _, _, err := InitializeApp(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown store backend")
	}
}
