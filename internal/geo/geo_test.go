package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/citysense/citysense/internal/config"
)

func newTestLocator(url string) *IPLocator {
	return NewIPLocator(config.GeoConfig{Endpoint: url, Timeout: 2 * time.Second})
}

func TestLocateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","lat":25.7617,"lon":-80.1918}`))
	}))
	defer srv.Close()

	lat, lng, err := newTestLocator(srv.URL).Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if lat != 25.7617 || lng != -80.1918 {
		t.Errorf("unexpected coordinates: %f, %f", lat, lng)
	}
}

func TestLocateProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	_, _, err := newTestLocator(srv.URL).Locate(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestLocatePermissionDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, _, err := newTestLocator(srv.URL).Locate(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}
