package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tucancha/court-booking/internal/geo"
	"github.com/tucancha/court-booking/internal/observability"
)

func TestDistance_SamePoint(t *testing.T) {
	if d := geo.Distance(0, 0, 0, 0); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistance_BuenosAiresAsuncion(t *testing.T) {
	d := geo.Distance(-34.6, -58.4, -25.3, -57.6)
	if d < 1000 || d > 1050 {
		t.Errorf("expected roughly 1000-1050 km, got %f", d)
	}
}

func TestGeocode_FirstMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Error("expected q parameter")
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected User-Agent header")
		}
		w.Write([]byte(`[{"lat":"-25.2819","lon":"-57.6351"},{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	c := geo.NewClient(srv.URL, observability.NewLogger())
	coords, err := c.Geocode(context.Background(), "Asuncion, Paraguay")
	if err != nil {
		t.Fatal(err)
	}
	if coords == nil {
		t.Fatal("expected coordinates, got nil")
	}
	if coords.Lat != -25.2819 || coords.Lng != -57.6351 {
		t.Errorf("unexpected coordinates: %+v", coords)
	}
}

func TestGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := geo.NewClient(srv.URL, observability.NewLogger())
	coords, err := c.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatal(err)
	}
	if coords != nil {
		t.Errorf("expected nil on no match, got %+v", coords)
	}
}

func TestGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := geo.NewClient(srv.URL, observability.NewLogger())
	coords, err := c.Geocode(context.Background(), "Asuncion")
	if err != nil {
		t.Fatal(err)
	}
	if coords != nil {
		t.Errorf("expected nil on server error, got %+v", coords)
	}
}
