package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riverwatch/riverwatch/internal/api"
	"github.com/riverwatch/riverwatch/internal/model"
	"github.com/riverwatch/riverwatch/internal/store"
)

// --- test helpers -----------------------------------------------------------

func f(v float64) *float64 { return &v }

func request(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	return request(t, h, http.MethodGet, path)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/sites -------------------------------------------------------------

func TestListSites(t *testing.T) {
	st := store.New()
	st.CreateSite(model.Site{Name: "Murray River Site A", HealthScore: 92})
	st.CreateSite(model.Site{Name: "Lake Albert", Status: model.StatusOffline})

	rr := get(t, api.New(st, 0), "/api/sites")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var sites []model.Site
	decode(t, rr, &sites)
	if len(sites) != 2 {
		t.Fatalf("sites: got %d, want 2", len(sites))
	}
	if sites[0].Name != "Murray River Site A" {
		t.Errorf("sites[0].Name: got %q", sites[0].Name)
	}
	if sites[1].Status != model.StatusOffline {
		t.Errorf("sites[1].Status: got %q, want offline", sites[1].Status)
	}
}

func TestListSites_Empty(t *testing.T) {
	rr := get(t, api.New(store.New(), 0), "/api/sites")
	var sites []model.Site
	decode(t, rr, &sites)
	if len(sites) != 0 {
		t.Errorf("sites: got %d, want 0", len(sites))
	}
}

func TestGetSite(t *testing.T) {
	st := store.New()
	site := st.CreateSite(model.Site{Name: "site"})

	rr := get(t, api.New(st, 0), "/api/sites/"+site.ID)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var got model.Site
	decode(t, rr, &got)
	if got.ID != site.ID {
		t.Errorf("ID: got %q, want %q", got.ID, site.ID)
	}
}

func TestGetSite_NotFound(t *testing.T) {
	rr := get(t, api.New(store.New(), 0), "/api/sites/nope")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

// --- /api/sites/{id}/readings -----------------------------------------------

func TestListReadings_DefaultLimit(t *testing.T) {
	st := store.New()
	site := st.CreateSite(model.Site{Name: "site"})
	for i := 0; i < 5; i++ {
		st.CreateReading(model.Reading{SiteID: site.ID, PHLevel: f(7.0)})
	}

	rr := get(t, api.New(st, 3), "/api/sites/"+site.ID+"/readings")
	var readings []model.Reading
	decode(t, rr, &readings)
	if len(readings) != 3 {
		t.Errorf("readings: got %d, want 3 (handler default limit)", len(readings))
	}
}

func TestListReadings_ExplicitLimit(t *testing.T) {
	st := store.New()
	site := st.CreateSite(model.Site{Name: "site"})
	for i := 0; i < 5; i++ {
		st.CreateReading(model.Reading{SiteID: site.ID})
	}

	rr := get(t, api.New(st, 0), "/api/sites/"+site.ID+"/readings?limit=2")
	var readings []model.Reading
	decode(t, rr, &readings)
	if len(readings) != 2 {
		t.Errorf("readings: got %d, want 2", len(readings))
	}
}

func TestListReadings_BadLimitFallsBackToDefault(t *testing.T) {
	st := store.New()
	site := st.CreateSite(model.Site{Name: "site"})
	for i := 0; i < 5; i++ {
		st.CreateReading(model.Reading{SiteID: site.ID})
	}

	for _, raw := range []string{"abc", "0", "-3", "2.5"} {
		rr := get(t, api.New(st, 3), "/api/sites/"+site.ID+"/readings?limit="+raw)
		if rr.Code != http.StatusOK {
			t.Errorf("limit=%q: status got %d, want 200", raw, rr.Code)
			continue
		}
		var readings []model.Reading
		decode(t, rr, &readings)
		if len(readings) != 3 {
			t.Errorf("limit=%q: got %d readings, want the default 3", raw, len(readings))
		}
	}
}

func TestListReadings_UnknownSiteIsEmpty(t *testing.T) {
	rr := get(t, api.New(store.New(), 0), "/api/sites/ghost/readings")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var readings []model.Reading
	decode(t, rr, &readings)
	if len(readings) != 0 {
		t.Errorf("readings: got %d, want 0", len(readings))
	}
}

// --- /api/sites/{id}/latest-reading -------------------------------------------

func TestLatestReading(t *testing.T) {
	st := store.New()
	site := st.CreateSite(model.Site{Name: "site"})
	st.CreateReading(model.Reading{SiteID: site.ID, PHLevel: f(7.1)})
	st.CreateReading(model.Reading{SiteID: site.ID, PHLevel: f(7.3)})

	rr := get(t, api.New(st, 0), "/api/sites/"+site.ID+"/latest-reading")
	var reading model.Reading
	decode(t, rr, &reading)
	if reading.PHLevel == nil || *reading.PHLevel != 7.3 {
		t.Errorf("PHLevel: got %v, want 7.3", reading.PHLevel)
	}
}

func TestLatestReading_AbsentIsNull(t *testing.T) {
	st := store.New()
	site := st.CreateSite(model.Site{Name: "site"})

	rr := get(t, api.New(st, 0), "/api/sites/"+site.ID+"/latest-reading")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); body != "null\n" {
		t.Errorf("body: got %q, want null", body)
	}
}

// --- /api/alerts ------------------------------------------------------------

func TestListAlerts_PriorityOrder(t *testing.T) {
	st := store.New()
	st.CreateAlert(model.Alert{SiteID: "s", Priority: model.PriorityLow})
	st.CreateAlert(model.Alert{SiteID: "s", Priority: model.PriorityHigh})

	rr := get(t, api.New(st, 0), "/api/alerts")
	var alerts []model.Alert
	decode(t, rr, &alerts)
	if len(alerts) != 2 {
		t.Fatalf("alerts: got %d, want 2", len(alerts))
	}
	if alerts[0].Priority != model.PriorityHigh {
		t.Errorf("alerts[0].Priority: got %q, want high", alerts[0].Priority)
	}
}

func TestDismissAlert(t *testing.T) {
	st := store.New()
	alert := st.CreateAlert(model.Alert{SiteID: "s", Priority: model.PriorityHigh})

	rr := request(t, api.New(st, 0), http.MethodPost, "/api/alerts/"+alert.ID+"/dismiss")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]any
	decode(t, rr, &resp)
	if resp["success"] != true {
		t.Errorf("success: got %v, want true", resp["success"])
	}

	if got := len(st.ListActiveAlerts()); got != 0 {
		t.Errorf("active alerts after dismiss: got %d, want 0", got)
	}
}

func TestDismissAlert_UnknownIDStillSucceeds(t *testing.T) {
	rr := request(t, api.New(store.New(), 0), http.MethodPost, "/api/alerts/ghost/dismiss")
	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200 (dismiss is a total no-op)", rr.Code)
	}
}

func TestDismissAlert_RequiresPost(t *testing.T) {
	st := store.New()
	alert := st.CreateAlert(model.Alert{SiteID: "s", Priority: model.PriorityLow})

	rr := get(t, api.New(st, 0), "/api/alerts/"+alert.ID+"/dismiss")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
	if len(st.ListActiveAlerts()) != 1 {
		t.Error("GET dismissed the alert")
	}
}

// --- /api/sites/{id}/alerts ---------------------------------------------------

func TestAlertsForSite_IncludesDismissed(t *testing.T) {
	st := store.New()
	site := st.CreateSite(model.Site{Name: "site"})
	alert := st.CreateAlert(model.Alert{SiteID: site.ID, Priority: model.PriorityHigh})
	st.DismissAlert(alert.ID)

	rr := get(t, api.New(st, 0), "/api/sites/"+site.ID+"/alerts")
	var alerts []model.Alert
	decode(t, rr, &alerts)
	if len(alerts) != 1 {
		t.Fatalf("alerts: got %d, want 1", len(alerts))
	}
	if alerts[0].IsActive {
		t.Error("IsActive: got true, want false after dismissal")
	}
}

// --- routing edges ----------------------------------------------------------

func TestUnknownSubPath(t *testing.T) {
	rr := get(t, api.New(store.New(), 0), "/api/sites/x/unknown")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestMethodNotAllowedOnCollections(t *testing.T) {
	st := store.New()
	for _, path := range []string{"/api/sites", "/api/alerts"} {
		rr := request(t, api.New(st, 0), http.MethodPost, path)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status got %d, want 405", path, rr.Code)
		}
	}
}
