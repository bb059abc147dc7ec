package propertydata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterMetrics()
	os.Exit(m.Run())
}

// fakeService serves canned Array_Suburb / Array_Data payloads and records form posts.
type fakeService struct {
	t           *testing.T
	arraySuburb string
	arrayData   map[string]string // suburb id -> Array_Data
	status      int
	forms       []map[string]string
}

func (f *fakeService) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			f.t.Errorf("unexpected method %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			f.t.Fatalf("parse form: %v", err)
		}
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		f.forms = append(f.forms, form)

		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}

		var body any
		switch r.URL.Path {
		case initialPath:
			body = map[string]string{"Array_Suburb": f.arraySuburb}
		case selectSuburbPath:
			body = map[string]string{"Array_Data": f.arrayData[form["Local_Suburb"]]}
		default:
			f.t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
}

func newTestClient(t *testing.T, f *fakeService) *Client {
	t.Helper()
	f.t = t
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)
	return NewClient(&Config{
		BaseURL:  server.URL,
		State:    "NSW",
		Country:  "AUS",
		Language: "ZHS",
		Timeout:  5 * time.Second,
		Logger:   zap.NewNop(),
	})
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestListSuburbs(t *testing.T) {
	f := &fakeService{arraySuburb: mustJSON(t, map[string][4]string{
		"3900": {"CHERRYBROOK", "2126", "-33.72185040017101", "151.04624440456263"},
		"3775": {"BLUE MOUNTAINS NATIONAL PARK", "None", "-33.90908096333183", "150.35316571753296"},
		"371":  {"WEST RYDE", "2114", "-33.80736158843438", "151.08385175565996"},
	})}
	c := newTestClient(t, f)

	subs, err := c.ListSuburbs(context.Background())
	if err != nil {
		t.Fatalf("ListSuburbs: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 suburbs, got %d", len(subs))
	}
	if subs[0].ID != 371 || subs[1].ID != 3775 || subs[2].ID != 3900 {
		t.Errorf("expected suburbs sorted by id, got %+v", subs)
	}
	if subs[1].Postcode != 0 {
		t.Errorf("expected no postcode for national park, got %d", subs[1].Postcode)
	}
	if subs[2].Name != "CHERRYBROOK" || subs[2].Postcode != 2126 || subs[2].Latitude != -33.72185040017101 {
		t.Errorf("unexpected suburb %+v", subs[2])
	}

	form := f.forms[0]
	want := map[string]string{
		"Local_Language": "ZHS",
		"Local_Country":  "AUS",
		"Local_State":    "NSW",
		"Local_Suburb":   "4167",
		"Menu_Lv1":       "Utilities",
		"Menu_Lv2":       "Electricity Line",
	}
	for k, v := range want {
		if form[k] != v {
			t.Errorf("form %s = %q, want %q", k, form[k], v)
		}
	}
	if _, ok := form["CurrentLocation_Lat"]; !ok {
		t.Error("expected empty CurrentLocation_Lat field")
	}
}

func TestListSuburbs_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"non numeric id", `{"abcd":["CHERRYBROOK","2126","-33.7","151.0"]}`},
		{"non numeric postcode", `{"3900":["CHERRYBROOK","21x6","-33.7","151.0"]}`},
		{"bad latitude", `{"3900":["CHERRYBROOK","2126","south","151.0"]}`},
		{"not a map", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeService{arraySuburb: tt.data})
			_, err := c.ListSuburbs(context.Background())
			if !errors.Is(err, domain.ErrMalformedFeed) {
				t.Fatalf("expected ErrMalformedFeed, got %v", err)
			}
		})
	}
}

func TestListSuburbs_UpstreamError(t *testing.T) {
	c := newTestClient(t, &fakeService{status: http.StatusBadGateway})
	_, err := c.ListSuburbs(context.Background())
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestSelectSuburb(t *testing.T) {
	line := func(typ string, coords [][]float64) string {
		return mustJSON(t, map[string]any{"type": typ, "coordinates": coords})
	}
	data := mustJSON(t, map[string]any{
		"Geometry_Selected_LatLon": map[string]string{
			"L2": line("LineString", [][]float64{{151.10, -33.80, 0}, {151.11, -33.80, 0}, {151.12, -33.81, 0}}),
			"L1": line("LineString", [][]float64{{151.20, -33.85, 12.5}, {151.21, -33.86, 12.5}}),
			"L3": line("MultiLineString", [][]float64{{151.0, -33.0}}),
			"L4": line("LineString", [][]float64{{151.0, -33.0}, {151.1, -33.1}}),
		},
		"Geometry_Selected_Popup_Info": map[string][]string{
			"L1": {"132kV"},
			"L2": {"66kV"},
			"L3": {"33kV"},
			"L4": {"11KV"},
		},
		"Geometry_Selected_Polygon": mustJSON(t, map[string]any{
			"type":        "Polygon",
			"coordinates": [][][]float64{{{151.0, -33.0}, {151.1, -33.0}, {151.1, -33.1}, {151.0, -33.0}}},
		}),
	})
	f := &fakeService{arrayData: map[string]string{"42": data}}
	c := newTestClient(t, f)

	res, err := c.SelectSuburb(context.Background(), domain.SuburbRef{ID: 42, Name: "REDFERN"})
	if err != nil {
		t.Fatalf("SelectSuburb: %v", err)
	}
	if res.SuburbID != 42 || res.Name != "REDFERN" {
		t.Errorf("unexpected suburb header %+v", res)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("expected 2 valid lines, got %d: %+v", len(res.Lines), res.Lines)
	}
	if res.Lines[0].ID != "L1" || res.Lines[0].VoltageKV != 132 {
		t.Errorf("unexpected first line %+v", res.Lines[0])
	}
	if res.Lines[0].Coordinates[0] != (domain.LonLat{151.20, -33.85}) {
		t.Errorf("expected elevation to be dropped, got %v", res.Lines[0].Coordinates[0])
	}
	if res.Lines[1].ID != "L2" || res.Lines[1].VoltageKV != 66 || len(res.Lines[1].Coordinates) != 3 {
		t.Errorf("unexpected second line %+v", res.Lines[1])
	}
	if len(res.Catchment) != 4 {
		t.Errorf("expected 4 catchment vertices, got %d", len(res.Catchment))
	}
	if f.forms[0]["Local_Suburb"] != "42" {
		t.Errorf("expected suburb id in form, got %q", f.forms[0]["Local_Suburb"])
	}
}

func TestSelectSuburb_NoLines(t *testing.T) {
	data := `{"Geometry_Selected_LatLon":[],"Geometry_Selected_Popup_Info":[["0"]]}`
	c := newTestClient(t, &fakeService{arrayData: map[string]string{"7": data}})

	res, err := c.SelectSuburb(context.Background(), domain.SuburbRef{ID: 7, Name: "EMPTY"})
	if err != nil {
		t.Fatalf("SelectSuburb: %v", err)
	}
	if len(res.Lines) != 0 || res.SuburbID != 7 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSelectSuburb_MalformedArrayData(t *testing.T) {
	c := newTestClient(t, &fakeService{arrayData: map[string]string{"7": `{"Geometry_Selected_LatLon":`}})
	_, err := c.SelectSuburb(context.Background(), domain.SuburbRef{ID: 7, Name: "BROKEN"})
	if !errors.Is(err, domain.ErrMalformedFeed) {
		t.Fatalf("expected ErrMalformedFeed, got %v", err)
	}
}

func TestParseVoltage(t *testing.T) {
	tests := []struct {
		labels  []string
		want    int
		wantErr bool
	}{
		{[]string{"132kV"}, 132, false},
		{[]string{"11kV"}, 11, false},
		{[]string{"123KV"}, 0, true},
		{[]string{"kV"}, 0, true},
		{[]string{"132"}, 0, true},
		{[]string{"0kV"}, 0, true},
		{[]string{"132kV", "66kV"}, 0, true},
		{nil, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVoltage(tt.labels)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrMalformedFeed) {
				t.Errorf("ParseVoltage(%q): expected ErrMalformedFeed, got %v", tt.labels, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseVoltage(%q) = %d, %v; want %d", tt.labels, got, err, tt.want)
		}
	}
}

func TestParseCatchment_Inline(t *testing.T) {
	raw := json.RawMessage(`{"type":"Polygon","coordinates":[[[151.0,-33.0],[151.1,-33.0],[151.1,-33.1]]]}`)
	ring, err := parseCatchment(raw)
	if err != nil {
		t.Fatalf("parseCatchment: %v", err)
	}
	if len(ring) != 3 || ring[1] != (domain.LonLat{151.1, -33.0}) {
		t.Errorf("unexpected ring %v", ring)
	}

	if _, err := parseCatchment(json.RawMessage(`{"type":"Point","coordinates":[]}`)); !errors.Is(err, domain.ErrMalformedFeed) {
		t.Errorf("expected ErrMalformedFeed for non-polygon, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	for _, tt := range []struct {
		status  int
		wantErr bool
	}{
		{http.StatusOK, false},
		{http.StatusForbidden, false},
		{http.StatusServiceUnavailable, true},
	} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodHead {
				t.Errorf("unexpected method %s", r.Method)
			}
			w.WriteHeader(tt.status)
		}))
		c := NewClient(&Config{BaseURL: server.URL, Timeout: time.Second})
		err := c.HealthCheck(context.Background())
		server.Close()
		if (err != nil) != tt.wantErr {
			t.Errorf("status %d: err = %v, wantErr %v", tt.status, err, tt.wantErr)
		}
	}
}
