package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-nba-metrics/internal/analysis"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/nbaapi"
)

type fakeSource struct {
	games    map[string]*model.Game
	minutes  map[string]*model.MinutesData
	list     []model.GameSummary
	lastDate time.Time
}

func (f *fakeSource) GamesByDate(_ context.Context, date time.Time) ([]model.GameSummary, error) {
	f.lastDate = date
	return f.list, nil
}

func (f *fakeSource) Game(_ context.Context, id string) (*model.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, &nbaapi.StatusError{Path: "/games/" + id, Code: http.StatusNotFound}
	}
	return g, nil
}

func (f *fakeSource) Minutes(_ context.Context, id string) (*model.MinutesData, error) {
	m, ok := f.minutes[id]
	if !ok {
		return nil, &nbaapi.StatusError{Path: "/games/" + id + "/minutes", Code: http.StatusNotFound}
	}
	return m, nil
}

type fakeSnapshots struct {
	calls int
}

func (f *fakeSnapshots) SnapshotEntries(string) ([]model.SnapshotEntry, error) {
	f.calls++
	return nil, nil
}

const (
	homeTeam = 1610612752
	awayTeam = 1610612744
)

func finalGame() *model.Game {
	return &model.Game{
		GameID:     "0022400001",
		GameStatus: model.StatusFinal,
		Period:     4,
		HomeTeam:   model.Team{TeamID: homeTeam, TeamTricode: "NYK", Score: 2},
		AwayTeam:   model.Team{TeamID: awayTeam, TeamTricode: "GSW", Score: 0},
		BoxScore: model.BoxScore{
			Home: &model.TeamBox{TeamID: homeTeam, Players: []model.BoxPlayer{{PersonID: 201, FirstName: "Jalen", FamilyName: "Brunson"}}},
			Away: &model.TeamBox{TeamID: awayTeam, Players: []model.BoxPlayer{{PersonID: 301, FirstName: "Stephen", FamilyName: "Curry"}}},
		},
		PlayByPlayActions: []model.Action{
			{ActionNumber: 1, OrderNumber: 1, Period: 1, Clock: "PT11M00.00S", ActionType: model.ActionTwoPoint,
				ShotResult: model.ShotMade, TeamID: homeTeam, PersonID: 201, Possession: homeTeam},
		},
	}
}

func newTestServer(t *testing.T, snaps SnapshotSource) (*httptest.Server, *fakeSource) {
	t.Helper()
	g := finalGame()
	src := &fakeSource{
		games:   map[string]*model.Game{g.GameID: g},
		minutes: map[string]*model.MinutesData{},
		list:    []model.GameSummary{g.Summary()},
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := New(Options{
		Source:    src,
		Snapshots: snaps,
		Log:       log,
		Now:       func() time.Time { return time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC) },
	})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts, src
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	var body map[string]string
	if code := getJSON(t, ts.URL+"/health", &body); code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body: got %v", body)
	}
}

func TestListGames(t *testing.T) {
	ts, src := newTestServer(t, nil)

	var body struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
		Games []struct {
			GameID string `json:"gameId"`
			Status string `json:"status"`
		} `json:"games"`
	}
	if code := getJSON(t, ts.URL+"/api/v1/games", &body); code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", code)
	}
	// 03:00 UTC is the previous evening in New York.
	if body.Date != "2025-03-01" {
		t.Errorf("default date: want 2025-03-01, got %s", body.Date)
	}
	if body.Count != 1 || body.Games[0].Status != "F" {
		t.Errorf("games: got %+v", body.Games)
	}

	if code := getJSON(t, ts.URL+"/api/v1/games?date=2025-01-15", &body); code != http.StatusOK {
		t.Fatalf("dated status: want 200, got %d", code)
	}
	if got := src.lastDate.Format(nbaapi.DateLayout); got != "2025-01-15" {
		t.Errorf("upstream date: want 2025-01-15, got %s", got)
	}

	if code := getJSON(t, ts.URL+"/api/v1/games?date=15-01-2025", nil); code != http.StatusBadRequest {
		t.Errorf("bad date: want 400, got %d", code)
	}
}

func TestGetGameNotFound(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	if code := getJSON(t, ts.URL+"/api/v1/games/nope", nil); code != http.StatusNotFound {
		t.Errorf("status: want 404, got %d", code)
	}
}

// TestSegment: the report is built without minutes and scoped to the segment.
func TestSegment(t *testing.T) {
	snaps := &fakeSnapshots{}
	ts, _ := newTestServer(t, snaps)

	var r analysis.Report
	if code := getJSON(t, ts.URL+"/api/v1/games/0022400001/segments/q1", &r); code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", code)
	}
	if r.Segment != model.SegmentQ1 {
		t.Errorf("segment: want q1, got %s", r.Segment)
	}
	if r.Home.Totals.Points != 2 {
		t.Errorf("home q1 points: want 2, got %d", r.Home.Totals.Points)
	}
	if snaps.calls != 0 {
		t.Errorf("final game should not load snapshots, got %d calls", snaps.calls)
	}

	var q2 analysis.Report
	if code := getJSON(t, ts.URL+"/api/v1/games/0022400001/segments/q2", &q2); code != http.StatusOK {
		t.Fatalf("q2 status: want 200, got %d", code)
	}
	if q2.Home.Totals.Points != 0 {
		t.Errorf("home q2 points: want 0, got %d", q2.Home.Totals.Points)
	}
}

// TestSegmentUnknownFallsBackToAll: an unrecognised segment name reports the whole game.
func TestSegmentUnknownFallsBackToAll(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	var r analysis.Report
	if code := getJSON(t, ts.URL+"/api/v1/games/0022400001/segments/q9", &r); code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", code)
	}
	if r.Segment != model.SegmentAll {
		t.Errorf("segment: want all, got %s", r.Segment)
	}
	if r.Home.Totals.Points != 2 {
		t.Errorf("home points: want 2, got %d", r.Home.Totals.Points)
	}

	var lr analysis.LineupReport
	if code := getJSON(t, ts.URL+"/api/v1/games/0022400001/lineups/overtime", &lr); code != http.StatusOK {
		t.Errorf("lineups status: want 200, got %d", code)
	}
}

func TestLineupsAndMinutes(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	var lr analysis.LineupReport
	if code := getJSON(t, ts.URL+"/api/v1/games/0022400001/lineups/all", &lr); code != http.StatusOK {
		t.Fatalf("lineups status: want 200, got %d", code)
	}
	if lr.GameID != "0022400001" || len(lr.Players) != 0 {
		t.Errorf("lineups without minutes: got %+v", lr)
	}

	if code := getJSON(t, ts.URL+"/api/v1/games/0022400001/minutes", nil); code != http.StatusNotFound {
		t.Errorf("minutes: want 404, got %d", code)
	}
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin: want *, got %q", got)
	}
}
