package resultserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/jmontp/LocoHub-sub016/internal/database"
	"github.com/jmontp/LocoHub-sub016/internal/segmentation"
)

func newTestController(t *testing.T) (*Controller, string) {
	t.Helper()

	store, err := database.NewClient(":memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	trialID, err := store.SaveTrial(context.Background(), database.Trial{
		Subject: "SUB016", Task: "jump", Archetype: "standing",
		SourceFile: "sub016_jump_01.csv", SampleRate: 100,
	}, []segmentation.Segment{
		{Kind: segmentation.KindJumpCycle, StartIndex: 230, EndIndex: 460,
			StartTime: 2.3, EndTime: 4.6, Duration: 2.3, FlightDuration: 0.28},
	})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	ctrl, err := NewController(context.Background(), &wg, Config{ListenAddr: ":0"},
		store, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	return ctrl, trialID
}

func TestListTrials(t *testing.T) {
	ctrl, _ := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trials", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	var trials []database.Trial
	if err := json.Unmarshal(rec.Body.Bytes(), &trials); err != nil {
		t.Fatal(err)
	}
	if len(trials) != 1 || trials[0].Subject != "SUB016" {
		t.Errorf("unexpected trials: %+v", trials)
	}
}

func TestGetSegments(t *testing.T) {
	ctrl, trialID := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trials/"+trialID+"/segments", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	var segments []database.SegmentRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &segments); err != nil {
		t.Fatal(err)
	}
	if len(segments) != 1 || segments[0].Kind != "jump_cycle" {
		t.Errorf("unexpected segments: %+v", segments)
	}
}

func TestGetSegmentsMsgpack(t *testing.T) {
	ctrl, trialID := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trials/"+trialID+"/segments?format=msgpack", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-msgpack" {
		t.Errorf("content type = %s", ct)
	}
	var segments []database.SegmentRecord
	if err := msgpack.Unmarshal(rec.Body.Bytes(), &segments); err != nil {
		t.Fatal(err)
	}
	if len(segments) != 1 {
		t.Errorf("expected 1 segment, got %d", len(segments))
	}
}

func TestGetTrialNotFound(t *testing.T) {
	ctrl, _ := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trials/nope", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}

func TestGetSummary(t *testing.T) {
	ctrl, trialID := newTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/trials/"+trialID+"/summary", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	var counts []database.KindCount
	if err := json.Unmarshal(rec.Body.Bytes(), &counts); err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Kind != "jump_cycle" || counts[0].Count != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
