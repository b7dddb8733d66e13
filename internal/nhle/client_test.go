package nhle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/pable/go-hockey-xg/internal/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/player/8478483/landing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"playerId":8478483,"shootsCatches":"R","position":"R","firstName":{"default":"Mitch"}}`))
	})
	mux.HandleFunc("/v1/player/8471214/landing", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"playerId":8471214,"shootsCatches":"L","position":"L"}`))
	})
	mux.HandleFunc("/v1/player/1/landing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetPlayer(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/v1/", time.Second)

	l, err := c.GetPlayer(context.Background(), 8478483)
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	info := l.Info(8478483)
	if info.Handedness != model.HandRight || info.Position != "R" {
		t.Errorf("info = %+v", info)
	}

	_, err = c.GetPlayer(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchPlayers(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/v1", time.Second)

	infos, failures, err := c.FetchPlayers(context.Background(), []int64{8478483, 1, 8471214, 42}, 2)
	if err != nil {
		t.Fatalf("FetchPlayers: %v", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	if len(infos) != 2 || infos[0].ID != 8471214 || infos[0].Handedness != model.HandLeft {
		t.Errorf("infos = %+v", infos)
	}
	if len(failures) != 2 {
		t.Errorf("expected 2 failures, got %+v", failures)
	}
}

func TestFetchPlayers_Cancelled(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/v1", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := c.FetchPlayers(ctx, []int64{8478483}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
