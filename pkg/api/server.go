// Package api pkg/api/server.go serves the bot's status API and event stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	httpx "github.com/mfreeman451/meshbot/pkg/http"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/nodes"
	"github.com/mfreeman451/meshbot/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

var errInvalidTime = errors.New("invalid time parameter, expected RFC3339")

type Deps struct {
	Nodes     nodes.Directory
	Telemetry *telemetry.Store
	Bot       BotStatus
	Link      LinkStatus
	Hub       *Hub
}

type Server struct {
	deps   Deps
	router *mux.Router
	now    func() time.Time
}

func NewServer(deps Deps) *Server {
	if deps.Hub == nil {
		deps.Hub = NewHub()
	}

	s := &Server{
		deps:   deps,
		router: mux.NewRouter(),
		now:    time.Now,
	}

	s.setupRoutes()

	return s
}

// Hub is the event fan-out fed by the router.
func (s *Server) Hub() *Hub {
	return s.deps.Hub
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(httpx.LoggingMiddleware, httpx.CommonMiddleware)

	s.router.HandleFunc("/api/status", s.getSystemStatus).Methods("GET")
	s.router.HandleFunc("/api/nodes", s.getNodes).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}", s.getNode).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/positions", s.getPositions).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/metrics", s.getDeviceMetrics).Methods("GET")
	s.router.HandleFunc("/api/events", s.deps.Hub.ServeWS)
}

// Start serves on addr until ctx is canceled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Printf("Status API listening on %s", addr)

		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (s *Server) getSystemStatus(w http.ResponseWriter, _ *http.Request) {
	all, err := s.deps.Nodes.List()
	if err != nil {
		log.Printf("Error listing nodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	store := s.deps.Telemetry

	status := SystemStatus{
		TotalNodes:       len(all),
		OnlineNodes:      len(store.Online()),
		OfflineNodes:     len(store.Offline()),
		PacketsToday:     store.TotalPacketsToday(),
		CounterResetTime: store.CounterResetTime(),
		LastUpdate:       s.now(),
	}

	if s.deps.Bot != nil {
		status.MyID = s.deps.Bot.MyID()
		status.InitComplete = s.deps.Bot.InitComplete()
	}

	if s.deps.Link != nil {
		status.Connection = s.deps.Link.State().String()
		status.BufferedPackets = s.deps.Link.Buffered()
	}

	writeJSON(w, status)
}

// nodeStatus fills a snapshot with today's telemetry for id.
func (s *Server) nodeStatus(id models.NodeID) (*NodeStatus, error) {
	snap, err := s.deps.Nodes.Snapshot(id)
	if err != nil {
		return nil, err
	}

	store := s.deps.Telemetry

	ns := &NodeStatus{NodeSnapshot: *snap}
	ns.LastHeard, _ = store.LastHeard(id)
	ns.PacketsToday = store.PacketsToday(id)
	ns.IsOnline = store.IsOnline(id)
	ns.PacketBreakdown = store.BreakdownToday(id)

	return ns, nil
}

func (s *Server) getNodes(w http.ResponseWriter, _ *http.Request) {
	all, err := s.deps.Nodes.List()
	if err != nil {
		log.Printf("Error listing nodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	out := make([]*NodeStatus, 0, len(all))

	for _, u := range all {
		ns, err := s.nodeStatus(u.ID)
		if err != nil {
			log.Printf("Error loading node %s: %v", u.ID, err)

			continue
		}

		out = append(out, ns)
	}

	writeJSON(w, out)
}

func (s *Server) writeLookupError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, nodes.ErrNodeNotFound) {
		http.Error(w, "Node not found", http.StatusNotFound)

		return
	}

	log.Printf("Error loading node %s: %v", id, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ns, err := s.nodeStatus(models.NodeID(id))
	if err != nil {
		s.writeLookupError(w, id, err)

		return
	}

	writeJSON(w, ns)
}

// timeRange reads optional RFC3339 "start" and "end" query parameters.
func timeRange(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()

	if v := q.Get("start"); v != "" {
		if start, err = time.Parse(time.RFC3339, v); err != nil {
			return start, end, errInvalidTime
		}
	}

	if v := q.Get("end"); v != "" {
		if end, err = time.Parse(time.RFC3339, v); err != nil {
			return start, end, errInvalidTime
		}
	}

	return start, end, nil
}

func (s *Server) getPositions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	start, end, err := timeRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	positions, err := s.deps.Nodes.PositionLog(models.NodeID(id), start, end)
	if err != nil {
		s.writeLookupError(w, id, err)

		return
	}

	writeJSON(w, positions)
}

func (s *Server) getDeviceMetrics(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	start, end, err := timeRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	metrics, err := s.deps.Nodes.DeviceMetricsLog(models.NodeID(id), start, end)
	if err != nil {
		s.writeLookupError(w, id, err)

		return
	}

	writeJSON(w, metrics)
}
