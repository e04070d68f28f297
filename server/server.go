package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"tripedit/catalog"
	"tripedit/config"
	"tripedit/models"
	"tripedit/server/fastview"
	"tripedit/server/root_view"
	"tripedit/server/trip_views"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// parser is a view that defines its template in a template set and returns the name.
type parser interface {
	Parse(*template.Template) (string, error)
}

// Server serves the trip's point list and the point edit pages. Each edit page is a
// session: a RootView created when the page is served, and driven by the page's
// websocket until it closes. Sessions whose page never connects are dropped after
// the session timeout.
type Server struct {
	ctx            context.Context
	addr           string
	sessionTimeout time.Duration
	batchRate      time.Duration
	points         *models.PointsModel
	catalog        *catalog.Store
	sessions       *sessions
	tripList       *trip_views.TripList
	router         *mux.Router
}

// NewServer returns a server of the points, with offers and destinations from the catalog.
// Sessions are disposed when ctx is cancelled.
func NewServer(
	ctx context.Context,
	cfg *config.Config,
	points *models.PointsModel,
	store *catalog.Store,
) *Server {
	server := &Server{
		ctx:            ctx,
		addr:           cfg.Server.Addr(),
		sessionTimeout: cfg.SessionTimeout,
		batchRate:      cfg.BatchRate,
		points:         points,
		catalog:        store,
		sessions:       newSessions(),
		tripList:       trip_views.NewTripList("triplist"),
	}

	router := mux.NewRouter()
	router.HandleFunc("/", server.serveList).Methods(http.MethodGet)
	router.HandleFunc("/points/new", server.serveNewPoint).Methods(http.MethodGet)
	router.HandleFunc("/points/{id}/edit", server.serveEditPoint).Methods(http.MethodGet)
	router.HandleFunc("/ws/{session}", server.serveWebsocket).Methods(http.MethodGet)
	server.router = router
	return server
}

// Handler returns the server's routes.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Serve listens until the server's context is cancelled.
func (server *Server) Serve() (err error) {
	srv := &http.Server{
		Addr:    server.addr,
		Handler: server.router,
	}
	go func() {
		<-server.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Println("serving on", server.addr)
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// serveList serves the trip's points.
func (server *Server) serveList(w http.ResponseWriter, r *http.Request) {
	rows := trip_views.Convert(server.points.List(), server.catalog.Current())
	w.Header().Set("Content-Type", "text/html")
	if err := renderTemplate(w, server.tripList, rows); err != nil {
		log.Println("list page:", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (server *Server) serveNewPoint(w http.ResponseWriter, r *http.Request) {
	server.serveEditor(w, nil)
}

func (server *Server) serveEditPoint(w http.ResponseWriter, r *http.Request) {
	point, ok := server.points.GetByID(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	server.serveEditor(w, &point)
}

// serveEditor starts an edit session for point, a new point when nil, and serves its page.
func (server *Server) serveEditor(w http.ResponseWriter, point *models.Point) {
	rv, err := server.newSession(point)
	if err != nil {
		log.Println("edit session:", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if err = renderTemplate(w, rv, nil); err != nil {
		log.Println("edit page:", err)
		server.sessions.drop(rv.ID())
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// newSession builds the RootView of an edit session and registers it until its page
// connects, or the session timeout expires.
func (server *Server) newSession(point *models.Point) (*root_view.RootView, error) {
	id := uuid.NewString()
	rv, err := root_view.NewRootView(server.ctx, id, root_view.Params{
		Point:     point,
		Catalog:   server.catalog,
		OnSubmit:  server.onSubmit,
		OnReset:   server.onReset(point),
		OnRollup:  func() string { return "/" },
		BatchRate: server.batchRate,
	})
	if err != nil {
		return nil, err
	}

	server.sessions.add(rv)
	time.AfterFunc(server.sessionTimeout, func() {
		if server.sessions.expire(id) {
			log.Println("session expired:", id)
		}
	})
	return rv, nil
}

// onSubmit saves the edited point, giving new points an id, and returns to the list.
func (server *Server) onSubmit(p models.Point) string {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	server.points.Upsert(p)
	return "/"
}

// onReset returns the reset handler of an edit session: the reset control deletes
// an existing point, and abandons a new one.
func (server *Server) onReset(point *models.Point) func() string {
	return func() string {
		if point != nil {
			server.points.Delete(point.ID)
		}
		return "/"
	}
}

// serveWebsocket syncs an edit session with its page. A session accepts a single
// connection, and ends with it.
func (server *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session"]
	rv, ok := server.sessions.claim(id)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer server.sessions.drop(id)

	cli, err := fastview.NewClient(rv.Updates(), rv.Dispatch, w, r)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	if err = cli.Sync(); err != nil {
		log.Println("sync:", id, err)
	}
}

func renderTemplate(
	w io.Writer,
	vc parser,
	data interface{},
) (err error) {
	t := template.New("index.html")
	var tname string
	if tname, err = vc.Parse(t); err != nil {
		return
	}
	if _, err = t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return
	}

	err = t.Execute(w, data)
	return
}

type session struct {
	view      *root_view.RootView
	connected bool
}

// sessions is the registry of live edit sessions.
type sessions struct {
	mu   sync.Mutex
	byID map[string]*session
}

func newSessions() *sessions {
	return &sessions{byID: map[string]*session{}}
}

func (s *sessions) add(rv *root_view.RootView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[rv.ID()] = &session{view: rv}
}

// claim returns the session's view and marks it connected; ok is false for
// unknown sessions and sessions already connected.
func (s *sessions) claim(id string) (rv *root_view.RootView, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, found := s.byID[id]
	if !found || sess.connected {
		return nil, false
	}
	sess.connected = true
	return sess.view, true
}

// expire drops the session if its page never connected, reporting whether it did.
func (s *sessions) expire(id string) bool {
	s.mu.Lock()
	sess, found := s.byID[id]
	if !found || sess.connected {
		s.mu.Unlock()
		return false
	}
	delete(s.byID, id)
	s.mu.Unlock()

	sess.view.Dispose()
	return true
}

// drop removes and disposes the session.
func (s *sessions) drop(id string) {
	s.mu.Lock()
	sess, found := s.byID[id]
	delete(s.byID, id)
	s.mu.Unlock()

	if found {
		sess.view.Dispose()
	}
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
