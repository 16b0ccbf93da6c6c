package webserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"f1duel/log"
)

type Manager struct {
	r      *mux.Router
	addr   string
	logger *log.Logger
}

// NewManager builds the router and serves the files of resourcesDir under
// /resources/.
func NewManager(addr, resourcesDir string) *Manager {
	m := &Manager{
		r:      mux.NewRouter(),
		addr:   addr,
		logger: log.Default().Named("webserver"),
	}

	m.rootHandlers(resourcesDir)
	m.r.Use(m.loggingMiddleware)
	return m
}

func (m *Manager) Router() *mux.Router {
	return m.r
}

func (m *Manager) rootHandlers(resourcesDir string) {
	fs := http.FileServer(http.Dir(resourcesDir))
	resStr := "/resources/"

	m.r.PathPrefix(resStr).Handler(http.StripPrefix(resStr, fs))
	m.r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
}

func (m *Manager) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		m.logger.Info("request",
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.Duration("took", time.Since(start)))
	})
}

// Routes lists the path templates of the registered routes.
func (m *Manager) Routes() []string {
	routes := []string{}
	_ = m.r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err == nil {
			pathTemplate = strings.Join(methods, ",") + " " + pathTemplate
		}
		routes = append(routes, pathTemplate)
		return nil
	})
	return routes
}

// Serve listens until ctx is done, then shuts down with a 10 seconds deadline.
func (m *Manager) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         m.addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}

	errc := make(chan error, 1)
	go func() {
		m.logger.Info("webserver listening", log.String("addr", m.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m.logger.Info("webserver shutting down")
	return srv.Shutdown(shutdownCtx)
}
