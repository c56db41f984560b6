package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pithecene-io/msdev/bridge"
	"github.com/pithecene-io/msdev/log"
)

// DefaultShutdownTimeout bounds graceful dev-server shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// BridgeInfoPath serves the bridge spec so the page can find its
// controller port.
const BridgeInfoPath = "/_msdev/bridge"

// WasmServer serves a wasm build directory over HTTP with the
// cross-origin isolation headers SharedArrayBuffer needs.
type WasmServer struct {
	dir    string
	page   string
	bridge *bridge.HeadlessSpec
	logger *log.Logger
	engine *gin.Engine
}

// NewWasmServer creates a server for the artifact at pagePath. The
// containing directory is served as the document root; "/" redirects to the
// page. spec may be nil when no bridge is attached.
func NewWasmServer(pagePath string, spec *bridge.HeadlessSpec, logger *log.Logger) *WasmServer {
	if logger == nil {
		logger = log.Nop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &WasmServer{
		dir:    filepath.Dir(pagePath),
		page:   filepath.Base(pagePath),
		bridge: spec,
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(crossOriginIsolation())
	router.Use(accessLog(logger))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/"+s.page)
	})
	router.GET(BridgeInfoPath, s.bridgeInfo)
	router.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.dir))))

	s.engine = router
	return s
}

// Handler returns the HTTP handler. Exposed for tests.
func (s *WasmServer) Handler() http.Handler { return s.engine }

// Serve listens on port (0 picks a free one) and serves until ctx is
// canceled, then shuts down gracefully. ready, when non-nil, receives the
// page URL once the listener is bound.
func (s *WasmServer) Serve(ctx context.Context, port int, ready func(url string)) error {
	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bound := ln.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d/%s", bound, s.page)
	s.logger.Info("dev server listening", map[string]any{"url": url, "root": s.dir})
	if ready != nil {
		ready(url)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev server shutdown: %w", err)
	}
	return nil
}

func (s *WasmServer) bridgeInfo(c *gin.Context) {
	if s.bridge == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no bridge attached"})
		return
	}
	c.JSON(http.StatusOK, s.bridge)
}

// crossOriginIsolation sets COOP/COEP so the page may use SharedArrayBuffer
// (emscripten pthreads), and disables caching of rebuilt artifacts.
func crossOriginIsolation() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		c.Header("Cross-Origin-Embedder-Policy", "require-corp")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

func accessLog(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
