package stub

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/match"
	"github.com/pact-foundation/pact-stub-server/internal/registry"
)

// Server is the stub server's HTTP runtime (spec 4.D). It holds no
// mutable state of its own beyond what net/http already manages per
// connection; the only shared mutable state is the registry, accessed
// exclusively through its snapshot/publish discipline.
type Server struct {
	engine   *match.Engine
	reg      *registry.Registry
	logger   *zap.Logger
	autoCORS bool
}

// New builds a Server. autoCORS controls whether a 404 (no interaction
// matched, no CORS preflight applied) still carries
// Access-Control-Allow-Origin: * (spec 4.D "404 synthesis").
func New(engine *match.Engine, reg *registry.Registry, logger *zap.Logger, autoCORS bool) *Server {
	return &Server{engine: engine, reg: reg, logger: logger, autoCORS: autoCORS}
}

// ServeHTTP handles one request end to end: convert wire to internal
// form, hand to the matcher with a fresh registry snapshot, and write
// the outcome back to the wire. net/http already gives each accepted
// connection its own goroutine, satisfying spec 5's "parallel tasks"
// scheduling model without any additional worker-pool machinery.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	req, err := requestFromWire(r)
	if err != nil {
		logger.Error("failed to read request body", zap.Error(err))
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	logger.Debug("received request", zap.String("method", req.Method), zap.String("path", req.Path))

	snap := s.reg.Snapshot()
	outcome := s.engine.Handle(req, snap)

	switch outcome.Kind {
	case match.Matched, match.CORSReply:
		logger.Info("matched", zap.String("method", req.Method), zap.String("path", req.Path), zap.Int("status", outcome.Response.Status))
		writeResponse(w, outcome.Response)
	default:
		logger.Warn("no matching interaction", zap.String("method", req.Method), zap.String("path", req.Path))
		writeNotFound(w, s.autoCORS)
	}
}

// Run binds port (0 for an OS-assigned port) and serves until ctx is
// canceled. It logs the bound address once listening starts, which shows
// the OS-assigned port when port is 0.
func Run(ctx context.Context, handler http.Handler, port int, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		logger.Error("could not bind listener", zap.Error(err))
		return err
	}

	srv := &http.Server{Handler: handler}
	logger.Info("server started", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		logger.Error("server error", zap.Error(err))
		return err
	}
}
