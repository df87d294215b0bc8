// Package httpapi exposes the web interface: signup, login, the dashboard,
// profile editing and file upload, download and deletion. Responses are JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Options tune request handling.
type Options struct {
	MaxUploadSize int64
	SecureCookie  bool
	LoginRate     float64
	LoginBurst    int
}

type Server struct {
	address   string
	engine    *gin.Engine
	directory *services.Directory
	ledger    *services.Ledger
	intake    *services.Intake
	issuer    *auth.Issuer
	logger    logging.Logger
	opts      Options
}

func NewServer(a string, l logging.Logger, d *services.Directory, lg *services.Ledger, in *services.Intake,
	issuer *auth.Issuer, opts Options) *Server {

	s := &Server{
		address:   a,
		directory: d,
		ledger:    lg,
		intake:    in,
		issuer:    issuer,
		logger:    l.With("module", "http_server"),
		opts:      opts,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.requestLogger(), s.recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", s.index)
	r.POST("/signup", s.signup)
	r.POST("/login", newLimiter(s.opts.LoginRate, s.opts.LoginBurst).middleware(), s.login)
	r.GET("/logout", s.logout)
	r.POST("/logout", s.logout)

	private := r.Group("/", s.requireSession())
	private.GET("/dashboard", s.dashboard)
	private.GET("/profile", s.getProfile)
	private.POST("/profile", s.updateProfile)
	private.POST("/upload", s.upload)
	private.POST("/delete_file/:filename", s.deleteFile)
	private.GET("/files/:filename", s.download)

	return r
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
