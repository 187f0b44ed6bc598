package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/c9s/rbtree/pkg/config"
	"github.com/c9s/rbtree/pkg/treesvc"
	"github.com/c9s/rbtree/pkg/util"
)

var log = logrus.WithField("service", "server")

type Server struct {
	Config  config.ServerConfig
	Service *treesvc.Service

	limiter *rate.Limiter
	srv     *http.Server
}

func New(conf config.ServerConfig, svc *treesvc.Service) (*Server, error) {
	s := &Server{
		Config:  conf,
		Service: svc,
	}

	if conf.RateLimit != "" {
		limiter, err := util.ParseRateLimitSyntax(conf.RateLimit)
		if err != nil {
			return nil, errors.Wrap(err, "invalid rate limit")
		}

		s.limiter = limiter
	}

	return s, nil
}

func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s.routes(r)
	return r
}

// Run serves the API until ctx is canceled, then shuts the listener down
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    s.Config.Bind,
		Handler: s.Engine(),
	}

	if s.Config.VerifyInterval != "" {
		c := cron.New()
		if _, err := c.AddFunc(s.Config.VerifyInterval, s.verify); err != nil {
			return errors.Wrapf(err, "invalid verify interval %q", s.Config.VerifyInterval)
		}

		c.Start()
		defer c.Stop()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("listening on %s", s.Config.Bind)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		log.Info("shutting down web server...")

		timeout := s.Config.ShutdownTimeout.Duration()
		if timeout == 0 {
			timeout = config.DefaultShutdownTimeout
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); util.LogErr(err, "server forced to shutdown") {
			return err
		}

		log.Info("server shutdown completed")
		return nil
	})

	return g.Wait()
}

func (s *Server) verify() {
	if err := s.Service.Verify(); err != nil {
		return
	}

	log.Debugf("tree %s passed the invariant check, size = %d", s.Service.Name, s.Service.Len())
}
