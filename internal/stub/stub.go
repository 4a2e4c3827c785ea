// Package stub serves canned analytics responses that follow the backend contract.
// It never gathers commits or fits models; it exists so the consoles can be
// exercised without the real backend.
package stub

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/commitfit/internal/contract"
	"github.com/commitfit/internal/logging"
	"github.com/commitfit/pkg/models"
)

// Server is the stub backend
type Server struct {
	echo *echo.Echo
	port int
}

// NewServer creates a stub backend answering on the given endpoint paths.
func NewServer(port int, endpoint func(models.OperationKind) string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(logging.RequestLogger())
	e.Use(middleware.Recover())

	s := &Server{echo: e, port: port}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	e.POST(endpoint(models.OperationGather), s.gather)
	e.POST(endpoint(models.OperationFitBass), s.fitBass)
	e.POST(endpoint(models.OperationFitInnovation), s.fitInnovation)

	return s
}

// Handler exposes the routes for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until interrupted.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Stub backend stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func failure(message string) map[string]interface{} {
	return map[string]interface{}{"success": false, "error": message}
}

// bindRepo requires both names, like the real backend.
func bindRepo(c echo.Context) (models.RepoRef, map[string]interface{}) {
	var ref models.RepoRef
	if err := c.Bind(&ref); err != nil {
		return ref, failure(fmt.Sprintf("invalid request body: %v", err))
	}
	if !ref.Complete() {
		return ref, failure("Owner and repository name are required")
	}
	return ref, nil
}

func (s *Server) gather(c echo.Context) error {
	ref, fail := bindRepo(c)
	if fail != nil {
		return c.JSON(http.StatusOK, fail)
	}

	var output string
	for _, a := range contract.GatherArtifacts(ref) {
		output += fmt.Sprintf("wrote %s\n", a.Path)
	}

	return c.JSON(http.StatusOK, models.GatherResult{Success: true, Output: output})
}

func (s *Server) fitBass(c echo.Context) error {
	ref, fail := bindRepo(c)
	if fail != nil {
		return c.JSON(http.StatusOK, fail)
	}

	return c.JSON(http.StatusOK, models.ModelFitResult{
		Success: true,
		Output:  fmt.Sprintf("Bass model fit for %s (stub)\np=0.03, q=0.38, m=1200\n", ref.FullName()),
		Images:  contract.BassImages(ref),
	})
}

func (s *Server) fitInnovation(c echo.Context) error {
	ref, fail := bindRepo(c)
	if fail != nil {
		return c.JSON(http.StatusOK, fail)
	}

	return c.JSON(http.StatusOK, models.ModelFitResult{
		Success: true,
		Output:  fmt.Sprintf("Innovation model fit for %s (stub)\nr=0.12, K=5400\n", ref.FullName()),
		Images:  contract.InnovationImages(ref),
	})
}
