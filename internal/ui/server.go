// Package ui serves the browser console: the repository inputs, the operation
// buttons and the regions each operation paints into.
package ui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/commitfit/internal/contract"
	"github.com/commitfit/internal/input"
	"github.com/commitfit/internal/logging"
	"github.com/commitfit/internal/operation"
	"github.com/commitfit/internal/region"
	"github.com/commitfit/internal/render"
	"github.com/commitfit/internal/transport"
	"github.com/commitfit/pkg/models"
)

//go:embed templates/index.html
var templates embed.FS

const heartbeatInterval = 15 * time.Second

var labels = map[models.OperationKind]string{
	models.OperationGather:        "Gather Commits",
	models.OperationFitBass:       "Fit Bass Model",
	models.OperationFitInnovation: "Fit Innovation Model",
}

// Options configures a console server.
type Options struct {
	Port         int
	Definitions  []operation.Definition
	Sender       transport.Sender
	DiscardStale bool
}

// Server is the browser console
type Server struct {
	echo   *echo.Echo
	port   int
	page   *template.Template
	fields *input.Fields
	board  *region.Board
	hub    *Hub
	set    *operation.Set

	// triggerMu keeps an input update and the trigger that reads it together.
	triggerMu sync.Mutex
}

// NewServer wires the operation controllers to a region board that streams
// its changes to connected browsers.
func NewServer(opts Options) (*Server, error) {
	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	hub := NewHub()
	board := region.NewBoard(hub.Publish)
	fields := input.NewFields("", "")

	set, err := operation.NewSet(opts.Definitions, fields, opts.Sender,
		func(kind models.OperationKind) (operation.Region, operation.Region) {
			layout := region.DefaultLayout(kind)
			return board.Region(layout.Status), board.Region(layout.Result)
		}, opts.DiscardStale)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(logging.RequestLogger())
	e.Use(middleware.Recover())

	s := &Server{
		echo:   e,
		port:   opts.Port,
		page:   page,
		fields: fields,
		board:  board,
		hub:    hub,
		set:    set,
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.index)
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":           "healthy",
			"contract_version": contract.Version,
		})
	})

	v1 := s.echo.Group("/api/v1")
	v1.GET("/state", s.state)
	v1.GET("/events", s.events)
	v1.POST("/operations/:kind", s.trigger)
}

// Handler exposes the routes for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Wait blocks until every triggered operation has finished.
func (s *Server) Wait() {
	s.set.Wait()
}

// Start serves until interrupted.
func (s *Server) Start() error {
	go func() {
		log.Info().Int("port", s.port).Msgf("Console available at http://localhost:%d", s.port)
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Console server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down console server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

type pageOperation struct {
	Kind   models.OperationKind
	Label  string
	Layout region.Layout
}

type pageData struct {
	Gather    pageOperation
	ModelFits []pageOperation
	Input     models.RepoRef
	Regions   map[string]template.HTML
}

func (s *Server) index(c echo.Context) error {
	data := pageData{
		Input:   s.fields.Read(),
		Regions: make(map[string]template.HTML),
	}

	for _, kind := range s.set.Kinds() {
		op := pageOperation{Kind: kind, Label: labels[kind], Layout: region.DefaultLayout(kind)}
		if kind == models.OperationGather {
			data.Gather = op
		} else {
			data.ModelFits = append(data.ModelFits, op)
		}
	}

	for id, f := range s.board.Snapshot() {
		html, err := render.HTML(f)
		if err != nil {
			return err
		}
		data.Regions[id] = html
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return s.page.Execute(c.Response(), data)
}

// StateResponse is the JSON view of the whole console.
type StateResponse struct {
	ContractVersion int                                    `json:"contract_version"`
	Input           models.RepoRef                         `json:"input"`
	Operations      map[models.OperationKind]OperationView `json:"operations"`
	Regions         map[string]render.Fragment             `json:"regions"`
}

// OperationView is the state and layout of one operation.
type OperationView struct {
	State  models.State  `json:"state"`
	Layout region.Layout `json:"layout"`
}

func (s *Server) state(c echo.Context) error {
	resp := StateResponse{
		ContractVersion: contract.Version,
		Input:           s.fields.Read(),
		Operations:      make(map[models.OperationKind]OperationView),
		Regions:         s.board.Snapshot(),
	}
	for kind, st := range s.set.States() {
		resp.Operations[kind] = OperationView{State: st, Layout: region.DefaultLayout(kind)}
	}
	return c.JSON(http.StatusOK, resp)
}

type triggerRequest struct {
	Owner string `json:"owner" form:"owner"`
	Repo  string `json:"repo" form:"repo"`
}

// TriggerResponse acknowledges a started operation.
type TriggerResponse struct {
	Operation models.OperationKind `json:"operation"`
	Token     uint64               `json:"token"`
	State     models.State         `json:"state"`
}

func (s *Server) trigger(c echo.Context) error {
	kind, ok := models.ParseOperationKind(c.Param("kind"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown operation")
	}
	ctrl, ok := s.set.Get(kind)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "operation not enabled")
	}

	var req triggerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	s.triggerMu.Lock()
	s.fields.Set(models.RepoRef{Owner: req.Owner, Repo: req.Repo})
	token := ctrl.Trigger()
	s.triggerMu.Unlock()

	return c.JSON(http.StatusAccepted, TriggerResponse{
		Operation: kind,
		Token:     token,
		State:     ctrl.State(),
	})
}

func (s *Server) events(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	cl := s.hub.Subscribe()
	defer s.hub.Unsubscribe(cl)

	// Every region goes out once so a reconnecting page catches up.
	for _, id := range s.board.IDs() {
		msg, err := regionMessage(id, s.board.Get(id))
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(msg)); err != nil {
			return nil
		}
	}
	w.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-cl.messages:
			if !ok {
				return nil
			}
			if _, err := w.Write([]byte(msg)); err != nil {
				return nil
			}
			w.Flush()
		case <-ticker.C:
			if _, err := w.Write([]byte("event: heartbeat\ndata: ping\n\n")); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
