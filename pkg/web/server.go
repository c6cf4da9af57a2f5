// Package web exposes the command pipeline over HTTP.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/shatolabs/shato/pkg/command"
	"github.com/shatolabs/shato/pkg/hub"
	"github.com/shatolabs/shato/pkg/orchestrator"
)

// Server is the HTTP surface of the pipeline: the /process endpoint,
// health checks, the command table, and the live activity feed.
type Server struct {
	app    *fiber.App
	port   string
	orch   *orchestrator.Orchestrator
	schema *command.Schema

	activityHub *hub.Hub
}

// NewServer creates the HTTP server around an orchestrator.
func NewServer(port string, orch *orchestrator.Orchestrator, schema *command.Schema) *Server {
	s := &Server{
		port:        port,
		orch:        orch,
		schema:      schema,
		activityHub: hub.New("activity"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "SHATO Orchestrator",
		DisableStartupMessage: true,
	})

	// CORS for the demo UI
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)
	app.Post("/process", s.handleProcess)

	api := app.Group("/api")
	api.Get("/commands", s.handleListCommands)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/activity", websocket.New(s.handleActivityWS))

	s.app = app
	return s
}

// PublishEvent broadcasts a request lifecycle event to activity feed
// clients. Wire it as the orchestrator's event observer.
func (s *Server) PublishEvent(ev orchestrator.Event) {
	s.activityHub.BroadcastJSON(ev)
}

// Start runs the hub and the HTTP listener. Blocks until shutdown.
func (s *Server) Start() error {
	go s.activityHub.Run()
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the HTTP listener and the activity hub.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	s.activityHub.Stop()
	return err
}

// handleActivityWS attaches a websocket client to the activity hub.
func (s *Server) handleActivityWS(c *websocket.Conn) {
	client := hub.NewClient(s.activityHub, c)
	client.Run()
}
