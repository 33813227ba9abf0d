package protocal

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"golang-line-connect/configs"
	httpAdapter "golang-line-connect/internal/adapters/input/http"
	lineAdapter "golang-line-connect/internal/adapters/output/line"
	"golang-line-connect/internal/adapters/output/memory"
	"golang-line-connect/internal/application"
	"golang-line-connect/pkg/metrics"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

const shutdownTimeout = 10 * time.Second

type config struct {
	ENV string `mapstructure:"env"`
}

// Server holds the wired application and the resources to release on shutdown
type Server struct {
	App      *fiber.App
	recorder *metrics.OTelRecorder
}

// ServeHTTP func
func ServeHTTP() error {
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	conf := configs.GetViper()
	setupLogging(conf.App)
	logrus.Info(conf.Env)

	srv, err := NewServer(conf)
	if err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			logrus.Println("Gracefull shut down ...")
			if err := srv.Shutdown(); err != nil {
				logrus.Println("Error when shutdown server: ", err)
			}
		}
	}()

	logrus.Println("Listerning on port: ", conf.App.Port)
	return srv.App.Listen(":" + conf.App.Port)
}

// NewServer wires the hexagonal layers and registers the routes
func NewServer(conf *configs.Config) (*Server, error) {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	srv := &Server{App: app}

	var recorder metrics.Recorder = metrics.Nop{}
	if conf.Metrics.Enabled {
		otelRecorder, err := metrics.NewOTelRecorder()
		if err != nil {
			return nil, err
		}
		srv.recorder = otelRecorder
		recorder = otelRecorder
		app.Get(metricsPath(conf.Metrics), adaptor.HTTPHandler(otelRecorder.Handler()))
	}

	// Wire up LINE hexagonal architecture
	// Output adapter (LINE client)
	lineClient, err := lineAdapter.NewLineClientAdapter(conf.Line, conf.Client, recorder)
	if err != nil {
		return nil, err
	}
	// Output adapter (redelivery store)
	seen := memory.NewRedeliveryStore(conf.Webhook.RedeliveryTTL())
	// Application services (use cases)
	lineWebhookSrv := application.NewLineWebhookService(lineClient, seen)
	messageSrv := application.NewMessageService(lineClient)
	// Input adapters (HTTP handlers)
	hdl := httpAdapter.New(Version)
	lineWebhookHdl := httpAdapter.NewLineWebhookHandler(lineWebhookSrv, conf.Line.ChannelSecret)
	messageHdl := httpAdapter.NewMessageHandler(messageSrv)

	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)

	magnolia := app.Group("/v1/api")
	{
		magnolia.Post("/push", messageHdl.Push)
		magnolia.Post("/multicast", messageHdl.Multicast)
		magnolia.Post("/broadcast", messageHdl.Broadcast)
		magnolia.Post("/validate", messageHdl.Validate)
		magnolia.Get("/bot", messageHdl.BotInfo)
		magnolia.Get("/followers", messageHdl.Followers)
		magnolia.Get("/delivery/:kind", messageHdl.SentMessages)
	}

	// LINE webhook endpoint
	webhook := app.Group("/webhook")
	{
		webhook.Post("/line", lineWebhookHdl.HandleWebhook)
	}

	return srv, nil
}

// Shutdown stops accepting requests and flushes metrics
func (s *Server) Shutdown() error {
	if err := s.App.Shutdown(); err != nil {
		return err
	}
	if s.recorder == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.recorder.Shutdown(ctx)
}

func setupLogging(app configs.App) {
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if app.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func metricsPath(m configs.Metrics) string {
	if m.Path == "" {
		return "/metrics"
	}
	return m.Path
}
