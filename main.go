package main

import (
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"

	"quizrush-backend/internal/config"
	"quizrush-backend/internal/handlers"
	"quizrush-backend/internal/middleware"
	"quizrush-backend/internal/quiz"
	"quizrush-backend/internal/rate"

	"github.com/MadAppGang/httplog"
	"github.com/coder/websocket"
	"github.com/rs/cors"
)

func init() {
	if os.Getenv("DEBUG") == "yes" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		middleware.CORS = cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
		})
		middleware.HTTPLogger = httplog.LoggerWithConfig(httplog.LoggerConfig{
			RouterName: "QuizRush",
			Formatter: httplog.ChainLogFormatter(
				httplog.DefaultLogFormatter,
				httplog.RequestHeaderLogFormatter, httplog.RequestBodyLogFormatter,
				httplog.ResponseHeaderLogFormatter, httplog.ResponseBodyLogFormatter),
			CaptureBody: true,
		})
	}
}

func main() {
	cfg, err := config.LoadConfig("") // TODO: config flags
	if err != nil {
		log.Fatal(err)
	}

	rooms := quiz.NewRooms(cfg.Room.MaxRooms)
	limiter := rate.NewLimiter(cfg.Room.CreateWindow, cfg.Room.CreateLimit)
	acceptOpts := websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // Accepting all requests
	}

	wsHandler := handlers.WSHandler(cfg, rooms, limiter, acceptOpts)

	http.Handle("GET /ws", middleware.ApplyDefaults(wsHandler))

	srv := http.Server{
		Addr:    cfg.ListenAddr,
		Handler: http.DefaultServeMux,
	}

	slog.Info("listening", slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
