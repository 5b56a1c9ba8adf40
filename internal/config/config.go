package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type RoomConf struct {
	// MaxRooms caps the number of concurrently live rooms.
	MaxRooms int `env:"ROOM_MAX_ROOMS" envDefault:"1000"`

	// MaxPlayers caps the number of registered players per room.
	// Negative value means no limit.
	MaxPlayers int `env:"ROOM_MAX_PLAYERS" envDefault:"25"`

	// MaxQuestions caps the questions accepted in a CreateRoom action.
	MaxQuestions int `env:"ROOM_MAX_QUESTIONS" envDefault:"100"`

	// CreateWindow/CreateLimit bound room creation rate per process.
	CreateWindow time.Duration `env:"ROOM_CREATE_WINDOW" envDefault:"1m"`
	CreateLimit  int           `env:"ROOM_CREATE_LIMIT" envDefault:"30"`
}

type Config struct {
	ListenAddr         string        `env:"LISTEN_ADDR" envDefault:":8080"`
	WebsocketReadLimit int64         `env:"WEBSOCKET_READ_LIMIT" envDefault:"65536"`
	PingInterval       time.Duration `env:"PING_INTERVAL" envDefault:"5s"`
	Room               RoomConf
}

// LoadConfig reads an optional .env file then parses the environment.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
