package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mo-shahab/pong-duel/canvas"
)

type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// TickRate is in ticks per second
	TickRate        int           `env:"TICK_RATE" envDefault:"60"`
	PowerUpInterval time.Duration `env:"POWERUP_INTERVAL" envDefault:"10s"`
	CanvasWidth     float64       `env:"CANVAS_WIDTH" envDefault:"800"`
	CanvasHeight    float64       `env:"CANVAS_HEIGHT" envDefault:"400"`

	LobbyTTL      time.Duration `env:"LOBBY_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	SendQueueSize int `env:"SEND_QUEUE_SIZE" envDefault:"100"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// a missing .env is fine outside development
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("TICK_RATE must be positive, got %d", c.TickRate))
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas must be positive, got %vx%v", c.CanvasWidth, c.CanvasHeight))
	}
	if c.SendQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("SEND_QUEUE_SIZE must be positive, got %d", c.SendQueueSize))
	}
	if c.PowerUpInterval < 0 || c.LobbyTTL < 0 || c.SweepInterval < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// TickInterval converts TickRate to the period between ticks.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func (c Config) Canvas() canvas.Canvas {
	return canvas.Canvas{Width: c.CanvasWidth, Height: c.CanvasHeight}
}
