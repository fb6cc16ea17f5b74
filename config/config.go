package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"smart-traffic/internal/domain/entity"
)

type Config struct {
	Source    string `yaml:"source"`     // номер камеры или путь к видео/картинкам
	ModelPath string `yaml:"model_path"` // XML каскада Хаара

	Detection entity.DetectionParams `yaml:"detection"`
	Signal    entity.SignalTimings   `yaml:"signal"`
	Crop      entity.Crop            `yaml:"crop"`

	BoxColor     string `yaml:"box_color"` // #RRGGBB
	BoxThickness int    `yaml:"box_thickness"`

	CameraWidth   int           `yaml:"camera_width"`
	CameraHeight  int           `yaml:"camera_height"`
	StillsMaxSide int           `yaml:"stills_max_side"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	DisplayQueue  int           `yaml:"display_queue"`

	LogLevel    string `yaml:"log_level"`
	LogDev      bool   `yaml:"log_dev"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default камера 0, каскад haarcascade_car.xml, цикл 10s/10s/3s.
func Default() *Config {
	return &Config{
		Source:       "0",
		ModelPath:    "haarcascade_car.xml",
		Detection:    entity.DefaultDetectionParams,
		Signal:       entity.DefaultSignalTimings,
		BoxColor:     "#00FF00",
		BoxThickness: 2,
		DisplayQueue: 4,
		LogLevel:     "info",
	}
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("TRAFFIC_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// loadEnv переменные окружения перекрывают файл.
func (c *Config) loadEnv() error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("TRAFFIC_SOURCE", &c.Source)
	str("TRAFFIC_MODEL_PATH", &c.ModelPath)
	if v, ok := os.LookupEnv("TRAFFIC_SCALE_FACTOR"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("TRAFFIC_SCALE_FACTOR: %w", err))
		} else {
			c.Detection.ScaleFactor = f
		}
	}
	num("TRAFFIC_MIN_NEIGHBORS", &c.Detection.MinNeighbors)
	dur("TRAFFIC_RED_HOLD", &c.Signal.RedHold)
	dur("TRAFFIC_GREEN_HOLD", &c.Signal.GreenHold)
	dur("TRAFFIC_YELLOW_HOLD", &c.Signal.YellowHold)
	num("TRAFFIC_CROP_TOP", &c.Crop.Top)
	num("TRAFFIC_CROP_BOTTOM", &c.Crop.Bottom)
	num("TRAFFIC_CROP_LEFT", &c.Crop.Left)
	num("TRAFFIC_CROP_RIGHT", &c.Crop.Right)
	str("TRAFFIC_BOX_COLOR", &c.BoxColor)
	num("TRAFFIC_BOX_THICKNESS", &c.BoxThickness)
	num("TRAFFIC_CAMERA_WIDTH", &c.CameraWidth)
	num("TRAFFIC_CAMERA_HEIGHT", &c.CameraHeight)
	num("TRAFFIC_STILLS_MAX_SIDE", &c.StillsMaxSide)
	dur("TRAFFIC_FRAME_INTERVAL", &c.FrameInterval)
	num("TRAFFIC_DISPLAY_QUEUE", &c.DisplayQueue)
	str("TRAFFIC_LOG_LEVEL", &c.LogLevel)
	str("TRAFFIC_METRICS_ADDR", &c.MetricsAddr)
	if v, ok := os.LookupEnv("TRAFFIC_LOG_DEV"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("TRAFFIC_LOG_DEV: %w", err))
		} else {
			c.LogDev = b
		}
	}

	return errors.Join(errs...)
}

// Validate проверяет настройки до запуска.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.ModelPath == "" {
		return errors.New("model path is required")
	}
	if err := c.Detection.Validate(); err != nil {
		return err
	}
	if c.Signal.RedHold <= 0 || c.Signal.GreenHold <= 0 || c.Signal.YellowHold <= 0 {
		return fmt.Errorf("signal holds must be positive, got %+v", c.Signal)
	}
	if c.Crop.Top < 0 || c.Crop.Bottom < 0 || c.Crop.Left < 0 || c.Crop.Right < 0 {
		return fmt.Errorf("crop must be non-negative, got %+v", c.Crop)
	}
	if _, err := parseHexColor(c.BoxColor); err != nil {
		return err
	}
	if c.BoxThickness <= 0 {
		return fmt.Errorf("box thickness must be positive, got %d", c.BoxThickness)
	}
	return nil
}

// BoxStyle стиль рамок для разметки кадров.
func (c *Config) BoxStyle() entity.BoxStyle {
	col, err := parseHexColor(c.BoxColor)
	if err != nil {
		return entity.DefaultBoxStyle
	}
	return entity.BoxStyle{Color: col, Thickness: c.BoxThickness}
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("box color must be #RRGGBB, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("box color must be #RRGGBB, got %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
