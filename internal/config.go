package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	Host       string `env:"HOST,required=true"`
	Port       int    `env:"PORT,required=true" validate:"gt=0,lte=65535"`
	HostOrigin string `env:"HOST_ORIGIN,required=true" validate:"required,url"`
	DebugPort  *int   `env:"DEBUG_PORT" validate:"omitempty,gt=0,lte=65535"`

	CatalogueFile  string `env:"CATALOGUE_FILE"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`

	BufferSize           int           `env:"BUFFER_SIZE,required=true" validate:"gt=0"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true" validate:"gt=0"`
	TelemetryBufferSize  int           `env:"TELEMETRY_BUFFER_SIZE,required=true" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true" validate:"gt=0"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true" validate:"gt=0"`
	ReportInterval       time.Duration `env:"REPORT_INTERVAL,default=1m" validate:"gt=0"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,required=true" validate:"gte=0"`
}

// Validate checks what the env tags cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
