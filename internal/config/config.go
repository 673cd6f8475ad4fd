package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     Logger
	Storage    StorageConfig
	Pipeline   PipelineConfig
	Commentary CommentaryConfig
	JobStore   JobStoreConfig
	Redis      RedisConfig
	S3         S3Config
}

type ServerConfig struct {
	AppVersion    string
	Port          string
	Mode          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxUploadSize string
	AllowOrigins  []string
}

type StorageConfig struct {
	UploadDir string
	OutputDir string
}

type PipelineConfig struct {
	MaxSampledFrames int
	DisplaySeconds   float64
	SampleMaxWidth   int
	JPEGQuality      int
	FFmpegPath       string
	FFprobePath      string
	VideoCodec       string
	PreserveAudio    bool
	// MaxConcurrentJobs bounds how many jobs run at once; the rest stay queued.
	// Zero means no limit.
	MaxConcurrentJobs int
	MaxCPUUsage       float64
}

type CommentaryConfig struct {
	Model        string
	FrameTimeout time.Duration
}

// JobStoreConfig selects where job status lives. Driver is "memory" or "redis".
type JobStoreConfig struct {
	Driver    string
	KeyPrefix string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	UseTLS        bool
}

type S3Config struct {
	Enabled       bool
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	OutputBucket  string
	PresignExpiry time.Duration
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

const (
	JobStoreMemory = "memory"
	JobStoreRedis  = "redis"
)

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.SetDefaults()
	return &c, nil
}

// SetDefaults fills every zero value that the pipeline cannot run without.
func (c *Config) SetDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 5 * time.Minute
	}
	if c.Server.MaxUploadSize == "" {
		c.Server.MaxUploadSize = "100M"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "uploads"
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "outputs"
	}
	if c.Pipeline.MaxSampledFrames <= 0 {
		c.Pipeline.MaxSampledFrames = 8
	}
	if c.Pipeline.DisplaySeconds <= 0 {
		c.Pipeline.DisplaySeconds = 3
	}
	if c.Pipeline.SampleMaxWidth <= 0 {
		c.Pipeline.SampleMaxWidth = 640
	}
	if c.Pipeline.JPEGQuality <= 0 || c.Pipeline.JPEGQuality > 100 {
		c.Pipeline.JPEGQuality = 85
	}
	if c.Pipeline.MaxConcurrentJobs < 0 {
		c.Pipeline.MaxConcurrentJobs = 0
	}
	if c.Pipeline.MaxCPUUsage <= 0 {
		c.Pipeline.MaxCPUUsage = 90
	}
	if c.Pipeline.FFmpegPath == "" {
		c.Pipeline.FFmpegPath = "ffmpeg"
	}
	if c.Pipeline.FFprobePath == "" {
		c.Pipeline.FFprobePath = "ffprobe"
	}
	if c.Pipeline.VideoCodec == "" {
		c.Pipeline.VideoCodec = "mpeg4"
	}
	if c.Commentary.Model == "" {
		c.Commentary.Model = "gemini-1.5-flash"
	}
	if c.Commentary.FrameTimeout <= 0 {
		c.Commentary.FrameTimeout = 30 * time.Second
	}
	if c.JobStore.Driver == "" {
		c.JobStore.Driver = JobStoreMemory
	}
	if c.JobStore.KeyPrefix == "" {
		c.JobStore.KeyPrefix = "analysis:job:"
	}
	if c.S3.PresignExpiry <= 0 {
		c.S3.PresignExpiry = 15 * time.Minute
	}
	if c.Logger.Encoding == "" {
		c.Logger.Encoding = "console"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}
