package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	Log             LogConfig             `mapstructure:"log"`
	Minio           MinioConfig           `mapstructure:"minio"`
	Processing      ProcessingConfig      `mapstructure:"processing"`
	Streaming       StreamingConfig       `mapstructure:"streaming"`
	Worker          WorkerConfig          `mapstructure:"worker"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	Profiling       ProfilingConfig       `mapstructure:"profiling"`
	Public          PublicConfig          `mapstructure:"public"`
}

// ServerConfig configures the internal HTTP API.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig configures the content record store connection.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig configures the signed-URL cache backend.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
}

// KafkaConfig configures the upload event consumer and result producer.
type KafkaConfig struct {
	Enabled              bool              `mapstructure:"enabled"`
	BootstrapServers     []string          `mapstructure:"bootstrap_servers"`
	ClientID             string            `mapstructure:"client_id"`
	GroupID              string            `mapstructure:"group_id"`
	Topics               KafkaTopicsConfig `mapstructure:"topics"`
	CommitOnDecodeError  bool              `mapstructure:"commit_on_decode_error"`
	CommitOnProcessError bool              `mapstructure:"commit_on_process_error"`
}

// KafkaTopicsConfig names the topics the pipeline consumes and produces.
type KafkaTopicsConfig struct {
	VideoUploaded  string `mapstructure:"video_uploaded"`
	VideoProcessed string `mapstructure:"video_processed"`
}

// JWTConfig configures optional bearer-token validation on the internal API.
type JWTConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Secret  string `mapstructure:"secret"`
	Issuer  string `mapstructure:"issuer"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// MinioConfig configures the blob store client.
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// QualityTierConfig is one rung of the resolution ladder.
type QualityTierConfig struct {
	Name   string `mapstructure:"name"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// ProcessingConfig configures the ingestion pipeline.
type ProcessingConfig struct {
	FFmpeg         FFmpegConfig        `mapstructure:"ffmpeg"`
	QualityLadder  []QualityTierConfig `mapstructure:"quality_ladder"`
	Formats        []string            `mapstructure:"formats"`
	ThumbnailCount int                 `mapstructure:"thumbnail_count"`
	ScratchDir     string              `mapstructure:"scratch_dir"`
}

// FFmpegConfig configures the external media tooling.
type FFmpegConfig struct {
	BinaryPath      string        `mapstructure:"binary_path"`
	ProbeBinaryPath string        `mapstructure:"probe_binary_path"`
	CRF             int           `mapstructure:"crf"`
	Preset          string        `mapstructure:"preset"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// StreamingConfig configures the playback resolver.
type StreamingConfig struct {
	SignTTL     time.Duration `mapstructure:"sign_ttl"`
	URLCacheTTL time.Duration `mapstructure:"url_cache_ttl"`
}

// WorkerConfig configures the background processing pool.
type WorkerConfig struct {
	WorkerID            string        `mapstructure:"worker_id"`
	MaxConcurrentJobs   int           `mapstructure:"max_concurrent_jobs"`
	MaxConcurrentPairs  int           `mapstructure:"max_concurrent_pairs"`
	QueueCapacity       int           `mapstructure:"queue_capacity"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

// ServiceRegistryConfig configures etcd registration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoints       []string      `mapstructure:"endpoints"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// ProfilingConfig configures continuous profiling.
type ProfilingConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ServerAddress string `mapstructure:"server_address"`
}

// PublicConfig configures externally visible URL bases.
type PublicConfig struct {
	StorageBase string `mapstructure:"storage_base"`
}

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// SetGlobalConfig installs the process-wide configuration.
func SetGlobalConfig(cfg *Config) {
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// GetGlobalConfig returns the process-wide configuration, nil before Load.
func GetGlobalConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// Load reads the YAML configuration file and applies env overrides.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("service_registry.enabled", false)
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("kafka.client_id", "video-pipeline-service")
	viper.SetDefault("kafka.group_id", "video-pipeline-group")
	viper.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	viper.SetDefault("kafka.topics.video_uploaded", "video.uploaded")
	viper.SetDefault("kafka.topics.video_processed", "video.processed")
	viper.SetDefault("kafka.commit_on_decode_error", true)
	viper.SetDefault("kafka.commit_on_process_error", false)

	viper.SetEnvPrefix("VIDEO_PIPELINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// normalize fills defaults for fields the config file omitted.
func (c *Config) normalize() {
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	if c.Worker.MaxConcurrentJobs <= 0 {
		c.Worker.MaxConcurrentJobs = 2
	}
	if c.Worker.MaxConcurrentPairs <= 0 {
		c.Worker.MaxConcurrentPairs = c.Worker.MaxConcurrentJobs * 2
	}
	if c.Worker.QueueCapacity <= 0 {
		c.Worker.QueueCapacity = c.Worker.MaxConcurrentJobs * 10
	}
	if c.Worker.ShutdownGracePeriod == 0 {
		c.Worker.ShutdownGracePeriod = 10 * time.Second
	}

	if c.Processing.ScratchDir == "" {
		c.Processing.ScratchDir = "/tmp/video-pipeline"
	}
	if c.Processing.FFmpeg.BinaryPath == "" {
		c.Processing.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Processing.FFmpeg.ProbeBinaryPath == "" {
		c.Processing.FFmpeg.ProbeBinaryPath = "ffprobe"
	}
	if c.Processing.FFmpeg.CRF <= 0 {
		c.Processing.FFmpeg.CRF = 23
	}
	if c.Processing.FFmpeg.Preset == "" {
		c.Processing.FFmpeg.Preset = "medium"
	}
	if c.Processing.FFmpeg.Timeout == 0 {
		c.Processing.FFmpeg.Timeout = time.Hour
	}
	if len(c.Processing.QualityLadder) == 0 {
		c.Processing.QualityLadder = []QualityTierConfig{
			{Name: "high", Width: 1280, Height: 720},
			{Name: "medium", Width: 854, Height: 480},
			{Name: "low", Width: 640, Height: 360},
		}
	}
	if len(c.Processing.Formats) == 0 {
		c.Processing.Formats = []string{"mp4", "webm"}
	}
	if c.Processing.ThumbnailCount <= 0 {
		c.Processing.ThumbnailCount = 3
	}

	if c.Streaming.SignTTL <= 0 {
		c.Streaming.SignTTL = 4 * time.Hour
	}
	if c.Streaming.URLCacheTTL <= 0 || c.Streaming.URLCacheTTL >= c.Streaming.SignTTL {
		c.Streaming.URLCacheTTL = c.Streaming.SignTTL / 2
	}

	if c.ServiceRegistry.ServiceName == "" {
		c.ServiceRegistry.ServiceName = "video-pipeline-service"
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.RefreshInterval == 0 {
		c.ServiceRegistry.RefreshInterval = 10 * time.Second
	}

	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:29092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "video-pipeline-service"
	}
	if c.Kafka.Topics.VideoUploaded == "" {
		c.Kafka.Topics.VideoUploaded = "video.uploaded"
	}
	if c.Kafka.Topics.VideoProcessed == "" {
		c.Kafka.Topics.VideoProcessed = "video.processed"
	}
}

// GetDSN builds the database connection string.
func (c *DatabaseConfig) GetDSN() string {
	charset := c.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, charset)
}

// GetRedisAddr builds the redis host:port address.
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
