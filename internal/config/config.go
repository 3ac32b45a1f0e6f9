package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP        HTTP        `json:"http"`
	Persistence Persistence `json:"persistence"`
	Redis       Redis       `json:"redis"`
	Geocoder    Geocoder    `json:"geocoder"`
	Routing     Routing     `json:"routing"`
	Estimate    Estimate    `json:"estimate"`
	Map         Map         `json:"map"`
	Clients     Clients     `json:"clients"`
}

// Geocoder configures the forward/reverse geocoding provider.
type Geocoder struct {
	BaseURL   string      `json:"base_url" yaml:"base_url"`
	UserAgent string      `json:"user_agent" yaml:"user_agent"`
	Bounds    BoundingBox `json:"bounds"`
	// Timeouts and delays are milliseconds.
	ForwardTimeoutMS uint `json:"forward_timeout_ms" yaml:"forward_timeout_ms"`
	ReverseTimeoutMS uint `json:"reverse_timeout_ms" yaml:"reverse_timeout_ms"`
	MaxRetries       uint `json:"max_retries" yaml:"max_retries"`
	BackoffBaseMS    uint `json:"backoff_base_ms" yaml:"backoff_base_ms"`
	MinIntervalMS    uint `json:"min_interval_ms" yaml:"min_interval_ms"`
	MinQueryLength   uint `json:"min_query_length" yaml:"min_query_length"`
	CandidateLimit   uint `json:"candidate_limit" yaml:"candidate_limit"`
}

// BoundingBox is the acceptance region for geocoding candidates. Results
// outside of it are discarded.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLng float64 `json:"min_lng" yaml:"min_lng"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng"`
}

func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

type Routing struct {
	OSRMBaseURL string `json:"osrm_base_url" yaml:"osrm_base_url"`
	TimeoutMS   uint   `json:"timeout_ms" yaml:"timeout_ms"`
}

// Estimate holds the trip estimation policy. The plausibility bounds and the
// assumed speed are product-tuned values, not physical constants.
type Estimate struct {
	AverageSpeedKmh float64 `json:"average_speed_kmh" yaml:"average_speed_kmh"`
	MinPlausibleKm  float64 `json:"min_plausible_km" yaml:"min_plausible_km"`
	MaxPlausibleKm  float64 `json:"max_plausible_km" yaml:"max_plausible_km"`
}

type Map struct {
	APIKey        string `json:"api_key" yaml:"api_key"`
	StyleURL      string `json:"style_url" yaml:"style_url"`
	LoadTimeoutMS uint   `json:"load_timeout_ms" yaml:"load_timeout_ms"`
}

// Clients holds per-client-profile pacing used by the booking planner.
type Clients struct {
	DesktopDebounceMS uint `json:"desktop_debounce_ms" yaml:"desktop_debounce_ms"`
	MobileDebounceMS  uint `json:"mobile_debounce_ms" yaml:"mobile_debounce_ms"`
	DesktopStaggerMS  uint `json:"desktop_stagger_ms" yaml:"desktop_stagger_ms"`
	MobileStaggerMS   uint `json:"mobile_stagger_ms" yaml:"mobile_stagger_ms"`
}

type Redis struct {
	Enabled  bool     `json:"enabled"`
	Address  string   `json:"address"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Database int      `json:"database"`
	TTLHours uint     `json:"ttl_hours" yaml:"ttl_hours"`
	Sentinel Sentinel `json:"sentinel"`
}

type Sentinel struct {
	Enabled    bool     `json:"enabled"`
	MasterName string   `json:"master_name" yaml:"master_name"`
	Addresses  []string `json:"addresses"`
	Password   string   `json:"password"`
}

type Persistence struct {
	Database Database `json:"database"`
}

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type Database struct {
	Driver          DatabaseDriver `json:"driver"`
	Database        string         `json:"database"`
	Username        string         `json:"username"`
	Password        string         `json:"password"`
	Host            string         `json:"host"`
	Port            uint16         `json:"port"`
	ExtraParameters string         `json:"extra_parameters" yaml:"extra_parameters"`
}

type HTTPListener struct {
	IPV4Host string `json:"ipv4_host" yaml:"ipv4_host"`
	IPV6Host string `json:"ipv6_host" yaml:"ipv6_host"`
	Port     uint16 `json:"port"`
}

type Tracing struct {
	Enabled      bool   `json:"enabled"`
	OTLPEndpoint string `json:"otlp_endpoint" yaml:"otlp_endpoint"`
}

type PProf struct {
	Enabled bool `json:"enabled"`
}

type Metrics struct {
	HTTPListener
	Enabled bool `json:"enabled"`
}

type HTTP struct {
	HTTPListener
	Tracing        Tracing  `json:"tracing"`
	PProf          PProf    `json:"pprof"`
	TrustedProxies []string `json:"trusted_proxies" yaml:"trusted_proxies"`
	Metrics        Metrics  `json:"metrics"`
	CORSHosts      []string `json:"cors_hosts" yaml:"cors_hosts"`
}

//nolint:golint,gochecknoglobals
var (
	ConfigFileKey          = "config"
	HTTPIPV4HostKey        = "http.ipv4_host"
	HTTPIPV6HostKey        = "http.ipv6_host"
	HTTPPortKey            = "http.port"
	HTTPTracingEnabledKey  = "http.tracing.enabled"
	HTTPTracingOTLPEndKey  = "http.tracing.otlp_endpoint"
	HTTPPProfEnabledKey    = "http.pprof.enabled"
	HTTPTrustedProxiesKey  = "http.trusted_proxies"
	HTTPMetricsEnabledKey  = "http.metrics.enabled"
	HTTPMetricsIPV4HostKey = "http.metrics.ipv4_host"
	HTTPMetricsIPV6HostKey = "http.metrics.ipv6_host"
	HTTPMetricsPortKey     = "http.metrics.port"
	HTTPCORSHostsKey       = "http.cors_hosts"

	PersistenceDatabaseDriverKey          = "persistence.database.driver"
	PersistenceDatabaseDatabaseKey        = "persistence.database.database"
	PersistenceDatabaseUsernameKey        = "persistence.database.username"
	PersistenceDatabasePasswordKey        = "persistence.database.password"
	PersistenceDatabaseHostKey            = "persistence.database.host"
	PersistenceDatabasePortKey            = "persistence.database.port"
	PersistenceDatabaseExtraParametersKey = "persistence.database.extra_parameters"

	RedisEnabledKey          = "redis.enabled"
	RedisAddressKey          = "redis.address"
	RedisUsernameKey         = "redis.username"
	RedisPasswordKey         = "redis.password"
	RedisDatabaseKey         = "redis.database"
	RedisTTLHoursKey         = "redis.ttl_hours"
	RedisSentinelEnabledKey  = "redis.sentinel.enabled"
	RedisSentinelMasterKey   = "redis.sentinel.master_name"
	RedisSentinelAddrsKey    = "redis.sentinel.addresses"
	RedisSentinelPasswordKey = "redis.sentinel.password"

	GeocoderBaseURLKey        = "geocoder.base_url"
	GeocoderUserAgentKey      = "geocoder.user_agent"
	GeocoderBoundsMinLatKey   = "geocoder.bounds.min_lat"
	GeocoderBoundsMaxLatKey   = "geocoder.bounds.max_lat"
	GeocoderBoundsMinLngKey   = "geocoder.bounds.min_lng"
	GeocoderBoundsMaxLngKey   = "geocoder.bounds.max_lng"
	GeocoderForwardTimeoutKey = "geocoder.forward_timeout_ms"
	GeocoderReverseTimeoutKey = "geocoder.reverse_timeout_ms"
	GeocoderMaxRetriesKey     = "geocoder.max_retries"
	GeocoderBackoffBaseKey    = "geocoder.backoff_base_ms"
	GeocoderMinIntervalKey    = "geocoder.min_interval_ms"
	GeocoderMinQueryLengthKey = "geocoder.min_query_length"
	GeocoderCandidateLimitKey = "geocoder.candidate_limit"

	RoutingOSRMBaseURLKey = "routing.osrm_base_url"
	RoutingTimeoutKey     = "routing.timeout_ms"

	EstimateAverageSpeedKey = "estimate.average_speed_kmh"
	EstimateMinPlausibleKey = "estimate.min_plausible_km"
	EstimateMaxPlausibleKey = "estimate.max_plausible_km"

	MapAPIKeyKey      = "map.api_key"
	MapStyleURLKey    = "map.style_url"
	MapLoadTimeoutKey = "map.load_timeout_ms"

	ClientsDesktopDebounceKey = "clients.desktop_debounce_ms"
	ClientsMobileDebounceKey  = "clients.mobile_debounce_ms"
	ClientsDesktopStaggerKey  = "clients.desktop_stagger_ms"
	ClientsMobileStaggerKey   = "clients.mobile_stagger_ms"
)

const (
	DefaultConfigPath          = "config.yaml"
	DefaultHTTPIPV4Host        = "0.0.0.0"
	DefaultHTTPIPV6Host        = "::"
	DefaultHTTPPort            = 8080
	DefaultHTTPMetricsIPV4Host = "127.0.0.1"
	DefaultHTTPMetricsIPV6Host = "::1"
	DefaultHTTPMetricsPort     = 8081

	DefaultPersistenceDatabaseDriver   = DatabaseDriverSQLite
	DefaultPersistenceDatabaseDatabase = "geo.db"

	DefaultGeocoderBaseURL        = "https://nominatim.openstreetmap.org"
	DefaultGeocoderUserAgent      = "uber-drive-geo-server"
	DefaultGeocoderForwardTimeout = 10000
	DefaultGeocoderReverseTimeout = 8000
	DefaultGeocoderMaxRetries     = 2
	DefaultGeocoderBackoffBase    = 2000
	DefaultGeocoderMinInterval    = 1000
	DefaultGeocoderMinQueryLength = 3
	DefaultGeocoderCandidateLimit = 5

	// Deployment region boundary: India.
	DefaultGeocoderBoundsMinLat = 6.46
	DefaultGeocoderBoundsMaxLat = 37.6
	DefaultGeocoderBoundsMinLng = 68.18
	DefaultGeocoderBoundsMaxLng = 97.40

	DefaultRoutingOSRMBaseURL = "https://router.project-osrm.org"
	DefaultRoutingTimeout     = 10000

	DefaultEstimateAverageSpeedKmh = 30
	DefaultEstimateMinPlausibleKm  = 0.1
	DefaultEstimateMaxPlausibleKm  = 1000

	DefaultMapLoadTimeout = 10000

	DefaultClientsDesktopDebounce = 2000
	DefaultClientsMobileDebounce  = 3000
	DefaultClientsDesktopStagger  = 500
	DefaultClientsMobileStagger   = 750

	DefaultRedisTTLHours = 24
)

func RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(ConfigFileKey, "c", DefaultConfigPath, "Config file path")
	cmd.Flags().String(HTTPIPV4HostKey, DefaultHTTPIPV4Host, "HTTP server IPv4 host")
	cmd.Flags().String(HTTPIPV6HostKey, DefaultHTTPIPV6Host, "HTTP server IPv6 host")
	cmd.Flags().Uint16(HTTPPortKey, DefaultHTTPPort, "HTTP server port")
	cmd.Flags().Bool(HTTPTracingEnabledKey, false, "Enable Open Telemetry tracing")
	cmd.Flags().String(HTTPTracingOTLPEndKey, "", "Open Telemetry endpoint")
	cmd.Flags().Bool(HTTPPProfEnabledKey, false, "Enable pprof")
	cmd.Flags().StringSlice(HTTPTrustedProxiesKey, []string{}, "Comma-separated list of trusted proxies")
	cmd.Flags().Bool(HTTPMetricsEnabledKey, false, "Enable metrics server")
	cmd.Flags().String(HTTPMetricsIPV4HostKey, DefaultHTTPMetricsIPV4Host, "Metrics server IPv4 host")
	cmd.Flags().String(HTTPMetricsIPV6HostKey, DefaultHTTPMetricsIPV6Host, "Metrics server IPv6 host")
	cmd.Flags().Uint16(HTTPMetricsPortKey, DefaultHTTPMetricsPort, "Metrics server port")
	cmd.Flags().StringSlice(HTTPCORSHostsKey, []string{}, "Comma-separated list of CORS hosts")
	cmd.Flags().String(PersistenceDatabaseDriverKey, string(DefaultPersistenceDatabaseDriver), "Database driver")
	cmd.Flags().String(PersistenceDatabaseDatabaseKey, DefaultPersistenceDatabaseDatabase, "Database path")
	cmd.Flags().String(PersistenceDatabaseUsernameKey, "", "Database username")
	cmd.Flags().String(PersistenceDatabasePasswordKey, "", "Database password")
	cmd.Flags().String(PersistenceDatabaseHostKey, "", "Database host")
	cmd.Flags().Uint16(PersistenceDatabasePortKey, 0, "Database port")
	cmd.Flags().String(PersistenceDatabaseExtraParametersKey, "", "Database extra parameters")
	cmd.Flags().Bool(RedisEnabledKey, false, "Enable the Redis geocode cache")
	cmd.Flags().String(RedisAddressKey, "", "Redis address")
	cmd.Flags().String(RedisUsernameKey, "", "Redis username")
	cmd.Flags().String(RedisPasswordKey, "", "Redis password")
	cmd.Flags().Int(RedisDatabaseKey, 0, "Redis database")
	cmd.Flags().Uint(RedisTTLHoursKey, DefaultRedisTTLHours, "Geocode cache TTL in hours")
	cmd.Flags().Bool(RedisSentinelEnabledKey, false, "Enable Redis Sentinel")
	cmd.Flags().String(RedisSentinelMasterKey, "", "Redis Sentinel master name")
	cmd.Flags().StringSlice(RedisSentinelAddrsKey, []string{}, "Comma-separated list of Redis Sentinel addresses")
	cmd.Flags().String(RedisSentinelPasswordKey, "", "Redis Sentinel password")
	cmd.Flags().String(GeocoderBaseURLKey, DefaultGeocoderBaseURL, "Geocoding provider base URL")
	cmd.Flags().String(GeocoderUserAgentKey, DefaultGeocoderUserAgent, "User-Agent sent to the geocoding provider")
	cmd.Flags().Float64(GeocoderBoundsMinLatKey, DefaultGeocoderBoundsMinLat, "Candidate bounding box minimum latitude")
	cmd.Flags().Float64(GeocoderBoundsMaxLatKey, DefaultGeocoderBoundsMaxLat, "Candidate bounding box maximum latitude")
	cmd.Flags().Float64(GeocoderBoundsMinLngKey, DefaultGeocoderBoundsMinLng, "Candidate bounding box minimum longitude")
	cmd.Flags().Float64(GeocoderBoundsMaxLngKey, DefaultGeocoderBoundsMaxLng, "Candidate bounding box maximum longitude")
	cmd.Flags().Uint(GeocoderForwardTimeoutKey, DefaultGeocoderForwardTimeout, "Forward geocode timeout in milliseconds")
	cmd.Flags().Uint(GeocoderReverseTimeoutKey, DefaultGeocoderReverseTimeout, "Reverse geocode timeout in milliseconds")
	cmd.Flags().Uint(GeocoderMaxRetriesKey, DefaultGeocoderMaxRetries, "Forward geocode retry count")
	cmd.Flags().Uint(GeocoderBackoffBaseKey, DefaultGeocoderBackoffBase, "Forward geocode backoff base in milliseconds")
	cmd.Flags().Uint(GeocoderMinIntervalKey, DefaultGeocoderMinInterval, "Minimum delay between provider calls in milliseconds")
	cmd.Flags().Uint(GeocoderMinQueryLengthKey, DefaultGeocoderMinQueryLength, "Minimum forward geocode query length")
	cmd.Flags().Uint(GeocoderCandidateLimitKey, DefaultGeocoderCandidateLimit, "Maximum candidates requested from the provider")
	cmd.Flags().String(RoutingOSRMBaseURLKey, DefaultRoutingOSRMBaseURL, "OSRM base URL")
	cmd.Flags().Uint(RoutingTimeoutKey, DefaultRoutingTimeout, "Routing request timeout in milliseconds")
	cmd.Flags().Float64(EstimateAverageSpeedKey, DefaultEstimateAverageSpeedKmh, "Assumed average speed in km/h")
	cmd.Flags().Float64(EstimateMinPlausibleKey, DefaultEstimateMinPlausibleKm, "Minimum plausible trip distance in km")
	cmd.Flags().Float64(EstimateMaxPlausibleKey, DefaultEstimateMaxPlausibleKm, "Maximum plausible trip distance in km")
	cmd.Flags().String(MapAPIKeyKey, "", "Map provider API key")
	cmd.Flags().String(MapStyleURLKey, "", "Map provider style URL")
	cmd.Flags().Uint(MapLoadTimeoutKey, DefaultMapLoadTimeout, "Map session load timeout in milliseconds")
	cmd.Flags().Uint(ClientsDesktopDebounceKey, DefaultClientsDesktopDebounce, "Desktop debounce quiet period in milliseconds")
	cmd.Flags().Uint(ClientsMobileDebounceKey, DefaultClientsMobileDebounce, "Mobile debounce quiet period in milliseconds")
	cmd.Flags().Uint(ClientsDesktopStaggerKey, DefaultClientsDesktopStagger, "Desktop stop geocode stagger in milliseconds")
	cmd.Flags().Uint(ClientsMobileStaggerKey, DefaultClientsMobileStagger, "Mobile stop geocode stagger in milliseconds")
}

var (
	ErrGeocoderBaseURLRequired   = errors.New("Geocoder base URL is required")
	ErrGeocoderUserAgentRequired = errors.New("Geocoder User-Agent is required")
	ErrGeocoderBoundsInverted    = errors.New("Geocoder bounding box is inverted")
	ErrRoutingBaseURLRequired    = errors.New("OSRM base URL is required")
	ErrEstimateSpeedInvalid      = errors.New("Average speed must be positive")
	ErrEstimateBoundsInverted    = errors.New("Estimate plausibility bounds are inverted")
	ErrOTLPEndpointRequired      = errors.New("OTLP endpoint is required when tracing is enabled")
	ErrRedisAddressRequired      = errors.New("Redis address is required when the cache is enabled")
	ErrDBHostRequired            = errors.New("Database host is required")
	ErrDBDatabaseRequired        = errors.New("Database name is required")
	ErrDatabaseDriverRequired    = errors.New("Database driver is required")
)

func (c *Config) Validate() error {
	if c.Geocoder.BaseURL == "" {
		return ErrGeocoderBaseURLRequired
	}
	if c.Geocoder.UserAgent == "" {
		return ErrGeocoderUserAgentRequired
	}
	if c.Geocoder.Bounds.MinLat >= c.Geocoder.Bounds.MaxLat ||
		c.Geocoder.Bounds.MinLng >= c.Geocoder.Bounds.MaxLng {
		return ErrGeocoderBoundsInverted
	}
	if c.Routing.OSRMBaseURL == "" {
		return ErrRoutingBaseURLRequired
	}
	if c.Estimate.AverageSpeedKmh <= 0 {
		return ErrEstimateSpeedInvalid
	}
	if c.Estimate.MinPlausibleKm >= c.Estimate.MaxPlausibleKm {
		return ErrEstimateBoundsInverted
	}
	if c.HTTP.Tracing.Enabled && c.HTTP.Tracing.OTLPEndpoint == "" {
		return ErrOTLPEndpointRequired
	}
	if c.Redis.Enabled && !c.Redis.Sentinel.Enabled && c.Redis.Address == "" {
		return ErrRedisAddressRequired
	}
	if c.Persistence.Database.Driver == "" {
		return ErrDatabaseDriverRequired
	}
	if c.Persistence.Database.Driver != DatabaseDriverSQLite && c.Persistence.Database.Host == "" {
		return ErrDBHostRequired
	}
	if c.Persistence.Database.Database == "" {
		return ErrDBDatabaseRequired
	}
	// An absent map API key is a valid configuration: the map session reports
	// a user-visible error state instead of refusing to start.

	return nil
}

func LoadConfig(cmd *cobra.Command) (*Config, error) {
	var config Config

	// Load flags from envs
	ctx, cancel := context.WithCancelCause(cmd.Context())
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if ctx.Err() != nil {
			return
		}
		optName := strings.ReplaceAll(strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_"), ".", "__")
		if val, ok := os.LookupEnv(optName); !f.Changed && ok {
			if err := f.Value.Set(val); err != nil {
				cancel(err)
			}
			f.Changed = true
		}
	})
	if ctx.Err() != nil {
		return &config, fmt.Errorf("failed to load env: %w", context.Cause(ctx))
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return &config, fmt.Errorf("failed to get config path: %w", err)
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return &config, fmt.Errorf("failed to read config: %w", err)
		} else if err == nil {
			if err := yaml.Unmarshal(data, &config); err != nil {
				return &config, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	err = overrideFlags(&config, cmd)
	if err != nil {
		return &config, fmt.Errorf("failed to override flags: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.HTTP.IPV4Host == "" {
		config.HTTP.IPV4Host = DefaultHTTPIPV4Host
	}
	if config.HTTP.IPV6Host == "" {
		config.HTTP.IPV6Host = DefaultHTTPIPV6Host
	}
	if config.HTTP.Port == 0 {
		config.HTTP.Port = DefaultHTTPPort
	}
	if config.HTTP.Metrics.IPV4Host == "" {
		config.HTTP.Metrics.IPV4Host = DefaultHTTPMetricsIPV4Host
	}
	if config.HTTP.Metrics.IPV6Host == "" {
		config.HTTP.Metrics.IPV6Host = DefaultHTTPMetricsIPV6Host
	}
	if config.HTTP.Metrics.Port == 0 {
		config.HTTP.Metrics.Port = DefaultHTTPMetricsPort
	}
	if config.Persistence.Database.Driver == "" {
		config.Persistence.Database.Driver = DefaultPersistenceDatabaseDriver
	}
	if config.Persistence.Database.Database == "" {
		config.Persistence.Database.Database = DefaultPersistenceDatabaseDatabase
	}
	if config.Redis.TTLHours == 0 {
		config.Redis.TTLHours = DefaultRedisTTLHours
	}
	if config.Geocoder.BaseURL == "" {
		config.Geocoder.BaseURL = DefaultGeocoderBaseURL
	}
	if config.Geocoder.UserAgent == "" {
		config.Geocoder.UserAgent = DefaultGeocoderUserAgent
	}
	if config.Geocoder.Bounds == (BoundingBox{}) {
		config.Geocoder.Bounds = BoundingBox{
			MinLat: DefaultGeocoderBoundsMinLat,
			MaxLat: DefaultGeocoderBoundsMaxLat,
			MinLng: DefaultGeocoderBoundsMinLng,
			MaxLng: DefaultGeocoderBoundsMaxLng,
		}
	}
	if config.Geocoder.ForwardTimeoutMS == 0 {
		config.Geocoder.ForwardTimeoutMS = DefaultGeocoderForwardTimeout
	}
	if config.Geocoder.ReverseTimeoutMS == 0 {
		config.Geocoder.ReverseTimeoutMS = DefaultGeocoderReverseTimeout
	}
	if config.Geocoder.BackoffBaseMS == 0 {
		config.Geocoder.BackoffBaseMS = DefaultGeocoderBackoffBase
	}
	if config.Geocoder.MinIntervalMS == 0 {
		config.Geocoder.MinIntervalMS = DefaultGeocoderMinInterval
	}
	if config.Geocoder.MinQueryLength == 0 {
		config.Geocoder.MinQueryLength = DefaultGeocoderMinQueryLength
	}
	if config.Geocoder.CandidateLimit == 0 {
		config.Geocoder.CandidateLimit = DefaultGeocoderCandidateLimit
	}
	if config.Routing.OSRMBaseURL == "" {
		config.Routing.OSRMBaseURL = DefaultRoutingOSRMBaseURL
	}
	if config.Routing.TimeoutMS == 0 {
		config.Routing.TimeoutMS = DefaultRoutingTimeout
	}
	if config.Estimate.AverageSpeedKmh == 0 {
		config.Estimate.AverageSpeedKmh = DefaultEstimateAverageSpeedKmh
	}
	if config.Estimate.MinPlausibleKm == 0 {
		config.Estimate.MinPlausibleKm = DefaultEstimateMinPlausibleKm
	}
	if config.Estimate.MaxPlausibleKm == 0 {
		config.Estimate.MaxPlausibleKm = DefaultEstimateMaxPlausibleKm
	}
	if config.Map.LoadTimeoutMS == 0 {
		config.Map.LoadTimeoutMS = DefaultMapLoadTimeout
	}
	if config.Clients.DesktopDebounceMS == 0 {
		config.Clients.DesktopDebounceMS = DefaultClientsDesktopDebounce
	}
	if config.Clients.MobileDebounceMS == 0 {
		config.Clients.MobileDebounceMS = DefaultClientsMobileDebounce
	}
	if config.Clients.DesktopStaggerMS == 0 {
		config.Clients.DesktopStaggerMS = DefaultClientsDesktopStagger
	}
	if config.Clients.MobileStaggerMS == 0 {
		config.Clients.MobileStaggerMS = DefaultClientsMobileStagger
	}
}

//nolint:golint,gocyclo
func overrideFlags(config *Config, cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed(HTTPIPV4HostKey) {
		config.HTTP.IPV4Host, err = cmd.Flags().GetString(HTTPIPV4HostKey)
		if err != nil {
			return fmt.Errorf("failed to get HTTP IPv4 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPIPV6HostKey) {
		config.HTTP.IPV6Host, err = cmd.Flags().GetString(HTTPIPV6HostKey)
		if err != nil {
			return fmt.Errorf("failed to get HTTP IPv6 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPPortKey) {
		config.HTTP.Port, err = cmd.Flags().GetUint16(HTTPPortKey)
		if err != nil {
			return fmt.Errorf("failed to get HTTP port: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPPProfEnabledKey) {
		config.HTTP.PProf.Enabled, err = cmd.Flags().GetBool(HTTPPProfEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get pprof enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPTrustedProxiesKey) {
		config.HTTP.TrustedProxies, err = cmd.Flags().GetStringSlice(HTTPTrustedProxiesKey)
		if err != nil {
			return fmt.Errorf("failed to get trusted proxies: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsEnabledKey) {
		config.HTTP.Metrics.Enabled, err = cmd.Flags().GetBool(HTTPMetricsEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsIPV4HostKey) {
		config.HTTP.Metrics.IPV4Host, err = cmd.Flags().GetString(HTTPMetricsIPV4HostKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics IPv4 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsIPV6HostKey) {
		config.HTTP.Metrics.IPV6Host, err = cmd.Flags().GetString(HTTPMetricsIPV6HostKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics IPv6 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsPortKey) {
		config.HTTP.Metrics.Port, err = cmd.Flags().GetUint16(HTTPMetricsPortKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics port: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPTracingEnabledKey) {
		config.HTTP.Tracing.Enabled, err = cmd.Flags().GetBool(HTTPTracingEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get tracing enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPTracingOTLPEndKey) {
		config.HTTP.Tracing.OTLPEndpoint, err = cmd.Flags().GetString(HTTPTracingOTLPEndKey)
		if err != nil {
			return fmt.Errorf("failed to get tracing OTLP endpoint: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPCORSHostsKey) {
		config.HTTP.CORSHosts, err = cmd.Flags().GetStringSlice(HTTPCORSHostsKey)
		if err != nil {
			return fmt.Errorf("failed to get CORS hosts: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseDriverKey) {
		drvr, err := cmd.Flags().GetString(PersistenceDatabaseDriverKey)
		if err != nil {
			return fmt.Errorf("failed to get database driver: %w", err)
		}
		config.Persistence.Database.Driver = DatabaseDriver(strings.ToLower(drvr))
	}

	if cmd.Flags().Changed(PersistenceDatabaseDatabaseKey) {
		config.Persistence.Database.Database, err = cmd.Flags().GetString(PersistenceDatabaseDatabaseKey)
		if err != nil {
			return fmt.Errorf("failed to get database name: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseUsernameKey) {
		config.Persistence.Database.Username, err = cmd.Flags().GetString(PersistenceDatabaseUsernameKey)
		if err != nil {
			return fmt.Errorf("failed to get database username: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabasePasswordKey) {
		config.Persistence.Database.Password, err = cmd.Flags().GetString(PersistenceDatabasePasswordKey)
		if err != nil {
			return fmt.Errorf("failed to get database password: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseHostKey) {
		config.Persistence.Database.Host, err = cmd.Flags().GetString(PersistenceDatabaseHostKey)
		if err != nil {
			return fmt.Errorf("failed to get database host: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabasePortKey) {
		config.Persistence.Database.Port, err = cmd.Flags().GetUint16(PersistenceDatabasePortKey)
		if err != nil {
			return fmt.Errorf("failed to get database port: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseExtraParametersKey) {
		config.Persistence.Database.ExtraParameters, err = cmd.Flags().GetString(PersistenceDatabaseExtraParametersKey)
		if err != nil {
			return fmt.Errorf("failed to get database extra parameters: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisEnabledKey) {
		config.Redis.Enabled, err = cmd.Flags().GetBool(RedisEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get redis enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisAddressKey) {
		config.Redis.Address, err = cmd.Flags().GetString(RedisAddressKey)
		if err != nil {
			return fmt.Errorf("failed to get redis address: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisUsernameKey) {
		config.Redis.Username, err = cmd.Flags().GetString(RedisUsernameKey)
		if err != nil {
			return fmt.Errorf("failed to get redis username: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisPasswordKey) {
		config.Redis.Password, err = cmd.Flags().GetString(RedisPasswordKey)
		if err != nil {
			return fmt.Errorf("failed to get redis password: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisDatabaseKey) {
		config.Redis.Database, err = cmd.Flags().GetInt(RedisDatabaseKey)
		if err != nil {
			return fmt.Errorf("failed to get redis database: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisTTLHoursKey) {
		config.Redis.TTLHours, err = cmd.Flags().GetUint(RedisTTLHoursKey)
		if err != nil {
			return fmt.Errorf("failed to get redis TTL: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisSentinelEnabledKey) {
		config.Redis.Sentinel.Enabled, err = cmd.Flags().GetBool(RedisSentinelEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get redis sentinel enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisSentinelMasterKey) {
		config.Redis.Sentinel.MasterName, err = cmd.Flags().GetString(RedisSentinelMasterKey)
		if err != nil {
			return fmt.Errorf("failed to get redis sentinel master: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisSentinelAddrsKey) {
		config.Redis.Sentinel.Addresses, err = cmd.Flags().GetStringSlice(RedisSentinelAddrsKey)
		if err != nil {
			return fmt.Errorf("failed to get redis sentinel addresses: %w", err)
		}
	}

	if cmd.Flags().Changed(RedisSentinelPasswordKey) {
		config.Redis.Sentinel.Password, err = cmd.Flags().GetString(RedisSentinelPasswordKey)
		if err != nil {
			return fmt.Errorf("failed to get redis sentinel password: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderBaseURLKey) {
		config.Geocoder.BaseURL, err = cmd.Flags().GetString(GeocoderBaseURLKey)
		if err != nil {
			return fmt.Errorf("failed to get geocoder base URL: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderUserAgentKey) {
		config.Geocoder.UserAgent, err = cmd.Flags().GetString(GeocoderUserAgentKey)
		if err != nil {
			return fmt.Errorf("failed to get geocoder User-Agent: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderBoundsMinLatKey) {
		config.Geocoder.Bounds.MinLat, err = cmd.Flags().GetFloat64(GeocoderBoundsMinLatKey)
		if err != nil {
			return fmt.Errorf("failed to get bounds min latitude: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderBoundsMaxLatKey) {
		config.Geocoder.Bounds.MaxLat, err = cmd.Flags().GetFloat64(GeocoderBoundsMaxLatKey)
		if err != nil {
			return fmt.Errorf("failed to get bounds max latitude: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderBoundsMinLngKey) {
		config.Geocoder.Bounds.MinLng, err = cmd.Flags().GetFloat64(GeocoderBoundsMinLngKey)
		if err != nil {
			return fmt.Errorf("failed to get bounds min longitude: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderBoundsMaxLngKey) {
		config.Geocoder.Bounds.MaxLng, err = cmd.Flags().GetFloat64(GeocoderBoundsMaxLngKey)
		if err != nil {
			return fmt.Errorf("failed to get bounds max longitude: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderForwardTimeoutKey) {
		config.Geocoder.ForwardTimeoutMS, err = cmd.Flags().GetUint(GeocoderForwardTimeoutKey)
		if err != nil {
			return fmt.Errorf("failed to get forward timeout: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderReverseTimeoutKey) {
		config.Geocoder.ReverseTimeoutMS, err = cmd.Flags().GetUint(GeocoderReverseTimeoutKey)
		if err != nil {
			return fmt.Errorf("failed to get reverse timeout: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderMaxRetriesKey) {
		config.Geocoder.MaxRetries, err = cmd.Flags().GetUint(GeocoderMaxRetriesKey)
		if err != nil {
			return fmt.Errorf("failed to get max retries: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderBackoffBaseKey) {
		config.Geocoder.BackoffBaseMS, err = cmd.Flags().GetUint(GeocoderBackoffBaseKey)
		if err != nil {
			return fmt.Errorf("failed to get backoff base: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderMinIntervalKey) {
		config.Geocoder.MinIntervalMS, err = cmd.Flags().GetUint(GeocoderMinIntervalKey)
		if err != nil {
			return fmt.Errorf("failed to get min interval: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderMinQueryLengthKey) {
		config.Geocoder.MinQueryLength, err = cmd.Flags().GetUint(GeocoderMinQueryLengthKey)
		if err != nil {
			return fmt.Errorf("failed to get min query length: %w", err)
		}
	}

	if cmd.Flags().Changed(GeocoderCandidateLimitKey) {
		config.Geocoder.CandidateLimit, err = cmd.Flags().GetUint(GeocoderCandidateLimitKey)
		if err != nil {
			return fmt.Errorf("failed to get candidate limit: %w", err)
		}
	}

	if cmd.Flags().Changed(RoutingOSRMBaseURLKey) {
		config.Routing.OSRMBaseURL, err = cmd.Flags().GetString(RoutingOSRMBaseURLKey)
		if err != nil {
			return fmt.Errorf("failed to get OSRM base URL: %w", err)
		}
	}

	if cmd.Flags().Changed(RoutingTimeoutKey) {
		config.Routing.TimeoutMS, err = cmd.Flags().GetUint(RoutingTimeoutKey)
		if err != nil {
			return fmt.Errorf("failed to get routing timeout: %w", err)
		}
	}

	if cmd.Flags().Changed(EstimateAverageSpeedKey) {
		config.Estimate.AverageSpeedKmh, err = cmd.Flags().GetFloat64(EstimateAverageSpeedKey)
		if err != nil {
			return fmt.Errorf("failed to get average speed: %w", err)
		}
	}

	if cmd.Flags().Changed(EstimateMinPlausibleKey) {
		config.Estimate.MinPlausibleKm, err = cmd.Flags().GetFloat64(EstimateMinPlausibleKey)
		if err != nil {
			return fmt.Errorf("failed to get min plausible distance: %w", err)
		}
	}

	if cmd.Flags().Changed(EstimateMaxPlausibleKey) {
		config.Estimate.MaxPlausibleKm, err = cmd.Flags().GetFloat64(EstimateMaxPlausibleKey)
		if err != nil {
			return fmt.Errorf("failed to get max plausible distance: %w", err)
		}
	}

	if cmd.Flags().Changed(MapAPIKeyKey) {
		config.Map.APIKey, err = cmd.Flags().GetString(MapAPIKeyKey)
		if err != nil {
			return fmt.Errorf("failed to get map API key: %w", err)
		}
	}

	if cmd.Flags().Changed(MapStyleURLKey) {
		config.Map.StyleURL, err = cmd.Flags().GetString(MapStyleURLKey)
		if err != nil {
			return fmt.Errorf("failed to get map style URL: %w", err)
		}
	}

	if cmd.Flags().Changed(MapLoadTimeoutKey) {
		config.Map.LoadTimeoutMS, err = cmd.Flags().GetUint(MapLoadTimeoutKey)
		if err != nil {
			return fmt.Errorf("failed to get map load timeout: %w", err)
		}
	}

	if cmd.Flags().Changed(ClientsDesktopDebounceKey) {
		config.Clients.DesktopDebounceMS, err = cmd.Flags().GetUint(ClientsDesktopDebounceKey)
		if err != nil {
			return fmt.Errorf("failed to get desktop debounce: %w", err)
		}
	}

	if cmd.Flags().Changed(ClientsMobileDebounceKey) {
		config.Clients.MobileDebounceMS, err = cmd.Flags().GetUint(ClientsMobileDebounceKey)
		if err != nil {
			return fmt.Errorf("failed to get mobile debounce: %w", err)
		}
	}

	if cmd.Flags().Changed(ClientsDesktopStaggerKey) {
		config.Clients.DesktopStaggerMS, err = cmd.Flags().GetUint(ClientsDesktopStaggerKey)
		if err != nil {
			return fmt.Errorf("failed to get desktop stagger: %w", err)
		}
	}

	if cmd.Flags().Changed(ClientsMobileStaggerKey) {
		config.Clients.MobileStaggerMS, err = cmd.Flags().GetUint(ClientsMobileStaggerKey)
		if err != nil {
			return fmt.Errorf("failed to get mobile stagger: %w", err)
		}
	}

	return nil
}

// Duration helpers so callers don't repeat millisecond conversions.

func (g Geocoder) ForwardTimeout() time.Duration { return time.Duration(g.ForwardTimeoutMS) * time.Millisecond }
func (g Geocoder) ReverseTimeout() time.Duration { return time.Duration(g.ReverseTimeoutMS) * time.Millisecond }
func (g Geocoder) BackoffBase() time.Duration    { return time.Duration(g.BackoffBaseMS) * time.Millisecond }
func (g Geocoder) MinInterval() time.Duration    { return time.Duration(g.MinIntervalMS) * time.Millisecond }

func (r Routing) Timeout() time.Duration { return time.Duration(r.TimeoutMS) * time.Millisecond }

func (m Map) LoadTimeout() time.Duration { return time.Duration(m.LoadTimeoutMS) * time.Millisecond }

func (c Clients) DesktopDebounce() time.Duration {
	return time.Duration(c.DesktopDebounceMS) * time.Millisecond
}

func (c Clients) MobileDebounce() time.Duration {
	return time.Duration(c.MobileDebounceMS) * time.Millisecond
}

func (c Clients) DesktopStagger() time.Duration {
	return time.Duration(c.DesktopStaggerMS) * time.Millisecond
}

func (c Clients) MobileStagger() time.Duration {
	return time.Duration(c.MobileStaggerMS) * time.Millisecond
}

func (r Redis) TTL() time.Duration { return time.Duration(r.TTLHours) * time.Hour }
