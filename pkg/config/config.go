package config

import (
	"fmt"
	"slices"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/ChainExporter/internal/common"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ExporterToken     = "token"
	ExporterConverter = "converter"
	ExporterAuction   = "auction"

	defaultBatchSize = 100000
)

// Config represents the complete configuration for the ChainExporter.
type Config struct {
	// Chain contains the node connection configuration
	Chain ChainConfig `yaml:"chain" json:"chain" toml:"chain"`

	// Contracts contains the addresses of the exported contracts
	Contracts ContractsConfig `yaml:"contracts" json:"contracts" toml:"contracts"`

	// Exporter contains the event exporter configuration
	Exporter ExporterConfig `yaml:"exporter" json:"exporter" toml:"exporter"`

	// Status contains the status projector configuration
	Status StatusConfig `yaml:"status" json:"status" toml:"status"`

	// Store contains the document store configuration
	Store StoreConfig `yaml:"store" json:"store" toml:"store"`

	// Push contains the push channel configuration
	Push PushConfig `yaml:"push" json:"push" toml:"push"`

	// Stats enables persisting per-block status snapshots
	Stats *StatsConfig `yaml:"stats,omitempty" json:"stats,omitempty" toml:"stats,omitempty"`

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`
}

// ChainConfig represents the chain node connection configuration.
type ChainConfig struct {
	// WebSocketURL is the node WebSocket endpoint, e.g. ws://localhost:8546
	WebSocketURL string `yaml:"ws_url" json:"ws_url" toml:"ws_url"`

	// IPCPath is the node IPC socket path, used when WebSocketURL is empty
	IPCPath string `yaml:"ipc_path" json:"ipc_path" toml:"ipc_path"`

	// DialTimeout bounds a single connection attempt
	DialTimeout common.Duration `yaml:"dial_timeout" json:"dial_timeout" toml:"dial_timeout"`

	// ReconnectInterval is the fixed delay between reconnection attempts
	ReconnectInterval common.Duration `yaml:"reconnect_interval" json:"reconnect_interval" toml:"reconnect_interval"`

	// HealthCheckInterval is how often a connected session probes the node
	HealthCheckInterval common.Duration `yaml:"health_check_interval" json:"health_check_interval" toml:"health_check_interval"` //nolint:lll

	// Retry contains optional retry configuration for read calls
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

// Endpoint returns the configured endpoint, preferring the WebSocket URL.
func (c *ChainConfig) Endpoint() string {
	if c.WebSocketURL != "" {
		return c.WebSocketURL
	}
	return c.IPCPath
}

// ApplyDefaults sets default values for optional chain configuration fields.
func (c *ChainConfig) ApplyDefaults() {
	if c.DialTimeout.Duration == 0 {
		c.DialTimeout = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if c.ReconnectInterval.Duration == 0 {
		c.ReconnectInterval = common.NewDuration(5 * time.Second) //nolint:mnd
	}
	if c.HealthCheckInterval.Duration == 0 {
		c.HealthCheckInterval = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if c.Retry != nil {
		c.Retry.ApplyDefaults()
	}
}

// RetryConfig represents RPC retry configuration with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial request)
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts"`

	// InitialBackoff is the initial backoff duration before first retry
	InitialBackoff common.Duration `yaml:"initial_backoff" json:"initial_backoff" toml:"initial_backoff"`

	// MaxBackoff is the maximum backoff duration
	MaxBackoff common.Duration `yaml:"max_backoff" json:"max_backoff" toml:"max_backoff"`

	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64 `yaml:"backoff_multiplier" json:"backoff_multiplier" toml:"backoff_multiplier"`
}

// ApplyDefaults sets default values for retry configuration.
func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 3
	}
	if r.InitialBackoff.Duration == 0 {
		r.InitialBackoff = common.NewDuration(500 * time.Millisecond) //nolint:mnd
	}
	if r.MaxBackoff.Duration == 0 {
		r.MaxBackoff = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 2.0
	}
}

// ContractsConfig holds the addresses of the exported contracts.
type ContractsConfig struct {
	// Token is the token contract address
	Token string `yaml:"token" json:"token" toml:"token"`

	// Auctions is the auction contract address
	Auctions string `yaml:"auctions" json:"auctions" toml:"auctions"`

	// Converter is the autonomous converter contract address
	Converter string `yaml:"converter" json:"converter" toml:"converter"`
}

// Validate checks that every address is a well formed hex address.
func (c *ContractsConfig) Validate() error {
	addrs := map[string]string{
		"token":     c.Token,
		"auctions":  c.Auctions,
		"converter": c.Converter,
	}

	for name, addr := range addrs {
		if addr == "" {
			return fmt.Errorf("contracts.%s is required", name)
		}
		if !ethcommon.IsHexAddress(addr) {
			return fmt.Errorf("contracts.%s: invalid address %q", name, addr)
		}
	}

	return nil
}

// ExporterConfig configures the event exporters.
type ExporterConfig struct {
	// StartBlock is the backfill start block used when no checkpoint is stored
	StartBlock uint64 `yaml:"start_block" json:"start_block" toml:"start_block"`

	// BatchSize is the block window size of a single historical log query
	BatchSize uint64 `yaml:"batch_size" json:"batch_size" toml:"batch_size"`

	// BalanceWorkers is the size of the balance export worker pool
	BalanceWorkers int `yaml:"balance_workers" json:"balance_workers" toml:"balance_workers"`

	// Enabled lists the exporters to run: token, converter, auction
	Enabled []string `yaml:"enabled" json:"enabled" toml:"enabled"`
}

// ApplyDefaults sets default values for optional exporter configuration fields.
func (e *ExporterConfig) ApplyDefaults() {
	if e.BatchSize == 0 {
		e.BatchSize = defaultBatchSize
	}
	if e.BalanceWorkers == 0 {
		e.BalanceWorkers = 4
	}
	if len(e.Enabled) == 0 {
		e.Enabled = []string{ExporterToken, ExporterConverter, ExporterAuction}
	}
}

// Validate checks if the exporter configuration is valid.
func (e *ExporterConfig) Validate() error {
	valid := []string{ExporterToken, ExporterConverter, ExporterAuction}
	seen := make(map[string]struct{}, len(e.Enabled))

	for _, name := range e.Enabled {
		if !slices.Contains(valid, name) {
			return fmt.Errorf("exporter.enabled: unknown exporter %q", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("exporter.enabled: duplicate exporter %q", name)
		}
		seen[name] = struct{}{}
	}

	if e.BalanceWorkers < 0 {
		return fmt.Errorf("exporter.balance_workers must not be negative")
	}

	return nil
}

// StatusConfig configures the status projector.
type StatusConfig struct {
	// Disabled turns the status projector off
	Disabled bool `yaml:"disabled" json:"disabled" toml:"disabled"`

	// FounderTokens is the founder allocation subtracted from total supply, decimal string
	FounderTokens string `yaml:"founder_tokens" json:"founder_tokens" toml:"founder_tokens"`
}

// ApplyDefaults sets default values for optional status configuration fields.
func (s *StatusConfig) ApplyDefaults() {
	if s.FounderTokens == "" {
		s.FounderTokens = "0"
	}
}

// Validate checks if the status configuration is valid.
func (s *StatusConfig) Validate() error {
	n, err := common.ParseBigInt(s.FounderTokens)
	if err != nil {
		return fmt.Errorf("status.founder_tokens: %w", err)
	}
	if n.Sign() < 0 {
		return fmt.Errorf("status.founder_tokens must not be negative")
	}

	return nil
}

// StoreConfig configures the document store.
type StoreConfig struct {
	// Driver selects the backend: sqlite or postgres
	Driver string `yaml:"driver" json:"driver" toml:"driver"`

	// DB contains the SQLite configuration
	DB DatabaseConfig `yaml:"db" json:"db" toml:"db"`

	// DSN is the Postgres connection string
	DSN string `yaml:"dsn" json:"dsn" toml:"dsn"`

	// Maintenance contains optional SQLite maintenance settings
	Maintenance *MaintenanceConfig `yaml:"maintenance,omitempty" json:"maintenance,omitempty" toml:"maintenance,omitempty"`
}

// ApplyDefaults sets default values for optional store configuration fields.
func (s *StoreConfig) ApplyDefaults() {
	if s.Driver == "" {
		s.Driver = DriverSQLite
	}
	if s.Maintenance != nil {
		s.Maintenance.ApplyDefaults()
	}
	s.DB.ApplyDefaults()
}

// Validate checks if the store configuration is valid.
func (s *StoreConfig) Validate() error {
	switch s.Driver {
	case DriverSQLite:
		if s.DB.Path == "" {
			return fmt.Errorf("store.db.path is required for the sqlite driver")
		}
		if err := s.DB.Validate(); err != nil {
			return fmt.Errorf("store.db: %w", err)
		}
	case DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver must be one of: sqlite, postgres")
	}

	if s.Maintenance != nil {
		if err := s.Maintenance.Validate(); err != nil {
			return fmt.Errorf("store.maintenance: %w", err)
		}
	}

	return nil
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	// Path is the file path to the SQLite database
	Path string `yaml:"path" json:"path" toml:"path"`

	// JournalMode sets the SQLite journal mode (e.g., "WAL", "DELETE")
	JournalMode string `yaml:"journal_mode" json:"journal_mode" toml:"journal_mode"`

	// Synchronous sets the synchronization level ("FULL", "NORMAL", "OFF")
	Synchronous string `yaml:"synchronous" json:"synchronous" toml:"synchronous"`

	// BusyTimeout is the time in milliseconds to wait when the database is locked
	BusyTimeout int `yaml:"busy_timeout" json:"busy_timeout" toml:"busy_timeout"`

	// CacheSize is the size of the page cache (negative = KB, positive = pages)
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size"`

	// MaxOpenConnections is the maximum number of open database connections
	MaxOpenConnections int `yaml:"max_open_connections" json:"max_open_connections" toml:"max_open_connections"`

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections int `yaml:"max_idle_connections" json:"max_idle_connections" toml:"max_idle_connections"`
}

// ApplyDefaults sets default values for optional database configuration fields.
func (d *DatabaseConfig) ApplyDefaults() {
	if d.JournalMode == "" {
		d.JournalMode = "WAL"
	}
	if d.Synchronous == "" {
		d.Synchronous = "NORMAL"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5000
	}
	if d.CacheSize == 0 {
		d.CacheSize = 10000
	}
	if d.MaxOpenConnections == 0 {
		d.MaxOpenConnections = 25
	}
	if d.MaxIdleConnections == 0 {
		d.MaxIdleConnections = 5
	}
}

// Validate checks the SQLite pragma values.
func (d *DatabaseConfig) Validate() error {
	if !slices.Contains([]string{"WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY"}, d.JournalMode) {
		return fmt.Errorf("journal_mode must be one of: WAL, DELETE, TRUNCATE, PERSIST, MEMORY")
	}
	if !slices.Contains([]string{"FULL", "NORMAL", "OFF"}, d.Synchronous) {
		return fmt.Errorf("synchronous must be one of: FULL, NORMAL, OFF")
	}

	return nil
}

// MaintenanceConfig configures database maintenance behavior.
type MaintenanceConfig struct {
	// Enabled controls whether background maintenance runs
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// CheckInterval is how often to run maintenance (e.g., "30m", "1h")
	CheckInterval common.Duration `yaml:"check_interval" json:"check_interval" toml:"check_interval"`

	// VacuumOnStartup runs maintenance immediately on startup
	VacuumOnStartup bool `yaml:"vacuum_on_startup" json:"vacuum_on_startup" toml:"vacuum_on_startup"`

	// WALCheckpointMode controls the WAL checkpoint aggressiveness
	// Options: PASSIVE, FULL, RESTART, TRUNCATE
	WALCheckpointMode string `yaml:"wal_checkpoint_mode" json:"wal_checkpoint_mode" toml:"wal_checkpoint_mode"`
}

// ApplyDefaults sets default values for optional maintenance configuration fields.
func (m *MaintenanceConfig) ApplyDefaults() {
	if m.CheckInterval.Duration == 0 {
		m.CheckInterval = common.NewDuration(30 * time.Minute) //nolint:mnd
	}
	if m.WALCheckpointMode == "" {
		m.WALCheckpointMode = "TRUNCATE"
	}
}

// Validate checks if the maintenance configuration is valid.
func (m *MaintenanceConfig) Validate() error {
	if m.WALCheckpointMode != "" {
		validModes := []string{"PASSIVE", "FULL", "RESTART", "TRUNCATE"}
		if !slices.Contains(validModes, m.WALCheckpointMode) {
			return fmt.Errorf("wal_checkpoint_mode: must be one of: PASSIVE, FULL, RESTART, TRUNCATE")
		}
	}

	return nil
}

// PushConfig configures the WebSocket push channel.
type PushConfig struct {
	// ListenAddress is the address the push server binds to
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path upgraded to WebSocket
	Path string `yaml:"path" json:"path" toml:"path"`

	// WriteTimeout bounds a single frame write to a subscriber
	WriteTimeout common.Duration `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`

	// SendBuffer is the per-subscriber outbound queue length
	SendBuffer int `yaml:"send_buffer" json:"send_buffer" toml:"send_buffer"`
}

// ApplyDefaults sets default values for optional push configuration fields.
func (p *PushConfig) ApplyDefaults() {
	if p.ListenAddress == "" {
		p.ListenAddress = ":3000"
	}
	if p.Path == "" {
		p.Path = "/ws"
	}
	if p.WriteTimeout.Duration == 0 {
		p.WriteTimeout = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if p.SendBuffer == 0 {
		p.SendBuffer = 256
	}
}

// Validate checks if the push configuration is valid.
func (p *PushConfig) Validate() error {
	if p.Path == "" || p.Path[0] != '/' {
		return fmt.Errorf("push.path must start with '/'")
	}
	if p.SendBuffer < 0 {
		return fmt.Errorf("push.send_buffer must not be negative")
	}

	return nil
}

// StatsConfig configures the per-block stats collector.
type StatsConfig struct {
	// Enabled controls whether per-block snapshots are persisted
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`
}

// LoggingConfig configures logging behavior with per-component log levels.
type LoggingConfig struct {
	// DefaultLevel is the default log level for all components
	// Options: "debug", "info", "warn", "error"
	DefaultLevel string `yaml:"default_level" json:"default_level" toml:"default_level"`

	// Development enables development mode (stack traces, console encoder)
	Development bool `yaml:"development" json:"development" toml:"development"`

	// ComponentLevels sets log levels for specific components
	// Available components:
	//   - connection: Node connection manager
	//   - log-fetcher: Ranged historical log fetching
	//   - exporter: Event exporters
	//   - balance-exporter: Account balance re-export
	//   - status-projector: Status snapshots
	//   - stats-collector: Per-block stats persistence
	//   - push-hub: WebSocket push channel
	//   - store: Document store
	//   - maintenance: Database maintenance
	//   - session-runner: Per-connection component assembly
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"` //nolint:lll
}

// ApplyDefaults sets default values for optional logging configuration fields.
func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
	if l.ComponentLevels == nil {
		l.ComponentLevels = make(map[string]string)
	}
}

// Validate checks if the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if l.DefaultLevel != "" {
		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(l.DefaultLevel)]; !valid {
			return fmt.Errorf("logging.default_level: must be one of: debug, info, warn, error")
		}
	}

	for component, level := range l.ComponentLevels {
		if _, validComponent := common.AllComponents[common.ToLowerWithTrim(component)]; !validComponent {
			return fmt.Errorf("logging.component_levels: unknown component '%s'", component)
		}

		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(level)]; !valid {
			return fmt.Errorf("logging.component_levels[%s]: must be one of: debug, info, warn, error", component)
		}
	}

	return nil
}

// GetComponentLevel returns the log level for a specific component.
// Falls back to DefaultLevel if no component-specific level is set.
func (l *LoggingConfig) GetComponentLevel(component string) string {
	if l == nil {
		return ""
	}
	if level, ok := l.ComponentLevels[component]; ok {
		return common.ToLowerWithTrim(level)
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// GetDefaultLevel returns the default log level.
func (l *LoggingConfig) GetDefaultLevel() string {
	if l == nil {
		return ""
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// IsDevelopment returns whether development mode is enabled.
func (l *LoggingConfig) IsDevelopment() bool {
	return l != nil && l.Development
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP endpoint are active
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the metrics HTTP server to
	// Format: "host:port" or ":port"
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path" json:"path" toml:"path"`
}

// ApplyDefaults sets default values for optional metrics configuration fields.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

// Validate checks if the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.ListenAddress == "" {
			return fmt.Errorf("listen_address is required when metrics are enabled")
		}
		if m.Path == "" {
			return fmt.Errorf("path is required when metrics are enabled")
		}
		if m.Path[0] != '/' {
			return fmt.Errorf("path must start with '/'")
		}
	}
	return nil
}

// ApplyDefaults sets default values for optional configuration fields.
func (c *Config) ApplyDefaults() {
	c.Chain.ApplyDefaults()
	c.Exporter.ApplyDefaults()
	c.Status.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Push.ApplyDefaults()

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.ApplyDefaults()

	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Chain.Endpoint() == "" {
		return fmt.Errorf("chain: one of ws_url or ipc_path is required")
	}

	if err := c.Contracts.Validate(); err != nil {
		return err
	}

	if err := c.Exporter.Validate(); err != nil {
		return err
	}

	if err := c.Status.Validate(); err != nil {
		return err
	}

	if err := c.Store.Validate(); err != nil {
		return err
	}

	if err := c.Push.Validate(); err != nil {
		return err
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	return nil
}

// StatsEnabled reports whether per-block stats persistence is on.
func (c *Config) StatsEnabled() bool {
	return c.Stats != nil && c.Stats.Enabled
}
