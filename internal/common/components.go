package common

const (
	ComponentConnection      = "connection"
	ComponentLogFetcher      = "log-fetcher"
	ComponentExporter        = "exporter"
	ComponentBalanceExporter = "balance-exporter"
	ComponentStatusProjector = "status-projector"
	ComponentStatsCollector  = "stats-collector"
	ComponentPushHub         = "push-hub"
	ComponentStore           = "store"
	ComponentMaintenance     = "maintenance"
	ComponentSessionRunner   = "session-runner"
)

var AllComponents = map[string]struct{}{
	ComponentConnection:      {},
	ComponentLogFetcher:      {},
	ComponentExporter:        {},
	ComponentBalanceExporter: {},
	ComponentStatusProjector: {},
	ComponentStatsCollector:  {},
	ComponentPushHub:         {},
	ComponentStore:           {},
	ComponentMaintenance:     {},
	ComponentSessionRunner:   {},
}
