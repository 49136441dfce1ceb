package config

type LoggingCfg struct {
	Level string `json:"level"`
}

type RuntimeCfg struct {
	StateDbPath     string `json:"stateDbPath"`
	SettleDelayMs   int    `json:"settleDelayMs"`
	DebounceMs      int    `json:"debounceMs"`
	StabilizationMs int    `json:"stabilizationMs"`
	GhostscriptPath string `json:"ghostscriptPath,omitempty"`
}

// Config carries the resolved path placeholder values and runtime knobs.
// Rules themselves live in the bbolt store, not here.
type Config struct {
	Version int               `json:"version"`
	Paths   map[string]string `json:"paths"`
	Logging LoggingCfg        `json:"logging"`
	Runtime RuntimeCfg        `json:"runtime"`
}
