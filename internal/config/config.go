package config

type Config struct {
	Theme           string            `json:"theme"`
	RowHeight       int               `json:"rowHeight"`
	CollapsedHeight int               `json:"collapsedHeight"`
	SummaryHeight   int               `json:"summaryHeight"`
	LabelWidth      int               `json:"labelWidth"`
	TileColumns     int               `json:"tileColumns"`
	MaxTiles        int               `json:"maxTiles"`
	MinNsPerPixel   float64           `json:"minNsPerPixel"`
	KindLevel       int               `json:"kindLevel"`
	KindColors      map[string]string `json:"kindColors"`
	KeyBindings     map[string]string `json:"keyBindings"`
	LogFile         string            `json:"logFile"`
	LogLevel        string            `json:"logLevel"`
	Profiles        []string          `json:"profiles"`

	Demo      bool   `json:"-"`
	Seed      int64  `json:"-"`
	ExportPNG string `json:"-"`
}

type fileConfig struct {
	Theme           *string           `json:"theme"`
	RowHeight       *int              `json:"rowHeight"`
	CollapsedHeight *int              `json:"collapsedHeight"`
	SummaryHeight   *int              `json:"summaryHeight"`
	LabelWidth      *int              `json:"labelWidth"`
	TileColumns     *int              `json:"tileColumns"`
	MaxTiles        *int              `json:"maxTiles"`
	MinNsPerPixel   *float64          `json:"minNsPerPixel"`
	KindLevel       *int              `json:"kindLevel"`
	KindColors      map[string]string `json:"kindColors"`
	KeyBindings     map[string]string `json:"keyBindings"`
	LogFile         *string           `json:"logFile"`
	LogLevel        *string           `json:"logLevel"`
	Profiles        []string          `json:"profiles"`
}
