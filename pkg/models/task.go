package models

import "time"

// RoutingType identifies which Same Day routing wave a task audits.
type RoutingType string

const (
	RoutingSunrise RoutingType = "sunrise"
	RoutingAM      RoutingType = "am"
)

// ApprovalStatus classifies an LMCP capacity request by how far the
// requested value sits above the larger of the two current capacity
// sources.
type ApprovalStatus string

const (
	StatusAutoApproved ApprovalStatus = "auto_approved"
	StatusL7Required   ApprovalStatus = "l7_required"
	StatusWarRoom      ApprovalStatus = "war_room"
	StatusUnknown      ApprovalStatus = "unknown"
)

// SameDayInputs holds the raw, unvalidated strings entered by the operator
// for a Same Day routing audit. Empty string means "not yet provided".
type SameDayInputs struct {
	StationCode    string `yaml:"station_code"`
	RoutingType    string `yaml:"routing_type"`
	BufferPercent  string `yaml:"buffer_percent"`
	DpoLink        string `yaml:"dpo_link"`
	RouteCount     string `yaml:"route_count"`
	RoutedTbaCount string `yaml:"routed_tba_count"`
	FileTbaCount   string `yaml:"file_tba_count"`
}

// SameDayTask is a fully validated Same Day routing audit record, ready
// for the persistence gateway.
type SameDayTask struct {
	ID              int64
	StationCode     string
	RoutingType     RoutingType
	BufferPercent   float64
	DpoLink         string
	RouteCount      int
	FileTbaCount    *int // nil when no routing file was imported
	RoutedTbaCount  int
	StartTime       time.Time
	DpoCompleteTime time.Time
	EndTime         time.Time
}

// LMCPInputs holds the raw, unvalidated strings for one LMCP
// capacity-adjustment request, either typed by the operator or populated
// from an imported request file.
type LMCPInputs struct {
	Source                 string `yaml:"source"`
	Namespace              string `yaml:"namespace"`
	Type                   string `yaml:"type"`
	StationCode            string `yaml:"station_code"`
	WaveGroupName          string `yaml:"wave_group_name"`
	ShipOptionCategory     string `yaml:"ship_option_category"`
	AddressType            string `yaml:"address_type"`
	PackageType            string `yaml:"package_type"`
	OfdDate                string `yaml:"ofd_date"`
	Ead                    string `yaml:"ead"`
	Cluster                string `yaml:"cluster"`
	FulfillmentNetworkType string `yaml:"fulfillment_network_type"`
	VolumeType             string `yaml:"volume_type"`
	Week                   string `yaml:"week"`
	F                      string `yaml:"f"`
	Requested              string `yaml:"requested"`
	CurrentLmcp            string `yaml:"current_lmcp"`
	CurrentAtrops          string `yaml:"current_atrops"`
	Pdr                    string `yaml:"pdr"`
	SimLink                string `yaml:"sim_link"`
}

// LMCPTask is a fully validated LMCP capacity-adjustment record.
// Value is always Requested - Pdr; it is derived at validation time and
// never stored independently of its inputs.
type LMCPTask struct {
	ID                     int64
	Source                 string
	Namespace              string
	Type                   string
	StationCode            string
	WaveGroupName          string
	ShipOptionCategory     string
	AddressType            string
	PackageType            string
	OfdDate                string // yyyy-mm-dd
	Ead                    string // yyyy-mm-dd
	Cluster                string
	FulfillmentNetworkType string
	VolumeType             string
	Week                   int
	F                      string
	Requested              int
	CurrentLmcp            int
	CurrentAtrops          int
	Pdr                    int
	Value                  int
	SimLink                string
	StartTime              time.Time
	ExportTime             time.Time
	EndTime                time.Time
}
