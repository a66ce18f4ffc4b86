package domain

import (
	"time"
)

// Marketplace options
type Marketplace string

const (
	MarketplaceAmazon   Marketplace = "AMAZON"
	MarketplaceFlipkart Marketplace = "FLIPKART"
	MarketplaceMyntra   Marketplace = "MYNTRA"
	MarketplaceJiomart  Marketplace = "JIOMART"
	MarketplaceMeesho   Marketplace = "MEESHO"
	MarketplaceAjio     Marketplace = "AJIO"
)

// Carrier options
type Carrier string

const (
	CarrierDelhivery      Carrier = "DELHIVERY"
	CarrierEkart          Carrier = "EKART"
	CarrierShadowfax      Carrier = "SHADOWFAX"
	CarrierBluedart       Carrier = "BLUEDART"
	CarrierAmazonShipping Carrier = "AMAZON_SHIPPING"
)

// FlowType distinguishes dispatch batches from return batches
type FlowType string

const (
	FlowDispatch FlowType = "DISPATCH"
	FlowReturn   FlowType = "RETURN"
)

// Shift options
type Shift string

const (
	ShiftMorning Shift = "MORNING"
	ShiftEvening Shift = "EVENING"
	ShiftNight   Shift = "NIGHT"
)

// ManifestStatus lifecycle states
type ManifestStatus string

const (
	StatusOpen   ManifestStatus = "OPEN"
	StatusClosed ManifestStatus = "CLOSED"
)

var validMarketplaces = map[Marketplace]bool{
	MarketplaceAmazon: true, MarketplaceFlipkart: true, MarketplaceMyntra: true,
	MarketplaceJiomart: true, MarketplaceMeesho: true, MarketplaceAjio: true,
}

var validCarriers = map[Carrier]bool{
	CarrierDelhivery: true, CarrierEkart: true, CarrierShadowfax: true,
	CarrierBluedart: true, CarrierAmazonShipping: true,
}

func (m Marketplace) Valid() bool { return validMarketplaces[m] }
func (c Carrier) Valid() bool     { return validCarriers[c] }
func (f FlowType) Valid() bool    { return f == FlowDispatch || f == FlowReturn }
func (s Shift) Valid() bool       { return s == ShiftMorning || s == ShiftEvening || s == ShiftNight }

// Manifest represents one batch of dispatch/return scanning activity.
// At most one OPEN manifest may exist per routing tuple
// (tenant, warehouse, date, shift, marketplace, carrier, flow_type);
// the storage layer enforces this with a partial unique index.
type Manifest struct {
	ID           string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID     string         `json:"tenant_id" gorm:"type:varchar(36);not null;index:ix_manifest_tenant_date"`
	WarehouseID  string         `json:"warehouse_id" gorm:"type:varchar(36);not null;index"`
	ManifestDate time.Time      `json:"manifest_date" gorm:"type:date;not null;index:ix_manifest_tenant_date"`
	Shift        Shift          `json:"shift" gorm:"type:varchar(10);not null"`
	Marketplace  Marketplace    `json:"marketplace" gorm:"type:varchar(20);not null"`
	Carrier      Carrier        `json:"carrier" gorm:"type:varchar(20);not null"`
	FlowType     FlowType       `json:"flow_type" gorm:"type:varchar(10);not null"`
	Status       ManifestStatus `json:"status" gorm:"type:varchar(10);not null;default:'OPEN';index"`
	CreatedBy    string         `json:"created_by" gorm:"type:varchar(36)"`
	TotalPackets int            `json:"total_packets" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	ClosedAt     *time.Time     `json:"closed_at,omitempty"`
}

// TableName specifies the table name
func (Manifest) TableName() string {
	return "manifests"
}

// IsOpen reports whether the manifest still accepts scans
func (m *Manifest) IsOpen() bool {
	return m.Status == StatusOpen
}

// RoutingKey is the tuple used to find or create the unique OPEN manifest
type RoutingKey struct {
	TenantID     string
	WarehouseID  string
	ManifestDate time.Time
	Shift        Shift
	Marketplace  Marketplace
	Carrier      Carrier
	FlowType     FlowType
}

// ManifestDefaults carries the tenant-configurable attribute defaults
// applied when auto-mode ingestion has to create a manifest.
type ManifestDefaults struct {
	Shift       Shift
	Marketplace Marketplace
	Carrier     Carrier
}

// Validate rejects default attributes outside the known enums, so a
// misconfigured default cannot silently mint manifests with it.
func (d ManifestDefaults) Validate() error {
	if !d.Shift.Valid() {
		return Validationf("invalid default shift %q", d.Shift)
	}
	if !d.Marketplace.Valid() {
		return Validationf("invalid default marketplace %q", d.Marketplace)
	}
	if !d.Carrier.Valid() {
		return Validationf("invalid default carrier %q", d.Carrier)
	}
	return nil
}

// ManifestFilter narrows manifest listings
type ManifestFilter struct {
	WarehouseID string
	Status      ManifestStatus
	Marketplace Marketplace
	Carrier     Carrier
	FlowType    FlowType
	Shift       Shift
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}

// ManifestRepository defines the contract for manifest data access.
// Every method takes tenant_id as a mandatory predicate; "absent" and
// "exists but other tenant" are indistinguishable to callers.
type ManifestRepository interface {
	// CreateOpen inserts a new OPEN manifest. Returns ErrOpenManifestExists
	// when a concurrent creator already holds the routing tuple.
	CreateOpen(m *Manifest) error
	FindByID(tenantID, id string) (*Manifest, error)
	FindOpenByRoutingKey(key RoutingKey) (*Manifest, error)
	// CloseIfOpen transitions OPEN -> CLOSED in a single conditional update,
	// stamping closed_at and reconciling total_packets against the scan
	// store. Returns the number of rows transitioned (0 or 1).
	CloseIfOpen(tenantID, id string, closedAt time.Time) (int64, error)
	// AddPackets atomically increments total_packets by delta.
	AddPackets(tenantID, id string, delta int) error
	List(tenantID string, filter ManifestFilter) ([]Manifest, int64, error)
}
