package workflow

// Asset is a tradable symbol a trigger or action can reference.
type Asset string

const (
	AssetSOL Asset = "SOL"
	AssetBTC Asset = "BTC"
	AssetETH Asset = "ETH"
)

// SupportedAssets lists every asset the catalog accepts.
var SupportedAssets = []Asset{AssetSOL, AssetBTC, AssetETH}

func validAsset(a Asset) bool {
	for _, s := range SupportedAssets {
		if a == s {
			return true
		}
	}
	return false
}

// Side is the direction of a trade.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// Metadata is the variant-specific payload a node carries. Each variant in
// the catalog maps to exactly one concrete type below; the closed set keeps
// decoding total.
type Metadata interface {
	metadata()
}

// TimerMetadata configures a time trigger: fire every Time seconds.
type TimerMetadata struct {
	Time int `json:"time"`
}

// PriceMetadata configures a price trigger: fire when Asset crosses Price.
type PriceMetadata struct {
	Asset Asset   `json:"asset"`
	Price float64 `json:"price"`
}

// TradeMetadata configures a venue action: place a Qty-sized Type trade on
// Symbol.
type TradeMetadata struct {
	Type   Side    `json:"type"`
	Qty    float64 `json:"qty"`
	Symbol Asset   `json:"symbol"`
}

func (TimerMetadata) metadata() {}
func (PriceMetadata) metadata() {}
func (TradeMetadata) metadata() {}
