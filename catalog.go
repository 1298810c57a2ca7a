package workflow

import (
	"encoding/json"
	"fmt"
)

// CredentialField describes one credential a variant needs before it can
// run. Credential storage itself lives outside this package; the catalog
// only advertises what a venue asks for.
type CredentialField struct {
	Title    string `json:"title"`
	Required bool   `json:"required"`
}

// Descriptor is one catalog entry: everything the editor and the API need
// to know about a variant.
type Descriptor struct {
	Variant     Variant           `json:"id"`
	Kind        Kind              `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Credentials []CredentialField `json:"credentialsType,omitempty"`

	decode func(json.RawMessage) (Metadata, error)
}

// The catalog is a fixed registry: variants are compiled in, never loaded
// from storage.
var catalog = map[Variant]Descriptor{
	VariantTimeTrigger: {
		Variant:     VariantTimeTrigger,
		Kind:        KindTrigger,
		Title:       "Time Trigger",
		Description: "Triggers at specific time intervals",
		decode:      decodeTimer,
	},
	VariantPriceTrigger: {
		Variant:     VariantPriceTrigger,
		Kind:        KindTrigger,
		Title:       "Price Trigger",
		Description: "Triggers when a price threshold is met",
		decode:      decodePrice,
	},
	VariantHyperliquid: {
		Variant:     VariantHyperliquid,
		Kind:        KindAction,
		Title:       "Hyperliquid",
		Description: "Place a trade on Hyperliquid",
		Credentials: []CredentialField{
			{Title: "apiKey", Required: true},
			{Title: "apiSecret", Required: true},
		},
		decode: decodeTrade,
	},
	VariantBackpack: {
		Variant:     VariantBackpack,
		Kind:        KindAction,
		Title:       "Backpack",
		Description: "Place a trade on Backpack",
		Credentials: []CredentialField{
			{Title: "apiKey", Required: true},
			{Title: "apiSecret", Required: true},
		},
		decode: decodeTrade,
	},
	VariantLighter: {
		Variant:     VariantLighter,
		Kind:        KindAction,
		Title:       "Lighter",
		Description: "Place a trade on Lighter",
		Credentials: []CredentialField{
			{Title: "apiKey", Required: true},
		},
		decode: decodeTrade,
	},
}

// catalogOrder keeps Descriptors deterministic: triggers first, then venues.
var catalogOrder = []Variant{
	VariantTimeTrigger,
	VariantPriceTrigger,
	VariantHyperliquid,
	VariantBackpack,
	VariantLighter,
}

// Lookup returns the descriptor for a variant.
func Lookup(v Variant) (Descriptor, bool) {
	d, ok := catalog[v]
	return d, ok
}

// Descriptors returns every catalog entry in a stable order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(catalogOrder))
	for _, v := range catalogOrder {
		out = append(out, catalog[v])
	}
	return out
}

// DecodeMetadata parses a raw metadata payload according to the variant's
// catalog entry.
func DecodeMetadata(v Variant, raw json.RawMessage) (Metadata, error) {
	d, ok := catalog[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("workflow: variant %q: missing metadata", v)
	}
	return d.decode(raw)
}

func decodeTimer(raw json.RawMessage) (Metadata, error) {
	var m TimerMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("workflow: time-trigger metadata: %w", err)
	}
	if m.Time <= 0 {
		return nil, fmt.Errorf("workflow: time-trigger metadata: interval must be positive, got %d", m.Time)
	}
	return m, nil
}

func decodePrice(raw json.RawMessage) (Metadata, error) {
	var m PriceMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("workflow: price-trigger metadata: %w", err)
	}
	if !validAsset(m.Asset) {
		return nil, fmt.Errorf("workflow: price-trigger metadata: unsupported asset %q", m.Asset)
	}
	if m.Price <= 0 {
		return nil, fmt.Errorf("workflow: price-trigger metadata: price must be positive, got %v", m.Price)
	}
	return m, nil
}

func decodeTrade(raw json.RawMessage) (Metadata, error) {
	var m TradeMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("workflow: trade metadata: %w", err)
	}
	if m.Type != SideLong && m.Type != SideShort {
		return nil, fmt.Errorf("workflow: trade metadata: direction must be LONG or SHORT, got %q", m.Type)
	}
	if m.Qty <= 0 {
		return nil, fmt.Errorf("workflow: trade metadata: qty must be positive, got %v", m.Qty)
	}
	if !validAsset(m.Symbol) {
		return nil, fmt.Errorf("workflow: trade metadata: unsupported symbol %q", m.Symbol)
	}
	return m, nil
}
