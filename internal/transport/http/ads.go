package http

import (
	"github.com/TransferDaily/pkg/config"
)

// AdSlot is a placement ready to render.
type AdSlot struct {
	Name   string
	Client string
	Slot   string
	Format string
}

// Ads decides which configured slots are rendered.
type Ads struct {
	enabled  bool
	clientID string
	slots    map[string]config.AdSlotConfig
}

func NewAds(cfg *config.Config) *Ads {
	return &Ads{enabled: cfg.AdsEnabled, clientID: cfg.AdSenseClientID, slots: cfg.AdSlots}
}

// Enabled reports whether any ad may render at all.
func (a *Ads) Enabled() bool {
	return a != nil && a.enabled && a.clientID != ""
}

// Slot returns the named slot, or nil when ads are off, no client id is
// configured, or the slot is unknown or disabled.
func (a *Ads) Slot(name string) *AdSlot {
	if !a.Enabled() {
		return nil
	}
	s, ok := a.slots[name]
	if !ok || !s.Enabled || s.Slot == "" {
		return nil
	}
	return &AdSlot{Name: name, Client: a.clientID, Slot: s.Slot, Format: s.Format}
}

// Client is the publisher id for the loader script, empty when ads are off.
func (a *Ads) Client() string {
	if !a.Enabled() {
		return ""
	}
	return a.clientID
}
