/*
commission.go - Commission rates with per-rep overrides

PURPOSE:
  Maps a rep to the commission percentage applied to their net sales.
  Every rep earns the default percentage unless an override is set for
  them; an override always wins, whatever the default is.

LIFECYCLE:
  CommissionSettings is a plain value handed to the Balance Calculator.
  CommissionService owns load/save against a SettingsStore:
  - loaded lazily on first access, {30, {}} if nothing is stored
  - every mutation writes the whole structure back (no partial updates)

VALIDATION:
  The resolver accepts any finite number. Range checks (0-100) belong to
  the caller, see ValidatePercent. Non-finite values cannot be persisted
  and are rejected by the setters.
*/
package ledger

import (
	"context"
	"math"
	"sync"
)

// DefaultCommissionPercent applies when nothing has been configured.
const DefaultCommissionPercent = 30.0

// CommissionSettingsKey is the storage key the settings live under.
const CommissionSettingsKey = "consignflow_commission_settings"

// CommissionSettings holds the default rate and per-rep overrides, in percent.
type CommissionSettings struct {
	DefaultPercent float64           `json:"defaultCommissionPercent"`
	Overrides      map[RepID]float64 `json:"overridesByRepId"`
}

// DefaultCommissionSettings returns {30, {}}.
func DefaultCommissionSettings() CommissionSettings {
	return CommissionSettings{
		DefaultPercent: DefaultCommissionPercent,
		Overrides:      map[RepID]float64{},
	}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (s CommissionSettings) Clone() CommissionSettings {
	out := CommissionSettings{DefaultPercent: s.DefaultPercent, Overrides: make(map[RepID]float64, len(s.Overrides))}
	for k, v := range s.Overrides {
		out.Overrides[k] = v
	}
	return out
}

// ResolveCommission returns the override for repID if one is set, otherwise
// the default. A nil settings pointer behaves as DefaultCommissionSettings.
func ResolveCommission(repID RepID, settings *CommissionSettings) float64 {
	if settings == nil {
		return DefaultCommissionPercent
	}
	if pct, ok := settings.Overrides[repID]; ok {
		return pct
	}
	return settings.DefaultPercent
}

// ValidatePercent checks the 0-100 range callers enforce before the setters.
func ValidatePercent(pct float64) error {
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 || pct > 100 {
		return &InputError{Field: "percent", Reason: "must be between 0 and 100"}
	}
	return nil
}

func checkFinite(pct float64) error {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return &InputError{Field: "percent", Reason: "must be a finite number"}
	}
	return nil
}

// =============================================================================
// COMMISSION SERVICE - Load/save lifecycle
// =============================================================================

// CommissionService caches the settings after the first load and persists
// every mutation through the SettingsStore.
type CommissionService struct {
	Store SettingsStore

	mu     sync.Mutex
	loaded bool
	cached CommissionSettings
}

func NewCommissionService(store SettingsStore) *CommissionService {
	return &CommissionService{Store: store}
}

// Settings returns a copy of the current settings, loading them on first use.
func (cs *CommissionService) Settings(ctx context.Context) (CommissionSettings, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.loadLocked(ctx); err != nil {
		return CommissionSettings{}, err
	}
	return cs.cached.Clone(), nil
}

func (cs *CommissionService) loadLocked(ctx context.Context) error {
	if cs.loaded {
		return nil
	}
	settings, found, err := cs.Store.LoadCommissionSettings(ctx)
	if err != nil {
		return err
	}
	if !found {
		settings = DefaultCommissionSettings()
	}
	if settings.Overrides == nil {
		settings.Overrides = map[RepID]float64{}
	}
	cs.cached = settings
	cs.loaded = true
	return nil
}

// SetDefault replaces the default percentage and persists the settings.
func (cs *CommissionService) SetDefault(ctx context.Context, pct float64) (CommissionSettings, error) {
	if err := checkFinite(pct); err != nil {
		return CommissionSettings{}, err
	}
	return cs.mutate(ctx, func(s *CommissionSettings) {
		s.DefaultPercent = pct
	})
}

// SetOverride sets a rep's override, or removes it when pct is nil so the
// rep reverts to the default.
func (cs *CommissionService) SetOverride(ctx context.Context, repID RepID, pct *float64) (CommissionSettings, error) {
	if pct != nil {
		if err := checkFinite(*pct); err != nil {
			return CommissionSettings{}, err
		}
	}
	return cs.mutate(ctx, func(s *CommissionSettings) {
		if pct == nil {
			delete(s.Overrides, repID)
			return
		}
		s.Overrides[repID] = *pct
	})
}

// Replace writes a complete settings value.
func (cs *CommissionService) Replace(ctx context.Context, settings CommissionSettings) (CommissionSettings, error) {
	if err := checkFinite(settings.DefaultPercent); err != nil {
		return CommissionSettings{}, err
	}
	for _, pct := range settings.Overrides {
		if err := checkFinite(pct); err != nil {
			return CommissionSettings{}, err
		}
	}
	return cs.mutate(ctx, func(s *CommissionSettings) {
		*s = settings.Clone()
	})
}

func (cs *CommissionService) mutate(ctx context.Context, fn func(*CommissionSettings)) (CommissionSettings, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.loadLocked(ctx); err != nil {
		return CommissionSettings{}, err
	}

	next := cs.cached.Clone()
	fn(&next)
	if err := cs.Store.SaveCommissionSettings(ctx, next); err != nil {
		return CommissionSettings{}, err
	}
	cs.cached = next
	return next.Clone(), nil
}

// Invalidate drops the cached settings; the next access reloads from the store.
func (cs *CommissionService) Invalidate() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.loaded = false
	cs.cached = CommissionSettings{}
}

// ResetWith runs wipe while holding the settings lock and drops the cache
// afterwards, so no caller can cache settings read before the wipe.
func (cs *CommissionService) ResetWith(ctx context.Context, wipe func(context.Context) error) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	err := wipe(ctx)
	cs.loaded = false
	cs.cached = CommissionSettings{}
	return err
}
