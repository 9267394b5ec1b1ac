package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// One JSON document per hardware variant, keyed by the variant name the
// target main places in ctx under CtxVariantKey. Sections map to retained
// topics: "torch" -> {config, torch}, "diag" -> {config, diag}.
// -----------------------------------------------------------------------------

const cfgDualOTC = `{
  "torch": {
    "policy": "last",
    "battcheck_clicks": 16,
    "lock_ticks": 50,
    "poll_ticks": 50,
    "low_water": 125,
    "low_readings": 8,
    "turbo_loops": 60,
    "otc_threshold": 190
  },
  "diag": {
    "prompt": "torch> "
  }
}`

const cfgSingleWide = `{
  "torch": {
    "policy": "last",
    "battcheck_clicks": 16,
    "lock_ticks": 50,
    "poll_ticks": 10,
    "low_water": 125,
    "low_readings": 8
  },
  "diag": {
    "prompt": "torch> "
  }
}`

const cfgSinglePacked = `{
  "torch": {
    "policy": "last",
    "battcheck_clicks": 10,
    "lock_ticks": 50,
    "poll_ticks": 10,
    "low_water": 125,
    "low_readings": 8
  },
  "diag": {
    "prompt": "torch> "
  }
}`

var embeddedConfigs = map[string][]byte{
	"dual-otc":      []byte(cfgDualOTC),
	"single-wide":   []byte(cfgSingleWide),
	"single-packed": []byte(cfgSinglePacked),
}
