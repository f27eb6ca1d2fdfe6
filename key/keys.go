// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 16

// Media Playback - these keys configure the engine selection and the controller's release policy.
const (
	PlayerEngine          = "player.engine"
	PlayerMpvPath         = "player.mpv_path"
	PlayerReleaseTimeout  = "player.release_timeout"
	PlayerSeekStep        = "player.seek_step"
	PlayerResume          = "player.resume"
	PlayerResumeThreshold = "player.resume_threshold"
)

// Headless Engine - these keys tune the HTTP-backed simulated engine.
const (
	HeadlessProbeSize = "headless.probe_size"
	HeadlessTick      = "headless.tick"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	CliReleasesURL  = "cli.releases_url"
)

// History Tracking - these keys configure the persistence of resume positions.
const (
	HistorySaveOnExit = "history.save_on_exit"
)
