package protocol

const (
	ScreenW = 600
	ScreenH = 1000

	// Net/update cadence
	SnapshotIntervalMs = 1000

	// Raid timing defaults; the start payload may override them.
	ScoutSeconds  = 30
	ActiveSeconds = 180

	// Transient "deploy now" banner lifetime after the active phase begins.
	DeployPromptMs = 2000

	// Battlefield discretization: deployment positions are truncated to
	// this cell size before they are sent to the simulator.
	CellSize = 32.0

	StarsMax = 3

	GameVersion = "0.4.2"
)
