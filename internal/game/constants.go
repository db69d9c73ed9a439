package game

import "github.com/playmatatu/snooker/internal/physics"

// Vec2 is the physics vector type, shared so the game and the engine speak the same units.
type Vec2 = physics.Vec2

// Table and ball geometry in canvas pixels.
const (
	CanvasWidth  = 1400.0
	CanvasHeight = 800.0

	TableCenterX = CanvasWidth / 2
	TableCenterY = CanvasHeight / 2
	TableWidth   = 1000.0
	TableHeight  = 500.0

	BallRadius   = 13.5
	BallDiameter = 27.0

	WallThickness = 20.0
	EdgeLength    = 40.0
	CushionDepth  = 20.0
	CushionSlope  = 0.1
	CornerRadius  = 28.5

	PocketSensorRadius = 5.0
	PocketVisualRadius = BallRadius * 1.4
	// Random spawns stay this far from pocket centres. It is larger than the
	// pocket's visual radius, so spawned balls never sit inside a pocket.
	PocketClearance = BallDiameter * 1.4

	SpawnInset     = BallRadius + 35
	PlacementInset = 40.0
	ClampTolerance = 15.0
	ClampInset     = 39.0

	TeleporterSensorRadius = 15.0
	TeleporterMarkerRadius = 20.0

	RedCount   = 15
	RedPoints  = 1
	FoulStreak = 2

	// FrameMillis is the fixed simulation step.
	FrameMillis = 1000.0 / 60.0
)

// Body labels used to classify collision pairs.
const (
	LabelCue        = "cueBall"
	LabelRed        = "redBall"
	LabelColored    = "coloredBall"
	LabelPocket     = "tablePocket"
	LabelTeleporter = "teleporter"
	LabelCushion    = "cushion"
	LabelWall       = "wall"
)
