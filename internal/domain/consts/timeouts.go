package consts

import "time"

// Network timeouts
const (
	ProbeTimeout    = 15 * time.Second
	ServerIOTimeout = 30 * time.Second
)

// Temp directory sweeping
const (
	StaleTempAge   = 1 * time.Hour
	SweepSchedule  = "@every 30m"
	ShutdownGrace  = 5 * time.Second
	EventBufferLen = 64
)
