package model

import "time"

// BusyLabel is the only summary ever published. Event titles from the
// source feeds are discarded; downstream consumers only learn that a time
// span is occupied, not what for.
const BusyLabel = "Busy"

// BusyInterval is a single span of unavailable time, normalized into the
// configured display timezone.
type BusyInterval struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Summary string    `json:"summary"`
}

// Snapshot is the availability document written to schedule.json. It is
// rebuilt from scratch on every run; no prior snapshot is read back.
type Snapshot struct {
	LastUpdated        time.Time      `json:"lastUpdated"`
	Timezone           string         `json:"timezone"`
	OwnerName          string         `json:"ownerName"`
	WeeklyProjectHours float64        `json:"weeklyProjectHours"`
	WorkdayStart       int            `json:"workdayStart"`
	WorkdayEnd         int            `json:"workdayEnd"`
	Configured         bool           `json:"configured"`
	Events             []BusyInterval `json:"events"`
}
