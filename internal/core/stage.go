package core

// Stage is the position of a run in the report pipeline
type Stage int

const (
	StageIdle Stage = iota
	StageInspecting
	StageClassifying
	StageFormatting
	StageDispatching
	StageMarking
	StageNotified
	StageFailed
)

var stageNames = map[Stage]string{
	StageIdle:        "idle",
	StageInspecting:  "inspecting",
	StageClassifying: "classifying",
	StageFormatting:  "formatting",
	StageDispatching: "dispatching",
	StageMarking:     "marking",
	StageNotified:    "notified",
	StageFailed:      "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
