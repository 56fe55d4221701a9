package model

// StageInfo describes a registered stage.
type StageInfo struct {
	Name    string
	Index   int
	Enabled bool
}

var (
	// StartStage is the virtual parent of the first stage.
	StartStage = &StageInfo{Name: "start", Index: -1, Enabled: true}
	// EndStage is the virtual child of the last stage.
	EndStage = &StageInfo{Name: "end", Index: -1, Enabled: true}
)
