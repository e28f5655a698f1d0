package progress

type State int

const (
	StateIdle State = iota
	StateInitialisation
	StateLoadingData
	StateLoadingLayers
	StatePreparingGeneration

	// Repeated for every layer
	StateLoadingUnits
	StatePreparingPlacements
	StateGeneratingDays
	StateUpdatingBudgets

	StateFinalisation

	// Terminal states
	StateDone
	StateCancelled
	StateError
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateInitialisation:      "initialisation",
	StateLoadingData:         "loading-data",
	StateLoadingLayers:       "loading-layers",
	StatePreparingGeneration: "preparing-generation",
	StateLoadingUnits:        "loading-units",
	StatePreparingPlacements: "preparing-placements",
	StateGeneratingDays:      "generating-days",
	StateUpdatingBudgets:     "updating-budgets",
	StateFinalisation:        "finalisation",
	StateDone:                "done",
	StateCancelled:           "cancelled",
	StateError:               "error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled || s == StateError
}
