package service

// Collapse section buttons of the home page accordion.
const (
	PanelDatasheet     = "collapse-datasheet-button"
	PanelVisualization = "collapse-visualization-button"
	PanelDiagrams      = "collapse-diagrams-button"
	PanelBenchmarking  = "collapse-benchmarking-button"
)

type PanelState struct {
	Datasheet     bool `json:"datasheet"`
	Visualization bool `json:"visualization"`
	Diagrams      bool `json:"diagrams"`
	Benchmarking  bool `json:"benchmarking"`
}

// PanelService flips accordion sections.
type PanelService interface {
	Toggle(trigger string, state PanelState) PanelState
}

type panelService struct{}

func NewPanelService() PanelService {
	return panelService{}
}

// Toggle flips only the section whose button fired. Without a known
// trigger every section is closed.
func (panelService) Toggle(trigger string, state PanelState) PanelState {
	switch trimProperty(trigger) {
	case PanelDatasheet:
		state.Datasheet = !state.Datasheet
	case PanelVisualization:
		state.Visualization = !state.Visualization
	case PanelDiagrams:
		state.Diagrams = !state.Diagrams
	case PanelBenchmarking:
		state.Benchmarking = !state.Benchmarking
	default:
		return PanelState{}
	}
	return state
}

// trimProperty drops a ".n_clicks" style suffix.
func trimProperty(trigger string) string {
	for i := len(trigger) - 1; i >= 0; i-- {
		if trigger[i] == '.' {
			return trigger[:i]
		}
	}
	return trigger
}
