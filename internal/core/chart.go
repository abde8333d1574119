package core

// Dataset is one named series of a chart payload.
type Dataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// ChartData is the {labels, datasets} payload consumed by the chart widgets.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// EmptyChart returns a payload that serializes as empty arrays rather than null.
func EmptyChart() ChartData {
	return ChartData{Labels: []string{}, Datasets: []Dataset{}}
}

// IsEmpty reports whether the chart has no labels.
func (c ChartData) IsEmpty() bool {
	return len(c.Labels) == 0
}
