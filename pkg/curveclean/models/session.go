// Package models defines data structures for power-curve cleaning figures.
package models

// Session describes one cleaning session as encoded in the page URL.
type Session struct {
	// UUID is the session identifier scoping every store key.
	UUID string `json:"uuid"`
	// Plot is the plot identifier within the session.
	Plot string `json:"plot"`
	// Assets is the ordered list of turbine asset identifiers.
	Assets []string `json:"assets"`
	// XName is the sensor variable drawn on the x axis.
	XName string `json:"x_name"`
	// YName is the sensor variable drawn on the y axis.
	YName string `json:"y_name"`
	// Stages is the ordered list of processing stages.
	Stages []string `json:"stages"`
	// GroupNames is the ordered list of marker group keys.
	GroupNames []string `json:"point_group_names"`
	// Groups maps a group key to its ordered marker names.
	Groups map[string][]string `json:"point_groups"`
	// PointNames is the flattened marker list, groups concatenated in GroupNames order.
	PointNames []string `json:"point_names"`
}

// Group returns the marker names of the named group.
func (s *Session) Group(name string) []string {
	return s.Groups[name]
}
