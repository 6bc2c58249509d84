package components

// Body holds the physical circle of an entity as seen by the integrator.
type Body struct {
	Radius float32 `inspect:"label,fmt:%.1f"`

	// Touching is set by the physics step when the body was pushed by a
	// neighbour or a world edge during the last step.
	Touching bool `inspect:"bool"`
}
