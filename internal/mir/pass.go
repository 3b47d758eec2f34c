package mir

// Pass is one in-place rewrite of a body. Run reports whether the
// body changed; every pass reaches a fixed point when run twice in a
// row with nothing interleaved.
type Pass interface {
	Name() string
	Run(body *Body) bool
}

// Hook observes a pass run. The body must not be mutated from a hook.
type Hook func(pass string, body *Body)

// Manager invokes a closed list of passes once each, with optional
// hooks before and after every pass. Pass ordering policy lives with
// the caller.
type Manager struct {
	Passes []Pass
	Before Hook
	After  Hook
}

// Run applies every pass once, in order. Returns whether any pass
// changed the body.
func (m *Manager) Run(body *Body) bool {
	changed := false
	for _, p := range m.Passes {
		if m.Before != nil {
			m.Before(p.Name(), body)
		}
		if p.Run(body) {
			changed = true
		}
		if m.After != nil {
			m.After(p.Name(), body)
		}
	}
	return changed
}
