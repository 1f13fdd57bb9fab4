package core

// Action is a viewer command independent of the key that produced it.
// The tea and tcell frontends map their key events onto the same set.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // scroll up
	ActionDown           // scroll down
	ActionLeft
	ActionRight
	ActionPause   // toggle ticking
	ActionStep    // one tick while paused
	ActionFaster  // shorter sleep
	ActionSlower  // longer sleep
	ActionConfirm // menus only
	ActionBack    // leave the viewer, keep the session
	ActionRestart // reload the level from its source
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionPause:   "Pause",
	ActionStep:    "Step",
	ActionFaster:  "Faster",
	ActionSlower:  "Slower",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}
