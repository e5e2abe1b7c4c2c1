package core

// Action is a semantic input, abstracted from physical keys.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // Move the drop cursor left
	ActionRight          // Move the drop cursor right
	ActionDrop           // Drop into the cursor column
	ActionHint           // Toggle the bot's column ranking
	ActionBack           // Leave to the previous screen
	ActionRestart        // Restart after game over
	ActionQuit           // Exit the session
	ActionPause          // Pause or resume

	// ActionColumn1 .. ActionColumn9 drop straight into a column.
	ActionColumn1
	ActionColumn2
	ActionColumn3
	ActionColumn4
	ActionColumn5
	ActionColumn6
	ActionColumn7
	ActionColumn8
	ActionColumn9
)

// MaxDirectColumns is how many columns have direct-drop actions.
const MaxDirectColumns = 9

// ColumnAction returns the direct-drop action for zero-based col.
func ColumnAction(col int) Action {
	if col < 0 || col >= MaxDirectColumns {
		return ActionNone
	}
	return ActionColumn1 + Action(col)
}

// Column returns the zero-based column of a direct-drop action.
func (a Action) Column() (int, bool) {
	if a < ActionColumn1 || a > ActionColumn9 {
		return 0, false
	}
	return int(a - ActionColumn1), true
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if col, ok := a.Column(); ok {
		return "Column" + string(rune('1'+col))
	}
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDrop:
		return "Drop"
	case ActionHint:
		return "Hint"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether a was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// DirectColumn returns the first direct-drop column set in the frame.
func (f InputFrame) DirectColumn() (int, bool) {
	for col := range MaxDirectColumns {
		if f.Has(ColumnAction(col)) {
			return col, true
		}
	}
	return 0, false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
