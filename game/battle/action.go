package battle

// ActionKind selects which stepped handler of the acting unit runs.
type ActionKind string

// Action kinds.
const (
	ActionBasicATK  ActionKind = "Basic ATK"
	ActionSkill     ActionKind = "Skill"
	ActionUltimate  ActionKind = "Ultimate"
	ActionTalent    ActionKind = "Talent"
	ActionPass      ActionKind = "Pass"
	ActionExtraMove ActionKind = "Extra Move"
)

// Action is a request for Unit to perform Kind on Targets. Targets[0] is the
// primary target.
type Action struct {
	Kind    ActionKind
	Unit    Unit
	Targets []Unit
}

// NewAction is a convenience constructor.
func NewAction(kind ActionKind, u Unit, targets ...Unit) Action {
	return Action{Kind: kind, Unit: u, Targets: targets}
}

// Ptr returns a pointer to a copy of a, for hooks that return *Action.
func (a Action) Ptr() *Action { return &a }

// Primary returns the main target, or nil.
func (a Action) Primary() Unit {
	if len(a.Targets) == 0 {
		return nil
	}
	return a.Targets[0]
}
