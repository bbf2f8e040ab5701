package upgrade

// Action is what the orchestrator does with one package.
type Action int

const (
	// ActionUpgrade reinstalls the package.
	ActionUpgrade Action = iota
	// ActionSkipNeedsForce skips a git or local package that only -f would reinstall.
	ActionSkipNeedsForce
	// ActionSkipUpToDate skips a registry package already at the latest version.
	ActionSkipUpToDate
)

func (a Action) String() string {
	switch a {
	case ActionUpgrade:
		return "upgrade"
	case ActionSkipNeedsForce:
		return "skip_needs_force"
	case ActionSkipUpToDate:
		return "skip_up_to_date"
	default:
		return "unknown"
	}
}

// Decide maps the update state of a package to an action. Registry packages
// are never force-reinstalled when already current.
func Decide(hasUpdate bool, force bool, isRegistry bool) Action {
	switch {
	case hasUpdate:
		return ActionUpgrade
	case isRegistry:
		return ActionSkipUpToDate
	case force:
		return ActionUpgrade
	default:
		return ActionSkipNeedsForce
	}
}
