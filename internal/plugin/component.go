package plugin

// Component is a category of artifacts a plugin contributes to Codex.
type Component int

const (
	ComponentCommands Component = iota
	ComponentSkills
	ComponentRules
	ComponentContexts
	ComponentHooks
	ComponentAgents
	ComponentMcpConfigs
)

// Components lists every component in validation order.
var Components = []Component{
	ComponentCommands,
	ComponentSkills,
	ComponentRules,
	ComponentContexts,
	ComponentHooks,
	ComponentAgents,
	ComponentMcpConfigs,
}

// DefaultDirName returns the conventional directory name used when the
// manifest does not declare a path for the component.
func (c Component) DefaultDirName() string {
	switch c {
	case ComponentCommands:
		return "commands"
	case ComponentSkills:
		return "skills"
	case ComponentRules:
		return "rules"
	case ComponentContexts:
		return "contexts"
	case ComponentHooks:
		return "hooks"
	case ComponentAgents:
		return "agents"
	case ComponentMcpConfigs:
		return "mcp-configs"
	}
	return ""
}

func (c Component) String() string {
	return c.DefaultDirName()
}
