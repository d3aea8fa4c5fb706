package menu

// Fixed captions, commands, and ids of the generated menus.
const (
	CaptionPrefix   = "Maven: "
	CatchAllCaption = "Maven: Run ..."
	MavenCommand    = "maven"

	ImportCaption = "Generate Project from all POMs in Path"
	ImportCommand = "import_maven_projects"

	SeparatorCaption = "-"

	ProjectMenuCaption   = "Project Specific"
	ProjectMenuID        = "project-specific"
	CommandsSeparatorID  = "maven_commands"
	MavenSubmenuCaption  = "Maven"
	AutoGeneratedComment = "// AUTO GENERATED FILE BY MAVEN PACKAGE!"
)

// Output file names inside the package directory.
const (
	ContextMenuFile = "Context.sublime-menu"
	SideBarMenuFile = "Side Bar.sublime-menu"
	CommandsFile    = "Generated.sublime-commands"
)

// DefaultCommands returns the built-in command list used when the user has
// not configured maven_menu_commands. Each call returns a fresh list.
func DefaultCommands() []CommandDescriptor {
	return []CommandDescriptor{
		mavenCommand("Maven: Run install", []string{"install"}, nil),
		mavenCommand("Maven: Run clean install", []string{"clean", "install"}, nil),
		mavenCommand("Maven: Test", []string{"test"}, []string{"-DskipTests=false", "-Dtest=$CLASS"}),
		mavenCommand("Maven: Exec:java", []string{"compile", "exec:java"}, []string{"-Dexec.mainClass=$CLASS"}),
		catchAll(),
	}
}

func mavenCommand(caption string, goals, props []string) CommandDescriptor {
	return CommandDescriptor{
		Caption: caption,
		Command: MavenCommand,
		Args: &CommandArgs{
			Paths: []string{},
			Goals: goals,
			Props: props,
		},
	}
}

func catchAll() CommandDescriptor {
	return mavenCommand(CatchAllCaption, []string{}, nil)
}

func importProjects() CommandDescriptor {
	return CommandDescriptor{
		Caption: ImportCaption,
		Command: ImportCommand,
		Args:    &CommandArgs{Paths: []string{}},
	}
}
