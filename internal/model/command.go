package model

// CommandKind identifies what a Command asks the store to do.
type CommandKind int

const (
	CommandAdd CommandKind = iota
	CommandToggle
	CommandDelete
)

func (k CommandKind) String() string {
	switch k {
	case CommandAdd:
		return "add"
	case CommandToggle:
		return "toggle"
	case CommandDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Command is a typed user action consumed by the task store.
// ID is used by toggle and delete, Task by add.
type Command struct {
	Kind CommandKind
	ID   int64
	Task NewTask
}

// Toggle builds a completion toggle command.
func Toggle(id int64) Command {
	return Command{Kind: CommandToggle, ID: id}
}

// Delete builds a delete command.
func Delete(id int64) Command {
	return Command{Kind: CommandDelete, ID: id}
}

// Add builds a creation command.
func Add(t NewTask) Command {
	return Command{Kind: CommandAdd, Task: t}
}
