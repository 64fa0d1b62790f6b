package wallet

import "github.com/status-im/hooked-wallet/wallet/commands"

// CommandRegistry maps RPC method names to their pipeline commands.
type CommandRegistry struct {
	commands map[string]commands.Command
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]commands.Command),
	}
}

func (r *CommandRegistry) Register(method string, command commands.Command) {
	r.commands[method] = command
}

func (r *CommandRegistry) GetCommand(method string) (commands.Command, bool) {
	command, exists := r.commands[method]
	return command, exists
}
