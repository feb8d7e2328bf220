package core

import (
	"context"
	"sync"
)

// CommandHandler runs one top-level command. c is the received command
// character; handlers that read more input do so through the dispatcher.
type CommandHandler func(ctx context.Context, c byte) error

// Command represents a single-character serial command
type Command struct {
	Char    byte
	Name    string
	Help    string // one-line description shown by '?' 'H'
	Handler CommandHandler
}

// CommandTable holds all registered commands
type CommandTable struct {
	mu       sync.RWMutex
	commands [128]*Command
	order    []byte
}

// NewCommandTable creates an empty command table
func NewCommandTable() *CommandTable {
	return &CommandTable{}
}

// Register adds a command to the table
func (t *CommandTable) Register(c byte, name, help string, handler CommandHandler) error {
	if c >= byte(len(t.commands)) {
		return ErrUnknownCommand
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.commands[c] != nil {
		return ErrDuplicateCmd
	}
	t.commands[c] = &Command{Char: c, Name: name, Help: help, Handler: handler}
	t.order = append(t.order, c)
	return nil
}

// Lookup retrieves a command by character
func (t *CommandTable) Lookup(c byte) (*Command, bool) {
	if c >= byte(len(t.commands)) {
		return nil, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	cmd := t.commands[c]
	return cmd, cmd != nil
}

// Count returns the number of registered commands
func (t *CommandTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// Each visits commands in registration order
func (t *CommandTable) Each(fn func(cmd *Command)) {
	t.mu.RLock()
	order := t.order
	t.mu.RUnlock()
	for _, c := range order {
		if cmd, ok := t.Lookup(c); ok {
			fn(cmd)
		}
	}
}

// Dispatch calls the handler registered for c
func (t *CommandTable) Dispatch(ctx context.Context, c byte) error {
	cmd, ok := t.Lookup(c)
	if !ok {
		return ErrUnknownCommand
	}
	return cmd.Handler(ctx, c)
}
