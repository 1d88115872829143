package github

import (
	"fmt"
	"log/slog"

	"ghbootstrap/pkg/config"
)

// Credentials identify the repository to synchronize and the token used to do it
type Credentials struct {
	Owner string
	Repo  string
	Token string
}

// String returns the repository in owner/repo form
func (c Credentials) String() string {
	return fmt.Sprintf("%s/%s", c.Owner, c.Repo)
}

// LogValue keeps the token out of log output
func (c Credentials) LogValue() slog.Value {
	token := ""
	if c.Token != "" {
		token = "[REDACTED]"
	}
	return slog.GroupValue(
		slog.String("owner", c.Owner),
		slog.String("repo", c.Repo),
		slog.String("token", token),
	)
}

// Label represents a label as returned by the labels API
type Label struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

// SyncContext is the state carried through one synchronization run
type SyncContext struct {
	Credentials Credentials
	Config      *config.Config
	Existing    []Label
}

// Result summarizes a successful synchronization run
type Result struct {
	Message string   `json:"message"`
	Deleted []string `json:"deleted"`
	Created []Label  `json:"created"`
}

// State names a step of the synchronization state machine
type State string

const (
	StateStart     State = "start"
	StateValidated State = "validated"
	StateListed    State = "listed"
	StateDeleted   State = "deleted"
	StateCreated   State = "created"
	StateDone      State = "done"
	StateFailed    State = "failed"
)
