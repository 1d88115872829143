package github

import (
	"context"
	"io"
	"log/slog"
)

// SuccessMessage is reported when a run completes
const SuccessMessage = "Successfully created labels!"

// SyncerOptions configures a Syncer
type SyncerOptions struct {
	// Validator checks inputs; NewValidator() is used when nil
	Validator *Validator

	// NewCaller builds the API caller for a run; a Client built from
	// ClientOptions is used when nil
	NewCaller CallerFactory

	ClientOptions ClientOptions

	Logger *slog.Logger
}

// Syncer replaces every label on a repository with the configured set.
// A Syncer drives one run at a time.
type Syncer struct {
	validator *Validator
	newCaller CallerFactory
	logger    *slog.Logger
	state     State
}

// NewSyncer creates a new Syncer
func NewSyncer(opts SyncerOptions) *Syncer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	validator := opts.Validator
	if validator == nil {
		validator = NewValidator()
	}

	newCaller := opts.NewCaller
	if newCaller == nil {
		clientOpts := opts.ClientOptions
		if clientOpts.Logger == nil {
			clientOpts.Logger = logger
		}
		newCaller = func(creds Credentials) (Caller, error) {
			return NewClient(creds, clientOpts)
		}
	}

	return &Syncer{
		validator: validator,
		newCaller: newCaller,
		logger:    logger,
		state:     StateStart,
	}
}

// State returns the state the last run reached
func (s *Syncer) State() State {
	return s.state
}

// Sync validates the input, lists the remote labels, deletes all of them and
// creates the configured ones. Deletion completes before any creation starts.
// The first error ends the run; nothing already changed is rolled back.
func (s *Syncer) Sync(ctx context.Context, in Input) (*Result, error) {
	s.state = StateStart

	sc, err := s.validator.Validate(in)
	if err != nil {
		return nil, s.fail(err)
	}
	s.transition(StateValidated)

	s.logger.Info("Synchronizing labels", "credentials", sc.Credentials, "configured", len(sc.Config.Labels))

	caller, err := s.newCaller(sc.Credentials)
	if err != nil {
		return nil, s.fail(err)
	}
	labels := NewLabelService(caller, sc.Credentials, s.logger)

	sc.Existing, err = labels.List(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	s.transition(StateListed)

	result := &Result{Message: SuccessMessage}

	q := NewSerialQueue[struct{}]()
	q.Defer(func(ctx context.Context) (struct{}, error) {
		deleted, err := labels.Delete(ctx, sc.Existing)
		if err != nil {
			return struct{}{}, err
		}
		result.Deleted = deleted
		s.transition(StateDeleted)
		return struct{}{}, nil
	})
	q.Defer(func(ctx context.Context) (struct{}, error) {
		created, err := labels.Create(ctx, sc.Config.Labels)
		if err != nil {
			return struct{}{}, err
		}
		result.Created = created
		s.transition(StateCreated)
		return struct{}{}, nil
	})

	if _, err := q.AwaitAll(ctx); err != nil {
		return nil, s.fail(err)
	}

	s.transition(StateDone)
	s.logger.Info("Labels synchronized", "repository", sc.Credentials.String(),
		"deleted", len(result.Deleted), "created", len(result.Created))

	return result, nil
}

func (s *Syncer) transition(to State) {
	s.logger.Debug("State transition", "from", s.state, "to", to)
	s.state = to
}

// fail moves the run to StateFailed and wraps err with the state it left
func (s *Syncer) fail(err error) error {
	from := s.state
	s.logger.Debug("State transition", "from", from, "to", StateFailed, "error", err)
	s.state = StateFailed
	return &SyncError{State: from, Err: err}
}
