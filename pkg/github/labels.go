package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/go-github/v66/github"

	"ghbootstrap/pkg/config"
)

// LabelService lists, deletes and creates labels on one repository.
// Batches run on a serial queue so at most one call is in flight.
type LabelService struct {
	caller Caller
	creds  Credentials
	logger *slog.Logger
}

// NewLabelService creates a label service for the repository named by creds
func NewLabelService(caller Caller, creds Credentials, logger *slog.Logger) *LabelService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LabelService{caller: caller, creds: creds, logger: logger}
}

// List fetches the labels currently on the repository.
// Only the first page of results is requested.
func (s *LabelService) List(ctx context.Context) ([]Label, error) {
	body, err := s.caller.Call(ctx, &Request{
		Method: http.MethodGet,
		Path:   labelsPath(s.creds),
	})
	if err != nil {
		return nil, err
	}

	labels, err := parseLabels(body)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Listed labels", "repository", s.creds.String(), "count", len(labels))
	return labels, nil
}

// Delete removes each existing label, one call at a time in list order.
// It returns the names deleted. Labels deleted before a failure stay deleted.
func (s *LabelService) Delete(ctx context.Context, existing []Label) ([]string, error) {
	q := NewSerialQueue[string]()
	for _, label := range existing {
		label := label
		q.Defer(func(ctx context.Context) (string, error) {
			_, err := s.caller.Call(ctx, &Request{
				Method: http.MethodDelete,
				Path:   labelPath(s.creds, label.Name),
			})
			if err != nil {
				return "", err
			}
			s.logger.Debug("Deleted label", "name", label.Name)
			return label.Name, nil
		})
	}

	return q.AwaitAll(ctx)
}

// Create adds each configured label, one call at a time in configuration order.
// Labels created before a failure are kept.
func (s *LabelService) Create(ctx context.Context, labels config.Labels) ([]Label, error) {
	q := NewSerialQueue[Label]()
	for _, label := range labels {
		label := label
		q.Defer(func(ctx context.Context) (Label, error) {
			body, err := s.caller.Call(ctx, &Request{
				Method: http.MethodPost,
				Path:   labelsPath(s.creds),
				Body: &github.Label{
					Name:  github.String(label.Name),
					Color: github.String(config.BareColor(label.Color)),
				},
			})
			if err != nil {
				return Label{}, err
			}

			created := Label{Name: label.Name, Color: config.BareColor(label.Color)}
			if len(body) > 0 {
				var remote github.Label
				if err := json.Unmarshal(body, &remote); err == nil && remote.Name != nil {
					created = convertGitHubLabel(&remote)
				}
			}

			s.logger.Debug("Created label", "name", created.Name, "color", created.Color)
			return created, nil
		})
	}

	return q.AwaitAll(ctx)
}

// parseLabels classifies a list response into labels or a malformed-response error
func parseLabels(body json.RawMessage) ([]Label, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &MalformedResponseError{Err: errors.New("expected a JSON array of labels")}
	}

	var remote []*github.Label
	if err := json.Unmarshal(trimmed, &remote); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	labels := make([]Label, 0, len(remote))
	for i, l := range remote {
		if l == nil || l.Name == nil {
			return nil, &MalformedResponseError{Err: fmt.Errorf("label %d has no name", i)}
		}
		labels = append(labels, convertGitHubLabel(l))
	}

	return labels, nil
}

// convertGitHubLabel converts a GitHub API label to our internal type
func convertGitHubLabel(l *github.Label) Label {
	return Label{
		ID:          l.GetID(),
		Name:        l.GetName(),
		Color:       l.GetColor(),
		Description: l.GetDescription(),
		Default:     l.GetDefault(),
	}
}

func labelsPath(creds Credentials) string {
	return fmt.Sprintf("repos/%s/%s/labels", url.PathEscape(creds.Owner), url.PathEscape(creds.Repo))
}

func labelPath(creds Credentials, name string) string {
	return labelsPath(creds) + "/" + url.PathEscape(name)
}
