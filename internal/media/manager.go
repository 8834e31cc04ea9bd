package media

import (
	"context"
	"fmt"
)

// RecordWriter persists the listing row carrying the resolved image
// URL array as one atomic write and returns the listing id. It is the
// only writer of durable listing state in a submission.
type RecordWriter func(ctx context.Context, images []string) (string, error)

// Manager sequences one listing save: retry revival, validation,
// reconciliation, the upload pass, principal resolution and the final
// record write. One Manager serves one form session.
type Manager struct {
	col          *Collection
	orchestrator *Orchestrator
	reconciler   *Reconciler
	editing      bool
}

func NewManager(col *Collection, orchestrator *Orchestrator, reconciler *Reconciler, editing bool) *Manager {
	return &Manager{
		col:          col,
		orchestrator: orchestrator,
		reconciler:   reconciler,
		editing:      editing,
	}
}

// Collection exposes the session's collection for slot operations and
// rendering.
func (m *Manager) Collection() *Collection {
	return m.col
}

// Submit runs one save attempt. On success it returns the listing id
// from the record writer plus any non-fatal warnings. On aggregate
// upload failure nothing is written; slots that uploaded stay uploaded
// so a retried Submit does not redo them.
func (m *Manager) Submit(ctx context.Context, write RecordWriter) (string, []string, error) {
	m.col.retryFailed()

	if m.col.Len() == 0 {
		return "", nil, &ValidationError{Field: "images", Message: "at least one image is required"}
	}
	if m.col.indexOf(m.col.principalID) < 0 {
		return "", nil, &ValidationError{Field: "principal", Message: "no principal image selected"}
	}

	var warnings []string

	if m.editing && m.reconciler != nil {
		if w := m.reconciler.Cleanup(ctx, m.col); w != nil {
			warnings = append(warnings, w.Error())
		}
	}

	if err := m.orchestrator.Upload(ctx, m.col); err != nil {
		return "", warnings, err
	}

	principalURL, fellBack := m.col.resolvePrincipalURL()
	if principalURL == "" {
		return "", warnings, &ValidationError{Field: "principal", Message: "no uploaded image available as principal"}
	}
	if fellBack {
		warnings = append(warnings, "designated principal image was unavailable, first uploaded image used instead")
	}

	images := m.col.finalURLs(principalURL)

	id, err := write(ctx, images)
	if err != nil {
		return "", warnings, fmt.Errorf("listing record write failed: %w", err)
	}
	return id, warnings, nil
}

// Close tears the session down, releasing any preview handles still
// held by the collection.
func (m *Manager) Close() {
	m.col.Close()
}
