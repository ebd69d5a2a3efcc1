package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"verifyica/pkg/api"
)

// NodeStatus is the captured terminal status of a node, including the
// skip pseudo-status that has no TestExecutionStatus equivalent.
type NodeStatus string

const (
	NodePassed  NodeStatus = "PASSED"
	NodeFailed  NodeStatus = "FAILED"
	NodeAborted NodeStatus = "ABORTED"
	NodeSkipped NodeStatus = "SKIPPED"
	NodeRunning NodeStatus = "RUNNING"
)

// NodeRecord captures the lifecycle of one execution node.
type NodeRecord struct {
	ID        string     `json:"id"`
	Status    NodeStatus `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	Error     string     `json:"error,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time,omitempty"`
}

// StructuredListener captures all execution events as structured records
// for programmatic access and JSON export. It never writes to stdio.
type StructuredListener struct {
	mu      sync.Mutex
	byID    map[string]*NodeRecord
	ordered []*NodeRecord
}

// NewStructuredListener creates an empty structured listener.
func NewStructuredListener() *StructuredListener {
	return &StructuredListener{byID: make(map[string]*NodeRecord)}
}

// Started implements api.ExecutionListener.
func (l *StructuredListener) Started(id api.UniqueID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record := &NodeRecord{
		ID:        id.String(),
		Status:    NodeRunning,
		StartTime: time.Now(),
	}
	l.byID[record.ID] = record
	l.ordered = append(l.ordered, record)
}

// Skipped implements api.ExecutionListener.
func (l *StructuredListener) Skipped(id api.UniqueID, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record := l.record(id)
	record.Status = NodeSkipped
	record.Reason = reason
	record.EndTime = time.Now()
}

// Finished implements api.ExecutionListener.
func (l *StructuredListener) Finished(id api.UniqueID, result api.TestExecutionResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record := l.record(id)
	record.EndTime = time.Now()
	switch result.Status {
	case api.StatusSuccessful:
		record.Status = NodePassed
	case api.StatusFailed:
		record.Status = NodeFailed
	case api.StatusAborted:
		record.Status = NodeAborted
	}
	if result.Err != nil {
		record.Error = result.Err.Error()
	}
}

func (l *StructuredListener) record(id api.UniqueID) *NodeRecord {
	key := id.String()
	if record, ok := l.byID[key]; ok {
		return record
	}
	record := &NodeRecord{ID: key, StartTime: time.Now()}
	l.byID[key] = record
	l.ordered = append(l.ordered, record)
	return record
}

// Records returns the captured records in event order.
func (l *StructuredListener) Records() []NodeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]NodeRecord, len(l.ordered))
	for i, record := range l.ordered {
		out[i] = *record
	}
	return out
}

// ResultsJSON renders the captured records as indented JSON.
func (l *StructuredListener) ResultsJSON() (string, error) {
	data, err := json.MarshalIndent(l.Records(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	return string(data), nil
}

// WriteReport writes the captured records as JSON to path.
func (l *StructuredListener) WriteReport(path string) error {
	data, err := l.ResultsJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}
