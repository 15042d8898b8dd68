package patients

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/patientdb/pkg/types"
)

// DefaultHistorySize is the number of distinct statements a session remembers
const DefaultHistorySize = 50

// HistoryEntry records one successful ad-hoc statement
type HistoryEntry struct {
	SQL      string    `json:"sql"`
	Rows     int       `json:"rows"`
	Executed time.Time `json:"executed_at"`
}

// QuerySession holds the result set a caller is currently showing. A failed
// statement leaves that result in place.
type QuerySession struct {
	svc *Service

	mu      sync.Mutex
	last    *types.QueryResult
	lastSQL string
	history *lru.Cache[string, HistoryEntry]
	now     func() time.Time
}

// NewQuerySession creates a session over svc remembering up to historySize
// distinct statements (DefaultHistorySize when <= 0).
func NewQuerySession(svc *Service, historySize int) *QuerySession {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	cache, err := lru.New[string, HistoryEntry](historySize)
	if err != nil {
		cache, _ = lru.New[string, HistoryEntry](DefaultHistorySize)
	}
	return &QuerySession{
		svc:     svc,
		last:    types.EmptyResult(),
		history: cache,
		now:     time.Now,
	}
}

// Run executes sqlText. On success the held result is replaced and the
// statement recorded; on error nothing changes and the error is returned.
func (q *QuerySession) Run(ctx context.Context, sqlText string) (*types.QueryResult, error) {
	result, err := q.svc.QueryPatients(ctx, sqlText)
	if err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.last = result
	q.lastSQL = sqlText
	q.history.Add(sqlText, HistoryEntry{SQL: sqlText, Rows: result.Len(), Executed: q.now()})
	return result, nil
}

// Last returns the held result and the statement that produced it
func (q *QuerySession) Last() (*types.QueryResult, string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.last, q.lastSQL
}

// History returns remembered statements, most recent first
func (q *QuerySession) History() []HistoryEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Keys are ordered oldest to newest
	keys := q.history.Keys()
	out := make([]HistoryEntry, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if entry, ok := q.history.Peek(keys[i]); ok {
			out = append(out, entry)
		}
	}
	return out
}
