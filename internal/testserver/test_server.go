// Package testserver assembles a fully wired activity log over an in-memory
// SQLite database for end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/performer"
	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/ganot/activitylog/internal/domain/timeline"
	"github.com/ganot/activitylog/internal/mcp"
	"github.com/ganot/activitylog/internal/runlock"
	"github.com/ganot/activitylog/internal/sqlite"
	"github.com/ganot/activitylog/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is a running JSON-RPC server plus direct access to its stores.
type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Token   string
	ActorID string

	Users     *sqlite.UserRepository
	Customers *sqlite.CustomerRepository
	Companies *sqlite.CompanyRepository
	Notes     *sqlite.NoteRepository
	Messages  *sqlite.MessageRepository
	Segments  *sqlite.SegmentRepository
	Log       *sqlite.ActivityRepository

	Activity     *activity.Service
	Timeline     *timeline.Service
	Materializer *segment.Materializer
}

// New starts a server whose API key token acts as actorID.
func New(t *testing.T, token, actorID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ts := &TestServer{
		DB:        db,
		Token:     token,
		ActorID:   actorID,
		Users:     sqlite.NewUserRepository(db),
		Customers: sqlite.NewCustomerRepository(db),
		Companies: sqlite.NewCompanyRepository(db),
		Notes:     sqlite.NewNoteRepository(db),
		Messages:  sqlite.NewMessageRepository(db),
		Segments:  sqlite.NewSegmentRepository(db),
		Log:       sqlite.NewActivityRepository(db),
	}

	performers := performer.NewResolver(ts.Users, ts.Customers, nil)
	ts.Activity = activity.NewService(ts.Log, nil)
	builder := activity.NewBuilder(ts.Log, ts.Customers, performers, nil)
	ts.Timeline = timeline.NewService(timeline.Stores{
		Customers: ts.Customers,
		Companies: ts.Companies,
		Notes:     ts.Notes,
		Messages:  ts.Messages,
	}, builder, ts.Activity, performers, nil)
	ts.Materializer = segment.NewMaterializer(ts.Segments, sqlite.NewConditionEvaluator(db), ts.Activity, nil,
		segment.WithDedup(ts.Log),
		segment.WithLocker(runlock.NewLocal()),
	)

	apiKeys := sqlite.NewAPIKeyRepository(db)
	require.NoError(t, apiKeys.Create(context.Background(), token, actorID, "test"))

	handler := mcp.NewHandler(ts.Timeline)
	ts.Server = httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(apiKeys), nil))

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// Call posts a JSON-RPC request and decodes the response envelope. A non-nil
// out receives the result.
func (ts *TestServer) Call(t *testing.T, method string, params any, out any) *transport.Error {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Result json.RawMessage  `json:"result"`
		Error  *transport.Error `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if envelope.Error != nil {
		return envelope.Error
	}
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Result, out))
	}
	return nil
}
