package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method string
	err    error
}

func (h *testHandler) Handle(_ context.Context, actorID, method string, params json.RawMessage) (any, error) {
	h.method = method
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"actor": actorID}, nil
}

type codedErr struct{}

func (codedErr) Error() string             { return "SUBJECT_NOT_FOUND: subject not found" }
func (codedErr) CodeValue() string         { return "SUBJECT_NOT_FOUND" }
func (codedErr) MessageValue() string      { return "subject not found" }
func (codedErr) DetailsValue() any         { return nil }
func (codedErr) RecoveryHintValue() string { return "Check the ID" }

type methodErr struct{}

func (methodErr) Error() string    { return "unknown method" }
func (methodErr) JSONRPCCode() int { return ErrMethodNotFound }

func postRPC(t *testing.T, url, body, token string) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	resolver := &testResolver{tokenToActor: map[string]string{"token": "u1"}}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(resolver), nil))
	t.Cleanup(server.Close)

	out := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"activityLogsCustomer","params":{"_id":"c1"},"id":1}`, "token")
	require.Nil(t, out.Error)
	require.Equal(t, map[string]any{"actor": "u1"}, out.Result)
	require.Equal(t, "activityLogsCustomer", handler.method)
}

func TestHTTPServer_RPCRequiresAuthWhenEnabled(t *testing.T) {
	resolver := &testResolver{tokenToActor: map[string]string{}}
	server := httptest.NewServer(NewServer(&testHandler{}, AuthMiddleware(resolver), nil))
	t.Cleanup(server.Close)

	resp, err := http.Post(server.URL+"/rpc", "application/json", bytes.NewBufferString(`{"jsonrpc":"2.0","method":"x","id":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		data bool
	}{
		{"domain error", codedErr{}, ErrApplication, true},
		{"protocol error", methodErr{}, ErrMethodNotFound, false},
		{"unexpected error", errors.New("boom"), ErrInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(NewServer(&testHandler{err: tt.err}, nil, nil))
			t.Cleanup(server.Close)

			out := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"x","id":1}`, "")
			require.NotNil(t, out.Error)
			require.Equal(t, tt.code, out.Error.Code)
			if tt.data {
				require.Equal(t, "SUBJECT_NOT_FOUND", out.Error.Data.(map[string]any)["code"])
			}
			require.NotContains(t, out.Error.Message, "boom")
		})
	}
}

func TestHTTPServer_InvalidRequest(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, nil, nil))
	t.Cleanup(server.Close)

	out := postRPC(t, server.URL, `{"method":"x"}`, "")
	require.NotNil(t, out.Error)
	require.Equal(t, ErrInvalidReq, out.Error.Code)
}

func TestHTTPServer_Health(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, nil, nil))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_ParseError(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, nil, nil))
	t.Cleanup(server.Close)

	out := postRPC(t, server.URL, `{not json`, "")
	require.NotNil(t, out.Error)
	require.Equal(t, ErrParseCode, out.Error.Code)
}
