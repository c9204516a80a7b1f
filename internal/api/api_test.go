package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmhart/chatroom-go/internal/api"
	"github.com/jmhart/chatroom-go/internal/api/response"
	"github.com/jmhart/chatroom-go/internal/factory"
	"github.com/jmhart/chatroom-go/internal/services/token"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real clock
	app, err := factory.New(factory.Config{
		TokenConfig: token.Config{Secret: "test-secret"},
		Logger:      logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		TokenCodec:  app.TokenCodec,
		AuthService: app.AuthService,
		ChatService: app.ChatService,
		WSHandler:   app.WSHandler,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// register creates a user and returns its auth response
func (ts *testServer) register(t *testing.T, name string) response.AuthResponse {
	t.Helper()

	body := map[string]string{"name": name, "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/register", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"name": "alice", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/register", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Name)
	assert.NotZero(t, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterDuplicateName(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	body := map[string]string{"name": "alice", "password": "other"}
	rr := ts.request(http.MethodPost, "/api/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "USERNAME_EXISTS")
}

func TestRegisterMissingFields(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/register", map[string]string{"name": "alice"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	registered := ts.register(t, "alice")

	body := map[string]string{"name": "alice", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/login", body, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	body := map[string]string{"name": "alice", "password": "wrong"}
	rr := ts.request(http.MethodPost, "/api/login", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}

func TestLoginUnknownUser(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"name": "nobody", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/login", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}

func TestMessagesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/messages", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")

	rr = ts.request(http.MethodPost, "/api/messages", map[string]string{"content": "hi"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMessagesRejectGarbageToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/messages", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestCreateMessage(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	body := map[string]string{"content": "hello world"}
	rr := ts.request(http.MethodPost, "/api/messages", body, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var msg response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	assert.NotZero(t, msg.ID)
	assert.Equal(t, alice.User.ID, msg.UserID)
	assert.Equal(t, "alice", msg.Username)
	assert.Equal(t, "hello world", msg.Content)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestCreateMessageEmptyContent(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/messages", map[string]string{"content": "   "}, alice.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}

func TestListMessagesOrdered(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	for i, tok := range []string{alice.Token, bob.Token, alice.Token} {
		body := map[string]string{"content": fmt.Sprintf("message %d", i)}
		rr := ts.request(http.MethodPost, "/api/messages", body, tok)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/api/messages", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var messages []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	require.Len(t, messages, 3)
	for i := 1; i < len(messages); i++ {
		assert.Less(t, messages[i-1].ID, messages[i].ID)
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
	assert.Equal(t, "message 0", messages[0].Content)
}

func TestAnyMemberCanReadHistory(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	rr := ts.request(http.MethodPost, "/api/messages", map[string]string{"content": "from alice"}, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/messages", nil, bob.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var messages []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "from alice", messages[0].Content)
}

func TestUpdateMessage(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/messages", map[string]string{"content": "original"}, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var created response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/messages/%d", created.ID)
	rr = ts.request(http.MethodPut, path, map[string]string{"content": "revised"}, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var updated response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "revised", updated.Content)
}

func TestUpdateMessageNotAuthor(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	rr := ts.request(http.MethodPost, "/api/messages", map[string]string{"content": "alice's"}, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var created response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/messages/%d", created.ID)
	rr = ts.request(http.MethodPut, path, map[string]string{"content": "hijacked"}, bob.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "FORBIDDEN")
}

func TestUpdateMessageNotFound(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPut, "/api/messages/999", map[string]string{"content": "x"}, alice.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "MESSAGE_NOT_FOUND")
}

func TestUpdateMessageInvalidID(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPut, "/api/messages/abc", map[string]string{"content": "x"}, alice.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteMessage(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodPost, "/api/messages", map[string]string{"content": "doomed"}, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var created response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/messages/%d", created.ID)
	rr = ts.request(http.MethodDelete, path, nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var deleted response.DeleteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deleted))
	assert.Equal(t, created.ID, deleted.ID)

	// Gone from history
	rr = ts.request(http.MethodGet, "/api/messages", nil, alice.Token)
	var messages []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	assert.Empty(t, messages)
}

func TestDeleteMessageNotAuthor(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	rr := ts.request(http.MethodPost, "/api/messages", map[string]string{"content": "protected"}, alice.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var created response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/messages/%d", created.ID)
	rr = ts.request(http.MethodDelete, path, nil, bob.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Still present
	rr = ts.request(http.MethodGet, "/api/messages", nil, alice.Token)
	var messages []response.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	assert.Len(t, messages, 1)
}

func TestDeleteMessageNotFound(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	rr := ts.request(http.MethodDelete, "/api/messages/999", nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTokenWorksAcrossChannels(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")

	// The token from register works on subsequent requests without any
	// server-side session
	rr := ts.request(http.MethodGet, "/api/messages", nil, alice.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	// A fresh login token works equally
	loginRR := ts.request(http.MethodPost, "/api/login", map[string]string{"name": "alice", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, loginRR.Code)
	var login response.AuthResponse
	require.NoError(t, json.Unmarshal(loginRR.Body.Bytes(), &login))

	rr = ts.request(http.MethodGet, "/api/messages", nil, login.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
}
