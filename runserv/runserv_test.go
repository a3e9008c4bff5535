package runserv

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()

	files := map[string]string{
		"hello.bas": "10 PRINT \"HELLO\"\n",
		"loop.bas":  "10 LET N = 2\n20 IF N = 0 THEN 60\n30 PRINT N\n40 LET N = N - 1\n50 GOTO 20\n60 PRINT \"done\"\n",
		"bad.bas":   "10 PRINT\n",
		"notes.txt": "not a program",
	}
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}

	return NewServer(dir)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(method, target, rdr))

	return rr
}

func Test_ListPrograms(t *testing.T) {
	rr := doRequest(t, testServer(t), http.MethodGet, "/programs", "")

	require.Equal(t, http.StatusOK, rr.Code)

	var got struct {
		Programs []string `json:"programs"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))

	// os.ReadDir sorts by name, notes.txt is not a program
	assert.Equal(t, []string{"bad.bas", "hello.bas", "loop.bas"}, got.Programs)
}

func Test_GetProgram(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		target string
		code   int
		body   string
	}{
		{"/programs/hello.bas", http.StatusOK, "10 PRINT \"HELLO\"\n"},
		{"/programs/nope.bas", http.StatusNotFound, ""},
		{"/programs/.secret", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		rr := doRequest(t, s, http.MethodGet, tt.target, "")

		assert.Equalf(t, tt.code, rr.Code, "GET %s", tt.target)
		if tt.body != "" {
			assert.Equalf(t, tt.body, rr.Body.String(), "GET %s", tt.target)
		}
	}
}

func Test_RunProgram(t *testing.T) {
	rr := doRequest(t, testServer(t), http.MethodPost, "/programs/loop.bas/run", "")

	require.Equal(t, http.StatusOK, rr.Code)

	var got runResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []string{"2", "1", "done"}, got.Output)
}

func Test_RunProgramParseError(t *testing.T) {
	rr := doRequest(t, testServer(t), http.MethodPost, "/programs/bad.bas/run", "")

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var got errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "parse", got.Stage)
	assert.Equal(t, "Syntax error in 10: PRINT needs at least one item", got.Error)
}

func Test_RunSource(t *testing.T) {
	rr := doRequest(t, testServer(t), http.MethodPost, "/run", `{"source": "10 PRINT 2 + 2"}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var got runResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []string{"4"}, got.Output)
}

func Test_RunSourceStages(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  int
		stage string
	}{
		{"unterminated string", `{"source": "10 PRINT \"x"}`, http.StatusUnprocessableEntity, "tokenize"},
		{"missing target", `{"source": "10 GOTO"}`, http.StatusUnprocessableEntity, "parse"},
		{"undefined line", `{"source": "10 GOTO 99"}`, http.StatusUnprocessableEntity, "run"},
		{"bad body", `this is not json`, http.StatusBadRequest, "request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, testServer(t), http.MethodPost, "/run", tt.body)

			require.Equal(t, tt.code, rr.Code)

			var got errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, tt.stage, got.Stage)
			assert.NotEmpty(t, got.Error)
		})
	}
}

func Test_RunErrorKeepsPartialOutput(t *testing.T) {
	rr := doRequest(t, testServer(t), http.MethodPost, "/run", `{"source": "10 PRINT \"one\"\n20 GOTO 99"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var got errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Undefined line number in 20", got.Error)
	assert.Equal(t, []string{"one"}, got.Output)
}

func Test_ContainsDotFile(t *testing.T) {
	tests := []struct {
		name   string
		expect bool
	}{
		{name: "menu.bas", expect: false},
		{name: ".gitignore", expect: true},
		{name: "../secret.bas", expect: true},
		{name: "sub/.git", expect: true},
	}

	for _, tt := range tests {
		if containsDotFile(tt.name) != tt.expect {
			t.Fatalf("containsDotFile(%s) should have gotten %v but got %v\n", tt.name, tt.expect, containsDotFile(tt.name))
		}
	}
}

func Test_MethodNotAllowed(t *testing.T) {
	rr := doRequest(t, testServer(t), http.MethodGet, "/run", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func Test_ListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := testServer(t)

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
