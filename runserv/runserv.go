package runserv

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/tinybas/tinybas/evaluator"
	"github.com/tinybas/tinybas/lexer"
	"github.com/tinybas/tinybas/parser"
)

// Server serves BASIC programs out of a directory and runs them on
// request
type Server struct {
	programs string // directory that holds the .bas files
}

// NewServer creates a server rooted at the programs directory
func NewServer(programs string) *Server {
	return &Server{programs: programs}
}

type runRequest struct {
	Source string `json:"source"`
}

type runResponse struct {
	Output []string `json:"output"`
}

// errorResponse names the pipeline stage that rejected the program so
// callers can tell a bad program from a bad request
type errorResponse struct {
	Error  string   `json:"error"`
	Stage  string   `json:"stage"`
	Output []string `json:"output,omitempty"`
}

// Router builds mux routes to everything I serve
func (s *Server) Router() *mux.Router {
	rtr := mux.NewRouter()

	rtr.HandleFunc("/programs", s.listPrograms).Methods(http.MethodGet)
	rtr.HandleFunc("/programs/{file}", s.getProgram).Methods(http.MethodGet)
	rtr.HandleFunc("/programs/{file}/run", s.runProgram).Methods(http.MethodPost)
	rtr.HandleFunc("/run", s.runSource).Methods(http.MethodPost)

	return rtr
}

// ListenAndServe runs the HTTP server until the context is canceled,
// then drains it
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})

	return eg.Wait()
}

// listPrograms sends back the .bas files found in the programs
// directory
func (s *Server) listPrograms(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.programs)
	if err != nil {
		resJSON(w, http.StatusInternalServerError, &errorResponse{Error: "cannot read programs directory", Stage: "load"})
		return
	}

	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".bas")
	})
	if names == nil {
		names = []string{}
	}

	resJSON(w, http.StatusOK, map[string][]string{"programs": names})
}

// getProgram sends back the source of one program as plain text
func (s *Server) getProgram(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readProgram(w, mux.Vars(r)["file"])
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(src))
}

// runProgram loads a stored program and executes it
func (s *Server) runProgram(w http.ResponseWriter, r *http.Request) {
	src, ok := s.readProgram(w, mux.Vars(r)["file"])
	if !ok {
		return
	}

	s.respond(w, src)
}

// runSource executes a program sent in the request body
func (s *Server) runSource(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resJSON(w, http.StatusBadRequest, &errorResponse{Error: "request body is not valid JSON", Stage: "request"})
		return
	}

	s.respond(w, req.Source)
}

// readProgram loads a named program, it refuses names that try to
// climb out of the programs directory
func (s *Server) readProgram(w http.ResponseWriter, name string) (string, bool) {
	if containsDotFile(name) {
		w.WriteHeader(http.StatusForbidden)
		return "", false
	}

	buf, err := os.ReadFile(filepath.Join(s.programs, name))
	if errors.Is(err, fs.ErrNotExist) {
		w.WriteHeader(http.StatusNotFound)
		return "", false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return "", false
	}

	return string(buf), true
}

// respond runs the source and shapes the outcome into a response
func (s *Server) respond(w http.ResponseWriter, source string) {
	output, errResp := execute(source)
	if errResp != nil {
		resJSON(w, http.StatusUnprocessableEntity, errResp)
		return
	}

	if output == nil {
		output = []string{}
	}
	resJSON(w, http.StatusOK, &runResponse{Output: output})
}

// execute pushes the source through the whole pipeline and reports
// which stage rejected it
func execute(source string) ([]string, *errorResponse) {
	tokens, err := lexer.Scan(source)
	if err != nil {
		return nil, &errorResponse{Error: err.Error(), Stage: "tokenize"}
	}

	prog, err := parser.New(tokens).ParseProgram()
	if err != nil {
		return nil, &errorResponse{Error: err.Error(), Stage: "parse"}
	}

	output, err := evaluator.Run(prog)
	if err != nil {
		return nil, &errorResponse{Error: err.Error(), Stage: "run", Output: output}
	}

	return output, nil
}

func resJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// containsDotFile reports whether name contains a path element starting
// with a period, which also catches ".." climbing
func containsDotFile(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}

	return false
}
