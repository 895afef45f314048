package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/ngramserve/internal/logger"
	"github.com/bastiangx/ngramserve/pkg/query"
	"github.com/bastiangx/ngramserve/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	codeBadRequest    = 400
	codeUnknownAction = 404
)

// Server answers frequency queries over a msgpack stream.
type Server struct {
	engine       *query.Engine
	trie         trie.ITrie
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(engine *query.Engine, t trie.ITrie, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine:  engine,
		trie:    t,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
		logger:  logger.New("server"),
	}
}

// Start announces readiness and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requestCount)
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}
		if err := s.handleMessage(raw); err != nil {
			return err
		}
	}
}

// handleMessage answers one raw message; only write failures are returned.
func (s *Server) handleMessage(raw msgpack.RawMessage) error {
	s.requestCount++

	var request QueryRequest
	if err := msgpack.Unmarshal(raw, &request); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid request", codeBadRequest)
	}

	switch {
	case request.Action != "":
		return s.handleAction(request)
	case request.Query != "":
		return s.handleQuery(request)
	default:
		return s.sendError(request.ID, "missing 'q' or 'action'", codeBadRequest)
	}
}

func (s *Server) handleQuery(request QueryRequest) error {
	start := time.Now()
	res, err := s.engine.QueryLine(request.Query)
	if err != nil {
		s.logger.Debug("Rejected query", "id", request.ID, "err", err)
		return s.sendError(request.ID, err.Error(), codeBadRequest)
	}

	suffixes := make([]SuffixFrequency, len(res.Suffixes))
	for i, text := range res.Suffixes {
		suffixes[i] = SuffixFrequency{Text: text, Count: uint32(res.Frequencies[i])}
	}
	return s.send(QueryResponse{
		ID:        request.ID,
		Suffixes:  suffixes,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleAction(request QueryRequest) error {
	switch request.Action {
	case "stats":
		return s.send(StatsResponse{
			ID:       request.ID,
			Status:   "ok",
			Trie:     s.trie.Stats(),
			Engine:   s.engine.Stats(),
			Requests: s.requestCount,
		})
	case "health":
		return s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		return s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), codeUnknownAction)
	}
}

func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Writing response: %v", err)
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(QueryError{ID: id, Error: message, Code: code})
}
