package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordpredict/pkg/config"
	"github.com/bastiangx/wordpredict/pkg/ngram"
	"github.com/bastiangx/wordpredict/pkg/predict"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for next-word predictions
type Server struct {
	predictor    predict.IPredictor
	config       *config.Config
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a prediction server reading requests from r and
// writing responses to w.
func NewServer(predictor predict.IPredictor, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		predictor: predictor,
		config:    cfg,
		decoder:   msgpack.NewDecoder(r),
		encoder:   msgpack.NewEncoder(w),
	}
}

// Start processes requests until the input stream ends.
// A malformed message ends the stream since framing is lost.
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.requestCount++
		if err := s.handleRequest(req); err != nil {
			log.Errorf("Writing response: %v", err)
			return err
		}
	}
}

func (s *Server) handleRequest(req Request) error {
	switch req.Action {
	case "", actionPredict:
		return s.handlePredict(req)
	case actionStats:
		return s.send(StatsResponse{ID: req.ID, Status: "ok", Stats: s.predictor.Stats()})
	default:
		return s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handlePredict(req Request) error {
	if len(req.Context) != s.predictor.N()-1 {
		log.Debug("Context length mismatch", "got", len(req.Context), "want", s.predictor.N()-1)
		return s.sendError(req.ID, fmt.Sprintf("Context must hold %d words", s.predictor.N()-1), 400)
	}

	limit := req.Limit
	if limit < 1 {
		limit = s.config.Model.TopN
	}
	if limit > s.config.Server.MaxLimit {
		limit = s.config.Server.MaxLimit
	}

	start := time.Now()
	ranked, err := predict.Complete(s.predictor, req.Context, req.Prefix, limit)
	if err != nil {
		code := 500
		if errors.Is(err, ngram.ErrInvalidConfig) {
			code = 400
		}
		return s.sendError(req.ID, err.Error(), code)
	}
	elapsed := time.Since(start)

	suggestions := make([]PredictSuggestion, len(ranked))
	for i, wp := range ranked {
		suggestions[i] = PredictSuggestion{Word: wp.Word, Rank: uint16(i + 1), Prob: wp.Prob}
	}

	return s.send(PredictResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) send(response any) error {
	return s.encoder.Encode(response)
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
