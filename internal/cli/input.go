// Package cli handles cmd line input and predictions for DBG and testing the model by hand
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/bastiangx/wordpredict/internal/utils"
	"github.com/bastiangx/wordpredict/pkg/corpus"
	"github.com/bastiangx/wordpredict/pkg/predict"
	"github.com/charmbracelet/log"
)

// InputHandler reads partial sentences and prints the predicted next words.
// A line ending in a space predicts a fresh word; otherwise the last word
// is treated as the typed prefix of the word being predicted.
type InputHandler struct {
	predictor    predict.IPredictor
	suggestLimit int
	requestCount int
	in           io.Reader
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(predictor predict.IPredictor, limit int, in io.Reader) *InputHandler {
	return &InputHandler{
		predictor:    predictor,
		suggestLimit: limit,
		in:           in,
	}
}

// Start begins the interface loop. It returns nil when input ends.
func (h *InputHandler) Start() error {
	log.Print("wordpredict CLI")
	log.Printf("type at least %d words and press Enter (Ctrl+C to exit):", h.predictor.N()-1)
	reader := bufio.NewReader(h.in)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			if strings.TrimSpace(line) != "" {
				h.handleInput(strings.TrimRight(line, "\r\n"))
			}
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		h.handleInput(line)
	}
}

// SplitInput turns a typed line into the context for an n-gram model and
// the prefix of the word being typed. ok is false with too few words.
func SplitInput(line string, n int) (context []string, prefix string, ok bool) {
	tokens := corpus.Tokenize(line)
	trailingSpace := len(line) > 0 && unicode.IsSpace(rune(line[len(line)-1]))
	if !trailingSpace && len(tokens) > 0 {
		prefix = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) < n-1 {
		return nil, prefix, false
	}
	return tokens[len(tokens)-(n-1):], prefix, true
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	context, prefix, ok := SplitInput(line, h.predictor.N())
	if !ok {
		log.Errorf("Need %d words of context: %q", h.predictor.N()-1, line)
		return
	}

	start := time.Now()
	predictions, err := predict.Complete(h.predictor, context, prefix, h.suggestLimit)
	if err != nil {
		log.Errorf("Prediction failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for context %v prefix '%s'", time.Since(start), context, prefix)

	if len(predictions) == 0 {
		log.Warnf("No predictions for context %v prefix '%s'", context, prefix)
		return
	}

	log.Printf("Found %d predictions after %v:", len(predictions), context)
	for i, wp := range predictions {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", wp.Word)
		log.Printf("%2d. %-40s (p: %s)", i+1, clWord, utils.FormatPercent(wp.Prob))
	}
	if h.requestCount%50 == 0 {
		log.Debug("Cache", "stats", h.predictor.Stats())
	}
}
