/*
Package server implements msgpack IPC for next-word prediction.

Clients write a stream of msgpack-encoded requests to stdin and read one
msgpack-encoded response per request from stdout. Every message carries an
ID that is echoed back.

A prediction request sends the previous n-1 words and an optional limit:

	{"id": "req_001", "c": ["the", "food"], "l": 5}

The server responds with the most probable next words, best first:

	{"id": "req_001", "s": [{"w": "was", "r": 1, "p": 0.031}, {"w": "is", "r": 2, "p": 0.012}], "c": 2, "t": 145}

When the user has already started typing the next word, the typed part
goes in "p" and only predictions starting with it are returned:

	{"id": "req_002", "c": ["the", "food"], "p": "w", "l": 5}

Store and cache statistics are available with the stats action:

	{"id": "stats_001", "action": "stats"}

Failures are reported as {"id": ..., "e": message, "c": code}.
*/
package server

// Request is any client message. Action selects the operation; an empty
// action means predict.
type Request struct {
	ID      string   `msgpack:"id"`
	Action  string   `msgpack:"action,omitempty"`
	Context []string `msgpack:"c"`
	Prefix  string   `msgpack:"p,omitempty"`
	Limit   int      `msgpack:"l,omitempty"`
}

// PredictSuggestion is one predicted word with its 1-based rank.
type PredictSuggestion struct {
	Word string  `msgpack:"w"`
	Rank uint16  `msgpack:"r"`
	Prob float64 `msgpack:"p"`
}

// PredictResponse answers a prediction request.
type PredictResponse struct {
	ID          string              `msgpack:"id"`
	Suggestions []PredictSuggestion `msgpack:"s"`
	Count       int                 `msgpack:"c"`
	TimeTaken   int64               `msgpack:"t"`
}

// StatsResponse answers a stats request.
type StatsResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

const (
	actionPredict = "predict"
	actionStats   = "stats"
)
