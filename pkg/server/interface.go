/*
Package server implements msgpack IPC for n-gram frequency queries.

The server reads msgpack messages from stdin and writes one msgpack response
per request to stdout. The first message written is {"status": "ready"}.

A query request carries one n-gram line, split with the configured delimiter:

	{"id": "q1", "q": "mortgages had lured borrowers and"}

The response lists every suffix, full n-gram first, with its frequency and
the lookup time in microseconds:

	{"id": "q1", "s": [{"t": "mortgages had lured borrowers and", "c": 0}, ..., {"t": "and", "c": 6453}], "t": 3}

Action requests report on the loaded index:

	{"id": "a1", "action": "stats"}
	{"id": "a2", "action": "health"}

Failures are answered with {"id", "e", "c"} where c is 400 for a malformed
request or query line and 404 for an unknown action. The loop ends cleanly
when stdin is closed.
*/
package server

// QueryRequest is either a query ("q") or an action request.
type QueryRequest struct {
	ID     string `msgpack:"id"`
	Query  string `msgpack:"q,omitempty"`
	Action string `msgpack:"action,omitempty"`
}

// SuffixFrequency is the frequency of one suffix of the query.
type SuffixFrequency struct {
	Text  string `msgpack:"t"`
	Count uint32 `msgpack:"c"`
}

// QueryResponse answers a query request.
type QueryResponse struct {
	ID        string            `msgpack:"id"`
	Suffixes  []SuffixFrequency `msgpack:"s"`
	TimeTaken int64             `msgpack:"t"`
}

// StatsResponse answers the "stats" action.
type StatsResponse struct {
	ID       string         `msgpack:"id"`
	Status   string         `msgpack:"status"`
	Trie     map[string]int `msgpack:"trie"`
	Engine   map[string]int `msgpack:"engine"`
	Requests int            `msgpack:"requests"`
}

// StatusResponse answers "health" and announces readiness.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// QueryError holds basic error information for failed requests
type QueryError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
