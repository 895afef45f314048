package server

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/bastiangx/ngramserve/pkg/builder"
	"github.com/bastiangx/ngramserve/pkg/query"
	"github.com/bastiangx/ngramserve/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/d4l3k/messagediff"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

func runServer(t *testing.T, messages ...any) *msgpack.Decoder {
	t.Helper()
	tr, err := trie.NewHashMapTrie(3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := builder.New(tr, ' ').BuildLines([]string{"a b c", "a b"}); err != nil {
		t.Fatal(err)
	}

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range messages {
		if err := enc.Encode(m); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	srv := NewServer(query.NewEngine(tr, query.WithCache(true)), tr, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil || ready.Status != "ready" {
		t.Fatalf("ready message = %+v, %v", ready, err)
	}
	return dec
}

func TestServerQuery(t *testing.T) {
	dec := runServer(t, QueryRequest{ID: "q1", Query: "a b c"})

	var resp QueryResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	expected := []SuffixFrequency{
		{Text: "a b c", Count: 1},
		{Text: "b c", Count: 1},
		{Text: "c", Count: 1},
	}
	if resp.ID != "q1" {
		t.Errorf("id = %q, want q1", resp.ID)
	}
	if diff, equal := messagediff.PrettyDiff(expected, resp.Suffixes); !equal {
		t.Errorf("suffix mismatch:\n%s", diff)
	}

	var extra QueryResponse
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		t.Errorf("expected end of output, got %+v, %v", extra, err)
	}
}

func TestServerErrors(t *testing.T) {
	testCases := []struct {
		description string
		message     any
		code        int
	}{
		{"short query", QueryRequest{ID: "e1", Query: "a b"}, codeBadRequest},
		{"empty request", QueryRequest{ID: "e2"}, codeBadRequest},
		{"unknown action", QueryRequest{ID: "e3", Action: "reload"}, codeUnknownAction},
		{"not a map", 42, codeBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			dec := runServer(t, tc.message)
			var resp QueryError
			if err := dec.Decode(&resp); err != nil {
				t.Fatalf("decoding error response: %v", err)
			}
			if resp.Code != tc.code || resp.Error == "" {
				t.Errorf("error response = %+v, want code %d", resp, tc.code)
			}
		})
	}
}

func TestServerActions(t *testing.T) {
	dec := runServer(t,
		QueryRequest{ID: "q", Query: "a b c"},
		QueryRequest{ID: "s", Action: "stats"},
		QueryRequest{ID: "h", Action: "health"},
	)

	var q QueryResponse
	if err := dec.Decode(&q); err != nil {
		t.Fatal(err)
	}

	var stats StatsResponse
	if err := dec.Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.ID != "s" || stats.Requests != 2 {
		t.Errorf("stats response = %+v", stats)
	}
	if stats.Trie["level_1"] != 3 || stats.Engine["queries"] != 1 {
		t.Errorf("unexpected stats trie=%v engine=%v", stats.Trie, stats.Engine)
	}

	var health StatusResponse
	if err := dec.Decode(&health); err != nil || health.ID != "h" || health.Status != "ok" {
		t.Errorf("health response = %+v, %v", health, err)
	}
}

func TestServerKeepsServingAfterErrors(t *testing.T) {
	dec := runServer(t,
		QueryRequest{ID: "bad", Query: "x"},
		QueryRequest{ID: "good", Query: "b b c"},
	)
	var bad QueryError
	if err := dec.Decode(&bad); err != nil || bad.ID != "bad" {
		t.Fatalf("first response = %+v, %v", bad, err)
	}
	var good QueryResponse
	if err := dec.Decode(&good); err != nil {
		t.Fatal(err)
	}
	if good.ID != "good" || len(good.Suffixes) != 3 || good.Suffixes[1].Count != 1 {
		t.Errorf("second response = %+v", good)
	}
}
