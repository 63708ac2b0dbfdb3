package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nutrimed/interactions-api/interfaces"
)

func TestHTTPSinkPostsEntry(t *testing.T) {
	received := make(chan interfaces.HistoryEntry, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		var entry interfaces.HistoryEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			t.Errorf("failed to decode entry: %v", err)
		}
		received <- entry
	}))
	defer server.Close()

	sink := NewHTTPSink(server.URL, time.Second)
	sink.Record(context.Background(), interfaces.HistoryEntry{
		Drugs:           []string{"coumadin", "ecopirin"},
		Foods:           []string{"humus"},
		ConfidenceScore: 85,
		ConfidenceLabel: "high",
		RecordedAt:      time.Now(),
	})

	select {
	case entry := <-received:
		if len(entry.Drugs) != 2 || entry.ConfidenceScore != 85 {
			t.Errorf("unexpected entry: %+v", entry)
		}
	case <-time.After(time.Second):
		t.Fatal("expected the sink to post the entry")
	}
}

func TestHTTPSinkSwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	// Neither a rejecting service nor an unreachable one may panic or block.
	sink := NewHTTPSink(server.URL, time.Second)
	sink.Record(context.Background(), interfaces.HistoryEntry{Drugs: []string{"parol"}})

	unreachable := NewHTTPSink("http://127.0.0.1:0", 100*time.Millisecond)
	unreachable.Record(context.Background(), interfaces.HistoryEntry{})
}

func TestLogSinkRecords(t *testing.T) {
	// The default sink only writes to the log; it must accept any entry.
	LogSink{}.Record(context.Background(), interfaces.HistoryEntry{
		Drugs:      []string{"coumadin"},
		RecordedAt: time.Now(),
	})
}
