package tickets

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// The initial snapshot write and broadcasts from issuance goroutines can
// target the same connection at once; the subscriber must serialize them.
func TestConcurrentSubscriberWrites(t *testing.T) {
	const eventID = "e-live-test"
	update := availabilityUpdate{Type: "availability", EventID: eventID, Issued: 1, Remaining: 9}

	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		sub := &subscriber{conn: conn}
		subscribe(eventID, sub)
		defer unsubscribe(eventID, sub)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				broadcast(eventID, update)
			}()
			go func() {
				defer wg.Done()
				_ = sub.send(update)
			}()
		}
		wg.Wait()
		conn.Close()
		close(done)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for concurrent writers")
	}
}

func TestBroadcastDropsDeadSubscribers(t *testing.T) {
	const eventID = "e-live-dead"

	connCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- conn
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	serverConn := <-connCh
	sub := &subscriber{conn: serverConn}
	subscribe(eventID, sub)

	// Kill the transport, then broadcast until the write error surfaces
	// and the registry drops the subscriber.
	client.Close()
	serverConn.Close()

	for i := 0; i < 3; i++ {
		broadcast(eventID, availabilityUpdate{Type: "availability", EventID: eventID})
	}

	liveSubs.Lock()
	_, still := liveSubs.conns[eventID][sub]
	liveSubs.Unlock()
	if still {
		t.Fatal("dead connection not dropped from the registry")
	}
}
