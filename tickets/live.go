package tickets

import (
	"context"
	"log"
	"net/http"
	"sync"

	"eventra/db"
	"eventra/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscriber wraps a websocket connection with a write mutex: the initial
// snapshot from the handler and broadcasts from issuance goroutines can
// land at the same time, and the connection allows only one writer.
type subscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *subscriber) send(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// Per-event live subscribers for availability pushes.
var liveSubs = struct {
	sync.Mutex
	conns map[string]map[*subscriber]bool
}{conns: make(map[string]map[*subscriber]bool)}

type availabilityUpdate struct {
	Type      string `json:"type"`
	EventID   string `json:"eventid"`
	Issued    int64  `json:"issued"`
	Remaining int64  `json:"remaining"`
}

func availability(ctx context.Context, eventID string) (availabilityUpdate, error) {
	var event models.Event
	if err := db.EventsCollection.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&event); err != nil {
		return availabilityUpdate{}, err
	}
	issued, err := db.TicketsCollection.CountDocuments(ctx, bson.M{"eventid": eventID})
	if err != nil {
		return availabilityUpdate{}, err
	}

	remaining := int64(event.MaxAttendees) - issued
	if event.MaxAttendees == 0 {
		remaining = -1 // uncapped
	} else if remaining < 0 {
		remaining = 0
	}
	return availabilityUpdate{
		Type:      "availability",
		EventID:   eventID,
		Issued:    issued,
		Remaining: remaining,
	}, nil
}

func subscribe(eventID string, sub *subscriber) {
	liveSubs.Lock()
	defer liveSubs.Unlock()
	if liveSubs.conns[eventID] == nil {
		liveSubs.conns[eventID] = make(map[*subscriber]bool)
	}
	liveSubs.conns[eventID][sub] = true
}

func unsubscribe(eventID string, sub *subscriber) {
	liveSubs.Lock()
	defer liveSubs.Unlock()
	delete(liveSubs.conns[eventID], sub)
}

// GET /api/events/:eventid/availability/live: websocket feed; an initial
// snapshot is pushed on connect and updates follow as tickets are issued.
func LiveAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sub := &subscriber{conn: conn}
	subscribe(eventID, sub)

	if snap, err := availability(r.Context(), eventID); err == nil {
		if err := sub.send(snap); err != nil {
			log.Printf("live availability: initial write failed for %s: %v", eventID, err)
		}
	}

	// Reader loop only detects disconnects; clients do not send anything.
	go func() {
		defer func() {
			unsubscribe(eventID, sub)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastAvailability pushes the current availability snapshot to every
// live subscriber of the event. Slow or dead connections are dropped.
func BroadcastAvailability(ctx context.Context, eventID string) {
	update, err := availability(ctx, eventID)
	if err != nil {
		log.Printf("live availability: snapshot failed for %s: %v", eventID, err)
		return
	}
	broadcast(eventID, update)
}

func broadcast(eventID string, update availabilityUpdate) {
	liveSubs.Lock()
	defer liveSubs.Unlock()
	for sub := range liveSubs.conns[eventID] {
		if err := sub.send(update); err != nil {
			delete(liveSubs.conns[eventID], sub)
			sub.conn.Close()
		}
	}
}
