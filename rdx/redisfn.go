package rdx

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"eventra/db"
	"eventra/globals"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

// SetWithExpiry stores a keyed value with a TTL.
func SetWithExpiry(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func Get(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func Del(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

func Hset(hash, key, value string) error {
	return Conn.HSet(globals.Ctx, hash, key, value).Err()
}

func Hdel(hash, key string) (int64, error) {
	return Conn.HDel(globals.Ctx, hash, key).Result()
}

// BumpCounter increments an engagement counter for an event. Counters live
// in redis (never in process memory) and a background ticker folds them
// into the event documents.
func BumpCounter(kind, eventID string) {
	key := fmt.Sprintf("count:%s:%s", kind, eventID)
	if err := Conn.Incr(globals.Ctx, key).Err(); err != nil {
		log.Println("Redis Incr error:", err)
		return
	}
	Conn.Expire(globals.Ctx, key, 5*time.Minute)
}

// FlushCounters periodically moves buffered view/like/share counters from
// redis into the events collection.
func FlushCounters(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flushCountersOnce(ctx)
		}
	}
}

func flushCountersOnce(ctx context.Context) {
	keys, err := Conn.Keys(ctx, "count:*:*").Result()
	if err != nil {
		log.Println("Redis scan error:", err)
		return
	}

	for _, key := range keys {
		parts := strings.Split(key, ":")
		if len(parts) != 3 {
			log.Println("Invalid counter key format:", key)
			continue
		}
		kind := parts[1]
		eventID := parts[2]

		var field string
		switch kind {
		case "view":
			field = "views"
		case "like":
			field = "likes"
		case "share":
			field = "shares"
		default:
			log.Println("Unknown counter kind:", kind)
			continue
		}

		countStr, err := Conn.GetDel(ctx, key).Result()
		if err != nil {
			continue
		}
		count, err := strconv.ParseInt(countStr, 10, 64)
		if err != nil || count == 0 {
			continue
		}

		_, err = db.EventsCollection.UpdateOne(ctx,
			bson.M{"eventid": eventID},
			bson.M{"$inc": bson.M{field: count}},
		)
		if err != nil {
			log.Println("MongoDB counter update error for", eventID, ":", err)
		}
	}
}
