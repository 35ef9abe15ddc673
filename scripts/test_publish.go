//go:build ignore

// Публикует тестовые клики в stream:listing:clicks и ждёт, пока click worker
// их подтвердит.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hkgcity/directory/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	listingID := flag.String("listing", "mtr", "listing ID to click")
	count := flag.Int("n", 5, "number of click events")
	group := flag.String("group", "listing-click-workers", "worker consumer group")
	flag.Parse()

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	for i := 0; i < *count; i++ {
		event := domain.ListingClickEvent{
			EventID:    uuid.New(),
			ListingID:  *listingID,
			OccurredAt: time.Now().UTC(),
		}
		data, err := json.Marshal(event)
		if err != nil {
			log.Fatalf("Failed to marshal event: %v", err)
		}

		id, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: domain.StreamListingClicks,
			Values: map[string]interface{}{"data": string(data)},
		}).Result()
		if err != nil {
			log.Fatalf("Failed to publish event: %v", err)
		}
		fmt.Printf("published %s (%s)\n", id, event.EventID)
	}

	fmt.Printf("\nwaiting for group %q to drain...\n", *group)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("timeout: messages still pending, is the worker running?")
			return
		case <-ticker.C:
			groups, err := client.XInfoGroups(ctx, domain.StreamListingClicks).Result()
			if err != nil {
				continue
			}
			for _, g := range groups {
				if g.Name != *group {
					continue
				}
				fmt.Printf("pending=%d lag=%d\n", g.Pending, g.Lag)
				if g.Pending == 0 && g.Lag == 0 {
					fmt.Println("all clicks applied")
					return
				}
			}
		}
	}
}
