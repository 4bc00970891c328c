package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nicolu0/bedrock-mobile/approval"
	"github.com/nicolu0/bedrock-mobile/building"
	"github.com/nicolu0/bedrock-mobile/db"
	"github.com/nicolu0/bedrock-mobile/feed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	repo := approval.NewRepository(pool)
	store := approval.NewStore(repo, approval.ScopeOf(approval.StatusPending))

	if err := store.Refresh(ctx); err != nil {
		log.Fatalf("initial fetch: %v", err)
	}
	log.Printf("pending approvals: %d", len(store.Records()))

	directory := building.NewService(building.NewRepository(pool))
	buildings, err := directory.List(ctx)
	if err != nil {
		log.Fatalf("load building directory: %v", err)
	}
	log.Printf("buildings on file: %d", len(buildings))

	subscriber := feed.NewSubscriber(feed.NewPGListener(pool), feed.ActionsChannel)
	subscriber.SetHandlers(feed.Handlers{
		OnChange: func(e feed.Event) {
			if err := store.Refresh(ctx); err != nil {
				log.Printf("refresh after %s on %s: %v", e.Kind, e.Row.ID, err)
				return
			}
			log.Printf("%s %s: %d pending", e.Kind, e.Row.ID, len(store.Records()))
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := subscriber.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		subscriber.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("change feed: %v", err)
	}
}
