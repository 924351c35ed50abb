package main

import (
	"context"
	"github.com/ariefcatur/go-kiosk-orders/internal/config"
	"github.com/ariefcatur/go-kiosk-orders/internal/feed"
	"github.com/ariefcatur/go-kiosk-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-kiosk-orders/internal/kafka"
	"github.com/ariefcatur/go-kiosk-orders/internal/menu"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/postgres"
	"github.com/ariefcatur/go-kiosk-orders/internal/publication"
	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.PoolOptions{
		MaxConns:    cfg.PostgresMaxConns,
		ConnectWait: cfg.PostgresConnectWait,
	})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Live feed. With Kafka the producer is the sink and every instance
	// reads the topics back into its own hub, so all kiosks see all events.
	hub := feed.NewHub()
	var events httpx.Emitter = hub
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024)
		prod.Start(ctx)
		events = prod

		group := cfg.ServiceName + "-ws-" + uuid.NewString()[:8]
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, kafkax.ConsumerOptions{
			Group:      group,
			Topics:     []string{orders.TopicOrderEvents, orders.TopicPublicationEvents},
			Workers:    1,
			FromLatest: true,
			Retry:      kafkax.RetryPolicy{MaxAttempts: 3},
		})
		go func() {
			log.Printf("feed consumer started: group=%s", group)
			err := cons.Start(ctx, func(ctx context.Context, m kafkago.Message) error {
				env, err := kafkax.DecodeEnvelope(m)
				if err != nil {
					log.Printf("feed: skip offset=%d: %v", m.Offset, err)
					return nil
				}
				return hub.Emit(ctx, env)
			})
			if err != nil {
				log.Printf("feed consumer exit: %v", err)
			}
		}()
	} else {
		log.Println("KAFKA_BROKERS empty, events go straight to websocket clients")
	}

	// Repos, services & handlers
	menuSvc := menu.NewService(&menu.Repo{DB: db}, menu.NewRedisCache(rdb))
	router := httpx.NewRouter(httpx.Routes{
		Orders: &httpx.OrdersHandler{
			Repo:    &orders.Repo{DB: db},
			Events:  events,
			Redis:   rdb,
			Service: cfg.ServiceName,
		},
		Menu: &httpx.MenuHandler{Service: menuSvc},
		Publications: &httpx.PublicationsHandler{
			Repo:    &publication.Repo{DB: db},
			Events:  events,
			Service: cfg.ServiceName,
		},
		Feed:  hub,
		Admin: httpx.AdminOnly(cfg.Admin.User, cfg.Admin.PasswordHash),
	})
	if cfg.Admin.PasswordHash == "" {
		log.Println("ADMIN_PASSWORD_HASH empty, admin routes disabled")
	}

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	hub.Close()
	if prod != nil {
		prod.Close() // close inbox -> flush & close writer
		cancel()
		prod.WaitClosed()
	}
}
