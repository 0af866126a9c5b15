package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/devxstore/storefront/pkg/cart"
	"github.com/devxstore/storefront/pkg/catalog"
	"github.com/devxstore/storefront/pkg/common"
	"github.com/devxstore/storefront/pkg/messaging"
	"github.com/devxstore/storefront/pkg/server"
	"github.com/devxstore/storefront/pkg/tracking"
	"github.com/devxstore/storefront/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
)

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	listenAddr := getEnv("LISTEN_ADDR", ":8080")
	upstreamUrl := getEnv("UPSTREAM_URL", "https://devxstore.onrender.com")
	storeId := getEnv("STORE_ID", "devxstore")
	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "storefront-dev-key"
		log.Printf("SESSION_KEY not set, using the development key")
	}

	client := catalog.NewClient(upstreamUrl)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
		client.Cache = catalog.NewCache(addr, os.Getenv("REDIS_PASSWORD"), db)
	}

	var trk types.Tracking
	if url := os.Getenv("RABBIT_URL"); url != "" {
		rabbit, err := tracking.NewRabbitTracking(url, storeId)
		if err != nil {
			log.Printf("Tracking disabled, rabbit connection failed: %v", err)
		} else {
			trk = rabbit
		}
	}

	cat := catalog.NewCatalog()
	webServer := &server.WebServer{Catalog: cat, Client: client, Tracking: trk}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := webServer.LoadCatalog(ctx); err != nil {
		log.Printf("Initial catalog load failed, serving empty until reload: %v", err)
	} else {
		log.Printf("Loaded %d products from %s", cat.Len(), upstreamUrl)
	}
	cancel()

	var listenerConn *amqp.Connection
	if url := os.Getenv("RABBIT_URL"); url != "" {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("Catalog change listener disabled: %v", err)
		} else {
			listenerConn = conn
			ch, err := conn.Channel()
			if err != nil {
				log.Printf("Catalog change listener disabled: %v", err)
			} else {
				err = messaging.ListenToTopic(ch, "global", messaging.TopicCatalogChange, func(d amqp.Delivery) error {
					ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					if err := webServer.LoadCatalog(ctx); err != nil {
						log.Printf("Catalog reload after change signal failed: %v", err)
						return nil
					}
					log.Printf("Catalog reloaded, %d products", cat.Len())
					return nil
				})
				if err != nil {
					log.Printf("Catalog change listener disabled: %v", err)
				}
			}
		}
	}

	cartServer := &cart.CartServer{
		Storage:   cart.NewMemoryCartStorage(),
		Favorites: cart.NewMemoryFavoriteStorage(),
		Catalog:   cat,
		Tracking:  trk,
	}
	auth := server.NewSessionAuth([]byte(sessionKey), trk)

	mux := http.NewServeMux()
	webServer.Register(mux)
	cartServer.Register(mux)
	auth.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	cfg := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   30 * time.Second,
		Hook:       5 * time.Second,
	})
	srv := common.NewServerWithTimeouts(&http.Server{Addr: listenAddr, Handler: mux}, cfg)

	hooks := []common.ShutdownHook{}
	if trk != nil {
		hooks = append(hooks, func(ctx context.Context) error { return trk.Close() })
	}
	if listenerConn != nil {
		hooks = append(hooks, func(ctx context.Context) error { return listenerConn.Close() })
	}
	if client.Cache != nil {
		hooks = append(hooks, func(ctx context.Context) error { return client.Cache.Close() })
	}

	common.RunServerWithShutdown(srv, "storefront", cfg.Shutdown, cfg.Hook, hooks...)
}
