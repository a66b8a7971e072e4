package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cotacao/gateway/internal/coingecko"
	"github.com/cotacao/gateway/internal/service"
)

var (
	commit    string
	buildDate string
)

func main() {
	configPath := flag.String("config", "", "location of config file. If non is specified config will be loaded from the environment")
	flag.Parse()

	log.Printf("build info: commit: %v date: %v\n", commit, buildDate)

	var (
		cfg Config
		err error
	)
	if *configPath != "" {
		log.Printf("loading config from file %q\n", *configPath)
		err = cfg.Load(*configPath)
	} else {
		log.Println("loading config from env")
		err = cfg.LoadFromEnv()
	}
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	cg, err := coingecko.New(coingecko.Config{
		BaseURL: cfg.CoinGeckoBaseURL,
		APIKey:  cfg.CoinGeckoAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		log.Printf("coingecko err: %v\n", err)
		os.Exit(1)
	}

	svc, err := service.New(cg)
	if err != nil {
		log.Printf("service err: %v\n", err)
		os.Exit(1)
	}

	h := handlers{
		svc: svc,
	}

	port := fmt.Sprintf(":%d", cfg.Port)

	log.Printf("api listening on %v\n", port)

	if err := http.ListenAndServe(port, newRouter(cfg, &h)); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRouter(cfg Config, h *handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(metricsMiddleware)

	r.Get("/cotacao/agora/{coin_id}", h.handleGetCurrentPrice)
	r.Get("/converter", h.handleConvert)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
