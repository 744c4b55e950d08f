package main

import (
	"log"
	"net/http"
	"time"

	"derby/arena"
	"derby/config"
	"derby/network"
	"derby/race"
)

func main() {
	config.InitConfig()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := race.New(race.Config{
		PoolSize:  cfg.PoolSize,
		PerRound:  cfg.PerRound,
		BaseSpeed: cfg.BaseSpeed,
		Distances: cfg.Distances,
		Seed:      seed,
	})
	if err != nil {
		log.Fatal(err)
	}

	a := arena.New(engine, time.Duration(cfg.TickMillis)*time.Millisecond)
	go a.Run()
	defer a.Stop()

	srv := network.NewServer(a)
	log.Printf("derby listening on %s (ws endpoint: /ws)", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, srv.Handler()))
}
