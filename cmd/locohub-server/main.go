// Command locohub-server serves stored segmentation results over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jmontp/LocoHub-sub016/internal/controllers/resultserver"
	"github.com/jmontp/LocoHub-sub016/internal/database"
	"github.com/jmontp/LocoHub-sub016/internal/log"
)

func main() {
	var (
		dbPath = flag.String("db", "trials.db", "Sqlite trial store to serve")
		addr   = flag.String("addr", ":8080", "Listen address")
		debug  = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := database.NewClient(*dbPath, log.GetSugaredLogger())
	if err != nil {
		log.Fatalf("opening trial store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	ctrl, err := resultserver.NewController(ctx, &wg,
		resultserver.Config{ListenAddr: *addr}, store, log.GetSugaredLogger())
	if err != nil {
		log.Fatalf("creating result server: %v", err)
	}
	if err := ctrl.StartController(); err != nil {
		log.Fatalf("starting result server: %v", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Shutting down")
	cancel()
	wg.Wait()
}
