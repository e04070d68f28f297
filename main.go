/*
Tripedit serves a trip itinerary editor: the list of a trip's points, and an edit
form per point. The form lives on the server: its markup is rendered from a node
tree, the page forwards the form's DOM events over a websocket, and the server
answers with element updates, so the browser merely mirrors the server's view.
Destinations, offers and seed points come from a yaml catalog, which is reloaded
while the editor runs whenever its file changes.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tripedit/catalog"
	"tripedit/config"
	"tripedit/models"
	"tripedit/server"
)

var (
	configPath *string
	host       *string
	port       *string
	noWatch    *bool
)

func init() {
	configPath = flag.String("config", "./config.yaml", "The config file")
	host = flag.String("host", "", "The host ip, overriding the config")
	port = flag.String("port", "", "The host port, overriding the config")
	noWatch = flag.Bool("nowatch", false, "Do not reload the catalog when its file changes")
}

func runApp() (err error) {
	var cfg *config.Config
	if cfg, err = config.FromYaml(*configPath); err != nil {
		return
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	var cat *catalog.Catalog
	if cat, err = catalog.FromYaml(cfg.CatalogPath); err != nil {
		return
	}
	log.Printf("catalog: %d destinations, %d offers, %d points",
		len(cat.Destinations), len(cat.Offers), len(cat.Points))

	appCtx, appCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer appCancel()

	store := catalog.NewStore(cat)
	if cfg.WatchCatalog && !*noWatch {
		go func() {
			if watchErr := store.Watch(appCtx, cfg.CatalogPath); watchErr != nil {
				log.Println(watchErr)
			}
		}()
	}

	points := models.NewPointsModel(cat.Points)
	srv := server.NewServer(appCtx, cfg, points, store)
	err = srv.Serve()
	return
}

func main() {
	flag.Parse()
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
