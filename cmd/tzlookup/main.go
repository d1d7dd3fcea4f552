// Command tzlookup resolves a place name or a coordinate from the command line,
// using the same index and geocoder as the API server.
//
//	tzlookup --place "Paris"
//	tzlookup --lat 48.8566 --lon 2.3522
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/samirrijal/geotz/internal/adapters/nominatim"
	"github.com/samirrijal/geotz/internal/adapters/tzindex"
	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/core/usecases"
	"github.com/samirrijal/geotz/internal/pkg/config"
	"github.com/samirrijal/geotz/internal/pkg/logging"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("tzlookup", pflag.ContinueOnError)
	place := fs.String("place", "", "free-text place to geocode")
	lat := fs.String("lat", "", "latitude in decimal degrees")
	lon := fs.String("lon", "", "longitude in decimal degrees")
	// Dotted names bind straight onto config keys.
	fs.String("index.backend", "", "index backend: tzf, latlong, tzcache, geojson")
	fs.String("index.path", "", "dataset file for the tzcache and geojson backends")
	fs.String("geocoder.endpoint", "", "geocoder search URL")
	fs.String("geocoder.accept_language", "", "preferred result language")
	fs.Int("geocoder.timeout_ms", 0, "geocoder timeout in milliseconds")
	fs.String("log.level", "", "log level")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if (*place == "") == (*lat == "" && *lon == "") {
		fmt.Fprintln(os.Stderr, "tzlookup: give either --place or --lat and --lon")
		fs.PrintDefaults()
		return exitUsage
	}

	cfg, err := config.LoadWithFlags("geotz-tzlookup", fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
		return exitError
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Log.Level, "text"))

	index, err := tzindex.Open(tzindex.Options{
		Backend:             cfg.Index.Backend,
		Path:                cfg.Index.Path,
		CoastalRadiusMeters: cfg.Index.CoastalRadiusM,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
		return exitError
	}
	timezones := usecases.NewTimezoneService(index)

	if *place == "" {
		tz, err := timezones.Resolve(*lat, *lon)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
			return exitUsage
		}
		fmt.Println(tz)
		return exitOK
	}

	geocoder, err := nominatim.New(nominatim.Config{
		Endpoint:       cfg.Geocoder.Endpoint,
		UserAgent:      cfg.Geocoder.UserAgent,
		Referer:        cfg.Geocoder.Referer,
		AcceptLanguage: cfg.Geocoder.AcceptLanguage,
		Timeout:        cfg.Geocoder.Timeout(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
		return exitError
	}

	places := usecases.NewPlaceService(geocoder, timezones, usecases.WithTimeout(cfg.Geocoder.Timeout()))
	res, err := places.ResolvePlace(context.Background(), *place)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tzlookup: %v\n", err)
		if domain.IsPlaceError(err, domain.PlaceInvalidQuery) {
			return exitUsage
		}
		return exitError
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return exitError
	}
	return exitOK
}
