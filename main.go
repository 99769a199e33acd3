package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"globequiz/internal/cache"
	"globequiz/internal/config"
	"globequiz/internal/debug"
	"globequiz/internal/facts"
	"globequiz/internal/geo"
	"globequiz/internal/ui"
)

func main() {
	// Parse command line flags
	help := flag.Bool("h", false, "Show help message")
	configPath := flag.String("config", "", "YAML config file")
	cacheDir := flag.String("cache", "", "Cache directory for map data (default: ~/.globequiz/data)")
	worldFile := flag.String("world", "", "Local boundary file instead of the downloaded one")
	source := flag.String("source", "topojson", "Boundary source: topojson, geojson or shapefile")
	factsFile := flag.String("facts", "", "Local country facts JSON (default: query restcountries.com)")
	debugLog := flag.String("d", "", "Debug log file (e.g., debug.log)")
	aspectRatio := flag.Float64("a", 2.0, "Character aspect ratio - adjust for font width (1.0-4.0, default: 2.0)")
	mode := flag.String("mode", "", "Start straight away in easy or hard mode")
	seed := flag.Int64("seed", 0, "Random seed for a repeatable game (0 picks one)")
	resume := flag.String("resume", "release", "When rotation resumes after a drag: release, correct or never")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("globequiz - Terminal geography quiz on a spinning globe")
		fmt.Println("\nUsage: globequiz [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over the config file
	sourceSet := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cache":
			cfg.CacheDir = *cacheDir
		case "world":
			cfg.WorldFile = *worldFile
		case "source":
			cfg.Source = *source
			sourceSet = true
		case "facts":
			cfg.FactsFile = *factsFile
		case "a":
			cfg.AspectRatio = *aspectRatio
		case "mode":
			cfg.Mode = *mode
		case "seed":
			cfg.Seed = *seed
		case "resume":
			cfg.Resume = config.ResumePolicy(*resume)
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set up debug logging if requested
	if *debugLog != "" {
		logFile, err := os.Create(*debugLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create debug log: %v\n", err)
		} else {
			defer logFile.Close()
			debug.SetOutput(logFile)
			debug.Log("globequiz debug log started")
			fmt.Printf("Debug logging enabled: %s\n", *debugLog)
		}
	}

	countries, err := loadWorld(cfg, sourceSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d countries\n", len(countries))
	debug.Log("Loaded %d countries from %s data", len(countries), cfg.Source)

	var provider facts.Provider
	if cfg.FactsFile != "" {
		local, err := facts.LoadLocal(cfg.FactsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load country facts: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded facts for %d countries\n", local.Len())
		provider = local
	} else {
		provider = facts.NewRemote(cfg.FactsURL)
	}

	s := uint64(cfg.Seed)
	if s == 0 {
		s = rand.Uint64()
	}
	debug.Log("Random seed %d", s)

	// Create and run application
	app, err := ui.NewApp(ui.Options{
		Config:    cfg,
		Countries: countries,
		Facts:     provider,
		Rand:      rand.New(rand.NewPCG(s, s>>16|3)),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create application: %v\n", err)
		os.Exit(1)
	}

	// Run with panic recovery to ensure terminal is always restored
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "\nPanic: %v\n", r)
			}
		}()

		if err := app.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	fmt.Println("\nGoodbye!")
}

// loadWorld reads the boundary file named in the config, downloading the
// default dataset into the cache when none is given. A local file's format
// is detected unless the source was chosen explicitly.
func loadWorld(cfg config.Config, sourceSet bool) ([]*geo.Country, error) {
	if cfg.WorldFile != "" {
		format := ""
		if sourceSet {
			format = cfg.Source
		}
		fmt.Printf("Loading %s...\n", cfg.WorldFile)
		countries, err := geo.Load(cfg.WorldFile, format)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", cfg.WorldFile, err)
		}
		return countries, nil
	}

	fmt.Println("Initializing map data cache...")
	manager, err := cache.NewManager(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	if cfg.Source == "shapefile" {
		path, err := manager.EnsureShapefile()
		if err == nil {
			return geo.Load(path, "shapefile")
		}
		// The shapefile is optional; fall back to the default dataset
		fmt.Fprintf(os.Stderr, "Warning: %v, using %s instead\n", err, cache.World.Name)
	}

	fmt.Println("Checking boundary data...")
	path, err := manager.EnsureWorld()
	if err != nil {
		return nil, fmt.Errorf("failed to download map data: %w", err)
	}

	countries, err := geo.Load(path, "topojson")
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return countries, nil
}
