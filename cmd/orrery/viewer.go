package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/orrery/catalog"
	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/scene"
	"github.com/Carmen-Shannon/orrery/engine/window"
)

// viewer ties the engine to the terminal: it logs lifecycle events, keeps
// the current record set for digit-key focus, and reacts to key presses.
type viewer struct {
	eng     engine.Engine
	verbose bool

	mu      sync.Mutex
	records []catalog.Record

	done chan struct{}
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyFlagOverrides(cmd, &cfg)

	records, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	view := &viewer{
		verbose: cfg.Verbose,
		records: records,
		done:    make(chan struct{}),
	}
	view.eng = engine.NewEngine(viewerOptions(&cfg, view)...)

	if err := view.eng.Initialize(records); err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer view.eng.Dispose()
	defer close(view.done)

	view.bindKeys(view.eng.Window())

	stopSignals := trapSignals(view.eng)
	defer stopSignals()

	if cfg.WatchCatalog && cfg.CatalogPath != "" {
		stopWatch, err := watchCatalog(cfg.CatalogPath, view)
		if err != nil {
			log.Printf("[Viewer] catalog watch unavailable: %v", err)
		} else {
			defer stopWatch()
		}
	}

	go view.logLoadProgress()

	view.eng.Run()
	return nil
}

// loadCatalog resolves the body set: a TOML file when a path is configured,
// the built-in solar system otherwise.
func loadCatalog(path string) ([]catalog.Record, error) {
	if path == "" {
		return catalog.DefaultSolarSystem(), nil
	}
	records, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	log.Printf("[Viewer] loaded %s: %d bodies", path, len(records))
	return records, nil
}

// viewerOptions translates the config into engine builder options and wires
// the viewer's callbacks.
func viewerOptions(cfg *viewerConfig, view *viewer) []engine.EngineBuilderOption {
	options := []engine.EngineBuilderOption{
		engine.WithWindowOptions(
			window.WithTitle(cfg.WindowTitle),
			window.WithWidth(cfg.WindowWidth),
			window.WithHeight(cfg.WindowHeight),
		),
		engine.WithSceneOptions(
			scene.WithStarCount(cfg.StarCount),
			scene.WithStarfieldSeed(cfg.StarSeed),
		),
		engine.WithVSync(cfg.VSync),
		engine.WithLOD(cfg.LOD),
		engine.WithLODThresholds(float32(cfg.LODMedium), float32(cfg.LODLow), float32(cfg.LODVeryLow)),
		engine.WithAnimations(cfg.Animations),
		engine.WithReadyCallback(view.sceneReady),
		engine.WithBodySelectCallback(view.bodySelected),
		engine.WithErrorCallback(view.engineError),
	}
	if cfg.FrameLimit > 0 {
		options = append(options, engine.WithRenderFrameLimit(cfg.FrameLimit))
	}
	if cfg.SoftwareRenderer {
		options = append(options, engine.WithRendererOptions(renderer.WithForceSoftwareRenderer(true)))
	}
	if cfg.Profiling {
		options = append(options,
			engine.WithProfiling(true),
			engine.WithStatsInterval(cfg.StatsInterval),
		)
	}
	if cfg.Verbose {
		options = append(options,
			engine.WithBodyHoverCallback(view.bodyHovered),
			engine.WithZoomChangeCallback(view.zoomChanged),
		)
	}
	return options
}

// bindKeys installs the keyboard shortcuts. Escape is handled by the window
// itself.
func (v *viewer) bindKeys(win window.Window) {
	if win == nil {
		return
	}
	win.SetKeyDownCallback(func(keyCode uint32) {
		switch {
		case keyCode == common.KeyEqual:
			v.eng.ZoomIn()
		case keyCode == common.KeyMinus:
			v.eng.ZoomOut()
		case keyCode == common.KeyR:
			v.eng.ResetView()
		case keyCode == common.KeySpace:
			v.eng.SetAnimationsEnabled(!v.eng.AnimationsEnabled())
		case keyCode >= common.Key0 && keyCode <= common.Key9:
			v.focusIndex(int(keyCode - common.Key0))
		}
	})
}

// focusIndex flies the camera to the nth catalog body, if it exists.
func (v *viewer) focusIndex(i int) {
	v.mu.Lock()
	if i >= len(v.records) {
		v.mu.Unlock()
		return
	}
	rec := v.records[i]
	v.mu.Unlock()

	if v.eng.FocusOnBody(rec.ID) && v.verbose {
		log.Printf("[Viewer] focusing %s", rec.Name)
	}
}

func (v *viewer) setRecords(records []catalog.Record) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.records = records
}

func (v *viewer) sceneReady() {
	v.mu.Lock()
	n := len(v.records)
	v.mu.Unlock()
	log.Printf("[Viewer] scene ready: %d bodies", n)
}

func (v *viewer) bodySelected(rec catalog.Record) {
	log.Printf("[Viewer] selected %s (%s)", rec.Name, rec.ID)
	if v.verbose && rec.Description != "" {
		log.Printf("[Viewer]   %s", rec.Description)
	}
}

func (v *viewer) bodyHovered(rec *catalog.Record) {
	if rec != nil {
		log.Printf("[Viewer] hovering %s", rec.Name)
	}
}

func (v *viewer) zoomChanged(distance float32) {
	log.Printf("[Viewer] camera distance %.1f", distance)
}

func (v *viewer) engineError(err error) {
	log.Printf("[Viewer] engine error: %v", err)
}

// logLoadProgress reports texture fetch progress until every registered
// texture has resolved. Exits immediately when the catalog references no
// remote imagery.
func (v *viewer) logLoadProgress() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastLoaded := -1
	for {
		select {
		case <-v.done:
			return
		case <-ticker.C:
			loaded, total := v.eng.Progress()
			if total == 0 {
				return
			}
			if loaded >= total {
				log.Printf("[Viewer] textures ready (%d/%d)", loaded, total)
				return
			}
			if v.verbose && loaded != lastLoaded {
				log.Printf("[Viewer] loading textures %d/%d", loaded, total)
				lastLoaded = loaded
			}
		}
	}
}

// trapSignals quits the engine on SIGINT or SIGTERM so the window closes and
// Dispose runs instead of the process dying mid-frame.
func trapSignals(eng engine.Engine) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Println("[Viewer] shutting down")
			eng.Quit()
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(sigCh)
	}
}

// watchCatalog hot-reloads the body set whenever the catalog file changes.
// Sets that fail validation are rejected by the engine and logged; the scene
// keeps rendering the previous set.
func watchCatalog(path string, view *viewer) (func(), error) {
	w, err := catalog.NewWatcher(path)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	go func() {
		for records := range w.Records {
			if err := view.eng.ReplaceBodies(records); err != nil {
				log.Printf("[Viewer] catalog reload rejected: %v", err)
				continue
			}
			view.setRecords(records)
			log.Printf("[Viewer] catalog reloaded: %d bodies", len(records))
		}
	}()
	return w.Stop, nil
}
