// Command portalview walks through a small sample map that shows every kind
// of portal the renderer supports.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"portal-engine/config"
	"portal-engine/core"
	"portal-engine/portal"
	"portal-engine/renderer"
)

func main() {
	var (
		configPath = flag.String("config", "portalview.json", "configuration file, watched for changes")
		verbose    = flag.Bool("v", false, "log portal debug output")
	)
	flag.Parse()

	fmt.Println("Starting portal viewer...")

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	portal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	windowConfig := core.DefaultWindowConfig()
	windowConfig.Width = cfg.Window.Width
	windowConfig.Height = cfg.Window.Height
	windowConfig.Title = cfg.Window.Title
	windowConfig.VSync = cfg.Window.VSync
	windowConfig.Fullscreen = cfg.Window.Fullscreen

	window, err := core.NewWindow(windowConfig)
	if err != nil {
		fmt.Printf("Failed to create window: %v\n", err)
		return
	}
	defer window.Destroy()

	lvl, player := buildSampleLevel()

	engine, err := renderer.NewPortalEngine(window, lvl, cfg.Portal, cfg.FOV)
	if err != nil {
		fmt.Printf("Failed to create portal engine: %v\n", err)
		return
	}
	defer engine.Destroy()

	// the watcher runs on its own goroutine; new settings are applied
	// between frames on the render thread
	changes := make(chan *config.Config, 1)
	watcher, err := config.Watch(*configPath, func(c *config.Config) {
		select {
		case <-changes:
		default:
		}
		changes <- c
	}, func(err error) {
		fmt.Printf("Config reload failed: %v\n", err)
	})
	if err != nil {
		fmt.Printf("Config hot reload disabled: %v\n", err)
	} else {
		defer watcher.Close()
	}

	window.SetKeyCallback(func(key int) {
		switch key {
		case core.KeyEscape:
			window.SetShouldClose(true)
		case core.KeyP:
			engine.TracePortals()
			fmt.Println("[Portals] tracing next frame")
		case core.KeyF1:
			st := engine.DrawStats()
			fmt.Printf("[Stats] contexts=%d portals=%d depth=%d walls=%d flats=%d sprites=%d | stencil rendered=%d occluded=%d queries=%d\n",
				st.Scene.Contexts, st.Scene.Portals, st.Scene.MaxDepth, st.Scene.Walls, st.Scene.Flats, st.Scene.Sprites,
				st.Portals.Rendered, st.Portals.Occluded, st.Portals.Queries)
		}
	})

	controller := NewPlayerController(lvl, player)

	fmt.Println("WASD/arrows = move  Q/E = turn  PgUp/PgDn = look  P = trace portals  F1 = stats  Esc = quit")

	const ticTime = 1.0 / ticRate
	lastTime := core.Time()
	var accumulator float64
	frameCount := 0
	fpsTime := lastTime

	for !window.ShouldClose() {
		window.PollEvents()

		select {
		case c := <-changes:
			engine.SetConfig(c.Portal)
			engine.SetFOV(c.FOV)
			fmt.Printf("[Config] reloaded: mirror_recursions=%d trace=%v fov=%.0f\n",
				c.Portal.MirrorRecursions, c.Portal.TracePortals, c.FOV)
		default:
		}

		now := core.Time()
		accumulator += now - lastTime
		lastTime = now
		// don't try to catch up after a hitch
		accumulator = min(accumulator, 5*ticTime)
		for accumulator >= ticTime {
			controller.Tic(window)
			accumulator -= ticTime
		}

		width, height := window.GetFramebufferSize()
		if width > 0 && height > 0 {
			engine.Resize(width, height)
		}

		vp := portal.NewViewpoint(player, accumulator/ticTime, viewHeight)
		if err := engine.Render(vp); err != nil {
			fmt.Printf("Render failed: %v\n", err)
			break
		}
		engine.Present()

		frameCount++
		if now-fpsTime >= 1 {
			st := engine.DrawStats()
			window.SetTitle(fmt.Sprintf("%s | FPS: %d | portals: %d depth: %d | (%.0f, %.0f)",
				cfg.Window.Title, frameCount, st.Scene.Portals, st.Scene.MaxDepth, player.Pos.X, player.Pos.Y))
			frameCount = 0
			fpsTime = now
		}
	}

	fmt.Println("Exiting...")
}
