package main

import (
	"context"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"focustimer/config"
	"focustimer/i18n"
	"focustimer/ui"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := configManager.GetConfig()
	log.Printf("Loaded config from %s", configManager.Path())
	i18n.SetLang(cfg.Language)
	log.Printf("Using language: %s", i18n.GetLang())

	fyneApp := app.NewWithID("io.github.focustimer")
	fyneApp.Settings().SetTheme(ui.NewCustomTheme())

	a := NewAppManager(fyneApp, cfg)

	size := fyne.NewSize(float32(cfg.App.WindowWidth), float32(cfg.App.WindowHeight))
	w := ui.CreateMainWindow(a, fyneApp, cfg.App.Name, size, a.subjectView.CanvasObject())
	a.mainWindow = w

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.SetOnClosed(func() {
		cancel()
		<-done
		a.Shutdown()
	})

	go func() {
		defer close(done)
		a.Run(ctx)
	}()

	w.ShowAndRun()
}
