// Command cpbdemo renders the circular progress bar to PNG files.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/gogpu/gg"

	circularprogress "github.com/HyunChul-Kim/CircularProgressBar"
	"github.com/HyunChul-Kim/CircularProgressBar/host"
)

func main() {
	var (
		size     = flag.Int("size", 320, "image width and height")
		progress = flag.Int("progress", 65, "progress value to show")
		max      = flag.Int("max", 100, "progress range upper bound")
		animate  = flag.Bool("animate", false, "render the spring animation as a frame sequence")
		frames   = flag.Int("frames", 60, "maximum animation frames to keep")
		out      = flag.String("out", ".", "output directory")
	)
	flag.Parse()

	if *animate {
		if err := renderAnimation(*size, *progress, *max, *frames, *out); err != nil {
			log.Fatalf("Failed to render animation: %v", err)
		}
		return
	}
	if err := renderStill(*size, *progress, *max, *out); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
}

func renderStill(size, progress, max int, out string) error {
	bar := circularprogress.New(
		circularprogress.WithMaxProgress(max),
		circularprogress.WithInitialProgress(progress),
	)

	dc := gg.NewContext(size, size)
	defer dc.Close()
	dc.ClearWithColor(gg.White)
	bar.SetBounds(size, size)
	bar.Draw(dc)

	path := filepath.Join(out, "progress.png")
	if err := dc.SavePNG(path); err != nil {
		return err
	}
	log.Printf("Progress bar saved to %s (%dx%d)\n", path, size, size)
	return nil
}

func renderAnimation(size, progress, max, maxFrames int, out string) error {
	var (
		mu   sync.Mutex
		kept []image.Image
	)
	loop, err := host.NewLoop(size, size, host.WithFrameSink(func(img image.Image) {
		mu.Lock()
		if len(kept) < maxFrames {
			kept = append(kept, img)
		}
		mu.Unlock()
	}))
	if err != nil {
		return err
	}
	defer loop.Close()
	if err := loop.Start(); err != nil {
		return err
	}

	bar := circularprogress.New(
		circularprogress.WithMaxProgress(max),
		circularprogress.WithAnimation(60, 6.0, 0.8),
	)
	if err := loop.Attach(bar); err != nil {
		return err
	}
	bar.SetProgress(progress)

	// The loop drives itself while the spring is moving.
	deadline := time.Now().Add(10 * time.Second)
	for bar.Animating() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	loop.Detach()
	if err := loop.Close(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	for i, img := range kept {
		path := filepath.Join(out, fmt.Sprintf("progress_%03d.png", i))
		fdc := gg.NewContextForImage(img)
		if err := fdc.SavePNG(path); err != nil {
			fdc.Close()
			return err
		}
		fdc.Close()
	}
	log.Printf("Animation saved: %d frames in %s\n", len(kept), out)
	return nil
}
