// Package circularprogress provides a circular progress bar widget for Go.
//
// # Overview
//
// The widget keeps an integer progress value in a fixed range and renders
// it as a stroked ring: a background track, a progress arc swept clockwise
// from 12 o'clock, and a centered percentage label. Drawing is done with
// github.com/gogpu/gg, so the bar renders into any gg.Context, on the CPU
// or through a GPU-backed canvas.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/gg"
//
//	    circularprogress "github.com/HyunChul-Kim/CircularProgressBar"
//	)
//
//	bar := circularprogress.New(
//	    circularprogress.WithInitialProgress(65),
//	)
//
//	dc := gg.NewContext(256, 256)
//	dc.ClearWithColor(gg.White)
//	bar.SetBounds(256, 256)
//	bar.Draw(dc)
//	dc.SavePNG("progress.png")
//
// # Updating from Goroutines
//
// SetProgress may be called from any goroutine. While the bar is attached
// to a Surface, calls made on the surface's render goroutine signal a
// repaint immediately; calls made elsewhere are buffered in order and a
// single dispatch is scheduled onto the render goroutine to deliver them.
// Updates made while detached wait for the next attach. Out-of-range
// values are clamped, never rejected.
//
// The host package provides a ready-made Surface: an offscreen render
// loop, plus a variant that draws through a GPU canvas.
//
// # State
//
// SaveState captures the progress value as an opaque snapshot that can be
// applied to another bar with RestoreState, and serialized with
// MarshalBinary for persistence across process restarts.
package circularprogress

// Version information
const (
	// Version is the current version of the library
	Version = "1.1.0"

	// VersionMajor is the major version
	VersionMajor = 1

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
