package overlay

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Config defines overlay visuals.
type Config struct {
	Opacity uint8
}

const (
	defaultOpacity = uint8(210)
	overlayWidth   = float32(230)
	overlayHeight  = float32(130)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the small always-visible status overlay: current state on
// top, the running countdown beneath it, the accumulated study total at
// the bottom.
type Window struct {
	window      fyne.Window
	background  *canvas.Rectangle
	statusLabel *widget.Label
	timerLabel  *canvas.Text
	totalLabel  *canvas.Text
}

// New creates the overlay window.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("StudyOwl")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	opacity := config.Opacity
	if opacity == 0 {
		opacity = defaultOpacity
	}
	background := canvas.NewRectangle(color.NRGBA{R: 46, G: 52, B: 64, A: opacity})

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter
	statusLabel.Wrapping = fyne.TextWrapWord

	timerLabel := canvas.NewText("", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true}
	timerLabel.TextSize = 18

	totalLabel := canvas.NewText("", color.NRGBA{R: 163, G: 190, B: 140, A: 255})
	totalLabel.Alignment = fyne.TextAlignCenter
	totalLabel.TextSize = 12

	content := container.NewVBox(statusLabel, timerLabel, totalLabel)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.Resize(fyne.NewSize(overlayWidth, overlayHeight))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return &Window{
		window:      window,
		background:  background,
		statusLabel: statusLabel,
		timerLabel:  timerLabel,
		totalLabel:  totalLabel,
	}
}

// Show displays the overlay.
func (overlay *Window) Show() {
	overlay.window.Show()
}

// Hide conceals the overlay; the tray keeps the app alive.
func (overlay *Window) Hide() {
	overlay.window.Hide()
}

// SetStatus updates the state text. Call on the UI thread (fyne.Do).
func (overlay *Window) SetStatus(text string) {
	overlay.statusLabel.SetText(text)
}

// SetRemaining updates the countdown line; pass active=false to clear it.
func (overlay *Window) SetRemaining(remaining time.Duration, active bool) {
	text := ""
	if active {
		text = formatClock(remaining)
	}
	if overlay.timerLabel.Text == text {
		return
	}
	overlay.timerLabel.Text = text
	overlay.timerLabel.Refresh()
}

// SetTotal updates the accumulated-study line.
func (overlay *Window) SetTotal(total time.Duration) {
	text := fmt.Sprintf("Total study: %dh %dm", int(total.Hours()), int(total.Minutes())%60)
	if overlay.totalLabel.Text == text {
		return
	}
	overlay.totalLabel.Text = text
	overlay.totalLabel.Refresh()
}

func formatClock(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
