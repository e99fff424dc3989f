package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"studyowl/internal/core/model"
)

// Window handles the preferences UI for interval bounds and durations.
type Window struct {
	window fyne.Window
	config model.Config
	onSave func(model.Config)

	studyMin      *widget.Entry
	studyMax      *widget.Entry
	shortDuration *widget.Entry
	longThreshold *widget.Entry
	longDuration  *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, config model.Config, onSave func(model.Config)) *Window {
	window := app.NewWindow("StudyOwl Settings")

	studyMin := widget.NewEntry()
	studyMax := widget.NewEntry()
	shortDuration := widget.NewEntry()
	longThreshold := widget.NewEntry()
	longDuration := widget.NewEntry()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Study cycle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Study interval between"), studyMin, widget.NewLabel("and"), studyMax, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break duration"), shortDuration, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Long break", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("After studying for"), longThreshold, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break duration"), longDuration, widget.NewLabel("min")),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 320))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:        window,
		config:        config,
		onSave:        onSave,
		studyMin:      studyMin,
		studyMax:      studyMax,
		shortDuration: shortDuration,
		longThreshold: longThreshold,
		longDuration:  longDuration,
	}
	prefs.fillEntries()

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.fillEntries()
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateConfig replaces window values, e.g. after a settings reload.
func (prefs *Window) UpdateConfig(config model.Config) {
	prefs.config = config
	prefs.fillEntries()
}

func (prefs *Window) fillEntries() {
	prefs.studyMin.SetText(fmt.Sprintf("%d", int(prefs.config.StudyMin.Minutes())))
	prefs.studyMax.SetText(fmt.Sprintf("%d", int(prefs.config.StudyMax.Minutes())))
	prefs.shortDuration.SetText(fmt.Sprintf("%d", int(prefs.config.ShortBreakDuration.Seconds())))
	prefs.longThreshold.SetText(fmt.Sprintf("%d", int(prefs.config.LongBreakThreshold.Minutes())))
	prefs.longDuration.SetText(fmt.Sprintf("%d", int(prefs.config.LongBreakDuration.Minutes())))
}

func (prefs *Window) handleSave() {
	config := prefs.config

	if minutes, ok := parsePositiveInt(prefs.studyMin.Text); ok {
		config.StudyMin = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.studyMax.Text); ok {
		config.StudyMax = time.Duration(minutes) * time.Minute
	}
	if seconds, ok := parsePositiveInt(prefs.shortDuration.Text); ok {
		config.ShortBreakDuration = time.Duration(seconds) * time.Second
	}
	if minutes, ok := parsePositiveInt(prefs.longThreshold.Text); ok {
		config.LongBreakThreshold = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longDuration.Text); ok {
		config.LongBreakDuration = time.Duration(minutes) * time.Minute
	}

	if err := config.Validate(); err != nil {
		// Leave the window open so the values can be corrected.
		prefs.window.SetTitle(fmt.Sprintf("StudyOwl Settings: %v", err))
		return
	}
	prefs.window.SetTitle("StudyOwl Settings")

	prefs.config = config
	if prefs.onSave != nil {
		prefs.onSave(config)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
