package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lstt/internal/adapter"
	m "lstt/internal/model"
)

// progressEvent is one update flowing from the pipeline into the TUI model.
type progressEvent struct {
	stage   m.Stage
	sticker string // sticker ID; empty for a stage banner
	err     error
}

type eventMsg progressEvent

type doneMsg struct{}

// TUI implements UI with a Bubble Tea progress display.
type TUI struct {
	output io.Writer

	events chan progressEvent
	done   chan struct{}
	runErr error
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in the background. Events flow to it
// through a buffered channel sized so the pipeline never blocks on the UI.
func (t *TUI) Start(ctx context.Context, stickers []m.Sticker) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.events = make(chan progressEvent, 4*len(stickers)+16)
	t.done = make(chan struct{})

	program := tea.NewProgram(newImportModel(stickers, t.events), tea.WithOutput(t.output))

	go func() {
		defer close(t.done)

		if _, err := program.Run(); err != nil {
			t.runErr = err
		}
	}()

	return nil
}

// StageStarted forwards the stage banner to the progress display.
func (t *TUI) StageStarted(ctx context.Context, stage m.Stage) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(progressEvent{stage: stage})
}

// StickerFinished forwards one sticker outcome to the progress display.
func (t *TUI) StickerFinished(ctx context.Context, stage m.Stage, sticker m.Sticker, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	t.send(progressEvent{stage: stage, sticker: sticker.ID, err: err})
}

// send never blocks: the channel is sized for a full run, so a drop can only
// happen when the display has stalled.
func (t *TUI) send(ev progressEvent) {
	if t.events == nil {
		return
	}

	select {
	case t.events <- ev:
	default:
	}
}

// Close ends the event stream and waits for the final frame to render.
func (t *TUI) Close(_ context.Context) {
	if t.events == nil {
		return
	}

	close(t.events)
	<-t.done

	t.events = nil

	if t.runErr != nil {
		slog.Error("Progress display failed", "error", t.runErr)
		t.runErr = nil
	}
}

// DisplayStickers prints the scraped stickers as a table.
func (t *TUI) DisplayStickers(ctx context.Context, stickers []m.Sticker) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "🔍 found %d stickers\n\n%s",
		len(stickers), renderStickersTable(stickers))

	return err
}

// DisplaySummary prints the outcome table once the progress display is done.
func (t *TUI) DisplaySummary(ctx context.Context, report *m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "\n%s\nreport: %s\n",
		renderSummaryTable(report), filepath.Join(string(report.DownloadDir), adapter.ReportFileName))

	return err
}

// stickerItem is one row of the progress display.
type stickerItem struct {
	id     string
	status string
	stage  m.Stage
	failed bool
}

// importModel is the Bubble Tea model rendering per-sticker progress.
type importModel struct {
	events  <-chan progressEvent
	spinner spinner.Model
	prog    progress.Model
	items   []stickerItem
	index   map[string]int
	banner  string
	width   int
	done    bool
}

func newImportModel(stickers []m.Sticker, events <-chan progressEvent) *importModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]stickerItem, 0, len(stickers))
	index := make(map[string]int, len(stickers))

	for i, sticker := range stickers {
		items = append(items, stickerItem{id: sticker.ID, status: "queued"})
		index[sticker.ID] = i
	}

	return &importModel{
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (im *importModel) Init() tea.Cmd {
	return tea.Batch(im.spinner.Tick, im.listenForEvent())
}

func (im *importModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := im.applyEvent(progressEvent(msg))
		return im, tea.Batch(cmd, im.listenForEvent())

	case doneMsg:
		im.done = true
		return im, tea.Quit

	case spinner.TickMsg:
		if im.done {
			return im, nil
		}

		var cmd tea.Cmd
		im.spinner, cmd = im.spinner.Update(msg)

		return im, cmd

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			im.width = msg.Width
			im.prog.Width = msg.Width - 4
		}

		return im, nil

	case progress.FrameMsg:
		progressModel, cmd := im.prog.Update(msg)
		im.prog = progressModel.(progress.Model)

		return im, cmd
	}

	return im, nil
}

func (im *importModel) View() string {
	if len(im.items) == 0 {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))

	header := fmt.Sprintf("importing %d stickers", len(im.items))
	if im.banner != "" {
		header = fmt.Sprintf("%s (%s)", header, im.banner)
	}

	if im.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", im.spinner.View(), header)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12

	nameWidth := im.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range im.items {
		name := truncate(item.id, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, name))
	}

	b.WriteString("\n")

	if im.done {
		b.WriteString(im.prog.ViewAs(1.0))
	} else {
		b.WriteString(im.prog.View())
	}

	b.WriteString("\n")

	return b.String()
}

func (im *importModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-im.events
		if !ok {
			return doneMsg{}
		}

		return eventMsg(ev)
	}
}

func (im *importModel) applyEvent(ev progressEvent) tea.Cmd {
	if ev.sticker == "" {
		if banner := stageBanner(ev.stage); banner != "" {
			im.banner = banner
		}

		return nil
	}

	idx, ok := im.index[ev.sticker]
	if !ok {
		return nil
	}

	im.items[idx].stage = ev.stage

	if ev.err != nil {
		im.items[idx].status = "error"
		im.items[idx].failed = true
	} else {
		im.items[idx].status = stageDone(ev.stage)
	}

	return im.prog.SetPercent(im.percent())
}

// percent weights each sticker by how far it got through the three stages.
func (im *importModel) percent() float64 {
	if len(im.items) == 0 {
		return 0
	}

	total := 0.0
	for _, item := range im.items {
		total += itemProgress(item)
	}

	return total / float64(len(im.items))
}

func itemProgress(item stickerItem) float64 {
	if item.failed {
		return 1.0
	}

	switch item.stage {
	case m.StageDownload:
		return 1.0 / 3
	case m.StageResize:
		return 2.0 / 3
	case m.StageUpload:
		return 1.0
	default:
		return 0
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "uploaded":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "downloaded", "resized":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}

	if runewidth.StringWidth(value) <= width {
		return value
	}

	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}

	return runewidth.Truncate(value, width-3, "...")
}
