// Package cli is the interactive terminal front end: quiz authoring, playing,
// history browsing and settings, all against the injected store.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"quizgen/internal/aigen"
	"quizgen/internal/extract"
	"quizgen/internal/pastebin"
	"quizgen/internal/quiz"
	"quizgen/internal/sharelink"
)

// draftQuietPeriod is how long input must stay idle before the draft
// auto-save fires.
const draftQuietPeriod = 3 * time.Second

// Config carries the app's collaborators. Maker may be nil; the AI menu entry
// only appears when it is set.
type Config struct {
	Store quiz.Store
	Maker *aigen.Maker
	Rng   *rand.Rand
}

type app struct {
	store      quiz.Store
	stats      *quiz.StatsEngine
	paste      *pastebin.Client
	maker      *aigen.Maker
	rng        *rand.Rand
	in         *bufio.Reader
	out        io.Writer
	draftQuiet time.Duration
}

// Run drives the interactive loop until the user quits or input ends.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if cfg.Store == nil {
		return errors.New("cli: store is required")
	}

	a := &app{
		store:      cfg.Store,
		stats:      quiz.NewStatsEngine(cfg.Store),
		paste:      pastebin.NewClient(),
		maker:      cfg.Maker,
		rng:        cfg.Rng,
		in:         bufio.NewReader(in),
		out:        out,
		draftQuiet: draftQuietPeriod,
	}
	return a.menu(ctx)
}

func (a *app) menu(ctx context.Context) error {
	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "=== quizgen ===")
		fmt.Fprintln(a.out, "1) Play quiz from pasted JSON")
		fmt.Fprintln(a.out, "2) Play quiz from file (.json/.txt/.docx/.rtf/.pdf)")
		fmt.Fprintln(a.out, "3) Open shared quiz link")
		fmt.Fprintln(a.out, "4) Load quiz from gist/bin id")
		fmt.Fprintln(a.out, "5) Saved quizzes")
		fmt.Fprintln(a.out, "6) Attempt history")
		fmt.Fprintln(a.out, "7) Settings")
		fmt.Fprintln(a.out, "8) Export / import data")
		if a.maker != nil {
			fmt.Fprintln(a.out, "9) Generate questions with AI")
		}
		fmt.Fprintln(a.out, "q) Quit")

		choice, err := a.prompt("> ")
		if err != nil {
			return nil
		}

		switch strings.ToLower(choice) {
		case "1":
			a.playFromPaste(ctx)
		case "2":
			a.playFromFile(ctx)
		case "3":
			a.playFromLink(ctx)
		case "4":
			a.playFromPasteService(ctx)
		case "5":
			a.savedQuizzes(ctx)
		case "6":
			a.history(ctx)
		case "7":
			a.settings(ctx)
		case "8":
			a.exportImport(ctx)
		case "9":
			if a.maker != nil {
				a.generateWithAI(ctx)
			}
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintln(a.out, "Unknown option.")
		}
	}
}

// playFromPaste reads authoring JSON line by line, auto-saving the draft
// after each quiet period, then validates and plays it.
func (a *app) playFromPaste(ctx context.Context) {
	if draft, err := a.store.Draft(ctx); err == nil && strings.TrimSpace(draft) != "" {
		use, err := a.prompt("A draft from a previous run exists. Use it? [y/N] ")
		if err != nil {
			return
		}
		if strings.EqualFold(use, "y") {
			a.playRaw(ctx, draft, "")
			return
		}
	}

	fmt.Fprintln(a.out, "Paste the quiz JSON. Finish with an empty line:")
	raw, err := a.readBlock(ctx)
	if err != nil || strings.TrimSpace(raw) == "" {
		return
	}
	a.playRaw(ctx, raw, "")
}

func (a *app) playRaw(ctx context.Context, raw, name string) {
	def, err := quiz.ParseDefinition(raw)
	if err != nil {
		fmt.Fprintf(a.out, "Could not build the quiz: %v\n", err)
		return
	}
	a.play(ctx, def, name)
}

func (a *app) playFromFile(ctx context.Context) {
	path, err := a.prompt("File path: ")
	if err != nil || path == "" {
		return
	}

	text, err := extract.FromFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "Could not read the document: %v\n", err)
		return
	}

	if def, parseErr := quiz.ParseDefinition(text); parseErr == nil {
		a.play(ctx, def, strings.TrimSuffix(path, ".json"))
		return
	}

	// Not a ready bank: hand the text to authoring as draft material.
	fmt.Fprintf(a.out, "Extracted %d characters of text. Saved as draft for authoring.\n", len(text))
	_ = a.store.SaveDraft(ctx, text)
}

func (a *app) playFromLink(ctx context.Context) {
	link, err := a.prompt("Paste the shared link (or the #quiz=... fragment): ")
	if err != nil || link == "" {
		return
	}

	def, err := sharelink.FromFragment(link)
	if err != nil {
		if errors.Is(err, sharelink.ErrInvalidFormat) {
			fmt.Fprintln(a.out, "That is not a valid quiz link.")
		} else {
			fmt.Fprintf(a.out, "The link is corrupted: %v\n", err)
		}
		fmt.Fprintln(a.out, "You can still paste the quiz JSON manually from the main menu.")
		return
	}
	a.play(ctx, def, "")
}

// playFromPasteService loads from the legacy hosted-paste services.
func (a *app) playFromPasteService(ctx context.Context) {
	kind, err := a.prompt("Service [gist/bin]: ")
	if err != nil {
		return
	}
	id, err := a.prompt("Paste id: ")
	if err != nil || id == "" {
		return
	}

	var questions []quiz.Question
	switch strings.ToLower(kind) {
	case "gist":
		questions, err = a.paste.FetchGist(ctx, id)
	case "bin":
		questions, err = a.paste.FetchBin(ctx, id)
	default:
		fmt.Fprintln(a.out, "Unknown service.")
		return
	}
	if err != nil {
		if errors.Is(err, pastebin.ErrUnavailable) {
			fmt.Fprintf(a.out, "Could not reach the paste service: %v\nCheck your connection and try again.\n", err)
		} else {
			fmt.Fprintf(a.out, "The paste did not contain a usable quiz: %v\n", err)
		}
		return
	}
	a.play(ctx, quiz.Definition{Questions: questions}, "")
}

func (a *app) generateWithAI(ctx context.Context) {
	topic, err := a.prompt("Topic: ")
	if err != nil {
		return
	}
	countText, err := a.prompt("How many questions? [10] ")
	if err != nil {
		return
	}
	count := parsePositiveInt(countText, 10)

	source := ""
	if draft, draftErr := a.store.Draft(ctx); draftErr == nil && strings.TrimSpace(draft) != "" {
		use, promptErr := a.prompt("Use the saved draft text as source material? [y/N] ")
		if promptErr == nil && strings.EqualFold(use, "y") {
			source = draft
		}
	}

	fmt.Fprintln(a.out, "Generating...")
	questions, err := a.maker.Generate(ctx, topic, source, count)
	if err != nil {
		fmt.Fprintf(a.out, "Generation failed: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Got %d questions.\n", len(questions))
	a.play(ctx, quiz.Definition{Questions: questions}, topic)
}

// readBlock collects lines until a blank one, triggering the debounced draft
// auto-save on every line when the setting is on. The save callback runs on
// the debouncer's timer goroutine, so access to the collected lines is
// mutex-guarded. The debouncer is torn down before returning so no save can
// fire afterwards.
func (a *app) readBlock(ctx context.Context) (string, error) {
	settings, err := a.store.Settings(ctx)
	if err != nil {
		settings = quiz.DefaultSettings()
	}

	var mu sync.Mutex
	var lines []string
	text := func() string {
		mu.Lock()
		defer mu.Unlock()
		return strings.Join(lines, "\n")
	}

	var saver *quiz.Debouncer
	if settings.AutoSave {
		saver = quiz.NewDebouncer(a.draftQuiet, func() {
			_ = a.store.SaveDraft(ctx, text())
		})
		defer saver.Stop()
	}

	for {
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			return text(), nil
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return text(), nil
		}
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
		if saver != nil {
			saver.Trigger()
		}
	}
}

func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func parsePositiveInt(text string, fallback int) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	value := 0
	for _, ch := range text {
		if ch < '0' || ch > '9' {
			return fallback
		}
		value = value*10 + int(ch-'0')
	}
	if value <= 0 {
		return fallback
	}
	return value
}
