package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"quizgen/internal/quiz"
	"quizgen/internal/sharelink"
)

func (a *app) savedQuizzes(ctx context.Context) {
	quizzes, err := a.store.SavedQuizzes(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load saved quizzes: %v\n", err)
		return
	}
	if len(quizzes) == 0 {
		fmt.Fprintln(a.out, "No saved quizzes yet.")
		return
	}

	for idx, record := range quizzes {
		best := "-"
		if record.BestScore != nil {
			best = strconv.Itoa(*record.BestScore) + "%"
		}
		fmt.Fprintf(a.out, "%2d) %s  (%d questions, played %d times, best %s, last used %s)\n",
			idx+1, record.Name, len(record.Data.Questions), record.TimesPlayed, best,
			formatMillis(record.LastUsed))
	}

	choice, err := a.prompt("Number to act on, or enter to go back: ")
	if err != nil || choice == "" {
		return
	}
	index, convErr := strconv.Atoi(choice)
	if convErr != nil || index < 1 || index > len(quizzes) {
		fmt.Fprintln(a.out, "No such quiz.")
		return
	}
	record := quizzes[index-1]

	action, err := a.prompt("[p]lay, [d]elete, [s]hare link, s[t]ats: ")
	if err != nil {
		return
	}
	switch strings.ToLower(action) {
	case "p":
		a.replay(ctx, record)
	case "d":
		if err := a.store.DeleteQuiz(ctx, record.ID); err != nil {
			fmt.Fprintf(a.out, "Delete failed: %v\n", err)
		} else {
			fmt.Fprintln(a.out, "Deleted, along with its attempt history.")
		}
	case "s":
		fragment, fragErr := sharelink.Fragment(record.Data)
		if fragErr != nil {
			fmt.Fprintf(a.out, "Could not build the link: %v\n", fragErr)
			return
		}
		fmt.Fprintf(a.out, "Share fragment (append to the app URL):\n%s\n", fragment)
	case "t":
		a.printStats(ctx, record.ID, record.Name)
	}
}

func (a *app) history(ctx context.Context) {
	attempts, err := a.store.Attempts(ctx, "")
	if err != nil {
		fmt.Fprintf(a.out, "Could not load history: %v\n", err)
		return
	}
	if len(attempts) == 0 {
		fmt.Fprintln(a.out, "No attempts recorded yet.")
		return
	}

	for _, attempt := range attempts {
		mode := "normal"
		if attempt.ExamMode {
			mode = "exam"
			if attempt.TimerUsed != nil {
				mode = fmt.Sprintf("exam %dm", *attempt.TimerUsed)
			}
		}
		fmt.Fprintf(a.out, "%s  %-24s %3d%%  (%d/%d, %s, %s)\n",
			formatMillis(attempt.Timestamp), attempt.QuizName,
			attempt.Result.Percentage, attempt.Result.Score, attempt.Result.Total,
			formatSeconds(attempt.TimeSpent), mode)
	}
}

func (a *app) printStats(ctx context.Context, quizID, name string) {
	stats, ok, err := a.stats.QuizStatistics(ctx, quizID)
	if err != nil {
		fmt.Fprintf(a.out, "Could not compute statistics: %v\n", err)
		return
	}
	if !ok {
		fmt.Fprintln(a.out, "No attempts for this quiz yet.")
		return
	}

	fmt.Fprintf(a.out, "Statistics for %s\n", name)
	fmt.Fprintf(a.out, "  attempts:   %d\n", stats.TotalAttempts)
	fmt.Fprintf(a.out, "  average:    %d%%\n", stats.AverageScore)
	fmt.Fprintf(a.out, "  best/worst: %d%% / %d%%\n", stats.BestScore, stats.WorstScore)
	fmt.Fprintf(a.out, "  avg time:   %s\n", formatSeconds(stats.AverageTime))
	fmt.Fprintf(a.out, "  last try:   %s\n", formatMillis(stats.LastAttempt))
	fmt.Fprintf(a.out, "  trend:      %s\n", stats.Trend)
}

func (a *app) settings(ctx context.Context) {
	settings, err := a.store.Settings(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load settings: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "1) Dark mode:          %v\n", settings.DarkMode)
	fmt.Fprintf(a.out, "2) Default exam mode:  %v\n", settings.DefaultExamMode)
	fmt.Fprintf(a.out, "3) Default timer:      %d minutes\n", settings.DefaultTimerMinutes)
	fmt.Fprintf(a.out, "4) Draft auto-save:    %v\n", settings.AutoSave)
	fmt.Fprintf(a.out, "5) Sound:              %v\n", settings.SoundEnabled)

	choice, err := a.prompt("Toggle/change which? (enter to go back) ")
	if err != nil || choice == "" {
		return
	}

	var patch quiz.SettingsPatch
	switch choice {
	case "1":
		v := !settings.DarkMode
		patch.DarkMode = &v
	case "2":
		v := !settings.DefaultExamMode
		patch.DefaultExamMode = &v
	case "3":
		text, promptErr := a.prompt("Minutes: ")
		if promptErr != nil {
			return
		}
		v := parsePositiveInt(text, settings.DefaultTimerMinutes)
		patch.DefaultTimerMinutes = &v
	case "4":
		v := !settings.AutoSave
		patch.AutoSave = &v
	case "5":
		v := !settings.SoundEnabled
		patch.SoundEnabled = &v
	default:
		return
	}

	if _, err := a.store.SaveSettings(ctx, patch); err != nil {
		fmt.Fprintf(a.out, "Could not save settings: %v\n", err)
	}
}

func (a *app) exportImport(ctx context.Context) {
	action, err := a.prompt("[e]xport, [i]mport, [c]lear all data: ")
	if err != nil {
		return
	}

	switch strings.ToLower(action) {
	case "e":
		path, promptErr := a.prompt("Export to file: ")
		if promptErr != nil || path == "" {
			return
		}
		snapshot, exportErr := a.store.ExportAll(ctx)
		if exportErr != nil {
			fmt.Fprintf(a.out, "Export failed: %v\n", exportErr)
			return
		}
		payload, marshalErr := json.MarshalIndent(snapshot, "", "  ")
		if marshalErr != nil {
			fmt.Fprintf(a.out, "Export failed: %v\n", marshalErr)
			return
		}
		if writeErr := os.WriteFile(path, payload, 0o644); writeErr != nil {
			fmt.Fprintf(a.out, "Export failed: %v\n", writeErr)
			return
		}
		fmt.Fprintf(a.out, "Exported %d quizzes and %d attempts.\n", len(snapshot.Quizzes), len(snapshot.Attempts))
	case "i":
		path, promptErr := a.prompt("Import from file: ")
		if promptErr != nil || path == "" {
			return
		}
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			fmt.Fprintf(a.out, "Import failed: %v\n", readErr)
			return
		}
		if a.store.ImportAll(ctx, raw) {
			fmt.Fprintln(a.out, "Import complete.")
		} else {
			fmt.Fprintln(a.out, "Import finished with problems; some data may have been skipped.")
		}
	case "c":
		confirm, promptErr := a.prompt("This erases every quiz, attempt and setting. Type 'yes' to confirm: ")
		if promptErr != nil || confirm != "yes" {
			return
		}
		if clearErr := a.store.ClearAll(ctx); clearErr != nil {
			fmt.Fprintf(a.out, "Clear failed: %v\n", clearErr)
			return
		}
		fmt.Fprintln(a.out, "All data cleared.")
	}
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).Format("2006-01-02 15:04")
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
