package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizgen/internal/quiz"
	"quizgen/internal/sharelink"
)

const passThreshold = 70

// play asks for the run configuration, drives the question loop and shows the
// results view.
func (a *app) play(ctx context.Context, def quiz.Definition, name string) {
	opts, ok := a.promptOptions(ctx, name)
	if !ok {
		return
	}

	session := quiz.NewSession(a.store, a.rng)
	if err := session.Generate(ctx, def, opts); err != nil {
		fmt.Fprintf(a.out, "Could not start the quiz: %v\n", err)
		return
	}

	a.runSession(ctx, session)
}

// replay runs an already-saved quiz against its existing record, so usage and
// best score accumulate instead of spawning a duplicate save.
func (a *app) replay(ctx context.Context, record quiz.SavedQuiz) {
	opts, ok := a.promptOptions(ctx, record.Name)
	if !ok {
		return
	}

	session := quiz.NewSession(a.store, a.rng)
	if err := session.Replay(record, opts); err != nil {
		fmt.Fprintf(a.out, "Could not start the quiz: %v\n", err)
		return
	}

	a.runSession(ctx, session)
}

func (a *app) promptOptions(ctx context.Context, name string) (quiz.Options, bool) {
	settings, err := a.store.Settings(ctx)
	if err != nil {
		settings = quiz.DefaultSettings()
	}

	opts := quiz.Options{Name: name}

	mode, err := a.prompt("Mode: [n]ormal, [e]xam, [s]tudy? ")
	if err != nil {
		return quiz.Options{}, false
	}
	switch strings.ToLower(mode) {
	case "e":
		opts.ExamMode = true
	case "s":
		opts.StudyMode = true
	case "":
		opts.ExamMode = settings.DefaultExamMode
	}

	if opts.ExamMode {
		minutesText, err := a.prompt(fmt.Sprintf("Timer minutes [%d]: ", settings.DefaultTimerMinutes))
		if err != nil {
			return quiz.Options{}, false
		}
		opts.TimerMinutes = parsePositiveInt(minutesText, settings.DefaultTimerMinutes)
	}

	shuffle, err := a.prompt("Shuffle question order? [y/N] ")
	if err != nil {
		return quiz.Options{}, false
	}
	opts.Shuffle = strings.EqualFold(shuffle, "y")

	return opts, true
}

func (a *app) runSession(ctx context.Context, session *quiz.Session) {
	// The countdown goroutine only signals; the expiry transition itself runs
	// on this goroutine so the session stays single-threaded.
	expired := make(chan struct{})
	var timer *quiz.ExamTimer
	if deadline, ok := session.Deadline(); ok {
		timer = quiz.StartExamTimer(time.Until(deadline), func() { close(expired) })
		defer timer.Stop()
	}

	for session.State() == quiz.StateActive {
		select {
		case <-expired:
			session.ExpireExam(ctx)
			fmt.Fprintln(a.out, "\nTime is up! The exam was submitted automatically.")
			continue
		default:
		}

		question, ok := session.CurrentQuestion()
		if !ok {
			break
		}
		a.printQuestion(session, question)

		input, err := a.prompt("> ")
		if err != nil {
			session.Reset()
			return
		}

		select {
		case <-expired:
			session.ExpireExam(ctx)
			fmt.Fprintln(a.out, "\nTime is up! The exam was submitted automatically.")
			continue
		default:
		}

		switch strings.ToLower(input) {
		case "n", "":
			session.Next()
		case "p":
			if session.ExamMode() {
				fmt.Fprintln(a.out, "Exam mode does not allow going back.")
			} else {
				session.Previous()
			}
		case "m":
			if err := session.ToggleMark(); err != nil {
				fmt.Fprintf(a.out, "%v\n", err)
			} else if session.Marked() {
				fmt.Fprintln(a.out, "Marked for review.")
			} else {
				fmt.Fprintln(a.out, "Mark removed.")
			}
		case "f":
			if _, err := session.Finish(ctx); err != nil {
				fmt.Fprintf(a.out, "Warning: could not record the attempt: %v\n", err)
			}
		case "q":
			session.Reset()
			return
		default:
			a.handleAnswer(session, question, input)
		}
	}

	if timer != nil {
		timer.Stop()
	}
	a.showResults(ctx, session)
}

func (a *app) handleAnswer(session *quiz.Session, question quiz.Question, input string) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if len(input) != 1 {
		fmt.Fprintln(a.out, "Answer with a letter, or n/p/m/f/q.")
		return
	}

	choice := int(input[0] - 'A')
	feedback, err := session.SelectAnswer(choice)
	if err != nil {
		fmt.Fprintf(a.out, "Answer with A-%c, or n/p/m/f/q.\n", byte('A'+len(question.Choices)-1))
		return
	}

	if feedback.Revealed {
		if feedback.Correct {
			fmt.Fprintln(a.out, "Correct!")
		} else {
			fmt.Fprintf(a.out, "Wrong. Correct answer: %s\n", question.Choices[question.Answer])
		}
		if feedback.Explanation != "" {
			fmt.Fprintf(a.out, "Explanation: %s\n", feedback.Explanation)
		}
	}
	session.Next()
}

func (a *app) printQuestion(session *quiz.Session, question quiz.Question) {
	fmt.Fprintln(a.out)
	header := fmt.Sprintf("Q%d/%d", session.CurrentIndex()+1, len(session.Questions()))
	if deadline, ok := session.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		header += "  [" + formatDuration(remaining) + " left]"
	}
	if session.Marked() {
		header += "  [marked]"
	}
	fmt.Fprintln(a.out, header)
	fmt.Fprintln(a.out, question.Question)
	for idx, choice := range question.Choices {
		marker := " "
		if session.Answer(session.CurrentIndex()) == idx {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %c. %s\n", marker, byte('A'+idx), choice)
	}
}

func (a *app) showResults(ctx context.Context, session *quiz.Session) {
	result, ok := session.Result()
	if !ok {
		return
	}

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Score: %d/%d (%d%%)\n", result.Score, result.Total, result.Percentage)
	if result.Percentage >= passThreshold {
		fmt.Fprintln(a.out, "Passed!")
	} else {
		fmt.Fprintln(a.out, "Needs more work.")
	}

	questions := session.Questions()
	for idx, question := range questions {
		answer := result.Answers[idx]
		status := "✗"
		answerText := "unanswered"
		if answer != quiz.Unanswered {
			answerText = question.Choices[answer]
			if answer == question.Answer {
				status = "✓"
			}
		}
		fmt.Fprintf(a.out, "%s %d. %s\n", status, idx+1, question.Question)
		if answer != question.Answer {
			fmt.Fprintf(a.out, "    yours: %s | correct: %s\n", answerText, question.Choices[question.Answer])
		}
	}

	if stats, ok, err := a.stats.QuizStatistics(ctx, session.QuizID()); err == nil && ok {
		fmt.Fprintf(a.out, "\nHistory for this quiz: %d attempts, avg %d%%, best %d%%, trend %s\n",
			stats.TotalAttempts, stats.AverageScore, stats.BestScore, stats.Trend)
	}

	for {
		fmt.Fprintln(a.out, "\n[r]etry incorrect, retry mar[k]ed, [s]hare link, [t]ext summary, [enter] done")
		choice, err := a.prompt("> ")
		if err != nil {
			return
		}
		switch strings.ToLower(choice) {
		case "r":
			if err := session.RetryIncorrect(); err != nil {
				if errors.Is(err, quiz.ErrNothingToRetry) {
					fmt.Fprintln(a.out, "Everything was correct, nothing to retry.")
				} else {
					fmt.Fprintf(a.out, "%v\n", err)
				}
				continue
			}
			a.runSession(ctx, session)
			return
		case "k":
			if err := session.RetryMarked(); err != nil {
				if errors.Is(err, quiz.ErrNoMarked) {
					fmt.Fprintln(a.out, "No questions were marked.")
				} else {
					fmt.Fprintf(a.out, "%v\n", err)
				}
				continue
			}
			a.runSession(ctx, session)
			return
		case "s":
			fragment, err := sharelink.Fragment(quiz.Definition{Questions: questions})
			if err != nil {
				fmt.Fprintf(a.out, "Could not build the link: %v\n", err)
				continue
			}
			fmt.Fprintf(a.out, "Share fragment (append to the app URL):\n%s\n", fragment)
		case "t":
			fmt.Fprintln(a.out, resultsText(questions, result))
		default:
			session.Reset()
			return
		}
	}
}

// resultsText builds the copy-paste summary: the score line plus up to three
// incorrect answers with their corrections.
func resultsText(questions []quiz.Question, result quiz.Result) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Quiz results: %d/%d (%d%%)\n", result.Score, result.Total, result.Percentage)
	if result.Percentage >= passThreshold {
		builder.WriteString("Passed!\n")
	} else {
		builder.WriteString("Needs more study.\n")
	}

	shown := 0
	missed := 0
	for idx, question := range questions {
		answer := result.Answers[idx]
		if answer != quiz.Unanswered && answer == question.Answer {
			continue
		}
		missed++
		if shown >= 3 {
			continue
		}
		shown++
		answerText := "unanswered"
		if answer != quiz.Unanswered {
			answerText = question.Choices[answer]
		}
		fmt.Fprintf(&builder, "\n%d. %s\n", shown, question.Question)
		fmt.Fprintf(&builder, "   correct: %s\n", question.Choices[question.Answer])
		fmt.Fprintf(&builder, "   mine: %s\n", answerText)
	}
	if missed > shown {
		fmt.Fprintf(&builder, "\n...and %d more to review\n", missed-shown)
	}
	return builder.String()
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
