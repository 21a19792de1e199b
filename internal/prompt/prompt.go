package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Question is a single free-text prompt.
type Question struct {
	Name    string
	Message string
	Default string
	// Validate rejects an answer; nil accepts anything.
	Validate func(answer string) error
	// Warning is printed when Validate rejects an answer. The validator's
	// error text is used when empty.
	Warning string
}

// Prompter asks questions and returns answers.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, message string, def bool) (bool, error)
}

// PromptValidationError is a rejected answer. Interactive prompters recover
// from it by asking again; it only escapes when input cannot be retried.
type PromptValidationError struct {
	Question string
	Answer   string
	Reason   string
}

func (e *PromptValidationError) Error() string {
	return fmt.Sprintf("invalid answer %q for %s: %s", e.Answer, e.Question, e.Reason)
}

// ErrNoInput is returned when input ends before a question is answered.
var ErrNoInput = errors.New("input closed before an answer was given")

var yesNoPattern = regexp.MustCompile(`(?i)^(y(es)?|no?)$`)

// YesNo validates a yes/no answer.
func YesNo(answer string) error {
	if !yesNoPattern.MatchString(answer) {
		return errors.New("must respond yes or no")
	}
	return nil
}

// Interactive reads answers line by line.
type Interactive struct {
	reader *bufio.Reader
	w      io.Writer
	warn   *color.Color
}

// NewInteractive returns a prompter reading from r and writing prompts to w.
func NewInteractive(r io.Reader, w io.Writer) *Interactive {
	return &Interactive{
		reader: bufio.NewReader(r),
		w:      w,
		warn:   color.New(color.FgYellow),
	}
}

// Ask prints the question and reads answers until one validates. An empty
// answer selects the default.
func (p *Interactive) Ask(ctx context.Context, q Question) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if q.Default != "" {
			fmt.Fprintf(p.w, "%s (%s): ", q.Message, q.Default)
		} else {
			fmt.Fprintf(p.w, "%s: ", q.Message)
		}

		line, err := p.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("reading %s: %w", questionName(q), ErrNoInput)
			}
			return "", fmt.Errorf("reading %s: %w", questionName(q), err)
		}

		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = q.Default
		}

		if q.Validate == nil {
			return answer, nil
		}
		verr := q.Validate(answer)
		if verr == nil {
			return answer, nil
		}

		rejected := &PromptValidationError{Question: questionName(q), Answer: answer, Reason: verr.Error()}
		msg := q.Warning
		if msg == "" {
			msg = rejected.Error()
		}
		p.warn.Fprintln(p.w, msg)
	}
}

// Confirm asks a yes/no question. Anything other than y/yes/n/no is rejected
// and asked again.
func (p *Interactive) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	answer, err := p.Ask(ctx, Question{
		Name:     "confirmation",
		Message:  message,
		Default:  yesNoDefault(def),
		Validate: YesNo,
		Warning:  "Must respond yes or no",
	})
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

// Defaults answers every question with its default without reading input.
type Defaults struct {
	// Overwrite is the answer given to every confirmation.
	Overwrite bool
}

// Ask returns the question's default. A default that fails validation is
// reported as a PromptValidationError since it cannot be asked again.
func (d Defaults) Ask(ctx context.Context, q Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if q.Validate != nil {
		if err := q.Validate(q.Default); err != nil {
			return "", &PromptValidationError{Question: questionName(q), Answer: q.Default, Reason: err.Error()}
		}
	}
	return q.Default, nil
}

// Confirm returns d.Overwrite.
func (d Defaults) Confirm(ctx context.Context, _ string, _ bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return d.Overwrite, nil
}

func yesNoDefault(def bool) string {
	if def {
		return "yes"
	}
	return "no"
}

func questionName(q Question) string {
	if q.Name != "" {
		return q.Name
	}
	return q.Message
}
