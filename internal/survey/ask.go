// Package survey runs the questionnaire on a terminal and reports the
// resulting assessment.
package survey

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/burnrisk/internal/domain/questionnaire"
)

// ErrInputClosed is returned when input ends before the questionnaire does.
var ErrInputClosed = errors.New("input closed before the questionnaire was complete")

// Prompter asks catalog questions on a line-oriented terminal.
type Prompter struct {
	catalog *questionnaire.Catalog
	in      *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(catalog *questionnaire.Catalog, in io.Reader, out io.Writer) *Prompter {
	return &Prompter{catalog: catalog, in: bufio.NewScanner(in), out: out}
}

// Ask walks every question in catalog order. It stops early, returning the
// answers given so far, when an option ends the questionnaire.
func (p *Prompter) Ask() (questionnaire.Answers, error) {
	answers := make(questionnaire.Answers)
	section := ""
	for _, sec := range p.catalog.Sections {
		for i := range sec.Questions {
			q := &sec.Questions[i]
			if sec.Title != section {
				section = sec.Title
				fmt.Fprintf(p.out, "\n== %s ==\n", section)
			}

			var (
				key string
				err error
			)
			if q.Kind == questionnaire.KindInteger {
				key, err = p.askInteger(q)
			} else {
				key, err = p.askOption(q)
			}
			if err != nil {
				return answers, err
			}
			answers[q.ID] = key

			if opt, ok := q.Option(key); ok && opt.Abort {
				return answers, nil
			}
		}
	}
	return answers, nil
}

func (p *Prompter) askInteger(q *questionnaire.Question) (string, error) {
	for {
		fmt.Fprintf(p.out, "\n%s (%d-%d) : ", q.Prompt, q.Min, q.Max)
		line, err := p.line()
		if err != nil {
			return "", err
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= q.Min && n <= q.Max {
			return line, nil
		}
		fmt.Fprintf(p.out, "Veuillez saisir un nombre entre %d et %d.\n", q.Min, q.Max)
	}
}

func (p *Prompter) askOption(q *questionnaire.Question) (string, error) {
	for {
		fmt.Fprintf(p.out, "\n%s\n", q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(p.out, "  %d. %s\n", i+1, opt.Label)
		}
		fmt.Fprint(p.out, "> ")

		line, err := p.line()
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(line); convErr == nil && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1].Key, nil
		}
		if _, ok := q.Option(line); ok {
			return line, nil
		}
		fmt.Fprintf(p.out, "Veuillez choisir un numéro entre 1 et %d.\n", len(q.Options))
	}
}

func (p *Prompter) line() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}
