package survey

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/burnrisk/internal/domain/questionnaire"
	"github.com/okian/burnrisk/internal/domain/scoring"
	"github.com/okian/burnrisk/internal/domain/types"
)

// Render prints an assessment the way the web page shows it.
func Render(out io.Writer, a types.Assessment) {
	fmt.Fprintln(out)
	for _, n := range a.Notices {
		fmt.Fprintf(out, "Note : %s\n", n.Message)
	}
	if a.Scored() {
		fmt.Fprintf(out, "Probabilité estimée de burn-out sévère : %s (risque %s)\n", a.PercentText, a.Tier)
	}
	fmt.Fprintln(out, a.Advice.Headline)
	if a.Advice.Intro != "" {
		fmt.Fprintln(out, a.Advice.Intro)
	}
	for _, tip := range a.Advice.Tips {
		fmt.Fprintf(out, "  - %s\n", tip)
	}
}

// MissingLabels lists the labels of the predictors err reports missing, or
// nil when err is not about missing answers.
func MissingLabels(catalog *questionnaire.Catalog, err error) []string {
	var incomplete *scoring.IncompleteInputError
	if errors.As(err, &incomplete) {
		labels := make([]string, len(incomplete.Missing))
		for i, p := range incomplete.Missing {
			labels[i] = catalog.Label(p)
		}
		return labels
	}

	var remote *RemoteError
	if errors.As(err, &remote) && len(remote.Response.Missing) > 0 {
		labels := make([]string, len(remote.Response.Missing))
		for i, m := range remote.Response.Missing {
			labels[i] = m.Label
		}
		return labels
	}
	return nil
}

// RenderMissing explains which answers prevented an estimate.
func RenderMissing(out io.Writer, labels []string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Impossible d'estimer le risque : certaines réponses manquent.")
	fmt.Fprintf(out, "Réponses manquantes : %s\n", strings.Join(labels, ", "))
}
