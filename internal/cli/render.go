package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/forPelevin/sermonsearch/internal/logging"
	"github.com/forPelevin/sermonsearch/internal/types"
	"github.com/forPelevin/sermonsearch/internal/usecase"
)

const (
	colorAccent = "154"
	colorGray   = "245"
	colorDim    = "238"
	colorYellow = "220"
)

type styles struct {
	Header lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style
	Dim    lipgloss.Style
	Time   lipgloss.Style
	High   lipgloss.Style
}

// newStyles colors output only for a terminal without NO_COLOR.
func newStyles(w io.Writer, getenv func(string) string) styles {
	if getenv("NO_COLOR") != "" || !logging.IsTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{Header: plain, Title: plain, Label: plain, Dim: plain, Time: plain, High: plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		Header: r.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Title:  r.NewStyle().Bold(true),
		Label:  r.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Dim:    r.NewStyle().Foreground(lipgloss.Color(colorDim)),
		Time:   r.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		High:   r.NewStyle().Foreground(lipgloss.Color(colorAccent)),
	}
}

func renderResponse(w io.Writer, st styles, resp types.Response) {
	fmt.Fprintf(w, "%s %s\n", st.Header.Render("Query:"), resp.Query)
	fmt.Fprintln(w, st.Label.Render(fmt.Sprintf("%d result(s) from %d document(s)", resp.ResultsCount, resp.TotalDocuments)))
	if resp.Answer != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", st.Header.Render("Answer"), resp.Answer)
	}

	for i, r := range resp.Results {
		fmt.Fprintln(w)
		label := r.RelevanceLabel
		if label == usecase.LabelHigh {
			label = st.High.Render(label)
		}
		meta := st.Label.Render("score " + strconv.FormatFloat(r.Score, 'f', -1, 64))
		if r.Date != nil {
			meta += st.Label.Render("  " + *r.Date)
		}
		fmt.Fprintf(w, "%d. %s  [%s]  %s\n", i+1, st.Title.Render(r.Title), label, meta)
		if r.URL != "" {
			fmt.Fprintf(w, "   %s\n", st.Dim.Render(r.URL))
		}
		for _, seg := range r.Segments {
			fmt.Fprintf(w, "   %s  %s\n", st.Time.Render(seg.Time), seg.Text)
			if seg.Link != "" {
				fmt.Fprintf(w, "   %s\n", st.Dim.Render(seg.Link))
			}
		}
		for _, ex := range r.Excerpts {
			fmt.Fprintf(w, "   %q\n", ex)
		}
	}
}

func renderStats(w io.Writer, st styles, s types.Stats) {
	row := func(k, v string) {
		fmt.Fprintf(w, "%s %s\n", st.Label.Render(fmt.Sprintf("%-18s", k)), v)
	}
	fmt.Fprintln(w, st.Header.Render("Corpus"))
	row("documents", strconv.Itoa(s.TotalDocuments))
	row("words", strconv.Itoa(s.TotalWords))
	row("avg words/doc", strconv.Itoa(s.AverageWordsPerDocument))
	row("oldest", orDash(s.OldestDate))
	row("newest", orDash(s.NewestDate))
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
