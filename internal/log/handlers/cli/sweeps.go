package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"

	"github.com/jkriig/privacy-sweep/internal/utils"
)

var (
	blue   = color.New(color.FgBlue)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

func logFindingItem(w io.Writer, f log.Fields) error {
	site := f.Get("site").(string)
	url := f.Get("url").(string)
	opened := f.Get("opened").(bool)
	state := f.Get("state").(string)
	failure := f.Get("failure").(string)
	candidateCount := f.Get("candidate_count").(int64)

	glyph := blue.Sprint("•")
	if opened {
		glyph = green.Sprint("✓")
	}
	if state == "failed" {
		glyph = red.Sprint("⨯")
	}
	line := fmt.Sprintf("%s %s %s", glyph, utils.RightPad(bold.Sprint(site), 22), url)
	if candidateCount > 0 {
		line += fmt.Sprintf(" (%d candidates)", candidateCount)
	}
	if failure != "" {
		line += red.Sprintf(" (%s)", failure)
	}
	fmt.Fprintln(w, line)
	return nil
}

func logCandidateItem(w io.Writer, f log.Fields) error {
	site := f.Get("site").(string)
	title := f.Get("title").(string)
	url := f.Get("url").(string)
	score := f.Get("score").(float64)

	badge := yellow.Sprintf("[%0.2f]", score)
	if score >= 0.7 {
		badge = green.Sprintf("[%0.2f]", score)
	}
	fmt.Fprintf(w, "  %s %s %q -> %s\n",
		badge, utils.RightPad(site, 18), title, url)
	return nil
}

func logOptOutItem(w io.Writer, f log.Fields) error {
	site := f.Get("site").(string)
	url := f.Get("url").(string)
	status := f.Get("status").(string)

	line := fmt.Sprintf("- %s %s", utils.RightPad(site, 18), url)
	switch status {
	case "opened":
		line += blue.Sprint(" [opened]")
	case "done":
		line += green.Sprint(" [done]")
	case "pending":
		line += yellow.Sprint(" [pending]")
	}
	fmt.Fprintln(w, line)
	return nil
}

func logSweepItem(w io.Writer, f log.Fields) error {
	colWidth := 24

	sID := f.Get("id").(int64)
	name := f.Get("name").(string)
	selection := f.Get("selection").(string)
	isDone := f.Get("is_done").(bool)
	startTime := f.Get("start_time").(time.Time)
	findingCount := f.Get("finding_count").(uint64)
	openedCount := f.Get("opened_count").(uint64)
	candidateCount := f.Get("candidate_count").(uint64)
	medianScore := f.Get("median_score").(float64)
	index := f.Get("index").(int)
	totalCount := f.Get("total_count").(int)

	if index == 0 {
		fmt.Fprintf(w, "┏"+strings.Repeat("━", colWidth*2+2)+"┓\n")
	} else {
		fmt.Fprintf(w, "┢"+strings.Repeat("━", colWidth*2+2)+"┪\n")
	}

	firstRow := utils.RightPad(fmt.Sprintf("#%d - %s", sID, startTime.Format(time.RFC822)), colWidth*2)
	fmt.Fprintf(w, "┃ "+firstRow+" ┃\n")
	fmt.Fprintf(w, "┡"+strings.Repeat("━", colWidth*2+2)+"┩\n")

	scoreCell := ""
	if candidateCount > 0 {
		scoreCell = fmt.Sprintf("median score %.2f", medianScore)
	}
	fmt.Fprintf(w, "│ %s %s│\n",
		utils.RightPad(name, colWidth),
		utils.RightPad(selection, colWidth))
	fmt.Fprintf(w, "│ %s %s│\n",
		utils.RightPad(fmt.Sprintf("%d findings", findingCount), colWidth),
		utils.RightPad(fmt.Sprintf("%d opened", openedCount), colWidth))
	fmt.Fprintf(w, "│ %s %s│\n",
		utils.RightPad(fmt.Sprintf("%d candidates", candidateCount), colWidth),
		utils.RightPad(scoreCell, colWidth))

	if index == totalCount-1 {
		if isDone {
			fmt.Fprintf(w, "└┬──────────────┬──────────────┬──────────────────┬┘\n")
		} else {
			// We want the incomplete section to not have a footer
			fmt.Fprintf(w, "└──────────────────────────────────────────────────┘\n")
		}
	}
	return nil
}

func logSweepSummary(w io.Writer, f log.Fields) error {
	sweeps := f.Get("total_sweeps").(int64)
	findings := f.Get("total_findings").(int64)
	candidates := f.Get("total_candidates").(int64)
	if sweeps == 0 {
		fmt.Fprintf(w, "No sweeps\n")
		fmt.Fprintf(w, "Try running:\n")
		fmt.Fprintf(w, "  privacysweep run \"Jane Doe, Austin TX\"\n")
		return nil
	}
	//              └┬──────────────┬──────────────┬──────────────────┬
	fmt.Fprintf(w, " │ %s │ %s │ %s │\n",
		utils.RightPad(fmt.Sprintf("%d sweeps", sweeps), 12),
		utils.RightPad(fmt.Sprintf("%d findings", findings), 12),
		utils.RightPad(fmt.Sprintf("%d candidates", candidates), 16))
	fmt.Fprintf(w, " └──────────────┴──────────────┴──────────────────┘\n")

	return nil
}
