package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/dshills/skillspace-mcp/internal/recommender"
)

// renderResponse prints the project table, then mentors and APIs when present
func renderResponse(w io.Writer, resp *recommender.Response, withSimilarity bool) error {
	if len(resp.Projects) == 0 {
		_, err := fmt.Fprintln(w, "No projects matched the filters.")
		return err
	}

	table := tablewriter.NewWriter(w)
	header := []string{"Project"}
	if withSimilarity {
		header = append(header, "Similarity")
	}
	header = append(header, "Stars", "Forks", "Contributors", "Female %")
	local := resp.Projects[0].ActiveDevelopers > 0
	if local {
		header = append(header, "Active")
	}
	table.Header(header)

	for _, p := range resp.Projects {
		row := []string{p.URL}
		if withSimilarity {
			row = append(row, p.SimilarityText())
		}
		row = append(row, strconv.Itoa(p.Stars), strconv.Itoa(p.Forks), strconv.Itoa(p.Contributors), p.FemalePctText())
		if local {
			row = append(row, strconv.Itoa(p.ActiveDevelopers))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(resp.Mentors) > 0 {
		fmt.Fprintln(w)
		mentors := tablewriter.NewWriter(w)
		mentors.Header([]string{"Mentor", "Projects", "Similarity"})
		for _, m := range resp.Mentors {
			if err := mentors.Append([]string{m.Developer, m.ProjectsText(), fmt.Sprintf("%.2f", m.Similarity)}); err != nil {
				return err
			}
		}
		if err := mentors.Render(); err != nil {
			return err
		}
	}

	if len(resp.APIs) > 0 {
		fmt.Fprintln(w)
		apis := tablewriter.NewWriter(w)
		apis.Header([]string{"API", "Similarity"})
		for _, a := range resp.APIs {
			if err := apis.Append([]string{a.API, a.SimilarityText()}); err != nil {
				return err
			}
		}
		if err := apis.Render(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d candidates inspected in %s\n", resp.Inspected, resp.Duration.Round(time.Millisecond))
	return err
}

// renderList prints a single-column table
func renderList(w io.Writer, title string, items []string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{title})
	for _, it := range items {
		if err := table.Append([]string{it}); err != nil {
			return err
		}
	}
	return table.Render()
}
