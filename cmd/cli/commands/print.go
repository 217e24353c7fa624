package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"tacticshub/internal/board"
	"tacticshub/internal/hybrid"
	"tacticshub/internal/localcache"
	"tacticshub/internal/traits"
)

func printStatus(w io.Writer, status map[localcache.Collection]hybrid.CollectionStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tVALID\tDATA\tLAST UPDATED")
	for _, c := range localcache.Collections {
		st := status[c]
		updated := "never"
		if st.LastUpdated != nil {
			updated = st.LastUpdated.Local().Format(time.DateTime)
		}
		data := "ok"
		if st.Empty {
			data = "empty"
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", c, st.Valid, data, updated)
	}
	_ = tw.Flush()
}

func printGroups(w io.Writer, groups []board.RatingGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "no compositions")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "[%s]\n", g.Label)
		for _, c := range g.Compositions {
			visibility := "private"
			if c.IsPublic {
				visibility = "public"
			}
			fmt.Fprintf(w, "  %s  %s  by %s  %d units  %s\n", c.ID, c.Name, c.Author, len(c.Units), visibility)
		}
	}
}

func printSummary(w io.Writer, s board.Summary) {
	c := s.Composition
	fmt.Fprintf(w, "%s by %s", c.Name, c.Author)
	if c.Rating != "" {
		fmt.Fprintf(w, " (%s)", c.Rating)
	}
	fmt.Fprintln(w)
	if c.Description != "" {
		fmt.Fprintln(w, c.Description)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nTRAIT\tCOUNT\tTIER")
	for _, a := range s.Traits {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", a.Name, a.Count, tierLabel(a))
	}
	_ = tw.Flush()

	names := make([]string, 0, len(s.Units))
	for _, u := range s.Units {
		names = append(names, fmt.Sprintf("%s (%d)", u.Name, u.Cost))
	}
	fmt.Fprintf(w, "\nunits: %s\n", strings.Join(names, ", "))

	if len(s.Items) > 0 {
		items := make([]string, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, it.Name)
		}
		fmt.Fprintf(w, "items: %s\n", strings.Join(items, ", "))
	}
}

func tierLabel(a traits.Active) string {
	if s, ok := traits.Style(a.Tier()); ok {
		return s.Name
	}
	return "-"
}
