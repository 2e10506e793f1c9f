package service

import (
	"fmt"
	"strings"

	"mmr-balancer/internal/domain"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
)

const nameWidth = 16

func padName(name string) string {
	return padding.String(truncate.StringWithTail(name, nameWidth, "…"), nameWidth)
}

// FormatTeam renders one roster with its rating sum, one player per line.
func FormatTeam(title string, team []domain.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (MMR sum: %.1f)\n", title, lo.SumBy(team, func(p domain.Player) float64 { return p.Rating }))
	for _, p := range team {
		fmt.Fprintf(&b, " - %s %6.1f  %s\n", padName(p.Name), p.Rating, p.History)
	}
	return b.String()
}

func FormatLineup(l domain.Lineup) string {
	return FormatTeam("TEAM 1", l.TeamA) + "\n" + FormatTeam("TEAM 2", l.TeamB)
}

// FormatChanges lists every player's rating before and after a match.
func FormatChanges(before, after domain.Lineup) string {
	var b strings.Builder
	write := func(title string, old, updated []domain.Player) {
		b.WriteString(title + "\n")
		for i, p := range updated {
			fmt.Fprintf(&b, " - %s %6.1f -> %6.1f (%+.1f)  %s\n",
				padName(p.Name), old[i].Rating, p.Rating, p.Rating-old[i].Rating, p.History)
		}
	}
	write("TEAM 1", before.TeamA, after.TeamA)
	b.WriteString("\n")
	write("TEAM 2", before.TeamB, after.TeamB)
	return b.String()
}
