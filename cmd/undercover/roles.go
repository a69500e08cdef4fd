package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/undercover/internal/game"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)

// RolesCmd prints the role quota table.
type RolesCmd struct {
	Players int `kong:"short='p',help='Only show this player count'"`
}

func (c *RolesCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, nil)
	if err != nil {
		return err
	}

	lim := cfg.Limits()
	counts := make([]int, 0, lim.Max-lim.Min+1)
	if c.Players != 0 {
		if !lim.Contains(c.Players) {
			return fmt.Errorf("%w: %d (must be between %d and %d)", game.ErrInvalidPlayerCount, c.Players, lim.Min, lim.Max)
		}
		counts = append(counts, c.Players)
	} else {
		for n := lim.Min; n <= lim.Max; n++ {
			counts = append(counts, n)
		}
	}

	fmt.Fprintln(g.Stdout, renderQuotaTable(counts))
	return nil
}

func renderQuotaTable(counts []int) string {
	headers := []string{"Players"}
	for _, r := range game.Roles {
		headers = append(headers, r.String())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, n := range counts {
		q := game.RequiredRoles(n)
		row := []string{strconv.Itoa(q.Total())}
		for _, r := range game.Roles {
			row = append(row, strconv.Itoa(q.Count(r)))
		}
		t.Row(row...)
	}
	return t.Render()
}
