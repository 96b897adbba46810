package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"rental-backend/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders an amount as whole dong with thousands separators.
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("%d VND", int64(math.Round(v)))
}

const assistantPreamble = `You are the assistant of a room-rental management system. You help a house owner understand their houses, rooms, tenants and invoices.
Answer in plain text with short paragraphs. Use "-" for bullet points and **bold** only for key figures. Do not use emojis or decorative symbols.
Base every figure on the data below; if the data does not answer the question, say so.`

// chatContext is the owner data spliced into a chat prompt. Nil sections are omitted.
type chatContext struct {
	Question       string
	Overview       *Overview
	AvailableRooms []models.Room
	Pending        *PendingSummary
}

func buildChatPrompt(c chatContext) string {
	var b strings.Builder
	b.WriteString(assistantPreamble)
	b.WriteString("\n")

	if c.Overview != nil {
		o := c.Overview
		b.WriteString("\n## Portfolio statistics\n")
		fmt.Fprintf(&b, "- Houses: %d\n", o.TotalHouses)
		fmt.Fprintf(&b, "- Rooms: %d (%d available, %d occupied)\n", o.TotalRooms, o.AvailableRooms, o.OccupiedRooms)
		fmt.Fprintf(&b, "- Occupancy rate: %.2f%%\n", o.OccupancyRate)
		fmt.Fprintf(&b, "- Active contracts: %d\n", o.ActiveContracts)
		fmt.Fprintf(&b, "- Pending invoices: %d\n", o.PendingInvoices)
		fmt.Fprintf(&b, "- Revenue this month: %s\n", formatMoney(o.CurrentMonthRevenue))
	}

	if c.AvailableRooms != nil {
		b.WriteString("\n## Available rooms (cheapest first)\n")
		if len(c.AvailableRooms) == 0 {
			b.WriteString("- none\n")
		}
		for _, r := range c.AvailableRooms {
			fmt.Fprintf(&b, "- %s (room #%d, house #%d): %s per month, up to %d people\n",
				r.Name, r.RoomID, r.HouseID, formatMoney(r.Price), r.Capacity)
		}
	}

	if c.Pending != nil {
		b.WriteString("\n## Unpaid invoices\n")
		fmt.Fprintf(&b, "- Count: %d\n", c.Pending.Count)
		fmt.Fprintf(&b, "- Outstanding amount: %s\n", formatMoney(c.Pending.TotalAmount))
		fmt.Fprintf(&b, "- Overdue: %d\n", c.Pending.OverdueCount)
	}

	b.WriteString("\n## Question\n")
	b.WriteString(strings.TrimSpace(c.Question))
	b.WriteString("\n")
	return b.String()
}

func buildRevenuePrompt(r DateRange, stats *RevenueStats, paymentRate float64) string {
	var b strings.Builder
	b.WriteString(assistantPreamble)
	b.WriteString("\n\n## Revenue data\n")
	fmt.Fprintf(&b, "- Period: %s to %s\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Total revenue: %s\n", formatMoney(stats.TotalRevenue))
	fmt.Fprintf(&b, "- Paid invoices: %d\n", stats.PaidInvoices)
	fmt.Fprintf(&b, "- Unpaid invoices due in the period: %d\n", stats.PendingInvoices)
	fmt.Fprintf(&b, "- Average monthly revenue: %s\n", formatMoney(stats.AvgMonthlyRevenue))
	fmt.Fprintf(&b, "- Payment rate: %.2f%%\n", paymentRate)
	b.WriteString("\n## Task\n")
	b.WriteString("Write a short revenue report for the owner: an overview, notable points about collection, and two or three concrete recommendations.\n")
	return b.String()
}

var (
	bulletPattern = regexp.MustCompile(`^(\s*)[*•●◦▪‣+]\s+`)
	rulePattern   = regexp.MustCompile(`^\s*([-=_~*])(\s*([-=_~*])){2,}\s*$`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
	spaceRuns     = regexp.MustCompile(` {2,}`)
)

func decorative(r rune) bool {
	switch r {
	case '\u200d', '\ufe0e', '\ufe0f':
		return true
	}
	return unicode.Is(unicode.So, r)
}

func stripDecorative(line string) string {
	body := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(body)]
	cleaned := strings.Map(func(r rune) rune {
		if decorative(r) {
			return -1
		}
		return r
	}, body)
	if cleaned == body {
		return line
	}
	cleaned = spaceRuns.ReplaceAllString(strings.TrimLeft(cleaned, " "), " ")
	return indent + cleaned
}

// CleanResponse tidies model output: bullets become "-", emojis and other
// decorative symbols are removed, horizontal rules are dropped and blank
// line runs collapse to one.
func CleanResponse(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if rulePattern.MatchString(line) {
			continue
		}
		line = stripDecorative(bulletPattern.ReplaceAllString(line, "${1}- "))
		out = append(out, strings.TrimRight(line, " \t"))
	}
	cleaned := blankRuns.ReplaceAllString(strings.Join(out, "\n"), "\n\n")
	return strings.TrimSpace(cleaned)
}
