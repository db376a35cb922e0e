package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/qualityslop/backend/internal/api"
	"github.com/qualityslop/backend/internal/game"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %.2f", min))
			continue
		}
		return v, nil
	}
}

func promptInt(label string, min int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderPoll(view game.PollView) {
	accent.Printf("\n== SESSION %s (%s) ==\n", view.SessionID, view.SessionStatus)
	fmt.Printf("Player:    %s", view.Username)
	if view.IsLeader {
		fmt.Print(" (leader)")
	}
	fmt.Println()
	fmt.Printf("Sim time:  %s\n", view.Time.Format("2006-01-02 15:04"))
	fmt.Printf("Speed:     %dx\n", view.TimeProgressionMultiplier)

	fmt.Println()
	accent.Println("Money")
	fmt.Printf("Balance:     %s\n", colorizeMoney(view.Balance))
	fmt.Printf("Assets:      %s\n", formatMoney(view.Assets))
	fmt.Printf("Equity:      %s\n", formatMoney(view.Equity))
	fmt.Printf("Income/mo:   %s (salary %s, dividends %s)\n",
		formatMoney(view.MonthlyIncome), formatMoney(view.MonthlySalary), formatMoney(view.MonthlyDividends))
	fmt.Printf("Expenses/mo: %s\n", formatMoney(view.MonthlyExpenses))
	fmt.Printf("Net/mo:      %s\n", colorizeMoney(view.MonthlyNetIncome))

	fmt.Println()
	accent.Println("Lifestyle")
	fmt.Printf("%-16s %s\n", "Health", levelBar(view.HealthLevel))
	fmt.Printf("%-16s %s\n", "Happiness", levelBar(view.HappinessLevel))
	fmt.Printf("%-16s %s\n", "Energy", levelBar(view.EnergyLevel))
	fmt.Printf("%-16s %s\n", "Social life", levelBar(view.SocialLifeLevel))
	fmt.Printf("%-16s %s\n", "Stress", levelBar(view.StressLevel))
	fmt.Printf("%-16s %s\n", "Living comfort", levelBar(view.LivingComfortLevel))
	fmt.Printf("%-16s %s\n", "Career", levelBar(view.CareerProgressLevel))
	fmt.Printf("%-16s %s\n", "Skills", levelBar(view.SkillsEducationLevel))

	fmt.Println()
	accent.Println("Portfolio")
	fmt.Printf("%-8s %10s %8s %10s %12s\n", "SYMBOL", "PRICE", "SIZE", "ENTRY", "P/L")
	for _, s := range view.Stocks {
		fmt.Printf("%-8s %10.2f %8d %10.2f %12s\n",
			s.Symbol, s.LastPrice, s.Size, s.EntryPrice, colorizeMoney(s.Pnl))
	}

	if len(view.Events) > 0 {
		fmt.Println()
		accent.Println("Today's Events")
		for _, e := range view.Events {
			fmt.Printf("  [%d] %s: %s\n", e.ID, e.Title, e.Description)
		}
	}

	if len(view.Players) > 1 {
		fmt.Println()
		accent.Println("Players")
		for _, p := range view.Players {
			fmt.Printf("  %-18s %s\n", p.Username, formatMoney(p.Balance))
		}
	}
	fmt.Println()
}

func renderPriceHistory(title string, series map[string]map[string]float64, limit int) {
	accent.Printf("\n== %s ==\n", strings.ToUpper(title))
	symbols := make([]string, 0, len(series))
	for symbol := range series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		points := series[symbol]
		dates := make([]string, 0, len(points))
		for date := range points {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		if limit > 0 && len(dates) > limit {
			dates = dates[len(dates)-limit:]
		}
		accent.Println(symbol)
		for _, date := range dates {
			fmt.Printf("  %s %10.2f\n", date, points[date])
		}
	}
	fmt.Println()
}

func renderAccommodations(options []api.AccommodationOption) {
	accent.Println("\n== ACCOMMODATIONS ==")
	fmt.Printf("%-28s %-32s %10s %10s %6s\n", "ID", "NAME", "RENT", "UTIL", "SAUNA")
	for _, o := range options {
		sauna := ""
		if o.HasSauna {
			sauna = "yes"
		}
		fmt.Printf("%-28s %-32s %10s %10s %6s\n",
			o.ID, o.Name, formatMoney(o.MonthlyRent), formatMoney(o.MonthlyUtilities), sauna)
	}
	fmt.Println()
}

func levelBar(level int) string {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	filled := level / 5
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
	return fmt.Sprintf("%s %3d", bar, level)
}

func colorizeMoney(v float64) string {
	text := formatMoney(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := int64(v)
	frac := int64((v - float64(whole)) * 100)
	return fmt.Sprintf("%s$%s.%02d", sign, comma(whole), frac)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
