package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

// num renders a JSON number without the trailing float noise.
func num(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strings.TrimRight(fmt.Sprintf("%.4f", f), "0")
}

func printPlayer(p map[string]any) {
	accent.Printf("%v, day %s (week %s), %v\n", p["name"], num(p["day"]), num(p["week"]), p["zone"])
	neutral.Printf("  cash: %s\n", num(p["cash"]))
	if stats, ok := p["stats"].(map[string]any); ok {
		neutral.Printf("  stats: %s\n", joinMap(stats))
	}
	if inv, ok := p["inventory"].(map[string]any); ok && len(inv) > 0 {
		neutral.Printf("  inventory: %s\n", joinMap(inv))
	}
	if scores, ok := p["npc_scores"].(map[string]any); ok && len(scores) > 0 {
		neutral.Printf("  npcs: %s\n", joinMap(scores))
	}
	if port, ok := p["portfolio"].(map[string]any); ok && len(port) > 0 {
		neutral.Printf("  portfolio: %s\n", joinMap(port))
	}
}

func printStock(s map[string]any) {
	neutral.Printf("  %-8v %-20v price %-10s held %s\n", s["ticker"], s["name"], num(s["price"]), num(s["held"]))
}

func printBills(out map[string]any) {
	accent.Printf("Week %s bills:\n", num(out["week"]))
	billsAny, _ := out["bills"].([]any)
	if len(billsAny) == 0 {
		printInfo("  none")
		return
	}
	for _, b := range billsAny {
		m, ok := b.(map[string]any)
		if !ok {
			continue
		}
		status := "OPEN"
		if paid, _ := m["paid"].(bool); paid {
			status = "PAID"
		}
		neutral.Printf("  [%s] %s  %s\n", status, num(m["amount"]), m["id"])
	}
}

func joinMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, num(m[k])))
	}
	return strings.Join(parts, " ")
}
