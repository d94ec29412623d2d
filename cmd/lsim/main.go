package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "lifesim/internal/cli"
	"lifesim/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "lsim",
		Short:        "Lifesim CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newNewCmd(&apiBase),
		newStatusCmd(&apiBase),
		newSaveCmd(&apiBase),
		newLoadCmd(&apiBase),
		newSavesCmd(&apiBase),
		newStocksCmd(&apiBase),
		newBuyCmd(&apiBase),
		newSellCmd(&apiBase),
		newBillsCmd(&apiBase),
		newPayCmd(&apiBase),
		newAdvanceCmd(&apiBase),
		newMarketCmd(&apiBase),
		newFeedCmd(&apiBase),
		newWorkCmd(&apiBase),
		newMoveCmd(&apiBase),
		newTalkCmd(&apiBase),
		newEventCmd(&apiBase),
		newConsumeCmd(&apiBase),
		newShopCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		printError(fmt.Sprintf("error: %v", err))
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newNewCmd(apiBase *string) *cobra.Command {
	var zone string
	c := &cobra.Command{
		Use:   "new <name>",
		Short: "Start a new game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).NewGame(ctx, args[0], zone)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{Player: args[0]}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("New game started for %s.", args[0]))
			printPlayer(out)
			return nil
		},
	}
	c.Flags().StringVar(&zone, "zone", "", "starting zone (default apartment)")
	return c
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current player state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Player(ctx)
			if err != nil {
				return err
			}
			printPlayer(out)
			return nil
		},
	}
}

func newSaveCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "save <slot>",
		Short: "Save the game to a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			if _, err := newClient(apiBase).Save(ctx, args[0]); err != nil {
				return err
			}
			session, _ := cl.LoadSession()
			session.Slot = args[0]
			if err := cl.SaveSession(session); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Saved to slot %q.", args[0]))
			return nil
		},
	}
}

func newLoadCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load [slot]",
		Short: "Load a saved game (defaults to the last used slot)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot := ""
			if len(args) == 1 {
				slot = args[0]
			} else {
				session, err := cl.LoadSession()
				if err != nil {
					return err
				}
				slot = session.Slot
			}
			if slot == "" {
				return fmt.Errorf("no slot given and no previous slot remembered")
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Load(ctx, slot)
			if err != nil {
				return err
			}
			name, _ := out["name"].(string)
			if err := cl.SaveSession(cl.Session{Slot: slot, Player: name}); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Loaded slot %q.", slot))
			printPlayer(out)
			return nil
		},
	}
}

func newSavesCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List save slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).ListSaves(ctx)
			if err != nil {
				return err
			}
			slots, _ := out["slots"].([]any)
			if len(slots) == 0 {
				printInfo("No saves yet.")
				return nil
			}
			for _, s := range slots {
				printInfo(fmt.Sprintf("  %v", s))
			}
			return nil
		},
	}
}

func newStocksCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stocks [ticker]",
		Short: "List stocks or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			client := newClient(apiBase)
			if len(args) == 1 {
				out, err := client.StockDetail(ctx, strings.ToUpper(args[0]))
				if err != nil {
					return err
				}
				printStock(out)
				return nil
			}
			out, err := client.ListStocks(ctx)
			if err != nil {
				return err
			}
			stocks, _ := out["stocks"].([]any)
			for _, s := range stocks {
				if m, ok := s.(map[string]any); ok {
					printStock(m)
				}
			}
			return nil
		},
	}
}

func newBuyCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <ticker> <amount>",
		Short: "Invest an amount of cash into a stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("amount must be a number: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Buy(ctx, strings.ToUpper(args[0]), amount)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Bought %s at %s. Cash: %s, held: %s shares.",
				args[0], num(out["price"]), num(out["cash"]), num(out["held"])))
			return nil
		},
	}
}

func newSellCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <ticker> <shares>",
		Short: "Sell shares of a stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("shares must be a number: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Sell(ctx, strings.ToUpper(args[0]), shares)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sold %s at %s. Cash: %s, held: %s shares.",
				args[0], num(out["price"]), num(out["cash"]), num(out["held"])))
			return nil
		},
	}
}

func newBillsCmd(apiBase *string) *cobra.Command {
	var unpaid bool
	c := &cobra.Command{
		Use:   "bills",
		Short: "List this week's bills",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).ListBills(ctx, unpaid)
			if err != nil {
				return err
			}
			printBills(out)
			return nil
		},
	}
	c.Flags().BoolVar(&unpaid, "unpaid", false, "show only unpaid bills")
	return c
}

func newPayCmd(apiBase *string) *cobra.Command {
	var all bool
	c := &cobra.Command{
		Use:   "pay [bill-id]",
		Short: "Pay one bill, or all with --all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			client := newClient(apiBase)
			if all {
				out, err := client.PayAllBills(ctx)
				if err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Paid %v bills, skipped %v. Cash: %s.",
					out["paid"], out["skipped"], num(out["cash"])))
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("give a bill id or --all")
			}
			out, err := client.PayBill(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Bill paid. Cash: %s.", num(out["cash"])))
			return nil
		},
	}
	c.Flags().BoolVar(&all, "all", false, "pay every open bill, cheapest first")
	return c
}

func newAdvanceCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Advance to the next game day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).AdvanceDay(ctx)
			if err != nil {
				return err
			}
			if rolled, _ := out["week_rolled"].(bool); rolled {
				printWarn(fmt.Sprintf("Week %v begins: last week's bills retired, new bills issued.", out["week"]))
			}
			printSuccess(fmt.Sprintf("Day %v.", out["day"]))
			if p, ok := out["player"].(map[string]any); ok {
				printPlayer(p)
			}
			return nil
		},
	}
}

func newMarketCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "market <day>",
		Short: "Show the open prices recorded for a game day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("day must be an integer: %w", err)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).MarketDay(ctx, day)
			if err != nil {
				return err
			}
			printInfo(fmt.Sprintf("Day %v (%v):", out["day"], out["date"]))
			opens, _ := out["opens"].([]any)
			for _, o := range opens {
				printInfo(fmt.Sprintf("  %s", num(o)))
			}
			return nil
		},
	}
}

func newFeedCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <file>",
		Short: "Load a market feed file into the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).LoadFeed(ctx, raw)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Feed loaded: %v trading days.", out["days"]))
			return nil
		},
	}
}

func newWorkCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Work a shift for a wage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Work(ctx)
			if err != nil {
				return err
			}
			printSuccess("Shift worked.")
			printPlayer(out)
			return nil
		},
	}
}

func newMoveCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "move <zone>",
		Short: "Move to an adjacent zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Move(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Moved to %v.", out["zone"]))
			return nil
		},
	}
}

func newTalkCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "talk <npc>",
		Short: "Chat with an NPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Talk(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("You chatted with %s.", args[0]))
			if scores, ok := out["npc_scores"].(map[string]any); ok {
				printInfo(fmt.Sprintf("  relationship: %v", scores[args[0]]))
			}
			return nil
		},
	}
}

func newEventCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "event <key>",
		Short: "Trigger a life event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).ApplyEvent(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Event %q applied.", args[0]))
			printPlayer(out)
			return nil
		},
	}
}

func newConsumeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "consume <item>",
		Short: "Consume an item from the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Consume(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Consumed %s.", args[0]))
			printPlayer(out)
			return nil
		},
	}
}

func newShopCmd(apiBase *string) *cobra.Command {
	var qty int
	c := &cobra.Command{
		Use:   "shop <item>",
		Short: "Buy an item at its catalog price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).BuyItem(ctx, args[0], qty)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Bought %dx %s. Cash: %s.", qty, args[0], num(out["cash"])))
			return nil
		},
	}
	c.Flags().IntVar(&qty, "qty", 1, "quantity to buy")
	return c
}
