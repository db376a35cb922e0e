package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	cl "github.com/qualityslop/backend/internal/cli"
	"github.com/qualityslop/backend/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "qs",
		Short:        "Quality Slop CLI game client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "game API base URL")

	root.AddCommand(
		newCreateCmd(&apiBase),
		newJoinCmd(&apiBase),
		newLeaveCmd(&apiBase),
		newStartCmd(&apiBase),
		newPauseCmd(&apiBase),
		newStopCmd(&apiBase),
		newSpeedCmd(&apiBase),
		newStatusCmd(&apiBase),
		newStocksCmd(&apiBase),
		newBudgetCmd(&apiBase),
		newHomeCmd(&apiBase),
		newExplainCmd(&apiBase),
		newWatchCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func loadSession() (cl.Session, error) {
	sess, err := cl.LoadSession()
	if err != nil {
		return cl.Session{}, fmt.Errorf("no active game: %w", err)
	}
	return sess, nil
}

func newCreateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "create [username]",
		Short: "Create a game session and become its leader",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := usernameFromArgsOrPrompt(args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			sess, err := client.CreateSession(ctx, username)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(sess); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Session %s created. You are the leader.", sess.SessionID))
			printInfo("Others can join with: qs join " + sess.SessionID)
			fmt.Println()
			qrterminal.GenerateHalfBlock(joinURL(*apiBase, sess.SessionID), qrterminal.L, os.Stdout)
			return nil
		},
	}
}

func joinURL(apiBase, sessionID string) string {
	return strings.TrimRight(apiBase, "/") + "/session/" + sessionID + "/join"
}

func newJoinCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "join <session_id> [username]",
		Short: "Join an existing game session",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := strings.ToUpper(strings.TrimSpace(args[0]))
			username, err := usernameFromArgsOrPrompt(args[1:])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			sess, err := client.JoinSession(ctx, sessionID, username)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(sess); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Joined session %s as %s.", sess.SessionID, sess.Username))
			return nil
		},
	}
}

func newLeaveCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Forget the saved session on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sess, err := cl.LoadSession(); err == nil {
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				_ = newClient(apiBase).Logout(ctx, sess)
			}
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Left the game.")
			return nil
		},
	}
}

func leaderCommand(apiBase *string, use, short string, call func(ctx context.Context, c *cl.Client, s cl.Session) error, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := call(ctx, newClient(apiBase), sess); err != nil {
				return err
			}
			printSuccess(done)
			return nil
		},
	}
}

func newStartCmd(apiBase *string) *cobra.Command {
	return leaderCommand(apiBase, "start", "Start the simulation (leader only)",
		func(ctx context.Context, c *cl.Client, s cl.Session) error { return c.StartGame(ctx, s) },
		"Game started.")
}

func newPauseCmd(apiBase *string) *cobra.Command {
	return leaderCommand(apiBase, "pause", "Pause the simulation (leader only)",
		func(ctx context.Context, c *cl.Client, s cl.Session) error { return c.PauseGame(ctx, s) },
		"Game paused.")
}

func newStopCmd(apiBase *string) *cobra.Command {
	return leaderCommand(apiBase, "stop", "End the session for everyone (leader only)",
		func(ctx context.Context, c *cl.Client, s cl.Session) error { return c.StopGame(ctx, s) },
		"Game ended.")
}

func newSpeedCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "speed <multiplier>",
		Short: "Set hours of game time per tick (leader only, 0 pauses)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			multiplier, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || multiplier < 0 {
				return fmt.Errorf("multiplier must be a non-negative integer")
			}
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).SetTimeProgressionMultiplier(ctx, sess, multiplier); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Speed set to %dx.", multiplier))
			return nil
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show your player snapshot",
		Aliases: []string{"poll"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			view, err := newClient(apiBase).Poll(ctx, sess)
			if err != nil {
				return err
			}
			renderPoll(view)
			return nil
		},
	}
}

func newStocksCmd(apiBase *string) *cobra.Command {
	stocks := &cobra.Command{
		Use:     "stocks",
		Short:   "Stock market commands",
		Aliases: []string{"stock"},
	}

	stocks.AddCommand(&cobra.Command{
		Use:   "prices",
		Short: "Show recent stock prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			prices, err := newClient(apiBase).StockPrices(ctx, sess)
			if err != nil {
				return err
			}
			renderPriceHistory("stock prices", prices, 10)
			return nil
		},
	})
	stocks.AddCommand(&cobra.Command{
		Use:   "dividends",
		Short: "Show dividend payouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			dividends, err := newClient(apiBase).Dividends(ctx, sess)
			if err != nil {
				return err
			}
			renderPriceHistory("dividends", dividends, 0)
			return nil
		},
	})
	stocks.AddCommand(newTradeCmd(apiBase, "buy", "Buy shares at the current price"))
	stocks.AddCommand(newTradeCmd(apiBase, "sell", "Sell shares at the current price"))
	stocks.AddCommand(&cobra.Command{
		Use:   "liquidate <symbol>",
		Short: "Sell an entire position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).LiquidateStock(ctx, sess, symbol); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Liquidated %s.", symbol))
			return nil
		},
	})
	return stocks
}

func newTradeCmd(apiBase *string, side, short string) *cobra.Command {
	return &cobra.Command{
		Use:   side + " <symbol> [quantity]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			var quantity int
			var err error
			if len(args) > 1 {
				quantity, err = strconv.Atoi(strings.TrimSpace(args[1]))
				if err != nil || quantity <= 0 {
					return fmt.Errorf("quantity must be a positive integer")
				}
			} else {
				quantity, err = promptInt("Shares to "+side, 1)
				if err != nil {
					return err
				}
			}
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			if side == "buy" {
				err = client.BuyStock(ctx, sess, symbol, quantity)
			} else {
				err = client.SellStock(ctx, sess, symbol, quantity)
			}
			if err != nil {
				return err
			}
			past := "Bought"
			if side == "sell" {
				past = "Sold"
			}
			printSuccess(fmt.Sprintf("%s %d %s.", past, quantity, symbol))
			return nil
		},
	}
}

func newBudgetCmd(apiBase *string) *cobra.Command {
	budget := &cobra.Command{
		Use:   "budget",
		Short: "Adjust monthly grocery and leisure budgets",
	}
	budget.AddCommand(newBudgetSetCmd(apiBase, "grocery", "Set the monthly grocery budget"))
	budget.AddCommand(newBudgetSetCmd(apiBase, "leisure", "Set the monthly leisure budget"))
	return budget
}

func newBudgetSetCmd(apiBase *string, kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " [amount]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount float64
			var err error
			if len(args) > 0 {
				amount, err = strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
				if err != nil || amount < 0 {
					return fmt.Errorf("amount must be a non-negative number")
				}
			} else {
				amount, err = promptFloat("Monthly "+kind+" budget", 0)
				if err != nil {
					return err
				}
			}
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			if kind == "grocery" {
				err = client.SetMonthlyGroceryExpense(ctx, sess, amount)
			} else {
				err = client.SetMonthlyLeisureExpense(ctx, sess, amount)
			}
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Monthly %s budget set to %s.", kind, formatMoney(amount)))
			return nil
		},
	}
}

func newHomeCmd(apiBase *string) *cobra.Command {
	home := &cobra.Command{
		Use:   "home",
		Short: "Browse and move between accommodations",
	}
	home.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the accommodation catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			options, err := newClient(apiBase).Accommodations(ctx, sess)
			if err != nil {
				return err
			}
			renderAccommodations(options)
			return nil
		},
	})
	home.AddCommand(&cobra.Command{
		Use:   "move [accommodation_id]",
		Short: "Move to a different accommodation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			var err error
			if len(args) > 0 {
				id = strings.TrimSpace(args[0])
			} else {
				id, err = promptRequired("Accommodation ID")
				if err != nil {
					return err
				}
			}
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := newClient(apiBase).MoveAccommodation(ctx, sess, id); err != nil {
				return err
			}
			printSuccess("Moved to " + id + ".")
			return nil
		},
	})
	return home
}

func newExplainCmd(apiBase *string) *cobra.Command {
	explain := &cobra.Command{
		Use:   "explain",
		Short: "Ask the financial tutor",
	}
	explain.AddCommand(&cobra.Command{
		Use:   "event <event_id>",
		Short: "Explain a market event in plain terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("event_id must be an integer")
			}
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			answer, err := newClient(apiBase).ExplainEvent(ctx, sess, eventID)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(answer)
			fmt.Println()
			return nil
		},
	})
	explain.AddCommand(&cobra.Command{
		Use:   "text [text]",
		Short: "Explain a financial term or phrase",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			var err error
			if len(args) > 0 {
				text = strings.TrimSpace(args[0])
			} else {
				text, err = promptRequired("Text to explain")
				if err != nil {
					return err
				}
			}
			contextHint, err := promptOptional("Context (optional)")
			if err != nil {
				return err
			}
			sess, err := loadSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			answer, err := newClient(apiBase).ExplainText(ctx, sess, text, contextHint)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(answer)
			fmt.Println()
			return nil
		},
	})
	return explain
}

func usernameFromArgsOrPrompt(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	return promptRequired("Username")
}
