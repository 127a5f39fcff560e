// Package main provides the operator CLI: settling parlays against real
// outcomes, inspecting usage records, and managing tracked players.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/courtside/internal/config"
	"github.com/yourusername/courtside/internal/database"
	"github.com/yourusername/courtside/internal/governor"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/repository"
	"github.com/yourusername/courtside/internal/service"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")

	settleCmd.Flags().String("status", "", "Terminal status: won, lost, or partially_won")
	settleCmd.Flags().String("payout", "", "Realized payout amount")
	settleCmd.MarkFlagRequired("status")

	usageCmd.Flags().Bool("registered", false, "Treat the identity as registered")

	addPlayerCmd.Flags().String("name", "", "Player name")
	addPlayerCmd.Flags().String("team", "", "Team abbreviation")
	addPlayerCmd.Flags().String("position", "", "Position")
	addPlayerCmd.Flags().String("external-ref", "", "Stat provider reference")
	addPlayerCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(settleCmd, usageCmd, summaryCmd, pendingCmd, addPlayerCmd)
}

var rootCmd = &cobra.Command{
	Use:   "courtside-admin",
	Short: "Operator tooling for the analysis engine",
	Long:  `Settles recorded parlays against real outcomes, inspects identity usage, and manages tracked players.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLog = logrus.New()
		appLog.SetLevel(logrus.WarnLevel)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos = repository.NewRepositories(db)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle <parlay-id>",
	Short: "Settle a pending parlay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid parlay id: %w", err)
		}

		statusFlag, _ := cmd.Flags().GetString("status")
		status := models.ParlayStatus(statusFlag)

		var payout *decimal.Decimal
		if payoutFlag, _ := cmd.Flags().GetString("payout"); payoutFlag != "" {
			d, err := decimal.NewFromString(payoutFlag)
			if err != nil {
				return fmt.Errorf("invalid payout: %w", err)
			}
			payout = &d
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		settlementSvc := service.NewSettlementService(repos.Parlays, repos.UsageRecords, appLog)
		if err := settlementSvc.Settle(ctx, id, status, payout, time.Now().UTC()); err != nil {
			return err
		}

		fmt.Printf("Parlay %s settled as %s\n", id, status)
		return nil
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage <identity-key>",
	Short: "Show an identity's quota standing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registered, _ := cmd.Flags().GetBool("registered")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		gov := governor.NewGovernor(governor.Config{
			AnonymousQuota:  cfg.Governor.AnonymousQuota,
			RegisteredQuota: cfg.Governor.RegisteredQuota,
			Cooldown:        cfg.Governor.CooldownDuration(),
			Window:          cfg.Governor.WindowDuration(),
		}, repos.UsageRecords, appLog)

		status, err := gov.Usage(ctx, models.Identity{Key: args[0], Registered: registered}, time.Now().UTC())
		if err != nil {
			return err
		}

		fmt.Printf("Identity:        %s\n", status.IdentityKey)
		fmt.Printf("Limit:           %d\n", status.Limit)
		fmt.Printf("Used today:      %d\n", status.AnalysesToday)
		fmt.Printf("Remaining:       %d\n", status.Remaining)
		fmt.Printf("Lifetime total:  %d\n", status.LifetimeTotal)
		if status.LastAnalysis != nil {
			fmt.Printf("Last analysis:   %s\n", status.LastAnalysis.Format(time.RFC3339))
		}
		if status.WindowResetAt != nil {
			fmt.Printf("Window resets:   %s\n", status.WindowResetAt.Format(time.RFC3339))
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <identity-key>",
	Short: "Show an identity's prediction performance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		settlementSvc := service.NewSettlementService(repos.Parlays, repos.UsageRecords, appLog)
		summary, err := settlementSvc.Summarize(ctx, args[0], 0)
		if err != nil {
			return err
		}

		fmt.Printf("Identity:           %s\n", summary.IdentityKey)
		fmt.Printf("Total parlays:      %d (%d pending)\n", summary.TotalParlays, summary.Pending)
		fmt.Printf("Record:             %dW-%dL-%dP\n", summary.Wins, summary.Losses, summary.PartialWins)
		fmt.Printf("Win rate:           %.1f%%\n", summary.WinRate*100)
		fmt.Printf("Avg predicted:      %.1f%%\n", summary.AvgPredictedProb*100)
		fmt.Printf("Staked / returned:  %s / %s\n", summary.TotalStaked, summary.TotalReturned)
		fmt.Printf("Net profit:         %s (ROI %.1f%%)\n", summary.NetProfit, summary.ReturnOnInvestment*100)
		return nil
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List parlays awaiting settlement",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pending, err := repos.Parlays.GetPending(ctx, 100)
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			fmt.Println("No pending parlays")
			return nil
		}
		for _, p := range pending {
			fmt.Printf("%s  %s  %d legs  p=%.3f  created %s\n",
				p.ID, p.IdentityKey, len(p.Legs), p.CombinedProbability,
				p.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player",
	Short: "Register a player for game-log tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		team, _ := cmd.Flags().GetString("team")
		position, _ := cmd.Flags().GetString("position")
		externalRef, _ := cmd.Flags().GetString("external-ref")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		player := &models.Player{
			ID:          uuid.New(),
			Name:        name,
			Team:        team,
			Position:    position,
			ExternalRef: externalRef,
		}
		if err := repos.Players.Create(ctx, player); err != nil {
			return err
		}

		fmt.Printf("Player %s registered with id %s\n", name, player.ID)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
