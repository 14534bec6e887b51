package main

import (
	"context"
	"exchange-lab/domain"
	"exchange-lab/errors"
	"exchange-lab/internal"
	"exchange-lab/observability"
	"exchange-lab/runtime"
	"exchange-lab/sink"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"
)

// newRootCmd builds the player command. play is what runs once the role is
// known; it is swapped in tests.
func newRootCmd(out io.Writer, play func(ctx context.Context, role domain.Role) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player <initiator|receiver>",
		Short: "Play one side of a message exchange over TCP",
		Long: `Player runs one peer of the exchange. Start the receiver first: it
listens on PORT and waits for a single initiator. The initiator dials
HOST:PORT, sends the first message and ends the exchange with STOP after
TOTAL_MESSAGES replies.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			role, err := domain.ParseRole(args[0])
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n", err)
				return cmd.Usage()
			}
			return play(cmd.Context(), role)
		},
	}
	cmd.SetOut(out)
	return cmd
}

func run(args []string) (int, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdout, play)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errors.ErrInvalidConfig) {
			return exitConfig, err
		}
		return exitRuntime, err
	}
	return exitOK, nil
}

func play(ctx context.Context, role domain.Role) error {
	_ = godotenv.Load()
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	if role == domain.Initiator {
		fmt.Printf("Initiator will send %d messages in total.\n", config.TotalMessages)
	}
	coordinator := runtime.NewCoordinator(log, config.Exchange(),
		runtime.Timeouts{
			Exchange:        config.ExchangeTimeout,
			Dial:            config.DialTimeout,
			RestartInterval: config.RestartInterval,
		},
		sink.NewConsoleSink(os.Stdout, config.Colours),
		sink.NewLogSink(log),
	)

	var result domain.Result
	if role == domain.Initiator {
		result, err = coordinator.RunInitiator(ctx)
	} else {
		result, err = coordinator.RunReceiver(ctx)
	}
	if errors.Is(err, errors.ErrConnectivity) {
		log.Error("Cannot reach the other player", "role", role.String(), "err", err)
		return err
	}

	observability.RenderSummary(os.Stdout, result)
	observability.LogSelf(log)
	return err
}
