package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/memory"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/redis"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/sqlite"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/app/fanout"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/app/transition"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/config"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

var errOrderVanished = errors.New("order disappeared from the store")

// SimulateOptions holds the simulate command flags.
type SimulateOptions struct {
	Workers   int
	Store     string
	DBPath    string
	RedisAddr string
}

// SimulationReport summarizes one simulate run.
type SimulationReport struct {
	Store        string `json:"store"`
	Workers      int    `json:"workers"`
	Committed    int    `json:"committed"`
	Conflicts    int    `json:"conflicts"`
	Rejected     int    `json:"rejected"`
	Errors       int    `json:"errors"`
	FinalState   string `json:"final_state"`
	FinalVersion uint64 `json:"final_version"`
	HistoryLen   int    `json:"history_len"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(root *RootOptions) *cobra.Command {
	opts := &SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Race concurrent confirm requests against one order",
		Long: "simulate creates a pending order and fires --workers concurrent confirm\n" +
			"requests at version 0. Exactly one commits; the rest observe a version\n" +
			"conflict.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Workers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", opts.Workers)
			}

			repo, closeRepo, err := openStore(opts)
			if err != nil {
				return err
			}
			defer closeRepo()

			report, err := simulate(cmd.Context(), repo, opts.Workers, root.logger(cmd))
			if err != nil {
				return err
			}
			report.Store = opts.Store
			return renderReport(cmd.OutOrStdout(), root.Format, report)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 10, "number of concurrent requests")
	cmd.Flags().StringVar(&opts.Store, "store", config.DriverMemory, "store driver (memory|sqlite|redis)")
	cmd.Flags().StringVar(&opts.DBPath, "db", ":memory:", "sqlite database path")
	cmd.Flags().StringVar(&opts.RedisAddr, "redis-addr", "localhost:6379", "redis address")

	return cmd
}

func openStore(opts *SimulateOptions) (ports.OrderRepository, func(), error) {
	switch opts.Store {
	case config.DriverMemory:
		return memory.New[order.Status](), func() {}, nil
	case config.DriverSQLite:
		s, err := sqlite.Open[order.Status](opts.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case config.DriverRedis:
		s := redis.New[order.Status](opts.RedisAddr, "", 0)
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q: must be one of memory, sqlite, redis", opts.Store)
	}
}

// simulate races workers confirm requests against a fresh order in repo.
// A nil logger discards output.
func simulate(ctx context.Context, repo ports.OrderRepository, workers int, logger *slog.Logger) (SimulationReport, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	table, err := order.NewTable()
	if err != nil {
		return SimulationReport{}, fmt.Errorf("building order table: %w", err)
	}
	engine := transition.New[order.Status, order.Payload](logger)

	o := order.New()
	if err := repo.Insert(ctx, o); err != nil {
		return SimulationReport{}, fmt.Errorf("inserting order: %w", err)
	}

	req := order.Request{Event: order.EventConfirm, ExpectedVersion: o.Version}
	outcomes := fanout.Run(ctx, workers, make([]struct{}, workers),
		func(ctx context.Context, _ struct{}) (result.Result[order.Order, *fsm.TransitionError], error) {
			return engine.RequestTransition(ctx, o, req, table, repo)
		})

	report := SimulationReport{Workers: workers}
	for _, out := range outcomes {
		inner, ok := out.Get()
		switch {
		case !ok:
			report.Errors++
			logger.ErrorContext(ctx, "simulated transition failed",
				slog.String("operation", "simulate"),
				slog.String("order_id", o.ID.String()),
				slog.Any("error", out.Err()),
			)
		case inner.IsSuccess():
			report.Committed++
		case inner.Err().Kind == fsm.KindVersionConflict:
			report.Conflicts++
		default:
			report.Rejected++
		}
	}

	found, err := repo.Load(ctx, o.ID)
	if err != nil {
		return SimulationReport{}, fmt.Errorf("loading order %s: %w", o.ID, err)
	}
	final := option.ToResult(found, errOrderVanished)
	if final.IsFailure() {
		return SimulationReport{}, fmt.Errorf("order %s: %w", o.ID, final.Err())
	}

	report.FinalState = final.Value().State.String()
	report.FinalVersion = final.Value().Version
	report.HistoryLen = len(final.Value().History)
	return report, nil
}

func renderReport(w io.Writer, format string, r SimulationReport) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	_, err := fmt.Fprintf(w,
		"store:     %s\nworkers:   %d\ncommitted: %d\nconflicts: %d\nrejected:  %d\nerrors:    %d\nfinal:     %s (version %d, %d history records)\n",
		r.Store, r.Workers, r.Committed, r.Conflicts, r.Rejected, r.Errors,
		r.FinalState, r.FinalVersion, r.HistoryLen,
	)
	return err
}
