// Package cli implements the sfc command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	etcd "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"

	"github.com/streamforge/streamforge/internal/pkg/coordination/etcdns"
	"github.com/streamforge/streamforge/internal/pkg/log"
	"github.com/streamforge/streamforge/internal/pkg/service/stream"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/definition"
	"github.com/streamforge/streamforge/internal/pkg/service/stream/observer"
)

type Flags struct {
	EtcdEndpoint string
	EtcdUsername string
	EtcdPassword string
	PollInterval time.Duration
	WaitTimeout  time.Duration
	Verbose      bool
}

func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &Flags{}
	defaults := stream.NewConfig()

	root := &cobra.Command{
		Use:           "sfc",
		Short:         "StreamForge control CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.EtcdEndpoint, "etcd-endpoint", "localhost:2379", "etcd endpoint of the coordination namespace")
	root.PersistentFlags().StringVar(&flags.EtcdUsername, "etcd-username", "", "etcd username")
	root.PersistentFlags().StringVar(&flags.EtcdPassword, "etcd-password", "", "etcd password")
	root.PersistentFlags().DurationVar(&flags.PollInterval, "poll-interval", defaults.PollInterval, "interval between namespace checks")
	root.PersistentFlags().DurationVar(&flags.WaitTimeout, "wait-timeout", defaults.WaitTimeout, "overall deadline of one wait")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug output")

	root.AddCommand(waitCommand(flags))
	return root
}

func waitCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait for a stream lifecycle operation to converge",
	}

	targets := []struct {
		use     string
		short   string
		wait    func(*observer.Observer, context.Context, string) error
		success string
	}{
		{
			use:     "create <stream>",
			short:   "Wait until the stream definition exists",
			wait:    (*observer.Observer).WaitForCreate,
			success: `stream "%s" is created`,
		},
		{
			use:     "destroy <stream>",
			short:   "Wait until the stream definition is gone",
			wait:    (*observer.Observer).WaitForDestroy,
			success: `stream "%s" is destroyed`,
		},
		{
			use:     "deploy <stream>",
			short:   "Wait until every module of the stream is deployed",
			wait:    (*observer.Observer).WaitForDeploy,
			success: `stream "%s" is deployed`,
		},
		{
			use:     "undeploy <stream>",
			short:   "Wait until no module of the stream is deployed",
			wait:    (*observer.Observer).WaitForUndeploy,
			success: `stream "%s" is undeployed`,
		},
	}

	for _, target := range targets {
		cmd.AddCommand(&cobra.Command{
			Use:   target.use,
			Short: target.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runWait(cmd, flags, args[0], target.wait, target.success)
			},
		})
	}

	return cmd
}

func runWait(
	cmd *cobra.Command,
	flags *Flags,
	streamName string,
	wait func(*observer.Observer, context.Context, string) error,
	success string,
) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := log.NewLogger(cmd.ErrOrStderr(), flags.Verbose)
	defer func() { _ = logger.Sync() }()

	config := stream.Config{PollInterval: flags.PollInterval, WaitTimeout: flags.WaitTimeout}
	if err := config.Validate(ctx); err != nil {
		return err
	}

	client, err := etcd.New(etcd.Config{
		Context:     ctx,
		Endpoints:   []string{flags.EtcdEndpoint},
		Username:    flags.EtcdUsername,
		Password:    flags.EtcdPassword,
		DialTimeout: 10 * time.Second,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ns := etcdns.New(logger, client)
	obs := observer.New(logger, clockwork.NewRealClock(), config, ns, ns, definition.NewPipelineResolver())

	watchCtx, cancelWatch := context.WithCancel(ctx)
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	defer cancelWatch()

	if err := <-obs.Start(watchCtx, wg); err != nil {
		return err
	}

	if err := wait(obs, ctx, streamName); err != nil {
		return err
	}

	cmd.Println(fmt.Sprintf(success, streamName))
	return nil
}
