package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askiada/go-anvio/internal/config"
	"github.com/askiada/go-anvio/internal/logging"
	"github.com/askiada/go-anvio/pkg/anvio"
	"github.com/askiada/go-anvio/pkg/kbase"
	"github.com/askiada/go-anvio/pkg/pipeline/drawer"
	"github.com/askiada/go-anvio/pkg/pipeline/measure"
	"github.com/askiada/go-anvio/pkg/pipeline/model"
	"github.com/askiada/go-anvio/pkg/runner"
)

var errMissingCallback = errors.New("a callback url is required unless --local is set")

// boundFlags are the flags overriding the settings of the same name.
var boundFlags = []string{"scratch", "callback-url", "token", "local", "timeout", "graph", "log-level"}

func newRunCmd() *cobra.Command {
	v := config.NewViper()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the workflow with the given parameters and print the report reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnvio(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.StringP("params", "p", "", "run parameters file (json or yaml)")
	flags.StringP("config", "c", "", "settings file")
	flags.String("scratch", "", "directory holding the run directories")
	flags.String("callback-url", "", "url of the KBase callback server")
	flags.String("token", "", "KBase authentication token")
	flags.Bool("local", false, "serve the references from the local filesystem")
	flags.Duration("timeout", 0, "maximum duration of each external program, 0 for none")
	flags.String("graph", "", "write a DOT graph of the stages and their timings to this file")
	flags.String("log-level", "", "log level: error, info or debug")
	_ = cmd.MarkFlagRequired("params")

	for _, name := range boundFlags {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	return cmd
}

func runAnvio(cmd *cobra.Command, v *viper.Viper) error {
	settingsPath, _ := cmd.Flags().GetString("config")
	svc, err := config.LoadService(v, settingsPath)
	if err != nil {
		return err
	}
	_, err = logging.Setup(cmd.ErrOrStderr(), svc.LogLevel)
	if err != nil {
		return err
	}

	paramsPath, _ := cmd.Flags().GetString("params")
	cfg, err := config.LoadRunConfig(paramsPath)
	if err != nil {
		return err
	}

	services, err := newServices(svc)
	if err != nil {
		return err
	}

	var runnerOpts []runner.Option
	if svc.Timeout > 0 {
		runnerOpts = append(runnerOpts, runner.WithTimeout(svc.Timeout))
	}

	var opts []model.PipelineOption
	if svc.Graph != "" {
		m := measure.NewDefaultMeasure()
		opts = append(opts,
			measure.PipelineMeasure(m),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(svc.Graph), m),
		)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := anvio.NewApp(services, runner.New(runnerOpts...), svc.Settings, opts...)
	out, err := app.Run(ctx, cfg)
	if err != nil {
		return err
	}
	if svc.Graph != "" {
		log.Printf("stage graph written to %s", svc.Graph)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func newServices(svc *config.Service) (kbase.Services, error) {
	if svc.Local {
		return kbase.NewLocal(svc.Settings.Scratch), nil
	}
	if svc.CallbackURL == "" {
		return nil, errMissingCallback
	}

	return kbase.NewClient(svc.CallbackURL, kbase.WithToken(svc.Token)), nil
}
