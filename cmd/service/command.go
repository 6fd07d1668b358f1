package service

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/app/logic/v1/process"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	// Add flags for generic options
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "knowledge hub service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	process.NewProcess(app).Start()
	serve(app)

	return nil
}

func NewProcessCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "ingest worker only, no http api",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProcess(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProcess(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	p := process.NewProcess(app)
	p.Start()
	fmt.Println("Process starting...")
	sigs := make(chan os.Signal, 1)
	// 监听 os.Interrupt (Ctrl+C) 和 syscall.SIGTERM (kill)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	// 阻塞等待信号
	<-sigs
	p.Stop()
	return nil
}
