package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	in "sukoon/devportal/internal"
)

var (
	cfg       in.Config
	useMemory bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "devportal",
	Short: "Sukoon dev portal: register and browse IoT hubs and devices",
	Example: `devportal serve
devportal hub add --name "Block A" --type tenant --copy
devportal device add --name "Hall light" --type light
devportal items
devportal delete device <id>
devportal qr <device-id> --out hall-light.png
devportal linkcode devices
devportal dump-devices --dir ./dumps`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = in.LoadConfig()
		if err != nil { return err }
		if logLevel == "" { logLevel = cfg.LogLevel }
		in.SetupLogging(logLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "use an in-process store instead of Firestore")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// openStore connects to Firestore, or returns a memory store with --memory.
func openStore(ctx context.Context) (in.Store, func(), error) {
	if useMemory {
		in.Logger().Warn("using in-memory store; records are lost on exit")
		return in.NewMemoryStore(), func() {}, nil
	}
	fs, err := in.NewFirestore(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil { return nil, nil, err }
	return fs, fs.Close, nil
}

func openPortal(ctx context.Context) (*in.Portal, func(), error) {
	st, closeFn, err := openStore(ctx)
	if err != nil { return nil, nil, err }
	return in.NewPortal(st, cfg, nil), closeFn, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		in.Logger().Error(err)
		cancel()
		os.Exit(1)
	}
}
