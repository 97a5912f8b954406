package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	in "sukoon/devportal/internal"
)

func init() {
	var dir string
	command := &cobra.Command{
		Use:   "dump-devices",
		Short: "debug: dump the devices collection to devices_data_<date>.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := openStore(cmd.Context())
			if err != nil { return err }
			defer closeFn()
			path, n, err := in.DumpDevices(cmd.Context(), st, cfg.DevicesCollection, dir, time.Now())
			if err != nil { return err }
			fmt.Printf("%d devices written to %s\n", n, path)
			return nil
		},
	}
	command.Flags().StringVarP(&dir, "dir", "d", ".", "directory for the dump file")
	rootCmd.AddCommand(command)
}
