package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	in "sukoon/devportal/internal"
)

func init() {
	var out string
	command := &cobra.Command{
		Use:   "qr <device-id>",
		Short: "write a device's pairing QR code as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeFn, err := openPortal(cmd.Context())
			if err != nil { return err }
			defer closeFn()
			d, err := p.Device(cmd.Context(), args[0])
			if err != nil { return err }
			token, err := in.PairingToken(d, cfg.QRSecret, time.Now())
			if err != nil { return err }
			png, err := in.QRPNG(token)
			if err != nil { return fmt.Errorf("generate QR code: %w", err) }
			if out == "" { out = in.QRFileName(d.Name) }
			if err := os.WriteFile(out, png, 0o644); err != nil { return err }
			fmt.Printf("QR code for %s (%s) written to %s\n", d.Name, d.LinkCode, out)
			return nil
		},
	}
	command.Flags().StringVarP(&out, "out", "o", "", "output file (default <device-name>-qr-code.png)")
	rootCmd.AddCommand(command)
}
