package main

import (
	"github.com/spf13/cobra"

	in "sukoon/devportal/internal"
)

func init() {
	var listen string
	command := &cobra.Command{
		Use:   "serve",
		Short: "serve the dev portal web app",
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" { cfg.Listen = listen }
			p, closeFn, err := openPortal(cmd.Context())
			if err != nil { return err }
			defer closeFn()

			auth := in.NewAuth(cfg)
			if !auth.Enabled() {
				in.Logger().Warn("no operator account configured (DEVPORTAL_ADMIN_EMAIL / DEVPORTAL_ADMIN_PASSWORD_HASH); every login will fail")
			}
			if cfg.QRSecret == "" {
				in.Logger().Warn("DEVPORTAL_QR_SECRET is empty; pairing tokens are signed with a per-process key")
			}
			in.Logger().Printf("host %s, portal at %s", in.GetHostname(), in.PortalURL(cfg.Listen))
			return in.NewServer(p, auth, cfg).ListenAndServe(cmd.Context(), cfg.Listen)
		},
	}
	command.Flags().StringVarP(&listen, "listen", "l", "", "listen address, overrides DEVPORTAL_LISTEN")
	rootCmd.AddCommand(command)
}
