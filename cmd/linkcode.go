package main

import (
	"fmt"

	"github.com/spf13/cobra"

	in "sukoon/devportal/internal"
)

func init() {
	var copyCode bool
	command := &cobra.Command{
		Use:   "linkcode <hubs|devices>",
		Short: "print a link code that is unused in the collection, without creating a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := in.ParseKind(args[0])
			if err != nil { return err }
			p, closeFn, err := openPortal(cmd.Context())
			if err != nil { return err }
			defer closeFn()
			code, err := p.PreviewLinkCode(cmd.Context(), k)
			if err != nil { return err }
			fmt.Println(code.Code)
			copyIfAsked(code.Code, copyCode)
			return nil
		},
	}
	command.Flags().BoolVar(&copyCode, "copy", false, "copy the link code to the clipboard")
	rootCmd.AddCommand(command)
}
