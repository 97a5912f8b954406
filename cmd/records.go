package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	in "sukoon/devportal/internal"
)

func init() {
	hubCmd := &cobra.Command{Use: "hub", Short: "manage hubs"}
	hubCmd.AddCommand(addHubCmd())
	deviceCmd := &cobra.Command{Use: "device", Short: "manage devices"}
	deviceCmd.AddCommand(addDeviceCmd())
	deviceCmd.AddCommand(deviceTypesCmd())

	rootCmd.AddCommand(hubCmd)
	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(itemsCmd())
	rootCmd.AddCommand(deleteCmd())
}

func addHubCmd() *cobra.Command {
	var name, hubType string
	var copyCode bool
	command := &cobra.Command{
		Use:   "add",
		Short: "create a hub with a fresh link code",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := in.ParseHubType(hubType)
			if err != nil { return err }
			p, closeFn, err := openPortal(cmd.Context())
			if err != nil { return err }
			defer closeFn()
			created, err := p.CreateHub(cmd.Context(), name, t)
			if err != nil { return err }
			printCreated(created, copyCode)
			return nil
		},
	}
	command.Flags().StringVarP(&name, "name", "n", "", "hub name")
	command.Flags().StringVarP(&hubType, "type", "t", "tenant", "hub type: tenant or homeManager")
	command.Flags().BoolVar(&copyCode, "copy", false, "copy the link code to the clipboard")
	_ = command.MarkFlagRequired("name")
	return command
}

func addDeviceCmd() *cobra.Command {
	var name, deviceType string
	var copyCode bool
	command := &cobra.Command{
		Use:   "add",
		Short: "create a device with a fresh link code",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeFn, err := openPortal(cmd.Context())
			if err != nil { return err }
			defer closeFn()
			created, err := p.CreateDevice(cmd.Context(), name, deviceType)
			if err != nil { return err }
			printCreated(created, copyCode)
			return nil
		},
	}
	command.Flags().StringVarP(&name, "name", "n", "", "device name")
	command.Flags().StringVarP(&deviceType, "type", "t", "", "device type, one of the ids from: devportal device types")
	command.Flags().BoolVar(&copyCode, "copy", false, "copy the link code to the clipboard")
	_ = command.MarkFlagRequired("name")
	_ = command.MarkFlagRequired("type")
	return command
}

func deviceTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "list the device types",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, t := range in.DeviceTypes() {
				fmt.Fprintf(w, "%s\t%s %s\n", t.ID, t.Icon, t.Name)
			}
			w.Flush()
		},
	}
}

func itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "list hubs and devices that are not linked yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeFn, err := openPortal(cmd.Context())
			if err != nil { return err }
			defer closeFn()
			items, err := p.ListAvailable(cmd.Context())
			if err != nil { return err }

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tID\tNAME\tTYPE\tLINK CODE")
			for _, h := range items.Hubs {
				fmt.Fprintf(w, "hub\t%s\t%s\t%s\t%s\n", h.ID, h.Name, h.Type, h.LinkCode)
			}
			for _, d := range items.Devices {
				fmt.Fprintf(w, "device\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, d.LinkCode)
			}
			return w.Flush()
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <hub|device> <id>",
		Short:   "delete a hub or device record",
		Example: "devportal delete device 3fZk9Qx2",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := in.ParseKind(args[0])
			if err != nil { return err }
			p, closeFn, err := openPortal(cmd.Context())
			if err != nil { return err }
			defer closeFn()
			if err := p.Delete(cmd.Context(), k, args[1]); err != nil { return err }
			fmt.Printf("deleted %s %s\n", k, args[1])
			return nil
		},
	}
}

func printCreated(c in.Created, copyCode bool) {
	fmt.Printf("Name:      %s\n", c.Name)
	fmt.Printf("Type:      %s\n", c.Type)
	fmt.Printf("ID:        %s\n", c.ID)
	fmt.Printf("Link Code: %s\n", c.LinkCode)
	copyIfAsked(c.LinkCode, copyCode)
}

func copyIfAsked(code string, copyCode bool) {
	if !copyCode { return }
	if err := in.CopyToClipboard(code); err != nil {
		in.Logger().Warnf("failed to copy link code: %v", err)
		return
	}
	fmt.Println("Copied to clipboard!")
}
