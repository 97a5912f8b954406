package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	in "sukoon/devportal/internal"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "hash-password",
		Short: "read a password from stdin and print its bcrypt hash for DEVPORTAL_ADMIN_PASSWORD_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" { return fmt.Errorf("read password: %w", err) }
			pw := strings.TrimRight(line, "\r\n")
			if pw == "" { return fmt.Errorf("empty password") }
			hash, err := in.HashPassword(pw)
			if err != nil { return err }
			fmt.Println(hash)
			return nil
		},
	})
}
