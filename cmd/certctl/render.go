package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/usapupgrade/certs/internal/certs/render"
	"github.com/usapupgrade/certs/internal/certs/store"
)

func renderCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <certificate-id>",
		Short: "Write the PDF for an issued certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			c, err := st.Certificates().GetCertificateByID(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("certificate %s not found", args[0])
				}
				return err
			}

			renderer := render.New(e.cfg.Render)
			if output == "" {
				output = renderer.Filename(c)
			}

			var buf bytes.Buffer
			if err := renderer.Render(&buf, c); err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, buf.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: slugged certificate name)")

	return cmd
}
