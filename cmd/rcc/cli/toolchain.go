package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yutopp/rcc/pkg/domain"
	"github.com/yutopp/rcc/pkg/exitcode"
	"github.com/yutopp/rcc/pkg/toolchain"
)

func newToolchainCmd(r *runner) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "toolchain",
		Short: "Write the default toolchain profile, to be edited and passed with --toolchain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := toolchain.NewProfileFromFile(out).Save(domain.DefaultToolchain()); err != nil {
				r.status = exitcode.Unavailable
				return err
			}
			r.status = exitcode.OK
			r.logger.Info("toolchain profile written", zap.String("path", out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "rcc.toolchain.json", "profile path")

	return cmd
}
