package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/bloch"
)

func newConvertCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "convert ALPHA,BETA [ALPHA,BETA...]",
		Short: "Convert amplitude pairs to (theta, phi, r)",
		Long: `The convert command turns each amplitude pair into the spherical
coordinates of its point on the Bloch sphere. Amplitudes are complex
literals such as 1, 0.7071, -0.7071i or 0.5+0.5i.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch := make([]bloch.Amplitudes, 0, len(args))

			for _, arg := range args {
				amp, err := parseAmplitudes(arg)
				if err != nil {
					return err
				}
				batch = append(batch, amp)
			}

			renderer, err := bloch.NewEncodingRenderer(cmd.OutOrStdout(), formatFrom(v))
			if err != nil {
				return err
			}

			q := bloch.NewQ(cmd.Context(), configFrom(v))
			defer q.Close()

			coords, err := q.Convert(cmd.Context(), batch)
			if err != nil {
				return fmt.Errorf("error converting states: %w", err)
			}

			for _, coord := range coords {
				if err := renderer.Plot(coord); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

// parseAmplitudes reads "alpha,beta" where both sides are Go complex literals.
func parseAmplitudes(arg string) (bloch.Amplitudes, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return bloch.Amplitudes{}, fmt.Errorf("parsing %q: want ALPHA,BETA", arg)
	}

	var values [2]complex128

	for i, part := range parts {
		value, err := strconv.ParseComplex(strings.TrimSpace(part), 128)
		if err != nil {
			return bloch.Amplitudes{}, fmt.Errorf("parsing %q: %w", arg, err)
		}
		values[i] = value
	}

	return bloch.Amplitudes{Alpha: values[0], Beta: values[1]}, nil
}
