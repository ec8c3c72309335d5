// ABOUTME: Distance command
// ABOUTME: Prints the great-circle distance between two coordinates

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/viewstate"
	"github.com/spf13/cobra"
)

var distanceCmd = &cobra.Command{
	Use:     "distance <lat1> <lng1> <lat2> <lng2>",
	Aliases: []string{"d"},
	Short:   "Measure the distance between two points",
	Args:    cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDistance(cmd.OutOrStdout(), args, cfg.GetRadius())
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(w io.Writer, args []string, radius float64) error {
	vals := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", geo.ErrInvalidCoordinate, a)
		}
		vals[i] = v
	}

	from := geo.Coordinate{Latitude: vals[0], Longitude: vals[1]}
	to := geo.Coordinate{Latitude: vals[2], Longitude: vals[3]}
	if err := from.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}

	km := geo.DistanceKilometers(from, to)
	fmt.Fprintf(w, "%s → %s: %s (%.1fm)\n",
		from.String(), to.String(), color.CyanString(viewstate.FormatDistance(km)), geo.DistanceMeters(from, to))

	if geo.IsWithinRadius(from, to, radius) {
		fmt.Fprintln(w, color.GreenString("✓ within the %.0fm search radius", radius))
	} else {
		fmt.Fprintln(w, color.YellowString("✗ outside the %.0fm search radius", radius))
	}
	return nil
}
