package rewrite

import (
	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/spf13/cobra"
)

// hoursFlags binds the hobby-hour overrides of a command.
type hoursFlags struct {
	branch         string
	startHour      int
	endHour        int
	minRate        float64
	distanceFactor float64
}

func (f *hoursFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.branch, "branch", "b", "", "branch to process (required)")
	cmd.Flags().IntVar(&f.startHour, "start-hour", domain.DefaultStartHour, "start of hobby hours (0-23)")
	cmd.Flags().IntVar(&f.endHour, "end-hour", domain.DefaultEndHour, "end of hobby hours (0-23)")
	cmd.Flags().Float64Var(&f.minRate, "min-rate", domain.DefaultCodingRate, "minimum coding rate in lines/hour")
	cmd.Flags().Float64Var(&f.distanceFactor, "distance-factor", domain.DefaultDistanceFactor, "share of each original gap to keep (0-1]")
	_ = cmd.MarkFlagRequired("branch")
}

// hours starts from the configured defaults and applies the flags the
// user actually set.
func (f *hoursFlags) hours(cmd *cobra.Command, defaults domain.HobbyHours) domain.HobbyHours {
	h := defaults
	if cmd.Flags().Changed("start-hour") {
		h.StartHour = f.startHour
	}
	if cmd.Flags().Changed("end-hour") {
		h.EndHour = f.endHour
	}
	if cmd.Flags().Changed("min-rate") {
		h.CodingRate = f.minRate
	}
	if cmd.Flags().Changed("distance-factor") {
		h.DistanceFactor = f.distanceFactor
	}
	return h
}
