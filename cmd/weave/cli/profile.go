package cli

import (
	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/weavetpl/weave/internal/wlog"
)

// profileConfig exposes a subset of github.com/pkg/profile's modes as the
// --profile-mode and --profile-dir flags, grounded on aenv's pprofConfig but without its
// build-tag gating: weave is a one-shot render tool, so profiling has no
// meaningful "off" build variant to protect.
type profileConfig struct {
	Mode string `default:""    enum:",cpu,mem,block,mutex,trace" help:"Enable profiling for this run." placeholder:"mode"`
	Dir  string `default:"."                                     help:"Profile output directory."`
}

func (*profileConfig) group() kong.Group {
	var group kong.Group
	group.Key = "profile"
	group.Title = "Profiling"
	return group
}

// start begins profiling if configured and returns a function that stops
// it; the returned function is a no-op when profiling was not requested.
func (f *profileConfig) start() (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	var modeOpt func(*profile.Profile)
	switch f.Mode {
	case "mem":
		modeOpt = profile.MemProfile
	case "block":
		modeOpt = profile.BlockProfile
	case "mutex":
		modeOpt = profile.MutexProfile
	case "trace":
		modeOpt = profile.TraceProfile
	default:
		modeOpt = profile.CPUProfile
	}

	wlog.Debug("profiling start", "mode", f.Mode, "dir", f.Dir)
	p := profile.Start(modeOpt, profile.ProfilePath(f.Dir), profile.Quiet)

	return func() {
		wlog.Debug("profiling stop", "mode", f.Mode, "dir", f.Dir)
		p.Stop()
	}
}
