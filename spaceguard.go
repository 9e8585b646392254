// This file is part of spaceguard.
//
// spaceguard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// spaceguard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with spaceguard.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spaceguard/spaceguard/logger"
	"github.com/spaceguard/spaceguard/memspace"
	"github.com/spaceguard/spaceguard/memspace/platform"
	"github.com/spaceguard/spaceguard/modalflag"
	"github.com/spaceguard/spaceguard/prefs"
	"github.com/spaceguard/spaceguard/script"
	"github.com/spaceguard/spaceguard/statsview"
	"github.com/spaceguard/spaceguard/version"
)

// exit values
const (
	exitOkay       = 0
	exitParseError = 10
	exitModeError  = 20
	exitFaults     = 30
)

func main() {
	os.Exit(launch(os.Stdout, os.Args[1:]))
}

// launch parses the arguments and runs the selected mode. returns the value
// to be used with os.Exit()
func launch(output io.Writer, args []string) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "DEMO", "FAULTS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOkay

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	var faults int

	switch md.Mode() {
	case "RUN":
		faults, err = run(md, false)

	case "DEMO":
		faults, err = demo(md)

	case "FAULTS":
		faults, err = run(md, true)

	case "VERSION":
		fmt.Fprintln(output, version.String())
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return exitModeError
	}

	if faults > 0 {
		return exitFaults
	}

	return exitOkay
}

// options common to all modes
type options struct {
	prefs     *string
	native    *bool
	log       *bool
	profile   *string
	statsview *bool
	graph     *string
}

func addOptions(md *modalflag.Modes) options {
	opts := options{
		prefs:   md.AddString("prefs", "", "set preferences for this session (eg. \"memspace.poison::true\")"),
		native:  md.AddBool("native", true, "use page protection. when false memory access is recorded but not enforced"),
		log:     md.AddBool("log", false, "echo log to stdout"),
		profile: md.AddString("profile", "", "run through profiler: CPU, MEM"),
		graph:   md.AddString("graph", "", "write graph of memory to file on completion"),
	}

	if statsview.Available() {
		opts.statsview = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	return opts
}

// session is a Memory instance prepared according to the options
type session struct {
	opts   options
	mem    *memspace.Memory
	output io.Writer
	stop   func()
}

func newSession(md *modalflag.Modes, opts options) (*session, error) {
	ses := &session{
		opts:   opts,
		output: md.Output,
		stop:   func() {},
	}

	var profileMode func(*profile.Profile)
	switch strings.ToUpper(*opts.profile) {
	case "":
	case "CPU":
		profileMode = profile.CPUProfile
	case "MEM":
		profileMode = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile type (%s)", *opts.profile)
	}

	if *opts.log {
		logger.SetEcho(md.Output)
	} else {
		logger.SetEcho(nil)
	}

	if opts.statsview != nil && *opts.statsview {
		statsview.Launch(md.Output)
	}

	prefs.PushCommandLineStack(*opts.prefs)

	p, err := memspace.NewPreferences()
	if err != nil {
		prefs.PopCommandLineStack()
		return nil, err
	}

	var pfm platform.Platform
	if *opts.native {
		pfm, err = platform.NewNative()
		if err != nil {
			prefs.PopCommandLineStack()
			return nil, err
		}
	} else {
		pfm = platform.NewSimulated()
	}

	ses.mem = memspace.NewMemory(pfm, p)

	if profileMode != nil {
		ses.stop = profile.Start(profileMode, profile.ProfilePath("."), profile.NoShutdownHook).Stop
	}

	return ses, nil
}

// end the session. the memory graph is written before remaining memory is
// released
func (ses *session) end() error {
	ses.stop()

	if *ses.opts.graph != "" {
		f, err := os.Create(*ses.opts.graph)
		if err != nil {
			return err
		}
		ses.mem.Graph(f)
		if err := f.Close(); err != nil {
			return err
		}
	}

	// unused command line preferences are most likely to be typos
	if unused := prefs.PopCommandLineStack(); unused != "" {
		fmt.Fprintf(ses.output, "* unused preferences: %s\n", unused)
	}

	return ses.mem.Close()
}

func run(md *modalflag.Modes, showFaults bool) (int, error) {
	md.NewMode()
	opts := addOptions(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return 0, err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return 0, fmt.Errorf("script file required for %s mode", md)
	case 1:
	default:
		return 0, fmt.Errorf("too many arguments for %s mode", md)
	}

	ses, err := newSession(md, opts)
	if err != nil {
		return 0, err
	}

	// in faults mode the script continues after a fault so that every fault
	// can be listed
	if showFaults {
		if err := ses.mem.Prefs.AbortOnFault.Set(false); err != nil {
			return 0, err
		}
	}

	in := script.NewInterpreter(ses.mem, md.Output)
	err = in.RunFile(md.GetArg(0))

	if showFaults {
		ses.mem.Faults().WriteLog(md.Output)
	}

	if endErr := ses.end(); err == nil {
		err = endErr
	}

	return in.Faults, err
}

func demo(md *modalflag.Modes) (int, error) {
	md.NewMode()
	md.AdditionalHelp("Runs a short script that moves data between the host and device\nspaces before making several illegal accesses.")
	opts := addOptions(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return 0, err
	}

	if len(md.RemainingArgs()) > 0 {
		return 0, fmt.Errorf("too many arguments for %s mode", md)
	}

	ses, err := newSession(md, opts)
	if err != nil {
		return 0, err
	}

	if err := ses.mem.Prefs.AbortOnFault.Set(false); err != nil {
		return 0, err
	}

	fmt.Fprintln(md.Output, strings.TrimSpace(script.Demo))
	fmt.Fprintln(md.Output)

	in := script.NewInterpreter(ses.mem, md.Output)
	err = in.Run(strings.NewReader(script.Demo))
	logger.Tail(md.Output, in.Faults)

	if endErr := ses.end(); err == nil {
		err = endErr
	}

	return in.Faults, err
}
