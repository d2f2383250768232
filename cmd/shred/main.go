// Command shred inspects the stage plan the dispatcher builds for a set
// of systems described in a YAML scenario file.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/dispatch"
	"github.com/adeschamps/shred/world"
)

func main() {
	var (
		scenario    = flag.String("scenario", "", "Path to scenario yaml file")
		ticks       = flag.Int("ticks", 0, "Dispatch the plan this many times and report timing")
		seq         = flag.Bool("seq", false, "Use sequential dispatch for -ticks runs")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *scenario == "" && flag.NArg() > 0 {
		*scenario = flag.Arg(0)
	}
	if *scenario == "" {
		fmt.Fprintln(os.Stderr, "Usage: shred -scenario <file.yaml> [-ticks n] [-seq] [-verbose]")
		fmt.Fprintln(os.Stderr, "       shred -scenario <file.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*scenario, *ticks, *seq, *verbose, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, ticks int, seq, verbose, interactive bool) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}

	var buildOpts []func(*dispatch.Builder)
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		buildOpts = append(buildOpts, func(b *dispatch.Builder) {
			b.WithLogger(logger)
		})
	}

	d, err := sc.BuildDispatcher(buildOpts...)
	if err != nil {
		return err
	}
	defer d.Close()

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(path, d)
	}

	fmt.Printf("Scenario: %s\n", path)
	fmt.Printf("Systems: %d\n", len(sc.Systems))
	fmt.Printf("Stages: %d\n\n", len(d.Stages()))
	fmt.Println(renderStages(d.Stages()))

	if ticks > 0 {
		w := world.New()
		if err := sc.PopulateWorld(w); err != nil {
			return err
		}
		start := time.Now()
		for i := 0; i < ticks; i++ {
			var derr error
			if seq {
				derr = d.DispatchSeq(w)
			} else {
				derr = d.Dispatch(w)
			}
			if derr != nil {
				return derr
			}
		}
		elapsed := time.Since(start)
		fmt.Printf("\nDispatched %d ticks in %s (%s/tick)\n",
			ticks, elapsed, elapsed/time.Duration(ticks))
	}
	return nil
}

var (
	stageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	affineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD580"))

	writeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	readStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// renderStages formats a plan with one block per stage.
func renderStages(stages []dispatch.StageInfo) string {
	out := ""
	for i, st := range stages {
		if i > 0 {
			out += "\n"
		}
		out += stageStyle.Render(fmt.Sprintf("Stage %d", i)) + "\n"
		for _, s := range st.Systems {
			line := "  " + systemStyle.Render(s.Name)
			if s.Affinity == shred.DispatchThread {
				line += " " + affineStyle.Render("(dispatch thread)")
			}
			out += line + "\n"
		}
		if len(st.Writes) > 0 {
			out += "  " + writeStyle.Render("writes: "+joinIDNames(st.Writes)) + "\n"
		}
		if len(st.Reads) > 0 {
			out += "  " + readStyle.Render("reads:  "+joinIDNames(st.Reads)) + "\n"
		}
	}
	return out
}

func joinIDNames(ids []shred.ResourceID) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		if id.Name() != "" {
			out += id.Name()
		} else {
			out += id.String()
		}
	}
	return out
}
