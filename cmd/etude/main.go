// Command etude is the compiler's command-line front end (spec §6): a
// single cobra root command that runs the CompilationDriver over the
// current working directory and reports either success or a
// structured diagnostic.
//
// Grounded on the cobra root-command shape used elsewhere in the
// retrieved pack (jasonmoo/wildcat's cmd/package.go) and on the
// teacher's fatih/color-styled terminal output in cmd/ailang/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/etude/internal/driver"
	"github.com/sunholo/etude/internal/errors"
	"github.com/sunholo/etude/internal/source"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()

	entryModule string
	testMode    bool
	jsonMode    bool
)

// exitUsage, exitCompile mirror spec §6's exit-code contract: 0 on
// success, 1 on any compile-time error, 2 on a usage error (bad flags,
// unreadable working directory).
const (
	exitOK      = 0
	exitCompile = 1
	exitUsage   = 2
)

var rootCmd = &cobra.Command{
	Use:   "etude",
	Short: "Compile an etude program",
	Long: `etude compiles the module named by -m (default "main") found in the
current working directory, monomorphizing every function reachable
from its main function, or — with -t — every @test function.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&entryModule, "module", "m", "main", "entry module name")
	rootCmd.Flags().BoolVarP(&testMode, "test", "t", false, "compile every @test function in the entry module instead of main")
	rootCmd.Flags().BoolVar(&jsonMode, "json", false, "render diagnostics as JSON instead of the one-line format")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitFromError(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return usageError(err)
	}

	provider, err := source.NewFileProvider(workDir)
	if err != nil {
		return usageError(err)
	}

	d := driver.New(provider)
	prog, err := d.Compile(driver.Options{
		EntryModule: entryModule,
		TestMode:    testMode,
	})
	if err != nil {
		reportDiagnostic(err)
		return err
	}

	fmt.Fprintf(os.Stdout, "%s compiled %d function(s), %d type(s)\n",
		green("✓"), len(prog.Functions), len(prog.Types))
	return nil
}

// reportDiagnostic renders err the way spec §6 requires: a located
// one-line message by default, or the structured Report verbatim under
// -json.
func reportDiagnostic(err error) {
	rep, ok := errors.AsReport(err)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		return
	}
	if jsonMode {
		out, jsonErr := rep.ToJSON()
		if jsonErr != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), jsonErr)
			return
		}
		fmt.Fprintln(os.Stderr, out)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), rep.Line())
}

// usageError wraps a setup failure (bad working directory, unreadable
// manifest) as a Report so reportDiagnostic and exitFromError treat it
// uniformly, distinguishing it from a compile-time Report via its code.
func usageError(err error) error {
	return errors.New(errors.USG002, "cli", "%v", err)
}

func exitFromError(err error) int {
	rep, ok := errors.AsReport(err)
	if !ok {
		return exitUsage
	}
	if rep.Code == errors.USG002 {
		return exitUsage
	}
	return exitCompile
}
