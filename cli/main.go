package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/id3"
)

const usage = `Usage: surgery [-json] [-yes] [-v] <command> [flags] args

Commands:
  tags                              list known frame identifiers
  view FILE [TAG...]                show all frames, or only the named ones
  edit [-text] FILE TAG DATA        replace a frame payload (creates it after confirmation)
  add [-text] FILE TAG DATA         add a frame
  picture [-desc D] [-type N] FILE IMAGE
                                    replace or add the embedded picture
  extract FILE OUTDIR               write the embedded picture to OUTDIR
  remove FILE TAG                   drop a frame
  set [-out F] [-dry-run] [-delete K]... FILE KEY=VALUE...
                                    edit common fields by name (title, artist, ...)
  batch [-text] [-include P]... [-exclude P]... DIR TAG DATA
                                    edit one frame in every selected file under DIR
`

// errUsage reports bad command line arguments.
var errUsage = errors.New("invalid arguments")

// app carries the global flags and I/O shared by all commands.
type app struct {
	printer *core.Printer
	logger  *log.Logger
	yes     bool
	stdin   *bufio.Reader
	stderr  io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		core.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("surgery", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	jsonOut := global.Bool("json", false, "print JSON")
	yes := global.Bool("yes", false, "answer yes to every confirmation")
	verbose := global.Bool("v", false, "log progress to stderr")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	rest := global.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "surgery: ", 0)
	}

	a := &app{
		printer: &core.Printer{JSON: *jsonOut, Verbose: *verbose, Writer: stdout},
		logger:  logger,
		yes:     *yes,
		stdin:   bufio.NewReader(stdin),
		stderr:  stderr,
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "tags":
		return a.tags(cmdArgs)
	case "view":
		return a.view(cmdArgs)
	case "edit":
		return a.edit(cmdArgs, false)
	case "add":
		return a.edit(cmdArgs, true)
	case "picture":
		return a.picture(cmdArgs)
	case "extract":
		return a.extract(cmdArgs)
	case "remove":
		return a.remove(cmdArgs)
	case "set":
		return a.set(cmdArgs)
	case "batch":
		return a.batch(cmdArgs)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// confirm asks on stderr and reads the answer from stdin.
func (a *app) confirm(prompt string) bool {
	if a.yes {
		return true
	}
	fmt.Fprintf(a.stderr, "%s [y/N] ", prompt)
	line, err := a.stdin.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (a *app) editorOptions() id3.Options {
	return id3.Options{
		Confirm:    a.confirm,
		Classifier: core.ImageMIMESuffix,
		Logger:     a.logger,
	}
}

func (a *app) editor() *id3.Editor {
	return id3.NewEditor(a.editorOptions())
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() { fmt.Fprint(a.stderr, usage) }
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string, want int, variadic bool) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	rest := fs.Args()
	if len(rest) < want || (!variadic && len(rest) != want) {
		return nil, fmt.Errorf("%w: %s takes %d argument(s)", errUsage, fs.Name(), want)
	}
	return rest, nil
}
