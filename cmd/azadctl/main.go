package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/azadio/internal/observability"
	"github.com/rs/zerolog/log"
)

const usage = `usage: azadctl <command> [flags] [values...]

commands:
  template   write the default problem config
  validate   load a problem config, optionally checking parameter values
  infer      guess type and dimension of each value
  strize     render a value in canonical form for a type
  compare    compare answers with float tolerance
  judge      judge an answer against the expected one for a problem
  encode     encode a value as a tlv item stream (or framed message)
  decode     decode a tlv item stream (or framed message) from stdin

values use YAML/JSON flow syntax, e.g. '[1, 2, 3]' or '{"a": "x"}'.
`

var errUsage = errors.New("azadctl: bad usage")

func main() {
	observability.InitLogger("azadctl")
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg("azadctl failed")
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "template":
		return runTemplate(rest, stdout, stderr)
	case "validate":
		return runValidate(rest, stdout, stderr)
	case "infer":
		return runInfer(rest, stdout, stderr)
	case "strize":
		return runStrize(rest, stdout, stderr)
	case "compare":
		return runCompare(rest, stdout, stderr)
	case "judge":
		return runJudge(rest, stdout, stderr)
	case "encode":
		return runEncode(rest, stdout, stderr)
	case "decode":
		return runDecode(rest, stdin, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("azadctl "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
