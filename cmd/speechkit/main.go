// Command speechkit transcribes audio with AssemblyAI from the command line
// or serves the transcription plugins over HTTP.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/speechkit/errors"
)

const usage = `Usage: speechkit <command> [flags]

Commands:
  transcribe <input>   transcribe a URL or local file and print the text
  upload <path>        upload a local file and print its service URL
  locate <file>        find a file in a common folder and print its path
  probe <path>         print format, sample rate and duration of a wav, mp3 or ogg file
  serve                serve the plugins over HTTP
  version              print version information

Global flags:
  -c, --config string      config file path
      --env-file string    .env file path
      --allow-fs           allow reading and uploading local files
      --log-level string   debug, info, warn or error

Run "speechkit <command> --help" for command flags.
`

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitCanceled = 130
)

type cli struct {
	stdout io.Writer
	stderr io.Writer
}

type command func(ctx context.Context, cl *cli, args []string) error

var commands = map[string]command{
	"transcribe": runTranscribe,
	"upload":     runUpload,
	"locate":     runLocate,
	"probe":      runProbe,
	"serve":      runServe,
	"version":    runVersion,
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cl := &cli{stdout: stdout, stderr: stderr}
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return exitUsage
	}
	switch args[0] {
	case "-h", "--help", "help":
		_, _ = fmt.Fprint(stdout, usage)
		return exitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "speechkit: unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}
	return cl.report(cmd(ctx, cl, args[1:]))
}

// usageError marks bad command-line input.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// report prints err and maps it to an exit code.
func (cl *cli) report(err error) int {
	if err == nil {
		return exitOK
	}
	if stderrors.Is(err, pflag.ErrHelp) {
		return exitOK
	}

	var ue usageError
	if stderrors.As(err, &ue) {
		_, _ = fmt.Fprintf(cl.stderr, "speechkit: %s\n", ue.msg)
		return exitUsage
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		_, _ = fmt.Fprintf(cl.stderr, "speechkit: %v\n", err)
		if stderrors.Is(err, context.Canceled) {
			return exitCanceled
		}
		return exitError
	}

	_, _ = fmt.Fprintf(cl.stderr, "speechkit: %s [%s]%s\n", appErr.Message, appErr.Code, formatDetails(appErr.Details))
	if appErr.Code == errors.ErrCodeCanceled {
		return exitCanceled
	}
	return exitError
}

func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, details[k])
	}
	return b.String()
}
