// Command lime packs a resource manifest into a Lime container.
//
// Usage:
//
//	lime [options] <manifest> <output>
//	lime -h | --help
//
// This command does not reproduce colored terminal banners or per-topic
// help bodies — only the flag surface and exit codes are normative.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.chromium.org/luci/common/logging"
	"go.chromium.org/luci/common/logging/gologger"

	"github.com/metayeti/Lime/limedata"
	"github.com/metayeti/Lime/manifest"

	lime "github.com/metayeti/Lime"
)

const usage = `Usage:
  lime [options] <manifest> <output>
  lime -h | --help

Options:
  -clevel=0..9               DEFLATE level (default 9)
  -chksum=adler32|crc32|none checksum algorithm (default adler32)
  -head=STRING                head identification string (default empty)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lime", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	clevel := fs.Int("clevel", 9, "DEFLATE compression level, 0..9")
	chksum := fs.String("chksum", "adler32", "checksum algorithm: adler32, crc32, none")
	head := fs.String("head", "", "head identification string")
	help := fs.Bool("h", false, "show usage")

	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if *help || fs.NArg() == 1 && fs.Arg(0) == "--help" {
		fmt.Fprint(os.Stdout, usage)
		return 0
	}
	if fs.NArg() != 2 {
		fmt.Fprint(os.Stdout, usage)
		return 1
	}

	manifestPath, outputPath := fs.Arg(0), fs.Arg(1)

	scheme, err := parseChecksum(*chksum)
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
		return 1
	}
	if *clevel < 0 || *clevel > 9 {
		fmt.Fprintf(os.Stdout, "lime: -clevel must be 0..9, got %d\n", *clevel)
		return 1
	}

	ctx := gologger.StdConfig.Use(context.Background())
	ctx = logging.SetLevel(ctx, logging.Info)

	m, err := manifest.Parse(ctx, manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
		return 1
	}

	opts := lime.DefaultPackOptions()
	opts.Level = *clevel
	opts.Checksum = scheme
	opts.Head = *head
	if err := lime.Pack(ctx, m, outputPath, opts); err != nil {
		fmt.Fprintln(os.Stdout, err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "lime: wrote %s\n", outputPath)
	return 0
}

func parseChecksum(s string) (limedata.ChecksumScheme, error) {
	switch s {
	case "adler32":
		return limedata.ChecksumAdler32, nil
	case "crc32":
		return limedata.ChecksumCRC32, nil
	case "none":
		return limedata.ChecksumNone, nil
	}
	return 0, fmt.Errorf("lime: unknown -chksum value %q (want adler32, crc32 or none)", s)
}
