package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docimages/cmd/docimages/commands"
	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	_ "git.home.luguber.info/inful/docimages/internal/images"
	_ "git.home.luguber.info/inful/docimages/internal/images/lightbox2"
	"git.home.luguber.info/inful/docimages/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docimages"),
		kong.Description("Build Markdown documentation with image thumbnails and lightbox galleries."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default(), Out: os.Stdout}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
