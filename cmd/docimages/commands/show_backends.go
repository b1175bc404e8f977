package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docimages/internal/images"
)

// ShowBackendsCmd implements the 'show-backends' command.
type ShowBackendsCmd struct{}

func (s *ShowBackendsCmd) Run(g *Global) error {
	return showBackends(g, images.Backends())
}

func showBackends(g *Global, backends []images.BackendInfo) error {
	out := g.out()
	if len(backends) == 0 {
		_, err := fmt.Fprintln(out, "No backends installed")
		return err
	}
	for _, b := range backends {
		if _, err := fmt.Fprintf(out, "- %s (from package `%s`)\n", b.Name, b.Package); err != nil {
			return err
		}
	}
	return nil
}
