package main

import (
	"fmt"
	"path/filepath"

	"github.com/docpack/docpack"
	"github.com/docpack/docpack/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	chunk, err := fs.ReadChunk(filepath.Clean(c.Out), c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docpack.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, docpack.FormatChunk(chunk))
	return nil
}
