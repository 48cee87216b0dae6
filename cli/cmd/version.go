package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/mson/pkg"
)

// Version prints the program version.
type Version struct{}

func (Version) Run(context.Context) error {
	_, err := fmt.Fprintln(os.Stdout, pkg.Name, pkg.Version)

	return err
}
