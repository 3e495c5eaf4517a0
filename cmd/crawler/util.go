package main

import (
	"fmt"

	"github.com/fwojciec/crawler"
)

// Run executes the fingerprint command.
func (c *FingerprintCmd) Run(deps *Dependencies) error {
	for _, u := range c.URLs {
		fp, err := crawler.Fingerprint(u)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", crawler.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %s\n", fp, u)
	}
	return nil
}

// Run executes the apex command.
func (c *ApexCmd) Run(deps *Dependencies) error {
	for _, h := range c.Hostnames {
		fmt.Fprintln(deps.Stdout, crawler.ApexDomain(h))
	}
	return nil
}
