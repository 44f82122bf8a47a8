// Command haikugraph serves the haiku GraphQL API over a Dgraph cluster.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
)

func main() {
	// glog complains about logging before flag.Parse otherwise; its flags are
	// parsed by cobra.
	_ = goflag.CommandLine.Parse(nil)
	err := newRootCmd().Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
