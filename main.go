// Package main is the entry of vmsim.
package main

import "github.com/sarchlab/vmsim/cmd"

func main() {
	cmd.Execute()
}
