package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"gbcore/rom"
)

func main() {
	cli := parseArgs(os.Args[1:])

	switch cli.mode {
	case romInfosMode:
		cart, err := rom.Open(cli.RomInfos.RomPath)
		checkf(err, "failed to open rom")
		checkf(cart.PrintInfos(os.Stdout), "failed to print rom infos")
	case versionMode:
		printVersion()
	case runMode:
		os.Exit(runMain(cli.Run, cli.Log))
	}
}

func printVersion() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Println("gbcore (unknown version)")
		return
	}
	fmt.Printf("gbcore %s (%s)\n", bi.Main.Version, bi.GoVersion)
}
