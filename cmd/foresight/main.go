// Command foresight runs the guided fraud-analysis walkthrough.
package main

import "github.com/kundanareddy2830/quantum-sight/internal/cli"

func main() {
	cli.Execute()
}
