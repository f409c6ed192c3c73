/*
Copyright © 2026 SATVI Lab

*/
package main

import "github.com/SATVILab/comptools/cmd"

func main() {
	cmd.Execute()
}
