// Copyright © 2025 The movan authors

package main

import "github.com/movelang/movan/cmd"

func main() {
	cmd.Execute()
}
