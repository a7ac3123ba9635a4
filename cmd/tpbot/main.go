// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-22
// Last Modified: 2026-08-23

// Package main is the entry point for the tpbot CLI.
package main

import (
	"github.com/testplanhq/testplan-bot/cmd/tpbot/commands"
)

func main() {
	commands.Execute()
}
