package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"querydesk.app/engine/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
