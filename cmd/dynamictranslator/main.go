package main

import (
	"os"

	"horse.fit/dynamictranslator/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
