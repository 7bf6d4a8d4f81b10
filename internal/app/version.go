package app

import (
	"fmt"

	"horse.fit/dynamictranslator/internal/version"
)

func runVersion(_ []string) int {
	fmt.Println(version.String())
	return 0
}
