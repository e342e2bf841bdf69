package main

import "github.com/llehouerou/musicsite/internal/cli"

func main() {
	cli.Execute()
}
