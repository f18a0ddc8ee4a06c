package main

import "github.com/iliyamo/restaurant-table-booking/internal/cli"

func main() {
	cli.Execute()
}
