package main

import (
	"fmt"
	"os"

	"rental_showcase/cmd/rental_showcase/cli"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

// @title						Rental Showcase API
// @version					1.0
// @description				Витрина объектов аренды: объекты, юниты и упорядоченные галереи изображений.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	opts := &cli.Options{}

	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	}, opts)

	root.AddCommand(cli.NewVersionCommand())
	root.AddCommand(cli.NewServeCommand(opts))
	root.AddCommand(cli.NewMigrateCommand(opts))
	root.AddCommand(cli.NewSeedCommand(opts))
	root.AddCommand(cli.NewJanitorCommand(opts))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
