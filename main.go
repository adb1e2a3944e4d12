//	@title			DPS Smoke Test API
//	@version		1.0
//	@description	Runs end-to-end smoke tests across the digital prison services and streams their outcomes as server-sent events.

//	@license.name	MIT

//	@BasePath	/

//	@tag.name			smoke-test
//	@tag.description	Smoke test runs

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

package main

import (
	"os"

	"github.com/justice-digital/dps-smoketest/cli"
	_ "github.com/justice-digital/dps-smoketest/docs" // Import for swagger docs
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
