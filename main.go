package main

import (
	_ "git.newshub.network/newshub/newshub/src/migration"
	"git.newshub.network/newshub/newshub/src/site"
)

func main() {
	site.SiteCommand.Execute()
}
